package config

// Default paths for on-disk resources
const (
	// DefaultDatabasePath is the default path for the SQLite application database
	DefaultDatabasePath = "./lingo.db"

	// DefaultContentDir is the default root of the static content tree
	DefaultContentDir = "./content"
)
