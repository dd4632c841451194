package content

import "slices"

type ExerciseType string

const (
	ExerciseMultipleChoice ExerciseType = "multiple_choice"
	ExerciseTranslate      ExerciseType = "translate"
	ExerciseFillGap        ExerciseType = "fill_gap"
	ExerciseMatch          ExerciseType = "match"
	ExerciseListen         ExerciseType = "listen"
)

func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseMultipleChoice, ExerciseTranslate, ExerciseFillGap, ExerciseMatch, ExerciseListen:
		return true
	}
	return false
}

// ModuleMeta is the content of a module.json file.
type ModuleMeta struct {
	ID          string   `json:"id"`
	Language    string   `json:"language"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Level       string   `json:"level,omitempty"`
	Order       int      `json:"order"`
	Topics      []string `json:"topics,omitempty"`
}

// VocabularyItem is a term introduced by a unit.
type VocabularyItem struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Example     string `json:"example,omitempty"`
}

// UnitContent is the content of a unit.json file.
type UnitContent struct {
	ID          string           `json:"id"`
	ModuleID    string           `json:"module_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Topic       string           `json:"topic,omitempty"`
	Order       int              `json:"order"`
	Theory      string           `json:"theory,omitempty"`
	Vocabulary  []VocabularyItem `json:"vocabulary,omitempty"`
}

// Exercise is one entry of an exercises.json file. Answer holds every
// accepted answer; Explanation is shown after the exercise is resolved.
type Exercise struct {
	ID          string       `json:"id"`
	UnitID      string       `json:"unit_id"`
	Type        ExerciseType `json:"type"`
	Topic       string       `json:"topic,omitempty"`
	Prompt      string       `json:"prompt"`
	Options     []string     `json:"options,omitempty"`
	Answer      []string     `json:"answer,omitempty"`
	Hint        string       `json:"hint,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	Order       int          `json:"order"`
}

// WithoutSolution returns a copy safe to send to a learner before answering.
func (e Exercise) WithoutSolution() Exercise {
	e.Answer = nil
	e.Explanation = ""
	e.Options = slices.Clone(e.Options)
	return e
}

// Unit is a unit together with its exercises.
type Unit struct {
	UnitContent
	Exercises []Exercise `json:"exercises"`
}

// Module is a module together with its units.
type Module struct {
	ModuleMeta
	Units []Unit `json:"units"`
}

// Stats summarises the size of a library.
type Stats struct {
	Languages int `json:"languages"`
	Modules   int `json:"modules"`
	Units     int `json:"units"`
	Exercises int `json:"exercises"`
}

func cloneUnit(u Unit) Unit {
	u.Vocabulary = slices.Clone(u.Vocabulary)
	u.Exercises = slices.Clone(u.Exercises)
	return u
}

func cloneModule(m Module) Module {
	m.Topics = slices.Clone(m.Topics)
	units := make([]Unit, len(m.Units))
	for i, u := range m.Units {
		units[i] = cloneUnit(u)
	}
	m.Units = units
	return m
}
