// Package auth authenticates requests to the API.
//
// Users never log in to this service. The sibling auth service owns
// credentials and issues HS256 JWTs whose subject is the user's UUID; this
// package only verifies them. The auth service itself calls the /internal
// routes, authenticated by a shared secret in the X-Internal-Secret header.
//
// # Configuration
//
//	JWT_SECRET=<shared HS256 secret>       # Required
//	JWT_ISSUER=auth.example.com            # Optional, checked when set
//	JWT_AUDIENCE=lingo                     # Optional, checked when set
//	JWT_LEEWAY=30s                         # Clock skew tolerance
//	INTERNAL_SECRET=<shared secret>        # Required for /internal routes
//
// # Usage
//
//	verifier := auth.NewVerifier(cfg.Auth)
//	api.Use(auth.NewMiddleware(verifier, logger).Handler())
//	internal.Use(auth.InternalSecret(cfg.Auth.InternalSecret, limiter, logger))
//
// Extract the user in handlers:
//
//	userID := auth.GetUserID(c)
package auth
