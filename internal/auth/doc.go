// Package auth guards the back office.
//
// Two modes are supported:
//   - "none": no login; every admin request runs as DefaultUserID with the
//     admin role (default, meant for local use)
//   - "local": users table, bcrypt passwords, scs session cookies and
//     gorilla/csrf on unsafe methods
//
// # Configuration
//
//	AUTH_MODE=local
//	AUTH_SESSION_SECRET=<32+ random bytes>  # CSRF key; generated per process if empty
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true
//	AUTH_MAX_LOGIN_ATTEMPTS=5
//	AUTH_LOCKOUT_DURATION=30m
//
// # Usage
//
//	svc := auth.NewService(users.NewRepository(db), cfg.Auth)
//	mw := auth.NewMiddleware(svc, sessions, cfg.Auth)
//	admin := router.Group("/api/admin", mw.Handler(), mw.RequireWriter())
//
// The session manager is shared with the public booking flow, which keeps
// its state machine in the same cookie-backed session.
package auth
