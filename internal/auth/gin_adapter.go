package auth

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// committingWriter commits the session before the first byte of the
// response, so the cookie goes out with the headers. gin handlers write
// their body before control returns to the middleware.
type committingWriter struct {
	gin.ResponseWriter
	sessions *SessionManager
	ctx      context.Context
	once     sync.Once
}

func (w *committingWriter) commit() {
	w.once.Do(func() {
		switch w.sessions.Status(w.ctx) {
		case scs.Modified:
			token, expiry, err := w.sessions.Commit(w.ctx)
			if err != nil {
				log.Printf("[SESSION] Failed to commit session: %v", err)
				return
			}
			w.sessions.WriteSessionCookie(w.ctx, w.ResponseWriter, token, expiry)
		case scs.Destroyed:
			w.sessions.WriteSessionCookie(w.ctx, w.ResponseWriter, "", time.Time{})
		}
	})
}

func (w *committingWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *committingWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *committingWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *committingWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

// LoadAndCommit loads the session named by the request cookie and commits
// it when the response starts. A token the store cannot read starts a fresh
// session rather than failing the request, so a visitor half way through a
// booking is never shown a 500 for a stale cookie.
func (sm *SessionManager) LoadAndCommit() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			log.Printf("[SESSION] Discarding unreadable session: %v", err)
			if ctx, err = sm.Load(c.Request.Context(), ""); err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}
		c.Request = c.Request.WithContext(ctx)

		w := &committingWriter{ResponseWriter: c.Writer, sessions: sm, ctx: ctx}
		c.Writer = w

		c.Next()

		// Handlers that only set a status still carry the cookie.
		w.commit()
	}
}
