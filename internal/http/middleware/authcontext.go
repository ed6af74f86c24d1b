// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements lightweight identity propagation for the demo
// deployment. There is no real authentication: clients convey their identity
// via the X-User-ID header, the middleware validates and normalizes it, and
// stashes it in the request context so downstream components (handlers, rate
// limiter keys, conversation memory) all agree on the same identifier.
//
// Design goals:
//   - Keep transport concerns (validation, context stashing) in middleware.
//   - A header is optional; handlers fall back to a development identity.
//   - Remain framework-agnostic beyond Gin's context.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// HeaderUserID is the canonical request header that clients use to convey
// their identity in the demo deployment.
//
// The value keys per-user state (conversation memory, frequent-query
// analytics, rate-limit buckets), so it must be stable across requests from
// the same client.
const HeaderUserID = "X-User-ID"

// ctxKeyUserID is the Gin context key under which the validated identity is
// stashed. Handlers and the rate limiter read the same key.
const ctxKeyUserID = "userID"

// AuthOptions configures header validation behavior for AuthContext.
type AuthOptions struct {
	// MaxLen caps the accepted identifier length. Values <= 0 default to 128.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative RFC7230-like
	// token pattern is used: ^[A-Za-z0-9._~\-:@]+$
	Pattern *regexp.Regexp
}

// UserIDFrom returns the validated user identity stored in the Gin context by
// AuthContext. The second return value indicates presence.
//
// Handlers should prefer this function over reading the header directly.
func UserIDFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// AuthContext validates the X-User-ID header (if present) and stashes it in
// the request context.
//
// Behavior:
//   - If the header is absent: the middleware is a no-op; handlers fall back
//     to their development identity.
//   - If the header fails validation: responds 400 with a compact error body.
//   - Otherwise, the identity is available via UserIDFrom and the "userID"
//     context key consumed by KeyByUserOrIP.
func AuthContext(opts AuthOptions) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 128
	}
	pat := opts.Pattern
	if pat == nil {
		// RFC-7230-ish token + common safe chars.
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:@]+$`)
	}

	return func(c *gin.Context) {
		id := c.GetHeader(HeaderUserID)
		if id == "" {
			c.Next()
			return
		}
		if len(id) > maxLen || !pat.MatchString(id) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_user_id",
				"message": "invalid X-User-ID",
			})
			return
		}

		c.Set(ctxKeyUserID, id)
		c.Next()
	}
}
