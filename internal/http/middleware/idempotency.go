// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file validates the optional Idempotency-Key header of unsafe requests
// and stashes it in the Gin context. Persistence and replay live in the
// service layer; handlers that serve a replayed result call MarkReplay so the
// response carries Idempotency-Replayed: true and the access log records it.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderIdempotencyKey is the request header carrying the client key.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotencyReplayed is set on responses served from a prior call.
	HeaderIdempotencyReplayed = "Idempotency-Replayed"
)

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Defaults to ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// IdempotencyValidator checks the Idempotency-Key header when present.
// A malformed key aborts with 400 and the code "bad_idempotency_key"; a valid
// one is available to handlers through GetIdempotencyKey. Requests without
// the header pass through untouched.
func IdempotencyValidator(opts IdempotencyOptions) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)
		c.Next()
	}
}

// GetIdempotencyKey returns the validated key and whether one was supplied.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// MarkReplay flags the response as served from a previous request.
func MarkReplay(c *gin.Context) {
	c.Set(ctxKeyIdemReplay, true)
	c.Header(HeaderIdempotencyReplayed, "true")
}

// IsReplay reports whether MarkReplay was called for this request.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
