package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHelpers_GetIdempotencyKey_MarkReplay_IsReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	if k, ok := GetIdempotencyKey(c); k != "" || ok {
		t.Fatalf("expected empty key when not set")
	}
	if IsReplay(c) {
		t.Fatalf("expected IsReplay=false by default")
	}

	c.Set(ctxKeyIdemKey, 123)
	if _, ok := GetIdempotencyKey(c); ok {
		t.Fatalf("expected key absent for non-string value")
	}

	c.Set(ctxKeyIdemReplay, "yes")
	if IsReplay(c) {
		t.Fatalf("expected IsReplay=false for non-bool")
	}

	MarkReplay(c)
	if !IsReplay(c) {
		t.Fatalf("expected IsReplay=true after MarkReplay")
	}
	if got := c.Writer.Header().Get(HeaderIdempotencyReplayed); got != "true" {
		t.Fatalf("replayed header = %q", got)
	}
}

func newIdemRouter(opts IdempotencyOptions, seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(IdempotencyValidator(opts))
	r.POST("/loan-requests", func(c *gin.Context) {
		if k, ok := GetIdempotencyKey(c); ok {
			*seen = k
		}
		c.Status(http.StatusCreated)
	})
	return r
}

func TestIdempotencyValidator_NoHeader_PassesThrough(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{}, &seen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/loan-requests", nil))
	if w.Code != http.StatusCreated || seen != "" {
		t.Fatalf("code=%d seen=%q", w.Code, seen)
	}
}

func TestIdempotencyValidator_RejectsBadKeys(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{MaxLen: 8}, &seen)

	for _, key := range []string{"way-too-long-key", "bad key", "semi;colon"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/loan-requests", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("key %q: code=%d", key, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["code"] != "bad_idempotency_key" || body["request_id"] == "" {
			t.Fatalf("key %q: body=%v", key, body)
		}
	}
	if seen != "" {
		t.Fatalf("handler must not run for rejected keys")
	}
}

func TestIdempotencyValidator_DefaultMaxLen(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{}, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/loan-requests", nil)
	req.Header.Set(HeaderIdempotencyKey, strings.Repeat("a", 201))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("201-byte key should be rejected, got %d", w.Code)
	}
}

func TestIdempotencyValidator_ValidKeyStashed(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{}, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/loan-requests", nil)
	req.Header.Set(HeaderIdempotencyKey, "loan-2024:abc_1.x~")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated || seen != "loan-2024:abc_1.x~" {
		t.Fatalf("code=%d seen=%q", w.Code, seen)
	}
}

func TestIdempotencyValidator_CustomPattern(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{Pattern: regexp.MustCompile(`^[0-9]+$`)}, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/loan-requests", nil)
	req.Header.Set(HeaderIdempotencyKey, "abc")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric key should fail custom pattern, got %d", w.Code)
	}
}
