package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

type stubVerifier struct {
	tokens map[string]*auth.Token
}

func (v stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := v.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid token")
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	verifier := stubVerifier{tokens: map[string]*auth.Token{
		"user-token":  {UID: "user-1", Claims: map[string]interface{}{}},
		"admin-token": {UID: "dietitian-1", Claims: map[string]interface{}{AdminClaim: true}},
	}}
	r := gin.New()
	r.Use(FirebaseAuthMiddleware(verifier))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userID"), "admin": c.GetBool("isAdmin")})
	})
	return r
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	r := newAuthRouter()
	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"valid user", "/me", "Bearer user-token", http.StatusOK},
		{"valid admin", "/me", "Bearer admin-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rateLimit(newRateLimiterStore(2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected status codes %v", codes)
	}

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("second client status = %d", w.Code)
	}
}
