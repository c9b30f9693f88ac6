package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kirana/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signedToken(t *testing.T, userID string, roles ...string) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestAuthenticate(t *testing.T) {
	t.Run("stores user id and roles in context", func(t *testing.T) {
		var gotUser string
		var gotRoles []string
		handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
			gotRoles, _ = r.Context().Value(globals.RoleKey).([]string)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "u1", "admin"))
		rec := httptest.NewRecorder()
		handler(rec, req, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotUser != "u1" {
			t.Errorf("expected user u1, got %q", gotUser)
		}
		if len(gotRoles) != 1 || gotRoles[0] != "admin" {
			t.Errorf("expected roles [admin], got %v", gotRoles)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		handler := Authenticate(func(http.ResponseWriter, *http.Request, httprouter.Params) {
			t.Error("handler must not run")
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		handler := Authenticate(func(http.ResponseWriter, *http.Request, httprouter.Params) {
			t.Error("handler must not run")
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireRoles(t *testing.T) {
	protected := Chain(Authenticate, RequireRoles("admin"))(
		func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "u1", "admin"))
		rec := httptest.NewRecorder()
		protected(rec, req, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("plain user is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "u1", "user"))
		rec := httptest.NewRecorder()
		protected(rec, req, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})
}
