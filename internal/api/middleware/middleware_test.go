package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

func TestAuth(t *testing.T) {
	testCases := []struct {
		name          string
		userID        string
		role          string
		expectedCode  int
		expectedActor domain.Actor
	}{
		{
			name:          "valid user",
			userID:        "10",
			expectedCode:  http.StatusOK,
			expectedActor: domain.Actor{UserID: 10, Role: domain.RoleUser},
		},
		{
			name:          "valid admin",
			userID:        "1",
			role:          "admin",
			expectedCode:  http.StatusOK,
			expectedActor: domain.Actor{UserID: 1, Role: domain.RoleAdmin},
		},
		{name: "missing user id", expectedCode: http.StatusUnauthorized},
		{name: "non-numeric user id", userID: "abc", expectedCode: http.StatusUnauthorized},
		{name: "non-positive user id", userID: "0", expectedCode: http.StatusUnauthorized},
		{name: "unknown role", userID: "10", role: "superuser", expectedCode: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotActor domain.Actor
			var called bool

			handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				actor, ok := ActorFromContext(r.Context())
				require.True(t, ok)
				gotActor = actor
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.userID != "" {
				req.Header.Set("X-User-ID", tc.userID)
			}
			if tc.role != "" {
				req.Header.Set("X-User-Role", tc.role)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode == http.StatusOK {
				require.True(t, called)
				assert.Equal(t, tc.expectedActor, gotActor)
			} else {
				assert.False(t, called)
			}
		})
	}
}

func TestActorFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := ActorFromContext(req.Context())

	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	// Burst 2: два запроса проходят, третий отклоняется
	handler := RateLimit(rate.Limit(1), 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_PerIP(t *testing.T) {
	// Лимит считается отдельно для каждого IP
	handler := RateLimit(rate.Limit(1), 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "192.0.2.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}
