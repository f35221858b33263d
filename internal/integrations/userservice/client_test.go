package userservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/users/10", r.URL.Path)
		json.NewEncoder(w).Encode(User{ID: 10, Name: "Test User", Email: "user@example.com", Status: StatusApproved})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, noopLogger{})

	user, err := client.GetUser(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(10), user.ID)
	assert.True(t, user.IsApproved())
}

func TestGetUser_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, noopLogger{})

	_, err := client.GetUser(context.Background(), 42)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUser_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, noopLogger{})

	_, err := client.GetUser(context.Background(), 42)

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGetUser_NotApproved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(User{ID: 10, Status: StatusPending})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, noopLogger{})

	user, err := client.GetUser(context.Background(), 10)

	require.NoError(t, err)
	assert.False(t, user.IsApproved())
}
