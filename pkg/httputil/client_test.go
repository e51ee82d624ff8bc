package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientGet(t *testing.T) {
	var gotUA, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA, gotAuth = r.Header.Get("User-Agent"), r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"lines":[]}`))
		case "/missing":
			http.NotFound(w, r)
		case "/down":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	c := NewClient(map[string]string{"Authorization": "Bearer t"})
	ctx := context.Background()

	body, err := c.Get(ctx, srv.URL+"/ok")
	if err != nil || string(body) != `{"lines":[]}` {
		t.Errorf("Get(/ok) = %q, %v", body, err)
	}
	if gotUA == "" || gotAuth != "Bearer t" {
		t.Errorf("headers = UA %q, Authorization %q", gotUA, gotAuth)
	}

	tests := []struct {
		path      string
		target    error
		retryable bool
	}{
		{"/missing", ErrNotFound, false},
		{"/down", ErrNetwork, true},
		{"/forbidden", ErrNetwork, false},
	}
	for _, tt := range tests {
		_, err := c.Get(ctx, srv.URL+tt.path)
		if !errors.Is(err, tt.target) {
			t.Errorf("Get(%s) error = %v, want %v", tt.path, err, tt.target)
		}
		if IsRetryable(err) != tt.retryable {
			t.Errorf("Get(%s) retryable = %v, want %v", tt.path, IsRetryable(err), tt.retryable)
		}
	}
}

func TestClientGetUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(nil).Get(context.Background(), url)
	if !errors.Is(err, ErrNetwork) || !IsRetryable(err) {
		t.Errorf("Get(closed server) error = %v, want retryable network error", err)
	}
}
