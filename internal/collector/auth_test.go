package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTokenServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestAuthenticateSuccess(t *testing.T) {
	srv, hits := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		id, secret, ok := r.BasicAuth()
		if !ok || id != testCreds.ClientID || secret != testCreds.ClientSecret {
			t.Errorf("unexpected basic auth %q/%q (ok=%v)", id, secret, ok)
		}
		if ua := r.Header.Get("User-Agent"); ua != testUserAgent {
			t.Errorf("expected user agent %q, got %q", testUserAgent, ua)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "password" ||
			r.PostForm.Get("username") != testCreds.Username ||
			r.PostForm.Get("password") != testCreds.Password {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		writeJSON(w, http.StatusOK, `{"access_token":"test_token","token_type":"bearer","expires_in":86400,"scope":"*"}`)
	})

	rc := newTestClient(t, srv.URL, srv.URL, nil)
	token, err := rc.Authenticate(context.Background(), testCreds)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token != "test_token" {
		t.Errorf("expected test_token, got %q", token)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestAuthenticateNoRetryOnHTTPErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   AuthErrorKind
		wantStatus int
	}{
		{
			name:       "401 is invalid credentials",
			status:     http.StatusUnauthorized,
			body:       `{"message": "Unauthorized", "error": 401}`,
			wantKind:   AuthInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid_grant is invalid credentials",
			status:     http.StatusOK,
			body:       `{"error": "invalid_grant"}`,
			wantKind:   AuthInvalidCredentials,
			wantStatus: http.StatusOK,
		},
		{
			name:       "500 is an http error",
			status:     http.StatusInternalServerError,
			body:       `{"message": "Internal Server Error"}`,
			wantKind:   AuthHTTP,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "429 is an http error",
			status:     http.StatusTooManyRequests,
			body:       `{"message": "Too Many Requests", "error": 429}`,
			wantKind:   AuthHTTP,
			wantStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			rc := newTestClient(t, srv.URL, srv.URL, nil)
			token, err := rc.Authenticate(context.Background(), testCreds)
			if err == nil {
				t.Fatalf("expected an error, got token %q", token)
			}

			authErr := asAuthError(t, err)
			if authErr.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, authErr.Kind)
			}
			if authErr.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, authErr.StatusCode)
			}
			if authErr.Attempts != 1 {
				t.Errorf("expected 1 attempt, got %d", authErr.Attempts)
			}
			if n := hits.Load(); n != 1 {
				t.Errorf("expected exactly 1 request, got %d", n)
			}
			if !IsAuthKind(err, tt.wantKind) {
				t.Errorf("IsAuthKind(%s) = false", tt.wantKind)
			}
		})
	}
}

func TestAuthenticateNetworkFailureExhaustsRetries(t *testing.T) {
	rt := &countingTransport{err: errConnRefused}
	rc := newTestClient(t, "https://reddit.invalid/api/v1/access_token", "https://oauth.reddit.invalid", rt)

	_, err := rc.Authenticate(context.Background(), testCreds)
	if err == nil {
		t.Fatal("expected an error")
	}

	authErr := asAuthError(t, err)
	if authErr.Kind != AuthNetwork {
		t.Errorf("expected network kind, got %s", authErr.Kind)
	}
	if authErr.Attempts != 3 {
		t.Errorf("expected 3 attempts recorded, got %d", authErr.Attempts)
	}
	if n := rt.calls.Load(); n != 3 {
		t.Errorf("expected exactly 3 requests, got %d", n)
	}
	if !errors.Is(err, errConnRefused) {
		t.Errorf("expected the transport error to be wrapped, got %v", err)
	}
}

func TestAuthenticateRecoversAfterTransientFailures(t *testing.T) {
	srv, hits := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"third_time_lucky","token_type":"bearer"}`)
	})
	rt := &countingTransport{err: errConnRefused, failFirst: 2}

	rc := newTestClient(t, srv.URL, srv.URL, rt)
	token, err := rc.Authenticate(context.Background(), testCreds)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token != "third_time_lucky" {
		t.Errorf("unexpected token %q", token)
	}
	if n := rt.calls.Load(); n != 3 {
		t.Errorf("expected 3 round trips, got %d", n)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("expected 1 request to reach the server, got %d", n)
	}
}

func TestAuthenticateUnknownFailure(t *testing.T) {
	srv, hits := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	rc := newTestClient(t, srv.URL, srv.URL, nil)
	_, err := rc.Authenticate(context.Background(), testCreds)
	if !IsAuthKind(err, AuthUnknown) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("expected no retry, got %d requests", n)
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	srv, _ := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token_type":"bearer"}`)
	})

	rc := newTestClient(t, srv.URL, srv.URL, nil)
	if _, err := rc.Authenticate(context.Background(), testCreds); !IsAuthKind(err, AuthUnknown) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
}

func TestAuthenticateIncompleteCredentials(t *testing.T) {
	rt := &countingTransport{err: errConnRefused}
	rc := newTestClient(t, "https://reddit.invalid", "https://reddit.invalid", rt)

	creds := testCreds
	creds.Password = "   "
	_, err := rc.Authenticate(context.Background(), creds)
	if !IsAuthKind(err, AuthInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if n := rt.calls.Load(); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestAuthenticateStopsOnCanceledContext(t *testing.T) {
	rt := &countingTransport{}
	rc := newTestClient(t, "https://reddit.invalid", "https://reddit.invalid", rt)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rc.Authenticate(ctx, testCreds)
	authErr := asAuthError(t, err)
	if authErr.Kind != AuthNetwork {
		t.Errorf("expected network kind, got %s", authErr.Kind)
	}
	if authErr.Attempts != 1 {
		t.Errorf("expected to stop after 1 attempt, got %d", authErr.Attempts)
	}
}

func TestNewRedditClientFailsWithoutToken(t *testing.T) {
	srv, _ := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message": "Unauthorized", "error": 401}`)
	})

	rc, err := NewRedditClient(context.Background(), Options{
		Credentials: testCreds,
		UserAgent:   testUserAgent,
		TokenURL:    srv.URL,
		APIBaseURL:  srv.URL,
	}, nil)
	if rc != nil {
		t.Errorf("expected no client, got %+v", rc)
	}
	if !IsAuthKind(err, AuthInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthErrorMessage(t *testing.T) {
	err := &AuthError{Kind: AuthHTTP, StatusCode: 503, Detail: "upstream down", Attempts: 1}
	if got, want := err.Error(), "reddit auth: http_error (status 503): upstream down"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	err = &AuthError{Kind: AuthNetwork, Attempts: 3, Err: errConnRefused}
	if got, want := err.Error(), "reddit auth: network after 3 attempts: "+errConnRefused.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
