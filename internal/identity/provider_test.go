package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProvider_ExchangeToken(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(identityResponse{UserID: "user-99"})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "redator")
	id, err := p.ExchangeToken(context.Background(), "opaque-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "user-99" {
		t.Errorf("id = %q, want user-99", id)
	}
	if gotBody["token"] != "opaque-token" || gotBody["appID"] != "redator" {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestHTTPProvider_Anonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/anonymous" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(identityResponse{UserID: "anon-11"})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "redator")
	id, err := p.Anonymous(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "anon-11" {
		t.Errorf("id = %q, want anon-11", id)
	}
}

func TestHTTPProvider_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "redator")
	_, err := p.ExchangeToken(context.Background(), "bad-token")
	if err == nil {
		t.Fatal("expected error for HTTP 401")
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T", err)
	}
	if authErr.Path != "token" {
		t.Errorf("path = %q, want token", authErr.Path)
	}
}

func TestHTTPProvider_MissingUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(identityResponse{})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "redator")
	_, err := p.Anonymous(context.Background())
	if err == nil {
		t.Fatal("expected error for empty userId")
	}
}
