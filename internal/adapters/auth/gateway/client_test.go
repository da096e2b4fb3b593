package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_VerifyToken_SendsTokenAndAPIKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/tokens/verify" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("expected api key header, got %q", got)
		}

		var req struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Token != "tok-123" {
			t.Errorf("expected token tok-123, got %q", req.Token)
		}

		_ = json.NewEncoder(w).Encode(map[string]string{
			"user_id": "user-1",
			"email":   "doc@example.com",
			"role":    "doctor",
		})
	}))
	defer ts.Close()

	client, err := NewClient(Config{BaseURL: ts.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	claims, err := client.VerifyToken(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "doc@example.com" || claims.Role != "doctor" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestClient_VerifyToken_MapsRejectionToUnauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer ts.Close()

	client, err := NewClient(Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if _, err := client.VerifyToken(context.Background(), "tok-123"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_VerifyToken_WithoutBaseURL_NotConfigured(t *testing.T) {
	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if _, err := client.VerifyToken(context.Background(), "tok-123"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestVerifier_RejectsEmptyToken(t *testing.T) {
	v := NewVerifier(&Client{})

	if _, err := v.Verify(context.Background(), "   "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}

func TestVerifier_RequiresUserIDInClaims(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"user_id": "  "})
	}))
	defer ts.Close()

	client, err := NewClient(Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if _, err := NewVerifier(client).Verify(context.Background(), "tok-123"); err == nil {
		t.Fatalf("expected error for claims without user id")
	}
}
