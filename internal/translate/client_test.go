package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/translate" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.SourceLang != "en" || req.TargetLang != "es" {
			t.Errorf("unexpected language pair: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(translateResponse{TranslatedText: "hola mundo"})
	}))
	defer server.Close()

	client, err := New(server.URL, 30)
	if err != nil {
		t.Fatal(err)
	}
	out, err := client.Translate(context.Background(), "hello world", "en", "es")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if out != "hola mundo" {
		t.Fatalf("expected translated text, got %q", out)
	}
}

func TestClientTranslateEmptyInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for empty input")
	}))
	defer server.Close()

	client, _ := New(server.URL, 30)
	out, err := client.Translate(context.Background(), "   ", "en", "es")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestClientTranslateErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad language pair", http.StatusBadRequest)
	}))
	defer server.Close()

	client, _ := New(server.URL, 30)
	if _, err := client.Translate(context.Background(), "hello", "en", "xx"); err == nil {
		t.Fatal("expected error for 400 response")
	}
}
