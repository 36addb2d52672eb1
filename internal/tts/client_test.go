package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSynthesize(t *testing.T) {
	wavBytes := []byte("RIFFfake-wav-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/synthesize":
			var req synthesizeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.Text != "hola mundo" || req.Lang != "es" || req.Voice != "nova" {
				t.Errorf("unexpected request: %+v", req)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(synthesizeResponse{AudioPath: "/tmp/tts/out-42.wav"})
		case r.Method == http.MethodGet && r.URL.Path == "/audio/out-42.wav":
			w.Header().Set("Content-Type", "audio/wav")
			_, _ = w.Write(wavBytes)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := New(server.URL, "nova", 30)
	if err != nil {
		t.Fatal(err)
	}
	data, err := client.Synthesize(context.Background(), "hola mundo", "es")
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if !bytes.Equal(data, wavBytes) {
		t.Fatalf("audio bytes mismatch: got %q", data)
	}
}

func TestClientSynthesizeEmptyAudioPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, "", 30)
	if _, err := client.Synthesize(context.Background(), "text", "es"); err == nil {
		t.Fatal("expected error for missing audio path")
	}
}

func TestClientSynthesizeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "voice not found", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client, _ := New(server.URL, "ghost", 30)
	if _, err := client.Synthesize(context.Background(), "text", "es"); err == nil {
		t.Fatal("expected error for 422 response")
	}
}
