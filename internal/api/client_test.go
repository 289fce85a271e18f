package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://localhost:8000/")
	if c.baseURL != "http://localhost:8000" {
		t.Errorf("baseURL = %q, want %q", c.baseURL, "http://localhost:8000")
	}
}

func TestChatStreamSendsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/chat" {
			t.Errorf("path = %q, want /chat", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form encoding", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.FormValue("user_input"); got != "what is 2+3?" {
			t.Errorf("user_input = %q", got)
		}
		if got := r.FormValue("thread_id"); got != "thread-42" {
			t.Errorf("thread_id = %q", got)
		}
		_, _ = w.Write([]byte("5"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var chunks []string
	err := c.ChatStream("what is 2+3?", "thread-42", func(s string) {
		chunks = append(chunks, s)
	})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}
	if got := strings.Join(chunks, ""); got != "5" {
		t.Errorf("received %q, want %q", got, "5")
	}
}

func TestChatStreamDeliversChunksInOrder(t *testing.T) {
	parts := []string{"The answer ", "is 5.", "\n__FINAL__:The answer is 5."}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer does not support flushing")
		}
		for _, p := range parts {
			_, _ = w.Write([]byte(p))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var chunks []string
	err := c.ChatStream("q", "t", func(s string) {
		chunks = append(chunks, s)
	})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}
	// Chunk boundaries depend on network reads, only order and totality are
	// stable.
	want := strings.Join(parts, "")
	if got := strings.Join(chunks, ""); got != want {
		t.Errorf("stream = %q, want %q", got, want)
	}
}

func TestChatStreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.ChatStream("q", "t", func(string) {
		t.Error("callback invoked on error response")
	})
	if err == nil {
		t.Fatal("ChatStream() error = nil, want status error")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %v is not a *StatusError", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("Code = %d, want %d", statusErr.Code, http.StatusInternalServerError)
	}
}

func TestChatStreamConnectionRefused(t *testing.T) {
	// Reserve a port, then close it so nothing is listening.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	err := c.ChatStream("q", "t", func(string) {})
	if err == nil {
		t.Fatal("ChatStream() error = nil, want connection error")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("connection failure reported as *StatusError: %v", err)
	}
}

func TestChatStreamSplitRuneAcrossReads(t *testing.T) {
	// "é" is 0xC3 0xA9; send the bytes in separate writes.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xC3})
		flusher.Flush()
		_, _ = w.Write([]byte{0xA9})
		flusher.Flush()
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var got strings.Builder
	err := c.ChatStream("q", "t", func(s string) {
		got.WriteString(s)
	})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}
	if got.String() != "café" {
		t.Errorf("stream = %q, want %q", got.String(), "café")
	}
	for _, r := range got.String() {
		if r == '�' {
			t.Error("replacement character in decoded stream")
		}
	}
}
