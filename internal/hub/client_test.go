package hub

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhlab-no/trpexport/internal/dataset"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", 5*time.Second)
}

func TestClient_CreateRepo(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/repos/create" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))

	if err := c.CreateRepo(context.Background(), "org/handwriting", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody["type"] != "dataset" || gotBody["name"] != "org/handwriting" || gotBody["private"] != true {
		t.Errorf("unexpected body: %v", gotBody)
	}
}

func TestClient_CreateRepo_ExistingIsNotAnError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	if err := c.CreateRepo(context.Background(), "org/ds", false); err != nil {
		t.Errorf("expected 409 to be tolerated, got %v", err)
	}
}

func TestClient_Commit_NDJSONPayload(t *testing.T) {
	var lines []map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/datasets/org/ds/commit/main" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-ndjson" {
			t.Errorf("unexpected content type %q", ct)
		}
		scanner := bufio.NewScanner(r.Body)
		for scanner.Scan() {
			var line map[string]any
			if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
				t.Errorf("bad ndjson line: %v", err)
			}
			lines = append(lines, line)
		}
	}))

	files := []CommitFile{{Path: "default/metadata.jsonl", Content: []byte("row\n")}}
	if err := c.Commit(context.Background(), "org/ds", "main", "Upload 1 files", files); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected header + 1 file line, got %d", len(lines))
	}
	if lines[0]["key"] != "header" {
		t.Errorf("expected header line first, got %v", lines[0])
	}
	fileValue := lines[1]["value"].(map[string]any)
	if fileValue["path"] != "default/metadata.jsonl" || fileValue["encoding"] != "base64" {
		t.Errorf("unexpected file line: %v", fileValue)
	}
	decoded, err := base64.StdEncoding.DecodeString(fileValue["content"].(string))
	if err != nil || string(decoded) != "row\n" {
		t.Errorf("content round trip failed: %q %v", decoded, err)
	}
}

func TestClient_Commit_ServerErrorsAreRetryable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	err := c.Commit(context.Background(), "org/ds", "main", "s", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsRetryable(err) {
		t.Errorf("expected 503 to be retryable, got %v", err)
	}
}

func TestClient_Commit_ClientErrorsAreNotRetryable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
	}))
	err := c.Commit(context.Background(), "org/ds", "main", "s", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRetryable(err) {
		t.Errorf("expected 403 to be terminal, got %v", err)
	}
}

func seqOf(recs ...dataset.Record) iter.Seq2[dataset.Record, error] {
	return func(yield func(dataset.Record, error) bool) {
		for _, r := range recs {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_Push(t *testing.T) {
	img := filepath.Join(t.TempDir(), "p1.jpg")
	if err := os.WriteFile(img, []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	uploaded := map[string]bool{}
	commits := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		commits++
		scanner := bufio.NewScanner(r.Body)
		for scanner.Scan() {
			var line map[string]any
			if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
				t.Errorf("bad ndjson line: %v", err)
			}
			if line["key"] == "file" {
				uploaded[line["value"].(map[string]any)["path"].(string)] = true
			}
		}
	}))

	// A tiny batch budget forces more than one commit.
	p := NewPublisher(c, discardLogger(), 4)
	count, err := p.Push(context.Background(), "org/ds", "default",
		seqOf(dataset.Record{Image: img, DocID: 42, Sequence: 1, Alto: "a", Page: "p"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 record pushed, got %d", count)
	}
	if commits < 2 {
		t.Errorf("expected batched commits, got %d", commits)
	}
	for _, want := range []string{"README.md", "default/metadata.jsonl", "default/images/42_00001_p1.jpg"} {
		if !uploaded[want] {
			t.Errorf("expected %s uploaded, got %v", want, uploaded)
		}
	}
}

func TestPublisher_Push_RetriesThenSucceeds(t *testing.T) {
	img := filepath.Join(t.TempDir(), "p1.jpg")
	if err := os.WriteFile(img, []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	attempts := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))

	p := NewPublisher(c, discardLogger(), 1<<20)
	count, err := p.Push(context.Background(), "org/ds", "default",
		seqOf(dataset.Record{Image: img, DocID: 1, Sequence: 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 record, got %d", count)
	}
	if attempts != 2 {
		t.Errorf("expected one retry, got %d attempts", attempts)
	}
}

func TestPublisher_Push_ExtractionErrorAborts(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	failing := func(yield func(dataset.Record, error) bool) {
		yield(dataset.Record{}, os.ErrNotExist)
	}
	p := NewPublisher(c, discardLogger(), 1<<20)
	if _, err := p.Push(context.Background(), "org/ds", "default", failing); err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("expected no upload after extraction failure")
	}
}
