package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/yutokawamata/TextStimulationApp/internal/logging"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("owner", "repo", "main", "test-token", logging.NewNop())
	c.BaseURL = server.URL
	return c
}

func TestUploadNewFile(t *testing.T) {
	var putBody map[string]string

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing auth header")
		}
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r) // file does not exist yet
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Fatalf("bad PUT body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	err := c.Upload(context.Background(), "data/text/grade1/01_もり.txt", []byte("001,もり\n"), "Add story")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if putBody["sha"] != "" {
		t.Errorf("new file upload carried a sha: %q", putBody["sha"])
	}
	if putBody["branch"] != "main" {
		t.Errorf("branch = %q, want main", putBody["branch"])
	}
	decoded, err := base64.StdEncoding.DecodeString(putBody["content"])
	if err != nil || string(decoded) != "001,もり\n" {
		t.Errorf("content round trip failed: %q, %v", decoded, err)
	}
}

func TestUploadExistingFileCarriesSHA(t *testing.T) {
	var putBody map[string]string

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(contentResponse{SHA: "abc123"})
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putBody)
			w.Write([]byte(`{}`))
		}
	}))

	if err := c.Upload(context.Background(), "a.txt", []byte("x"), "Update"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if putBody["sha"] != "abc123" {
		t.Errorf("update did not carry existing sha: %q", putBody["sha"])
	}
}

func TestDelete(t *testing.T) {
	deleted := false

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(contentResponse{SHA: "abc123"})
		case http.MethodDelete:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["sha"] != "abc123" {
				t.Errorf("delete sha = %q", body["sha"])
			}
			deleted = true
			w.Write([]byte(`{}`))
		}
	}))

	if err := c.Delete(context.Background(), "a.txt", "Remove"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("no DELETE request issued")
	}
}

func TestDeleteMissingFile(t *testing.T) {
	c := testClient(t, http.NotFoundHandler())
	if err := c.Delete(context.Background(), "absent.txt", "Remove"); err == nil {
		t.Error("expected error deleting a missing file")
	}
}

func TestDownload(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(contentResponse{
			SHA:      "abc",
			Encoding: "base64",
			// the API wraps long content across lines
			Content: "MDAxLOOC\nguOCigo=\n",
		})
	}))

	data, err := c.Download(context.Background(), "a.txt")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if string(data) != "001,もり\n" {
		t.Errorf("Download = %q", data)
	}
}

func TestPlanReorder(t *testing.T) {
	entries := []Entry{
		{Name: "01_もり.txt", Path: "data/text/grade1/01_もり.txt", Type: "file"},
		{Name: "02_そら.txt", Path: "data/text/grade1/02_そら.txt", Type: "file"},
		{Name: "03_うみ.txt", Path: "data/text/grade1/03_うみ.txt", Type: "file"},
	}

	ops, err := PlanReorder(entries, []string{"うみ", "もり"})
	if err != nil {
		t.Fatalf("PlanReorder failed: %v", err)
	}

	want := []RenameOp{
		{From: "data/text/grade1/03_うみ.txt", To: "data/text/grade1/01_うみ.txt"},
		{From: "data/text/grade1/01_もり.txt", To: "data/text/grade1/02_もり.txt"},
		{From: "data/text/grade1/02_そら.txt", To: "data/text/grade1/03_そら.txt"},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("PlanReorder = %v, want %v", ops, want)
	}
}

func TestPlanReorderUnknownStory(t *testing.T) {
	entries := []Entry{
		{Name: "01_もり.txt", Path: "01_もり.txt", Type: "file"},
	}
	if _, err := PlanReorder(entries, []string{"やま"}); err == nil {
		t.Error("expected error for unknown story")
	}
}
