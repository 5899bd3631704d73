package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReturnListAndJSONAreIndependent(t *testing.T) {
	var out, msg bytes.Buffer
	results, err := Run(context.Background(), []string{"http://a.test"}, Options{
		Fetcher:    &stubFetcher{},
		JSON:       true,
		ReturnList: true,
		Out:        &out,
		Msg:        &msg,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}

	var decoded map[string]string
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal(stdout JSON) error = %v", err)
	}
	if decoded["http://a.test"] != "body of http://a.test" {
		t.Fatalf("decoded = %#v", decoded)
	}
}

func TestRunCSVToStdoutRejected(t *testing.T) {
	var out, msg bytes.Buffer
	results, err := Run(context.Background(), []string{"http://a.test"}, Options{
		Fetcher:    &stubFetcher{},
		CSV:        true,
		ReturnList: true,
		Out:        &out,
		Msg:        &msg,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if out.Len() != 0 {
		t.Fatalf("stdout = %q, want no partial CSV", out.String())
	}
	if !strings.Contains(msg.String(), CSVStdoutMessage) {
		t.Fatalf("msg = %q, want rejection message", msg.String())
	}
	// The misconfigured CSV branch must not stop the other outputs.
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
}

func TestRunWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")

	_, err := Run(context.Background(), []string{"http://a.test", "http://b.test"}, Options{
		Fetcher: &stubFetcher{},
		JSON:    true,
		Output:  path,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("len(decoded) = %d, want 2", len(decoded))
	}
}

func TestRunWritesCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")

	_, err := Run(context.Background(), []string{"http://a.test"}, Options{
		Fetcher: &stubFetcher{},
		CSV:     true,
		Output:  path,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "URL,Result\n") {
		t.Fatalf("csv = %q, want URL,Result header", string(data))
	}
}

func TestRunSilentWithoutOutputsRequested(t *testing.T) {
	var out, msg bytes.Buffer
	results, err := Run(context.Background(), []string{"http://a.test"}, Options{
		Fetcher: &stubFetcher{},
		Out:     &out,
		Msg:     &msg,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results != nil {
		t.Fatalf("results = %#v, want nil without ReturnList", results)
	}
	if out.Len() != 0 || msg.Len() != 0 {
		t.Fatalf("unexpected output: out=%q msg=%q", out.String(), msg.String())
	}
}

func TestRunOutputFileCreateFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(context.Background(), []string{"http://a.test"}, Options{
		Fetcher: &stubFetcher{},
		JSON:    true,
		Output:  filepath.Join(dir, "missing", "results.json"),
	})
	if err == nil {
		t.Fatalf("Run() error = nil, want create failure")
	}
	if !strings.Contains(err.Error(), "create") {
		t.Fatalf("error = %q, want create context", err.Error())
	}
}
