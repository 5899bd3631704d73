package fetcher

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// stubFetcher is an instrumented Fetcher that tracks the in-flight
// high-water mark and serves configurable delays and errors per URL.
type stubFetcher struct {
	mu          sync.Mutex
	inflight    int
	maxInflight int
	delays      map[string]time.Duration
	errs        map[string]error
	panicOn     map[string]bool
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	s.mu.Lock()
	s.inflight++
	if s.inflight > s.maxInflight {
		s.maxInflight = s.inflight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	if delay := s.delays[url]; delay > 0 {
		time.Sleep(delay)
	}
	if s.panicOn[url] {
		panic("stub panic for " + url)
	}
	if err := s.errs[url]; err != nil {
		return "", err
	}
	return "body of " + url, nil
}

func (s *stubFetcher) highWater() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInflight
}

func TestFetchAllOneResultPerURL(t *testing.T) {
	urls := []string{"http://a.test", "http://b.test", "http://c.test", "http://d.test", "http://e.test"}

	for _, workers := range []int{1, 2, 5, 20} {
		stub := &stubFetcher{}
		got := NewDispatcher(stub, workers, zerolog.Nop()).FetchAll(context.Background(), urls)
		if len(got) != len(urls) {
			t.Fatalf("workers=%d: len(got) = %d, want %d", workers, len(got), len(urls))
		}

		gotURLs := make([]string, 0, len(got))
		for _, res := range got {
			gotURLs = append(gotURLs, res.URL)
		}
		sort.Strings(gotURLs)
		want := append([]string{}, urls...)
		sort.Strings(want)
		for i := range want {
			if gotURLs[i] != want[i] {
				t.Fatalf("workers=%d: urls[%d] = %q, want %q", workers, i, gotURLs[i], want[i])
			}
		}
	}
}

func TestFetchAllEmptyInput(t *testing.T) {
	stub := &stubFetcher{}
	got := NewDispatcher(stub, 5, zerolog.Nop()).FetchAll(context.Background(), nil)
	if got == nil {
		t.Fatalf("FetchAll() = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestFetchAllConcurrencyBound(t *testing.T) {
	urls := make([]string, 20)
	delays := make(map[string]time.Duration, len(urls))
	for i := range urls {
		urls[i] = "http://host" + string(rune('a'+i)) + ".test"
		delays[urls[i]] = 10 * time.Millisecond
	}

	stub := &stubFetcher{delays: delays}
	got := NewDispatcher(stub, 3, zerolog.Nop()).FetchAll(context.Background(), urls)
	if len(got) != len(urls) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(urls))
	}
	if stub.highWater() > 3 {
		t.Fatalf("max in-flight = %d, want <= 3", stub.highWater())
	}
}

func TestFetchAllSingleWorkerSerializes(t *testing.T) {
	urls := []string{"http://slow.test", "http://fast.test", "http://mid.test"}
	stub := &stubFetcher{delays: map[string]time.Duration{
		"http://slow.test": 30 * time.Millisecond,
		"http://fast.test": 10 * time.Millisecond,
		"http://mid.test":  20 * time.Millisecond,
	}}

	start := time.Now()
	got := NewDispatcher(stub, 1, zerolog.Nop()).FetchAll(context.Background(), urls)
	elapsed := time.Since(start)

	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	if elapsed < 60*time.Millisecond {
		t.Fatalf("elapsed = %s, want >= 60ms (serialized)", elapsed)
	}
	if stub.highWater() != 1 {
		t.Fatalf("max in-flight = %d, want 1", stub.highWater())
	}
}

func TestFetchAllTransportErrorBecomesOutcome(t *testing.T) {
	stub := &stubFetcher{errs: map[string]error{
		"http://bad.test": errors.New("connection refused"),
	}}

	got := NewDispatcher(stub, 2, zerolog.Nop()).FetchAll(context.Background(), []string{"http://bad.test", "http://ok.test"})
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}

	for _, res := range got {
		switch res.URL {
		case "http://bad.test":
			if res.Outcome != "Error: connection refused" {
				t.Fatalf("outcome = %q, want %q", res.Outcome, "Error: connection refused")
			}
			if !res.Failed() {
				t.Fatalf("Failed() = false, want true")
			}
		case "http://ok.test":
			if res.Failed() {
				t.Fatalf("Failed() = true for success, outcome %q", res.Outcome)
			}
		}
	}
}

func TestFetchAllRecoversPanic(t *testing.T) {
	stub := &stubFetcher{panicOn: map[string]bool{"http://boom.test": true}}

	got := NewDispatcher(stub, 2, zerolog.Nop()).FetchAll(context.Background(), []string{"http://boom.test", "http://ok.test"})
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	for _, res := range got {
		if res.URL != "http://boom.test" {
			continue
		}
		if !strings.HasPrefix(res.Outcome, "Error: ") {
			t.Fatalf("outcome = %q, want Error: prefix", res.Outcome)
		}
	}
}

func TestFetchAllDuplicateURLs(t *testing.T) {
	got := NewDispatcher(&stubFetcher{}, 2, zerolog.Nop()).FetchAll(context.Background(), []string{"http://a.test", "http://a.test"})
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2 (duplicates are not collapsed by the dispatcher)", len(got))
	}
}

func TestNewDispatcherClampsWorkers(t *testing.T) {
	got := NewDispatcher(&stubFetcher{}, 0, zerolog.Nop()).FetchAll(context.Background(), []string{"http://a.test"})
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
}
