// Package fetcher fetches a list of URLs concurrently with a bounded
// worker pool and serializes the collected results.
package fetcher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const errorPrefix = "Error: "

// Result is the outcome of fetching a single URL. Outcome holds either the
// response body or an "Error: <cause>" description for transport failures.
type Result struct {
	URL     string `json:"url"`
	Outcome string `json:"outcome"`
}

// Failed reports whether the result records a transport failure rather than
// a response body.
func (r Result) Failed() bool {
	return strings.HasPrefix(r.Outcome, errorPrefix)
}

// Fetcher performs a single blocking GET. A non-2xx status is not an error;
// only transport-level failures (DNS, connect, timeout, TLS) return err.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Dispatcher runs fetches through a fixed-size worker pool.
type Dispatcher struct {
	fetcher    Fetcher
	maxWorkers int
	logger     zerolog.Logger
}

func NewDispatcher(f Fetcher, maxWorkers int, logger zerolog.Logger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Dispatcher{fetcher: f, maxWorkers: maxWorkers, logger: logger}
}

// FetchAll fetches every URL and returns one Result per input URL, in
// completion order. Callers must not rely on result ordering. FetchAll waits
// for all in-flight fetches; there is no early exit.
func (d *Dispatcher) FetchAll(ctx context.Context, urls []string) []Result {
	if len(urls) == 0 {
		return []Result{}
	}

	workers := d.maxWorkers
	if len(urls) < workers {
		workers = len(urls)
	}

	jobs := make(chan string)
	results := make(chan Result, len(urls))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				results <- d.fetchOne(ctx, url)
			}
		}()
	}

	for _, url := range urls {
		jobs <- url
	}
	close(jobs)

	wg.Wait()
	close(results)

	collected := make([]Result, 0, len(urls))
	for res := range results {
		collected = append(collected, res)
	}
	return collected
}

func (d *Dispatcher) fetchOne(ctx context.Context, url string) (res Result) {
	// A panicking Fetcher must not take down the pool; record it as an
	// error outcome like any other failure.
	defer func() {
		if r := recover(); r != nil {
			res = Result{URL: url, Outcome: fmt.Sprintf("%s%v", errorPrefix, r)}
		}
	}()

	start := time.Now()
	body, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		d.logger.Debug().Str("url", url).Dur("elapsed", time.Since(start)).Err(err).Msg("fetch failed")
		return Result{URL: url, Outcome: errorPrefix + err.Error()}
	}

	d.logger.Debug().Str("url", url).Dur("elapsed", time.Since(start)).Int("bytes", len(body)).Msg("fetched")
	return Result{URL: url, Outcome: body}
}
