package fetcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWorkers is the worker-pool size used when none is configured.
const DefaultWorkers = 5

// CSVStdoutMessage is printed when CSV output is requested without a file.
const CSVStdoutMessage = "Cannot output CSV to stdout. Please specify an output file."

// Options configures a Run. The zero value fetches with the default HTTP
// client and five workers, emits nothing, and returns nothing.
type Options struct {
	MaxWorkers int           // pool size; <= 0 means DefaultWorkers
	Output     string        // file path for JSON/CSV emission; empty for stdout (JSON only)
	JSON       bool          // emit a {url: outcome} JSON document
	CSV        bool          // emit a URL,Result CSV table; requires Output
	ReturnList bool          // hand the raw results back to the caller
	Fetcher    Fetcher       // overrides the default HTTP fetcher
	Timeout    time.Duration // underlying HTTP client timeout
	Proxies    []string      // optional proxy URLs for the default fetcher
	Logger     zerolog.Logger
	Out        io.Writer // JSON destination when Output is empty; default os.Stdout
	Msg        io.Writer // user-facing notices; default os.Stderr
}

// Run fetches every URL and emits the results per opts. JSON emission, CSV
// emission and returning the list are independent; any combination may fire.
// Only configuration and output I/O failures produce an error — transport
// failures live inside the results as "Error: ..." outcomes.
func Run(ctx context.Context, urls []string, opts Options) ([]Result, error) {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = DefaultWorkers
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Msg == nil {
		opts.Msg = os.Stderr
	}

	fetch := opts.Fetcher
	if fetch == nil {
		var err error
		fetch, err = NewHTTPFetcher(opts.Proxies, opts.Timeout)
		if err != nil {
			return nil, err
		}
	}

	results := NewDispatcher(fetch, opts.MaxWorkers, opts.Logger).FetchAll(ctx, urls)

	if opts.JSON {
		if err := emit(results, FormatJSON, opts.Output, opts.Out); err != nil {
			return nil, err
		}
	}

	if opts.CSV {
		if opts.Output == "" {
			fmt.Fprintln(opts.Msg, CSVStdoutMessage)
		} else if err := emit(results, FormatCSV, opts.Output, nil); err != nil {
			return nil, err
		}
	}

	if opts.ReturnList {
		return results, nil
	}
	return nil, nil
}

func emit(results []Result, format Format, path string, fallback io.Writer) error {
	writer := fallback
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer file.Close()
		writer = file
	}
	return WriteResults(writer, results, format, WriteOptions{})
}
