package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hesamz3090/fetcher"
	"github.com/hesamz3090/fetcher/internal/config"
)

type FetchCmd struct {
	Input   string `arg:"" help:"Path to the file containing URLs, one per line."`
	Output  string `name:"output" short:"o" help:"Write JSON/CSV output to a file."`
	JSON    bool   `short:"j" help:"Output results in JSON format."`
	CSV     bool   `short:"c" help:"Output results in CSV format (requires --output)."`
	Table   bool   `short:"t" help:"Print a URL/status/title table to stdout."`
	Workers int    `short:"w" help:"Maximum number of concurrent workers."`
	Timeout int    `help:"HTTP client timeout in seconds."`
	Proxies string `help:"Comma-separated proxy URLs." env:"FETCHER_PROXIES"`
}

const banner = `
███████╗███████╗████████╗ ██████╗██╗  ██╗███████╗██████╗
██╔════╝██╔════╝╚══██╔══╝██╔════╝██║  ██║██╔════╝██╔══██╗
█████╗  █████╗     ██║   ██║     ███████║█████╗  ██████╔╝
██╔══╝  ██╔══╝     ██║   ██║     ██╔══██║██╔══╝  ██╔══██╗
██║     ███████╗   ██║   ╚██████╗██║  ██║███████╗██║  ██║
╚═╝     ╚══════╝   ╚═╝    ╚═════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝`

func (f *FetchCmd) Run(ctx *Context) error {
	printBanner(ctx.Err, ctx.Version)

	urls, err := readURLFile(f.Input)
	if err != nil {
		return err
	}

	cfg := ctx.Config
	proxies, err := config.LoadProxies(f.Proxies)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := fetcher.Run(context.Background(), urls, fetcher.Options{
		MaxWorkers: defaultInt(f.Workers, cfg.DefaultWorkers),
		Output:     f.Output,
		JSON:       f.JSON,
		CSV:        f.CSV,
		ReturnList: true,
		Timeout:    time.Duration(defaultInt(f.Timeout, cfg.TimeoutSeconds)) * time.Second,
		Proxies:    proxies,
		Logger:     ctx.Logger,
		Out:        ctx.Out,
		Msg:        ctx.Err,
	})
	if err != nil {
		return err
	}

	if f.Table {
		colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && f.Output == ""
		if err := fetcher.WriteResults(ctx.Out, results, fetcher.FormatTable, fetcher.WriteOptions{
			ColorEnabled: colorEnabled,
		}); err != nil {
			return err
		}
	}

	reportFetchFailures(ctx, results)
	printFetchSummary(ctx, results, time.Since(start))
	return nil
}

func reportFetchFailures(ctx *Context, results []fetcher.Result) {
	if ctx == nil || ctx.UI == nil || !ctx.Verbose {
		return
	}

	var failed []fetcher.Result
	for _, res := range results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	if len(failed) == 0 {
		return
	}

	ctx.UI.Warnf("\nFetch errors:")
	for _, res := range failed {
		ctx.UI.Warnf("  %s: %s", res.URL, strings.TrimPrefix(res.Outcome, "Error: "))
	}
}

func printBanner(w io.Writer, version string) {
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "%s\nVersion: %s\nAuthor: %s\n\n", fetcher.Description, version, fetcher.Author)
}

// readURLFile loads one URL per line, trimming whitespace and skipping blank
// lines. URLs are not validated; malformed ones surface as fetch errors.
func readURLFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %q: %w", path, err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	return urls, nil
}

func printFetchSummary(ctx *Context, results []fetcher.Result, elapsed time.Duration) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", formatFetchSummary(results, elapsed))
}

func formatFetchSummary(results []fetcher.Result, elapsed time.Duration) string {
	failures := 0
	for _, res := range results {
		if res.Failed() {
			failures++
		}
	}
	return fmt.Sprintf("summary: urls=%d errors=%d elapsed=%s", len(results), failures, elapsed.Round(time.Millisecond))
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
