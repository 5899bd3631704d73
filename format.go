package fetcher

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/PuerkitoBio/goquery"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatTable Format = "table"
)

type WriteOptions struct {
	ColorEnabled bool
}

// WriteResults serializes results to w in the given format.
func WriteResults(w io.Writer, results []Result, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, results)
	case FormatCSV:
		return writeCSV(w, results)
	case FormatTable:
		return writeTable(w, results, opts)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON emits a URL-to-outcome map with stable indentation. Duplicate
// URLs collapse to a single key, the later result winning; the map form is
// lossy on purpose, matching the documented output shape.
func writeJSON(w io.Writer, results []Result) error {
	mapped := make(map[string]string, len(results))
	for _, res := range results {
		mapped[res.URL] = res.Outcome
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(mapped)
}

func writeCSV(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"URL", "Result"}); err != nil {
		return err
	}
	for _, res := range results {
		if err := writer.Write([]string{res.URL, res.Outcome}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, results []Result, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"URL", "STATUS", "TITLE"}, "\t"))
	output := termenv.NewOutput(w)
	for _, res := range results {
		fmt.Fprintln(tw, strings.Join(tableRow(res, output, opts), "\t"))
	}
	return tw.Flush()
}

func tableRow(res Result, output *termenv.Output, opts WriteOptions) []string {
	const errColor = "1"
	const okColor = "2"

	status := "ok"
	title := pageTitle(res.Outcome)
	if res.Failed() {
		status = "error"
		title = strings.TrimPrefix(res.Outcome, errorPrefix)
	}
	if title == "" {
		title = "-"
	}
	// Truncate on runes so a multibyte title is never split mid-sequence.
	if runes := []rune(title); len(runes) > 60 {
		title = string(runes[:57]) + "..."
	}

	if opts.ColorEnabled {
		color := okColor
		if res.Failed() {
			color = errColor
		}
		status = output.String(status).Foreground(output.Color(color)).String()
	}

	return []string{res.URL, status, title}
}

func pageTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
