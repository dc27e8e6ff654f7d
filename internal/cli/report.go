package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"html"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/filecompare/pkg/models"
)

// NewReportCommand builds the `report --input <jsonl> --html <out>`
// subcommand: it renders a previously persisted results.jsonl stream
// into a static HTML table, independent of any live comparison run.
func NewReportCommand() *cobra.Command {
	var input, htmlOut string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a persisted results.jsonl stream as an HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" || htmlOut == "" {
				return fmt.Errorf("--input and --html are both required")
			}
			results, err := readJSONL(input)
			if err != nil {
				return err
			}
			return writeHTMLReport(htmlOut, results)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&input, "input", "", "path to a results.jsonl file")
	cmd.Flags().StringVar(&htmlOut, "html", "", "path to write the rendered HTML report")
	return cmd
}

func readJSONL(path string) ([]models.ComparisonResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var results []models.ComparisonResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 8<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r models.ComparisonResult
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		results = append(results, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return results, nil
}

func writeHTMLReport(path string, results []models.ComparisonResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprint(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Comparison Report</title>")
	fmt.Fprint(w, "<style>table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}"+
		".identical{color:green}.different{color:#b30000}.error{color:#999}</style></head><body>\n")
	fmt.Fprintf(w, "<h1>Comparison Report</h1><p>%d pairs</p>\n", len(results))
	fmt.Fprint(w, "<table><tr><th>link_id</th><th>path_a</th><th>path_b</th><th>kind</th><th>similarity</th><th>status</th></tr>\n")

	for _, r := range results {
		status := "different"
		if r.Kind == models.KindError {
			status = "error"
		} else if r.IsIdentical() {
			status = "identical"
		}
		fmt.Fprintf(w, "<tr class=\"%s\"><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%.4f</td><td>%s</td></tr>\n",
			status,
			html.EscapeString(r.LinkID),
			html.EscapeString(r.PathA),
			html.EscapeString(r.PathB),
			html.EscapeString(string(r.Kind)),
			r.Similarity(),
			status,
		)
	}

	fmt.Fprint(w, "</table></body></html>\n")
	return nil
}
