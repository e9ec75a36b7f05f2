// Package report renders and persists finished analysis results. It is
// deliberately dumb I/O glue around fishbone.Result.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"fishbone/internal/fishbone"
	"fishbone/internal/util/jsonutil"
)

// Filename returns the default artifact name for a result produced at t.
func Filename(t time.Time) string {
	return "fishbone_analysis_" + t.Format("20060102_150405") + ".json"
}

// Save writes res as UTF-8 JSON with two-space indentation and non-ASCII
// characters preserved unescaped. An empty path picks a timestamped default
// name in the current directory. The written path is returned.
func Save(res fishbone.Result, path string) (string, error) {
	if path == "" {
		path = Filename(time.Now())
	}
	b, err := jsonutil.MarshalNoEscapeIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Render writes a tree view of the causes and their "why" chains. Categories
// print in sorted order; within a category the identified order is kept.
func Render(w io.Writer, res fishbone.Result) {
	line := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\nFISHBONE ANALYSIS: %s\n%s\n", line, res.Effect, line)

	cats := make([]string, 0, len(res.Causes))
	for cat := range res.Causes {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	hasResults := false
	for _, cat := range cats {
		causes := res.Causes[cat]
		if len(causes) == 0 {
			continue
		}
		hasResults = true
		fmt.Fprintf(w, "\n%s:\n", cat)
		for _, cause := range causes {
			fmt.Fprintf(w, "   ├── %s\n", cause)
			whys := res.RootCauses[cat][cause]
			for i, why := range whys {
				connector := "├──"
				if i == len(whys)-1 {
					connector = "└──"
				}
				fmt.Fprintf(w, "   │   %s Why? %s\n", connector, why)
			}
		}
	}
	if !hasResults {
		fmt.Fprintln(w, "\nNo causes identified. Check your API key and try again.")
	}

	fmt.Fprintf(w, "\nCompleted at: %s\n%s\n", res.Metadata.Timestamp, strings.Repeat("-", 80))
}
