package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/changescope/core/algo"
	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxCommitRows caps the commit table in text output.
const maxCommitRows = 10

// WriteDiffResult outputs a branch diff analysis, dispatching on the configured output format.
func WriteDiffResult(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	if result == nil {
		return fmt.Errorf("no analysis result to write")
	}
	if handled, err := writeStructured(cfg, result); handled {
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
		return nil
	}

	ranked := algo.RankByImpact(result.Files, 0)
	if cfg.Output == schema.CSVOut {
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDiffCSV(w, ranked)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeDiffText(w, result, ranked, cfg, duration)
	}, "Wrote table")
}

// diffCSVHeader is the column layout of the CSV rendering.
var diffCSVHeader = []string{
	"rank", "path", "old_path", "status", "language", "additions", "deletions",
	"impact_score", "impact_level", "complexity", "quality_score", "grade", "issues",
}

// writeDiffCSV writes one row per changed file in impact order.
func writeDiffCSV(w io.Writer, ranked []schema.FileChangeRecord) error {
	return writeCSVWithHeader(w, diffCSVHeader, func(cw *csv.Writer) error {
		for i := range ranked {
			r := &ranked[i]
			impact := r.Impact()
			complexity, quality, grade, issues := "", "", "", ""
			if snap := r.Snapshot(); snap != nil {
				complexity = strconv.Itoa(snap.Complexity)
			}
			if st := r.Static(); st != nil {
				quality = strconv.Itoa(st.Quality.Score)
				grade = st.Quality.Grade
				issues = strconv.Itoa(st.Issues.Total())
			}
			oldPath := ""
			if rc, ok := r.Change.(schema.RenamedChange); ok {
				oldPath = rc.OldPath
			}
			rec := []string{
				strconv.Itoa(i + 1),
				r.Path,
				oldPath,
				string(r.Status()),
				r.Language,
				strconv.Itoa(r.Additions),
				strconv.Itoa(r.Deletions),
				strconv.Itoa(impact.Score),
				string(impact.Level),
				complexity,
				quality,
				grade,
				issues,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDiffText renders the human-readable report: summary, file table, commits and insights.
func writeDiffText(w io.Writer, result *schema.AnalysisResult, ranked []schema.FileChangeRecord, cfg *contract.Config, duration time.Duration) error {
	s := result.Summary
	if _, err := fmt.Fprintf(w, "Comparing %s (%s) against %s (%s)\n",
		s.SourceRef, shortHash(s.SourceCommit), s.TargetRef, shortHash(s.TargetCommit)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Files changed: %d (+%d / -%d) | %s | Commits: %d\n\n",
		s.FilesChanged, s.Insertions, s.Deletions, formatStatusCounts(s.StatusCounts), s.CommitCount); err != nil {
		return err
	}

	shown := ranked
	if cfg.ResultLimit > 0 && len(shown) > cfg.ResultLimit {
		shown = shown[:cfg.ResultLimit]
	}
	if err := writeFileTable(w, shown, cfg); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing top %d of %d files by impact\n", len(shown), len(ranked)); err != nil {
		return err
	}

	if err := writeCommitSection(w, result.Commits); err != nil {
		return err
	}
	if err := writeInsightSection(w, result.Insights); err != nil {
		return err
	}

	m := result.Metrics
	if m.AnalyzedFiles > 0 {
		if _, err := fmt.Fprintf(w, "\nAnalyzed %d files: avg complexity %.2f, avg quality %.2f, %d high-complexity, %d test files\n",
			m.AnalyzedFiles, m.AverageComplexity, m.AverageQuality, m.HighComplexityFiles, m.TestFiles); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}

// writeFileTable renders the ranked file table.
func writeFileTable(w io.Writer, files []schema.FileChangeRecord, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Path", "Status", "+/-", "Impact", "Level"}
	if cfg.Detail {
		headers = append(headers, "Lang", "Cplx", "Quality", "Issues")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for i := range files {
		f := &files[i]
		impact := f.Impact()
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Path, pathWidth),
			contract.GetColorStatusLabel(f.Status()),
			fmt.Sprintf("+%d/-%d", f.Additions, f.Deletions),
			strconv.Itoa(impact.Score),
			contract.GetColorImpactLabel(impact.Level),
		}
		if cfg.Detail {
			complexity, quality, issues := "-", "-", "-"
			grade := ""
			if snap := f.Snapshot(); snap != nil {
				complexity = strconv.Itoa(snap.Complexity)
			}
			if st := f.Static(); st != nil {
				quality = strconv.Itoa(st.Quality.Score)
				grade = st.Quality.Grade
				issues = strconv.Itoa(st.Issues.Total())
			}
			if grade != "" {
				quality += " " + contract.GetColorGradeLabel(grade)
			}
			row = append(row, orDash(f.Language), complexity, quality, issues)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCommitSection prints the commit breakdown and the latest commits.
func writeCommitSection(w io.Writer, agg schema.CommitAggregation) error {
	if agg.Total == 0 {
		_, err := fmt.Fprintln(w, "\nNo commits unique to the source ref")
		return err
	}
	if _, err := fmt.Fprintf(w, "\nCommits: %d | Types: %s\n", agg.Total, formatTypeCounts(agg.ByType)); err != nil {
		return err
	}

	authors := schema.SortedAuthors(agg.ByAuthor)
	parts := make([]string, 0, len(authors))
	for _, name := range authors {
		parts = append(parts, fmt.Sprintf("%s (%d)", schema.AbbreviateName(name), agg.ByAuthor[name].Count))
	}
	if _, err := fmt.Fprintf(w, "Authors: %s\n", strings.Join(parts, ", ")); err != nil {
		return err
	}
	for _, p := range agg.Patterns {
		if _, err := fmt.Fprintf(w, "Pattern: %s (%.0f%%)\n", p.Description, p.Ratio*100); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Hash", "Author", "Type", "Message"})
	var data [][]string
	for i, c := range agg.Commits {
		if i == maxCommitRows {
			break
		}
		data = append(data, []string{c.ShortHash, schema.AbbreviateName(c.Author), string(c.Type), firstLine(c.Message)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeInsightSection lists the insights with their paths.
func writeInsightSection(w io.Writer, insights []schema.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nInsights:"); err != nil {
		return err
	}
	for _, in := range insights {
		label := contract.GetColorImpactLabel(schema.ImpactLevel(in.Severity))
		if _, err := fmt.Fprintf(w, "  [%s] %s\n", label, in.Message); err != nil {
			return err
		}
		for _, p := range in.Paths {
			if _, err := fmt.Fprintf(w, "    - %s\n", p); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatStatusCounts(counts map[schema.FileStatus]int) string {
	order := []schema.FileStatus{schema.StatusAdded, schema.StatusModified, schema.StatusDeleted, schema.StatusRenamed}
	parts := make([]string, 0, len(order))
	for _, st := range order {
		parts = append(parts, fmt.Sprintf("%s %d", st, counts[st]))
	}
	return strings.Join(parts, ", ")
}

// formatTypeCounts orders commit types by count, then name.
func formatTypeCounts(byType map[schema.CommitType]int) string {
	types := make([]schema.CommitType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if byType[types[i]] != byType[types[j]] {
			return byType[types[i]] > byType[types[j]]
		}
		return types[i] < types[j]
	})
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s=%d", t, byType[t]))
	}
	return strings.Join(parts, ", ")
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimSpace(line)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
