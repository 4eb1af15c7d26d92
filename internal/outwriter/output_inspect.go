package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteInspectResult outputs the analysis of one file, dispatching on the configured output format.
func WriteInspectResult(result schema.InspectResult, cfg *contract.Config, duration time.Duration) error {
	if handled, err := writeStructured(cfg, result); handled {
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
		return nil
	}

	if cfg.Output == schema.CSVOut {
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInspectCSV(w, result)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if err := writeInspectTable(w, result); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Inspection completed in %v\n", duration)
		return err
	}, "Wrote table")
}

// inspectFacts flattens the result into ordered key/value pairs.
func inspectFacts(result schema.InspectResult) [][2]string {
	snap := result.Snapshot
	facts := [][2]string{
		{"path", result.Path},
		{"ref", result.Ref},
		{"commit", result.Commit},
		{"type", snap.Type},
		{"language", snap.Language},
		{"purposes", schema.JoinTags(snap.Purposes)},
		{"description", snap.Description},
		{"lines", strconv.Itoa(snap.Structure.Lines)},
		{"complexity", strconv.Itoa(snap.Complexity)},
		{"functions", strings.Join(snap.FunctionNames(), ", ")},
		{"classes", strings.Join(snap.ClassNames(), ", ")},
		{"dependencies", strings.Join(snap.Dependencies, ", ")},
		{"characteristics", strings.Join(snap.Characteristics, ", ")},
	}
	if st := result.Static; st != nil {
		facts = append(facts,
			[2]string{"code_lines", strconv.Itoa(st.Metrics.CodeLines)},
			[2]string{"cyclomatic", strconv.Itoa(st.Complexity.Cyclomatic)},
			[2]string{"cognitive", strconv.Itoa(st.Complexity.Cognitive)},
			[2]string{"nesting", strconv.Itoa(st.Complexity.Nesting)},
			[2]string{"quality", fmt.Sprintf("%d (%s)", st.Quality.Score, st.Quality.Grade)},
		)
		for _, t := range schema.AllIssueTypes {
			facts = append(facts, [2]string{"issues_" + string(t), strconv.Itoa(len(st.Issues.ByType(t)))})
		}
	}
	return facts
}

func writeInspectTable(w io.Writer, result schema.InspectResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})
	var data [][]string
	for _, f := range inspectFacts(result) {
		data = append(data, []string{f[0], orDash(f[1])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if result.Static == nil {
		return nil
	}
	for _, t := range schema.AllIssueTypes {
		for _, issue := range result.Static.Issues.ByType(t) {
			label := contract.GetColorImpactLabel(schema.ImpactLevel(issue.Severity))
			var err error
			if issue.Line > 0 {
				_, err = fmt.Fprintf(w, "  [%s] %s: %s (line %d)\n", label, t, issue.Message, issue.Line)
			} else {
				_, err = fmt.Fprintf(w, "  [%s] %s: %s\n", label, t, issue.Message)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeInspectCSV(w io.Writer, result schema.InspectResult) error {
	return writeCSVWithHeader(w, []string{"field", "value"}, func(cw *csv.Writer) error {
		for _, f := range inspectFacts(result) {
			if err := cw.Write(f[:]); err != nil {
				return err
			}
		}
		return nil
	})
}
