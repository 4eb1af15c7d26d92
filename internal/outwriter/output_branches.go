package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
)

// WriteBranchList outputs the local branches, dispatching on the configured output format.
func WriteBranchList(list schema.BranchList, cfg *contract.Config, duration time.Duration) error {
	if handled, err := writeStructured(cfg, list); handled {
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
		return nil
	}

	if cfg.Output == schema.CSVOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"branch"}, func(cw *csv.Writer) error {
				for _, b := range list.Branches {
					if err := cw.Write([]string{b}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		for _, b := range list.Branches {
			if _, err := fmt.Fprintln(w, b); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "Found %d branches in %s (%v)\n", len(list.Branches), list.RepoPath, duration)
		return err
	}, "Wrote list")
}
