package main

import (
	"fmt"
	"io"
	"strings"

	timea "github.com/caarlos0/timea.go"
	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/spf13/cobra"
)

// record saves the outcome of a probe, unless history is disabled. Failing
// to save only logs.
func record(cfg Config, flow string, res probe.Result) {
	if cfg.NoHistory || res.API == "" {
		return
	}
	db, err := dbForConfig(cfg)
	if err != nil {
		logger.Warn("could not open history", "err", err)
		return
	}
	defer db.Close() //nolint:errcheck

	r := probeRecord{
		API:        res.API,
		Model:      res.Model,
		Flow:       flow,
		OK:         res.OK(),
		FailedStep: res.FailedStep(),
		Models:     len(res.Models),
		ElapsedMS:  res.Elapsed().Milliseconds(),
	}
	if res.Err != nil {
		r.Error = res.Err.Error()
	}
	if err := db.Save(r); err != nil {
		logger.Warn("could not save history", "err", err)
	}
}

func newHistoryCmd() *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the results of previous probes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := dbForConfig(config)
			if err != nil {
				return probeError{err, "Could not open the history database."}
			}
			defer db.Close() //nolint:errcheck

			if clearAll {
				if err := db.Clear(); err != nil {
					return probeError{err, "Could not clear the history."}
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			}

			records, err := db.List(config.Limit)
			if err != nil {
				return probeError{err, "Could not list the history."}
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No probes recorded yet.")
				return nil
			}
			printHistory(cmd.OutOrStdout(), records, isOutputTTY())
			return nil
		},
	}
	cmd.Flags().IntVar(&config.Limit, "limit", 20, stdoutStyles().FlagDesc.Render(help["limit"])) //nolint:mnd
	cmd.Flags().BoolVar(&clearAll, "clear", false, stdoutStyles().FlagDesc.Render("Delete all recorded probes."))
	return cmd
}

func printHistory(w io.Writer, records []probeRecord, styled bool) {
	s := stdoutStyles()
	for _, r := range records {
		status := "ok"
		if !r.OK {
			status = "failed"
		}
		when := timea.Of(r.CreatedAt)
		line := fmt.Sprintf("%-6s %-10s %-8s %s", status, r.API, r.Flow, r.Model)
		detail := r.Elapsed().String()
		if !r.OK {
			detail = fmt.Sprintf("%s: %s", r.FailedStep, firstLine(r.Error))
		}
		if styled {
			st := s.OK
			if !r.OK {
				st = s.Failed
			}
			_, _ = fmt.Fprintf(w, "%s %s %s\n", st.Render(line), s.Comment.Render(detail), s.Timeago.Render("("+when+")"))
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", line, detail, when)
	}
}

func firstLine(s string) string {
	first, _, _ := strings.Cut(s, "\n")
	return first
}
