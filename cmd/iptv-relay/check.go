package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load both tables, fetch every source once and report how they match",
		Long: `check loads the channel and guide correction tables, fetches the playlist
sources and the guide, and prints how the channel table matches the merged
playlist. It exits with a non-zero status when any table or source fails.`,
		Args: cobra.NoArgs,
		RunE: a.runCheck,
	}
}

func (a *app) runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := a.newLogger(cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	svc, err := buildServices(a.cfg, logger)
	if err != nil {
		return err
	}

	report, err := svc.channels.Report(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "playlist sources: %d\n", report.Sources)
	fmt.Fprintf(out, "merged channels: %d\n", report.Merged)
	fmt.Fprintf(out, "selected channels: %d\n", report.Selected)
	printNames(out, "disabled", report.Disabled)
	printNames(out, "not in table", report.Unlisted)
	printNames(out, "table entries without a channel", report.Missing)

	doc, rewritten, err := svc.guide.Corrected(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "guide channels: %d\n", len(doc.Channels()))
	fmt.Fprintf(out, "guide names rewritten: %d\n", rewritten)
	return nil
}

func printNames(w io.Writer, label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d):\n  %s\n", label, len(names), strings.Join(names, "\n  "))
}
