package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"znkr.io/xmldiff"
	"znkr.io/xmldiff/encode"
	"znkr.io/xmldiff/filter"
	"znkr.io/xmldiff/registry"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all encoders, filters, and matchers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			listEntries(w, "encoders", encode.Registry.Entries(), encode.Default)
			listEntries(w, "filters", filter.Registry.Entries(), filter.Default)
			listEntries(w, "matchers", xmldiff.Matchers.Entries(), xmldiff.DefaultMatcher)
			return nil
		},
	}
}

func listEntries(w io.Writer, title string, entries []registry.Entry, def string) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, e := range entries {
		line := "  " + e.Identity
		if len(e.Aliases) > 0 {
			line += " (" + strings.Join(e.Aliases, ", ") + ")"
		}
		if e.Identity == def || slices.Contains(e.Aliases, def) {
			line += " [default]"
		}
		fmt.Fprintln(w, line)
	}
}
