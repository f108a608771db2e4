package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Score the search corpus against a query",
		Example: `  neeklo search telegram бот`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := opts.loadIndex()
			if err != nil {
				return err
			}
			hits := idx.Search(strings.Join(args, " "))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), hits)
			}
			if len(hits) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no results; try: %s\n", strings.Join(idx.Suggestions(), ", "))
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCORE\tID\tTITLE\tHREF")
			for _, h := range hits {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", h.Score, h.Record.ID, h.Record.Title, h.Record.Href)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print hits as JSON")
	return cmd
}
