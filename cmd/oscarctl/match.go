package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"oscar/internal/oscar"

	"github.com/spf13/cobra"
)

var (
	matchJSON bool
)

var matchCmd = &cobra.Command{
	Use:   "match [query...]",
	Short: "List the facts a query matches, best first",
	Long:  `Match prints every fact the query hits with its score. Use --json for machine-readable output.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := loadEngine(knowledgePath)
		if err != nil {
			return err
		}
		return runMatch(cmd.OutOrStdout(), engine, strings.Join(args, " "), matchJSON)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Output in JSON format")
}

func runMatch(w io.Writer, engine *oscar.Engine, query string, asJSON bool) error {
	matches := engine.FindRelevantKnowledge(query)

	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(matches)
	}

	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "no matches")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tTOPIC\tFACT")
	for _, m := range matches {
		fmt.Fprintf(tw, "%d\t%s/%s\t%s\n", m.Score, m.Category, m.Subcategory, m.Text)
	}
	return tw.Flush()
}
