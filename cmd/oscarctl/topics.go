package main

import (
	"fmt"
	"io"

	"oscar/internal/oscar"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List categories and subcategories with their fact counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := loadEngine(knowledgePath)
		if err != nil {
			return err
		}
		return runTopics(cmd.OutOrStdout(), engine)
	},
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(w io.Writer, engine *oscar.Engine) error {
	for _, topic := range engine.Topics() {
		fmt.Fprintln(w, topic.Category)
		for _, sub := range topic.Subcategories {
			fmt.Fprintf(w, "  %s (%d)\n", sub.Name, sub.Facts)
		}
	}
	return nil
}
