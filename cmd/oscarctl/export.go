package main

import (
	"fmt"
	"io"

	"oscar/internal/oscar"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the knowledge document to stdout",
	Long: `Export prints the document selected by --knowledge (the built-in one by default)
as yaml or json, a starting point for a custom document.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.OutOrStdout(), knowledgePath, oscar.Format(exportFormat))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(oscar.FormatYAML), "yaml or json")
}

func runExport(w io.Writer, path string, format oscar.Format) error {
	kb, err := loadKnowledge(path)
	if err != nil {
		return err
	}
	data, err := oscar.Marshal(kb, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = fmt.Fprintln(w)
	}
	return err
}
