package main

import (
	"fmt"
	"io"

	"oscar/internal/oscar"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check knowledge documents for errors",
	Long:  `Validate parses each file and reports every problem found. With no files it checks the built-in document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		if _, err := oscar.Default(); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "built-in document: ok")
		return err
	}

	failed := 0
	for _, path := range paths {
		if _, err := oscar.LoadFile(path); err != nil {
			failed++
			fmt.Fprintf(w, "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(w, "%s: ok\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents are invalid", failed, len(paths))
	}
	return nil
}
