package main

import (
	"fmt"
	"os"

	"oscar/internal/models"
	"oscar/internal/oscar"
	"oscar/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	knowledgePath string
	verbose       bool
	log           = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oscarctl",
	Short: "Query and maintain OSCAR knowledge documents",
	Long: `oscarctl runs OSCAR's matcher and responder locally against the built-in
knowledge document or one given with --knowledge, and validates or exports documents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		l, err := logger.New(level)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&knowledgePath, "knowledge", "k", "", "knowledge document (.yaml, .yml or .json); defaults to the built-in one")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func loadKnowledge(path string) (*models.Knowledge, error) {
	if path == "" {
		return oscar.Default()
	}
	return oscar.LoadFile(path)
}

// loadEngine builds an engine from --knowledge. Canned replies are chosen at random
// as in the server.
func loadEngine(path string) (*oscar.Engine, error) {
	kb, err := loadKnowledge(path)
	if err != nil {
		return nil, err
	}
	engine, err := oscar.NewEngine(kb)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}
	log.Debug("Knowledge loaded", zap.String("path", path), zap.String("subject", engine.Subject()))
	return engine, nil
}
