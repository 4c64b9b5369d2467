package main

import (
	"fmt"
	"io"
	"strings"

	"oscar/internal/oscar"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Print OSCAR's reply to a question",
	Long:  `Ask joins its arguments into one query and prints the reply OSCAR would give.`,
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := loadEngine(knowledgePath)
		if err != nil {
			return err
		}
		return runAsk(cmd.OutOrStdout(), engine, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(w io.Writer, engine *oscar.Engine, query string) error {
	reply := engine.Respond(query)
	log.Debug("Reply chosen",
		zap.String("kind", string(reply.Kind)),
		zap.String("category", reply.Category),
		zap.String("subcategory", reply.Subcategory),
	)
	_, err := fmt.Fprintln(w, reply.Text)
	return err
}
