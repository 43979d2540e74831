package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcat/internal/bank"
	"github.com/abhisek/quizcat/internal/engine"
)

var validateCmd = &cobra.Command{
	Use:   "validate <bank-file>...",
	Short: "Check question bank files against the bank schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := renderer(cmd)
		w := cmd.OutOrStdout()

		failed := 0
		for _, path := range args {
			b, err := bank.Load(path)
			var cfg engine.Config
			if err == nil {
				cfg, err = b.EngineConfig(appCfg.EngineConfig())
			}
			if err != nil {
				failed++
				fmt.Fprintf(w, "✗ %s\n  %v\n\n", path, err)
				continue
			}
			fmt.Fprintf(w, "✓ %s\n", path)
			fmt.Fprintln(w, r.Bank(b, cfg))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d bank files invalid", failed, len(args))
		}
		return nil
	},
}
