package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcat/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recorded session outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		bankName, _ := cmd.Flags().GetString("bank")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.ResultRepo()
		opts := store.QueryOpts{Limit: limit, Bank: bankName}

		results, err := repo.Recent(ctx, opts)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		sum, err := repo.Summarize(ctx, opts)
		if err != nil {
			return fmt.Errorf("summarize results: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), renderer(cmd).Results(results, sum))
		return nil
	},
}

var statsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded session outcome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := s.ResultRepo().ByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:          %s\n", res.ID)
		fmt.Fprintf(w, "Finished:    %s\n", res.FinishedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Bank:        %s\n", res.Bank)
		fmt.Fprintf(w, "Score:       %d/%d (%d%%)\n", res.Correct, res.Total, res.Percentage)
		fmt.Fprintf(w, "Expected:    %.1f\n", res.ExpectedScore)
		fmt.Fprintf(w, "Difficulty:  %.2f\n", res.FinalDifficulty)
		fmt.Fprintf(w, "Confidence:  %.2f\n", res.Confidence)
		fmt.Fprintf(w, "Feedback:    %s\n", res.Message)
		return nil
	},
}

var statsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent recorded outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.ResultRepo().Prune(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d recorded sessions.\n", n)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 20, "Maximum number of sessions to list (0 = all)")
	statsCmd.Flags().String("bank", "", "Only show sessions for this bank")
	statsPruneCmd.Flags().Int("keep", 100, "Number of most recent sessions to keep")

	statsCmd.AddCommand(statsShowCmd)
	statsCmd.AddCommand(statsPruneCmd)
}
