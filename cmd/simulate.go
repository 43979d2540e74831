package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizcat/internal/bank"
	"github.com/abhisek/quizcat/internal/engine"
	"github.com/abhisek/quizcat/internal/mastery"
	"github.com/abhisek/quizcat/internal/registry"
	"github.com/abhisek/quizcat/internal/sim"
	"github.com/abhisek/quizcat/internal/store"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an adaptive session with a simulated learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		bankPath, _ := cmd.Flags().GetString("bank")
		ability, _ := cmd.Flags().GetFloat64("ability")
		seconds, _ := cmd.Flags().GetFloat64("seconds")
		scriptPath, _ := cmd.Flags().GetString("script")
		maxQuestions, _ := cmd.Flags().GetInt("max")
		record, _ := cmd.Flags().GetBool("record")
		showSteps, _ := cmd.Flags().GetBool("steps")

		if cmd.Flags().Changed("ability") && scriptPath != "" {
			return errors.New("--ability and --script are mutually exclusive")
		}

		b, err := bank.Load(bankPath)
		if err != nil {
			return err
		}

		var learner sim.Learner = sim.ThresholdLearner{Ability: ability, Seconds: seconds}
		if scriptPath != "" {
			learner, err = sim.LoadScript(scriptPath)
			if err != nil {
				return err
			}
		}

		cfg, err := b.EngineConfig(appCfg.EngineConfig())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed, _ = cmd.Flags().GetUint64("seed")
		}

		trackMastery := appCfg.Engine.Mastery
		if cmd.Flags().Changed("mastery") {
			trackMastery, _ = cmd.Flags().GetBool("mastery")
		}
		var engOpts []engine.Option
		if trackMastery {
			tracker, err := mastery.NewTracker(mastery.DefaultConfig(), log)
			if err != nil {
				return err
			}
			engOpts = append(engOpts, engine.WithTracker(tracker))
		}

		reg := registry.New(registry.WithLogger(log))
		id, err := reg.Start(b.Name, b.Questions(), cfg, engOpts...)
		if err != nil {
			return err
		}

		var tr sim.Transcript
		runErr := reg.Do(id, func(e *engine.Engine) error {
			var err error
			tr, err = sim.Run(e, b, learner, maxQuestions)
			return err
		})
		out, err := reg.Finish(id)
		if err != nil {
			return err
		}
		if runErr != nil {
			return fmt.Errorf("simulate: %w", runErr)
		}
		log.Debug("simulation stopped", zap.String("session", id), zap.String("reason", string(tr.Stopped)))

		r := renderer(cmd)
		w := cmd.OutOrStdout()
		if showSteps {
			fmt.Fprintln(w, r.Steps(tr.Steps))
		}
		fmt.Fprint(w, r.Outcome(out, cfg))

		if !record {
			return nil
		}
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.ResultRepo().Save(cmd.Context(), resultFromOutcome(out)); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nRecorded session %s\n", out.SessionID)
		return nil
	},
}

func resultFromOutcome(o registry.Outcome) store.Result {
	return store.Result{
		ID:              o.SessionID,
		Bank:            o.Bank,
		Total:           o.Progress.Total,
		Correct:         o.Progress.Correct,
		Percentage:      o.Progress.Percentage,
		FinalDifficulty: o.FinalDifficulty,
		Confidence:      o.Confidence,
		ExpectedScore:   o.Prediction.ExpectedScore,
		Message:         o.Feedback.Message,
		FinishedAt:      o.FinishedAt,
	}
}

func init() {
	simulateCmd.Flags().String("bank", "", "Question bank file (YAML or JSON)")
	simulateCmd.Flags().Float64("ability", 5, "Threshold learner ability: answers correctly at or below this difficulty")
	simulateCmd.Flags().Float64("seconds", 20, "Seconds the threshold learner spends per question")
	simulateCmd.Flags().String("script", "", "YAML script of scripted answers (replaces the threshold learner)")
	simulateCmd.Flags().Int("max", 0, "Stop after this many questions (0 = until the bank is exhausted)")
	simulateCmd.Flags().Uint64("seed", 0, "Seed for learning-pattern classification (overrides engine.seed)")
	simulateCmd.Flags().Bool("mastery", true, "Track per-objective mastery (overrides engine.mastery)")
	simulateCmd.Flags().Bool("record", false, "Record the outcome in the history database")
	simulateCmd.Flags().Bool("steps", true, "Print one line per served question")
	_ = simulateCmd.MarkFlagRequired("bank")
}
