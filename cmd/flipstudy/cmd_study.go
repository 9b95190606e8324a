package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nvandessel/flipstudy/internal/config"
	"github.com/nvandessel/flipstudy/internal/export"
	"github.com/nvandessel/flipstudy/internal/logging"
	"github.com/nvandessel/flipstudy/internal/sanitize"
	"github.com/nvandessel/flipstudy/internal/session"
	"github.com/nvandessel/flipstudy/internal/spacing"
	"github.com/nvandessel/flipstudy/internal/vocab"
)

// studyResult is the --json summary of a study run.
type studyResult struct {
	SessionID   string `json:"session_id"`
	Trials      int    `json:"trials"`
	Correct     int    `json:"correct"`
	New         int    `json:"new"`
	Flipped     int    `json:"flipped"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	StopReason  string `json:"stop_reason"`
	ExportPath  string `json:"export_path"`
	TestPath    string `json:"test_path,omitempty"`
	TestCorrect int    `json:"test_correct,omitempty"`
	TestTotal   int    `json:"test_total,omitempty"`
}

func newStudyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Run an interactive study session",
		Long: `Run a timed study session over a word list.

The word list is a .csv or .xlsx file whose rows are either question,answer
or id,question,answer. The session ends at the time limit, the trial limit,
end of input or when 'exit' is typed. The response log is then written to
--out (.csv, .jsonl, .db or .sqlite).`,
		Example: `  flipstudy study --file words.csv --time 5
  flipstudy study -F words.xlsx -R 40 --out runs/session.db --test`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyStudyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runStudy(cmd, cfg)
		},
	}

	cmd.Flags().StringP("file", "F", "", "Word list to study (.csv or .xlsx)")
	cmd.Flags().IntP("time", "T", 0, "Session length in minutes (default from config: 10)")
	cmd.Flags().IntP("limit", "L", 0, "Maximum number of words to load")
	cmd.Flags().IntP("trials", "R", 0, "Maximum number of trials")
	cmd.Flags().StringP("out", "o", "", "Export path for the response log")
	cmd.Flags().Bool("test", false, "Run a test over the studied words after the session")
	cmd.Flags().Float64("test-ratio", 0, "Fraction of test questions asked in reverse")
	cmd.Flags().Int("test-max", 0, "Maximum number of test questions")
	cmd.Flags().Int64("seed", 0, "Seed for test shuffling (0 = time-based)")
	cmd.Flags().Bool("flip", true, "Enable the orientation flip policy")
	cmd.Flags().String("flip-polarity", "", "Flip when activation is 'above' or 'below' the threshold")
	cmd.Flags().Float64("flip-threshold", 0, "Activation threshold for flipping")
	cmd.MarkFlagRequired("file")

	return cmd
}

// applyStudyFlags overrides config values with explicitly set flags.
func applyStudyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("time") {
		mins, _ := flags.GetInt("time")
		cfg.Session.Duration = time.Duration(mins) * time.Minute
	}
	if flags.Changed("limit") {
		cfg.Session.FactLimit, _ = flags.GetInt("limit")
	}
	if flags.Changed("trials") {
		cfg.Session.MaxTrials, _ = flags.GetInt("trials")
	}
	if flags.Changed("out") {
		out, _ := flags.GetString("out")
		cfg.Export.Path = sanitize.FilePath(out)
	}
	if flags.Changed("test") {
		cfg.Session.Test, _ = flags.GetBool("test")
	}
	if flags.Changed("test-ratio") {
		cfg.Session.TestRatio, _ = flags.GetFloat64("test-ratio")
	}
	if flags.Changed("test-max") {
		cfg.Session.TestMax, _ = flags.GetInt("test-max")
	}
	if flags.Changed("seed") {
		cfg.Session.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("flip") {
		cfg.Flip.Enabled, _ = flags.GetBool("flip")
	}
	if flags.Changed("flip-polarity") {
		p, _ := flags.GetString("flip-polarity")
		cfg.Flip.Polarity = spacing.Polarity(p)
	}
	if flags.Changed("flip-threshold") {
		cfg.Flip.Threshold, _ = flags.GetFloat64("flip-threshold")
	}
}

func runStudy(cmd *cobra.Command, cfg *config.Config) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, jsonOut)
	if err != nil {
		return err
	}
	sessionID := uuid.NewString()
	createdAt := time.Now()
	log := logging.ForSession(logger, sessionID)

	file, _ := cmd.Flags().GetString("file")
	facts, err := vocab.Load(sanitize.FilePath(file), cfg.Session.FactLimit)
	if err != nil {
		return fmt.Errorf("loading word list: %w", err)
	}

	model, err := spacing.New(cfg.Spacing())
	if err != nil {
		return err
	}
	for _, f := range facts {
		if err := model.AddFact(f); err != nil {
			return err
		}
	}
	log.WithField("facts", len(facts)).WithField("file", file).Info("session started")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runner := session.NewRunner(ctx, model, cmd.InOrStdin(), cmd.OutOrStdout(), log, session.Options{
		Duration:  cfg.Session.Duration,
		MaxTrials: cfg.Session.MaxTrials,
	})

	sum, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	// The log is written even when the session was interrupted.
	if err := export.Write(cfg.Export.Path, model.Export(), export.Meta{
		SessionID: sessionID,
		CreatedAt: createdAt,
	}); err != nil {
		return fmt.Errorf("exporting responses: %w", err)
	}

	result := studyResult{
		SessionID:  sessionID,
		Trials:     sum.Trials,
		Correct:    sum.Correct,
		New:        sum.New,
		Flipped:    sum.Flipped,
		ElapsedMs:  sum.Elapsed.Milliseconds(),
		StopReason: string(sum.Reason),
		ExportPath: cfg.Export.Path,
	}

	if cfg.Session.Test && sum.Reason != session.StopCanceled && sum.Reason != session.StopEOF {
		questions := model.TestQuestions(cfg.Session.TestRatio, cfg.Session.TestMax)
		results, err := runner.RunTest(ctx, questions)
		if err != nil {
			log.WithError(err).Warn("test interrupted")
		}
		testPath := export.TestResultsPath(cfg.Export.Path)
		if err := export.WriteTestResults(testPath, results); err != nil {
			log.WithError(err).Warn("failed to write test results")
		} else {
			result.TestPath = testPath
		}
		result.TestTotal = len(results)
		for _, r := range results {
			if r.Correct {
				result.TestCorrect++
			}
		}
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return json.NewEncoder(out).Encode(result)
	}
	fmt.Fprintf(out, "\nSession finished (%s): %d trials, %d correct, %d new words.\n",
		result.StopReason, result.Trials, result.Correct, result.New)
	fmt.Fprintf(out, "Responses written to %s\n", result.ExportPath)
	if result.TestPath != "" {
		fmt.Fprintf(out, "Test: %d/%d correct, written to %s\n", result.TestCorrect, result.TestTotal, result.TestPath)
	}
	return nil
}
