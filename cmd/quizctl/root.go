package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nyashahama/quiz-result-engine/internal/quiz"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var quizFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "quizctl",
	Short: "Validate, evaluate and publish quiz definitions",
	Long: `quizctl works on quiz definition files (JSON or YAML, picked by extension).

It checks definitions before they are published, runs the result engine over
a local answers file, and upserts definitions into the service database.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine stages to stderr")
	rootCmd.PersistentFlags().StringVar(&quizFile, "quiz", "", "quiz definition file (.json, .yaml or .yml)")
}

// loadQuiz reads, parses and validates the --quiz file.
func loadQuiz() (def *quiz.Definition, err error) {
	if quizFile == "" {
		err = errors.New("--quiz is required")
		return def, err
	}

	var data []byte
	data, err = os.ReadFile(quizFile)
	if err != nil {
		err = errors.Wrap(err, "failed to read quiz file")
		return def, err
	}

	def, err = quiz.Parse(data, quiz.FormatFromPath(quizFile))
	if err != nil {
		err = errors.Wrapf(err, "failed to parse %s", quizFile)
		return def, err
	}

	err = def.Validate()
	if err != nil {
		err = errors.Wrapf(err, "%s is not a valid quiz", quizFile)
		return def, err
	}
	return def, err
}

// cliLogger writes to stderr when --verbose is set and discards otherwise.
func cliLogger() *slog.Logger {
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
