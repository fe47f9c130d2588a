package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
)

//nolint:gochecknoglobals // Cobra boilerplate
var answersFile string

//nolint:gochecknoglobals // Cobra boilerplate
var pretty bool

//nolint:gochecknoglobals // Cobra boilerplate
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the result engine over an answers file",
	Long: `Maps the selections in --answers through the quiz's domain map, runs the
result engine and prints the ResultSummary as JSON, audit trail included.

The answers file is a list of {question_id, option_id} objects in JSON or YAML.
Inputs the engine rejects (no answers, no scales) exit with status 1.

Examples:
  quizctl evaluate --quiz quizzes/attachment.yaml --answers answers.json --pretty`,
	RunE: runEvaluate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&answersFile, "answers", "", "answers file (.json, .yaml or .yml)")
	evaluateCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
}

func runEvaluate(cmd *cobra.Command, _ []string) (err error) {
	var def *quiz.Definition
	def, err = loadQuiz()
	if err != nil {
		return err
	}

	if answersFile == "" {
		err = errors.New("--answers is required")
		return err
	}
	var data []byte
	data, err = os.ReadFile(answersFile)
	if err != nil {
		err = errors.Wrap(err, "failed to read answers file")
		return err
	}
	var raws []engine.RawAnswer
	raws, err = quiz.DecodeAnswers(data, quiz.FormatFromPath(answersFile))
	if err != nil {
		err = errors.Wrapf(err, "failed to decode %s", answersFile)
		return err
	}

	eng := engine.New(engine.WithLogger(cliLogger()))
	var summary engine.ResultSummary
	summary, err = def.Evaluate(cmd.Context(), eng, raws)
	if err != nil {
		if engine.IsValidationError(err) {
			err = errors.Wrap(err, "engine rejected the input")
			return err
		}
		err = errors.Wrap(err, "evaluation failed")
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	err = enc.Encode(summary)
	if err != nil {
		err = errors.Wrap(err, "failed to write summary")
		return err
	}
	return err
}
