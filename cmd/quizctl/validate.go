package main

import (
	"github.com/spf13/cobra"

	"github.com/nyashahama/quiz-result-engine/internal/quiz"
)

//nolint:gochecknoglobals // Cobra boilerplate
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate a quiz definition",
	Long: `Parses the --quiz file, compiles every rule and checks that rules, questions
and the domain map only reference declared scales.

Examples:
  quizctl validate --quiz quizzes/attachment.yaml`,
	RunE: runValidate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) (err error) {
	var def *quiz.Definition
	def, err = loadQuiz()
	if err != nil {
		return err
	}

	printf(cmd, "ok %s v%d: %d questions, %d scales, %d rules\n",
		def.ID, def.Version, len(def.Questions), len(def.Scales), len(def.Rules))
	return err
}
