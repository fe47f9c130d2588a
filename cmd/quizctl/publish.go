package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver
	_ "github.com/lib/pq"              // "postgres" driver
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
)

//nolint:gochecknoglobals // Cobra boilerplate
var databaseURL string

//nolint:gochecknoglobals // Cobra boilerplate
var dbDriver string

//nolint:gochecknoglobals // Cobra boilerplate
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Validate a quiz definition and upsert it into the database",
	Long: `Validates the --quiz file and upserts it into the quizzes table. Running
servers pick up the new version on their next lookup; sessions keep
whichever version they were evaluated against.

DATABASE_URL and DB_DRIVER are read from the environment when the flags are
not given.

Examples:
  quizctl publish --quiz quizzes/attachment.yaml --database-url postgres://...`,
	RunE: runPublish,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (default $DATABASE_URL)")
	publishCmd.Flags().StringVar(&dbDriver, "driver", "", `database/sql driver: "postgres" or "pgx" (default $DB_DRIVER or "postgres")`)
}

func runPublish(cmd *cobra.Command, _ []string) (err error) {
	var def *quiz.Definition
	def, err = loadQuiz()
	if err != nil {
		return err
	}

	dsn := firstNonEmpty(databaseURL, os.Getenv("DATABASE_URL"))
	if dsn == "" {
		err = errors.New("--database-url or DATABASE_URL is required")
		return err
	}
	driver := firstNonEmpty(dbDriver, os.Getenv("DB_DRIVER"), "postgres")

	var params db.UpsertQuizParams
	params, err = def.PublishParams()
	if err != nil {
		err = errors.Wrap(err, "failed to encode definition")
		return err
	}

	var pool *sql.DB
	pool, err = sql.Open(driver, dsn)
	if err != nil {
		err = errors.Wrapf(err, "failed to open %s database", driver)
		return err
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	var row db.Quiz
	row, err = db.New(pool).UpsertQuiz(ctx, params)
	if err != nil {
		err = errors.Wrap(err, "failed to upsert quiz")
		return err
	}

	printf(cmd, "published %s v%d (%s)\n", row.ID, row.Version, row.Title)
	return err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
