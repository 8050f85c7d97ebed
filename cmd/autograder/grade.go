package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-autograder/internal/config"
	"github.com/mind-engage/mindengage-autograder/internal/db"
	"github.com/mind-engage/mindengage-autograder/internal/grading"
	"github.com/mind-engage/mindengage-autograder/internal/report"
	"github.com/mind-engage/mindengage-autograder/internal/rubric"
	"github.com/mind-engage/mindengage-autograder/internal/storage"
)

// newRootCmd builds the CLI. Flags default to the values already loaded from
// the environment, so a flag always wins over its GRADER_* variable.
func newRootCmd(cfg *config.Config, exit *int) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:           "autograder",
		Short:         "Grade a database-exercise submission against a rubric",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Format = config.Format(format)
			code, err := grade(cmd.Context(), *cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			*exit = code
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfg.SubmissionPath, "submission", "s", cfg.SubmissionPath, "path to the submission file")
	f.StringVarP(&cfg.RubricPath, "rubric", "r", cfg.RubricPath, "rubric YAML file (default: built-in HR lab rubric)")
	f.StringVar(&cfg.StoreDriver, "store-driver", cfg.StoreDriver, "data store driver: mongo, postgres or sqlite")
	f.StringVar(&cfg.StoreDSN, "store-dsn", cfg.StoreDSN, "data store connection string (default depends on driver)")
	f.StringVar(&cfg.StoreDatabase, "store-database", cfg.StoreDatabase, "database name (mongo)")
	f.DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "data store connect timeout (0 disables)")
	f.StringVarP(&format, "format", "f", string(cfg.Format), "report format: text or json")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	return cmd
}

// grade runs one grading pass and returns the exit status. A non-nil error
// means configuration was unusable; a missing submission is reported on
// stderr and returned as ExitLoadError with no report.
func grade(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) (int, error) {
	if err := cfg.Validate(); err != nil {
		return report.ExitLoadError, err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	rb, err := rubric.Load(cfg.RubricPath)
	if err != nil {
		return report.ExitLoadError, err
	}
	formatter, err := report.For(string(cfg.Format))
	if err != nil {
		return report.ExitLoadError, err
	}

	files := storage.NewFSStore("")
	src := grading.SourceFunc(func(context.Context) (string, error) {
		return files.ReadText(cfg.SubmissionPath)
	})
	dialer := db.Dialer{
		Driver:   db.Driver(cfg.StoreDriver),
		DSN:      cfg.StoreDSN,
		Database: cfg.StoreDatabase,
		Timeout:  cfg.ConnectTimeout,
	}
	engine := grading.NewEngine(rb, src,
		grading.WithLogger(logger),
		grading.WithDialer(grading.DialerFunc(func(ctx context.Context) (grading.Store, error) {
			s, err := dialer.Dial(ctx)
			if err != nil {
				return nil, err
			}
			return s, nil
		})),
	)

	rep, err := engine.Run(ctx)
	var loadErr *grading.LoadError
	if errors.As(err, &loadErr) {
		fmt.Fprintf(stderr, "CRITICAL: %s could not be read: %v\n", cfg.SubmissionPath, loadErr.Err)
		return report.ExitLoadError, nil
	}
	if err != nil {
		return report.ExitLoadError, err
	}
	if err := formatter.Format(stdout, rep); err != nil {
		return report.ExitLoadError, fmt.Errorf("write report: %w", err)
	}
	return report.ExitCode(rep), nil
}
