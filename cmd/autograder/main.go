// Command autograder grades a database-exercise submission against a rubric
// and exits 0 on pass, 1 on fail and 2 when nothing could be graded.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mind-engage/mindengage-autograder/internal/config"
	"github.com/mind-engage/mindengage-autograder/internal/report"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "CRITICAL: %v\n", err)
		return report.ExitLoadError
	}
	exit := report.ExitLoadError
	cmd := newRootCmd(&cfg, &exit)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "CRITICAL: %v\n", err)
		return report.ExitLoadError
	}
	return exit
}
