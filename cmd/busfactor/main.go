// Package main implements cli printing projects with a dominant contributor
// among the most starred github projects for given language.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/m-zajac/busfactor/internal/adapter/github"
	"github.com/m-zajac/busfactor/internal/api/http/limiter"
	"github.com/m-zajac/busfactor/internal/app"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var conf Config
	if err := envconfig.Process("", &conf); err != nil {
		fmt.Fprintf(os.Stderr, "couldn't parse config: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(conf).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func newRootCmd(conf Config) *cobra.Command {
	var (
		language        string
		projectCount    int
		isolateFailures bool
		verbose         bool
	)

	cmd := &cobra.Command{
		Use:          "busfactor",
		Short:        "Finds most starred github projects with a single dominant contributor",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := logrus.New()
			l.Out = cmd.ErrOrStderr()
			l.Level = logrus.InfoLevel
			if verbose {
				l.Level = logrus.DebugLevel
			}

			service := newService(conf, l)
			return runReport(cmd.Context(), service, language, projectCount, isolateFailures, cmd.OutOrStdout(), l)
		},
	}

	cmd.Flags().StringVar(&language, "language", "rust", "programming language of projects")
	cmd.Flags().IntVar(&projectCount, "project_count", 50, "number of most starred projects to analyze")
	cmd.Flags().BoolVar(&isolateFailures, "isolate_failures", false, "report failing projects instead of aborting")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return cmd
}

func newService(conf Config, l logrus.FieldLogger) *app.Service {
	httpClient := &http.Client{
		Timeout: conf.GithubTimeout,
	}
	limitedHTTPClient := limiter.NewHTTPDoer(
		httpClient,
		conf.GithubAPIRateLimit,
		conf.MaxConcurrency,
	)

	githubClient := github.NewClient(
		limitedHTTPClient,
		conf.GithubAPIAddress,
		conf.GithubAPIToken,
		conf.MaxConcurrency,
	)

	return app.NewService(
		githubClient,
		app.ServiceOptions{
			TopContributors: conf.TopContributors,
			Boundary:        conf.Boundary,
			MaxConcurrency:  conf.MaxConcurrency,
			Timeout:         conf.ReportTimeout,
		},
		l.WithField("component", "service"),
	)
}

func runReport(
	ctx context.Context,
	service *app.Service,
	language string,
	projectCount int,
	isolateFailures bool,
	out io.Writer,
	l logrus.FieldLogger,
) error {
	if !isolateFailures {
		entries, err := service.Report(ctx, language, projectCount)
		if err != nil {
			l.Errorf("report failed: %v", err)
			return err
		}
		return printReport(out, entries)
	}

	entries, failures, err := service.ReportWithFailures(ctx, language, projectCount)
	if err != nil {
		l.Errorf("report failed: %v", err)
		return err
	}
	for _, f := range failures {
		l.Errorf("project %s failed: %v", f.Project.FullName(), f.Err)
	}
	return printReport(out, entries)
}

func printReport(out io.Writer, entries []app.ReportEntry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(out, "project: %-15suser: %-15spercentage: %.2f\n", e.Project.Name, e.Risk.TopLogin, e.Risk.Share); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
