package app

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GithubClient returns details about github projects and contributors.
//go:generate mockgen -destination mock/githubclient.go -package mock github.com/m-zajac/busfactor/internal/app GithubClient
type GithubClient interface {
	SearchProjects(ctx context.Context, query string, sort string, order string, count int) ([]Project, error)
	Contributors(ctx context.Context, project Project) ([]Contributor, error)
}

// ServiceOptions holds tunables for Service.
type ServiceOptions struct {
	// TopContributors - number of top contributors used for share computation.
	TopContributors int
	// Boundary - share above which project is reported.
	Boundary float64
	// MaxConcurrency - maximum number of projects analyzed at once. 0 means no limit.
	MaxConcurrency int
	// Timeout - maximum duration of a single report.
	Timeout time.Duration
}

// DefaultServiceOptions returns options matching bus factor defaults.
func DefaultServiceOptions() ServiceOptions {
	return ServiceOptions{
		TopContributors: DefaultTopContributors,
		Boundary:        DefaultBoundary,
		Timeout:         5 * time.Minute,
	}
}

// Service is main apps entry point. Provides all app functionality.
type Service struct {
	githubClient GithubClient
	opts         ServiceOptions
	l            logrus.FieldLogger
}

// NewService creates new Service instance.
func NewService(githubClient GithubClient, opts ServiceOptions, l logrus.FieldLogger) *Service {
	return &Service{
		githubClient: githubClient,
		opts:         opts,
		l:            l,
	}
}

// Report returns projects at risk among top `projectsCount` projects for given language by the number of stars.
// Entries are ordered by search rank.
//
// Any project failure fails the whole report.
func (s *Service) Report(ctx context.Context, language string, projectsCount int) ([]ReportEntry, error) {
	entries, _, err := s.report(ctx, language, projectsCount, false)
	return entries, err
}

// ReportWithFailures works like Report, but failing projects don't stop the report.
// They are returned in search rank order next to the entries instead.
func (s *Service) ReportWithFailures(ctx context.Context, language string, projectsCount int) ([]ReportEntry, []ProjectFailure, error) {
	return s.report(ctx, language, projectsCount, true)
}

func (s *Service) report(
	ctx context.Context,
	language string,
	projectsCount int,
	isolateFailures bool,
) ([]ReportEntry, []ProjectFailure, error) {
	if language == "" {
		return nil, nil, InvalidRequestError("language cannot be empty")
	}
	if projectsCount < 1 {
		return nil, nil, InvalidRequestError("projects count must be greater than zero")
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	// Query encoder doesn't escape values.
	query := "language:" + url.QueryEscape(language)
	projects, err := s.githubClient.SearchProjects(ctx, query, "stars", "desc", projectsCount)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieving projects: %w", err)
	}

	type result struct {
		projectID int
		risk      *RiskEntry
		err       error
	}
	results := make(chan result, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	if s.opts.MaxConcurrency > 0 {
		g.SetLimit(s.opts.MaxConcurrency)
	}
	for _, p := range projects {
		p := p
		g.Go(func() error {
			risk, err := s.analyzeProject(gctx, p)
			if err != nil {
				err = fmt.Errorf("analyzing project %s: %w", p.FullName(), err)
				if !isolateFailures {
					return err
				}
				s.l.Warnf("project %s failed: %v", p.FullName(), err)
			}
			results <- result{projectID: p.ID, risk: risk, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	close(results)

	risks := make(map[int]RiskEntry)
	failed := make(map[int]error)
	for r := range results {
		switch {
		case r.err != nil:
			failed[r.projectID] = r.err
		case r.risk != nil:
			risks[r.projectID] = *r.risk
		}
	}

	var entries []ReportEntry
	var failures []ProjectFailure
	for _, p := range projects {
		if risk, ok := risks[p.ID]; ok {
			entries = append(entries, ReportEntry{Project: p, Risk: risk})
		}
		if err, ok := failed[p.ID]; ok {
			failures = append(failures, ProjectFailure{Project: p, Err: err})
		}
	}

	return entries, failures, nil
}

func (s *Service) analyzeProject(ctx context.Context, p Project) (*RiskEntry, error) {
	contributors, err := s.githubClient.Contributors(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("retrieving contributors: %w", err)
	}
	if len(contributors) == 0 {
		s.l.Debugf("project %s has no contributors, skipping", p.FullName())
		return nil, nil
	}

	risk, err := Analyze(p.ID, contributors, s.opts.TopContributors, s.opts.Boundary)
	if err != nil {
		return nil, err
	}
	if risk != nil {
		s.l.Infof("project %s at risk: %s has %.2f share", p.FullName(), risk.TopLogin, risk.Share)
	} else {
		s.l.Debugf("project %s analyzed, %d contributors", p.FullName(), len(contributors))
	}

	return risk, nil
}
