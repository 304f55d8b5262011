package main

import "time"

// Config is the container for cli configuration, read from environment.
type Config struct {
	// GithubAPIAddress - address for rest api with protocol
	GithubAPIAddress string `split_words:"true" default:"https://api.github.com"`

	// GithubAPIToken - auth token for rest github api (optional, rate limit is lower without this token)
	GithubAPIToken string `envconfig:"GITHUB_TOKEN" default:""`

	// GithubAPIRateLimit - max frequency for github rest api calls per second. Not positive value disables limit.
	GithubAPIRateLimit float64 `split_words:"true" default:"10"`

	// GithubTimeout - timeout for single github api call
	GithubTimeout time.Duration `split_words:"true" default:"30s"`

	// MaxConcurrency - maximum number of concurrent tasks in each fan-out. 0 means no limit.
	MaxConcurrency int `split_words:"true" default:"16"`

	// TopContributors - number of top contributors used for share computation
	TopContributors int `split_words:"true" default:"25"`

	// Boundary - share above which project is reported
	Boundary float64 `default:"0.75"`

	// ReportTimeout - maximum duration of the whole report
	ReportTimeout time.Duration `split_words:"true" default:"5m"`
}
