package main

import "time"

// Config is the container for app configuration
type Config struct {
	// HTTPServerAddress - listen address for http server
	HTTPServerAddress string `split_words:"true" default:"0.0.0.0:8080"`

	// HTTPProfileServerAddress - listen address for profiler http server. If empty, profiler server is disabled
	HTTPProfileServerAddress string `split_words:"true" default:""`

	// GRPCServerAddress - listen address for grpc server
	GRPCServerAddress string `split_words:"true" default:"0.0.0.0:9090"`

	// ReportTimeout - timeout for single report computation
	ReportTimeout time.Duration `split_words:"true" default:"5m"`

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

	// CacheSize - maximum number of elements in cache for each github client method
	CacheSize int `split_words:"true" default:"10000"`

	// CacheTTL - maximum lifetime for github client cache entries
	CacheTTL time.Duration `split_words:"true" default:"10m"`

	// DBPath - filepath for bolt db data. If empty, raw api responses are not stored
	DBPath string `split_words:"true" default:""`

	// DBBucketName - bolt db bucket name
	DBBucketName string `split_words:"true" default:"github"`

	// DBDataTTL - maximum lifetime for data stored in db
	DBDataTTL time.Duration `split_words:"true" default:"8h"`
}
