// Package main implements service exposing bus factor reports over http and grpc.
package main

import (
	"context"
	netHttp "net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/m-zajac/busfactor/internal/adapter/github"
	"github.com/m-zajac/busfactor/internal/api/grpc"
	"github.com/m-zajac/busfactor/internal/api/http"
	"github.com/m-zajac/busfactor/internal/api/http/limiter"
	"github.com/m-zajac/busfactor/internal/app"
	"github.com/m-zajac/busfactor/internal/database"
	"github.com/sirupsen/logrus"
)

func main() {
	l := logrus.New()
	l.Level = logrus.InfoLevel

	var conf Config
	if err := envconfig.Process("", &conf); err != nil {
		l.Fatalf("couldn't parse config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &netHttp.Client{
		Timeout: conf.GithubTimeout,
	}
	limitedHTTPClient := limiter.NewHTTPDoer(
		httpClient,
		conf.GithubAPIRateLimit,
		conf.MaxConcurrency,
	)

	var githubClient app.GithubClient = github.NewClient(
		limitedHTTPClient,
		conf.GithubAPIAddress,
		conf.GithubAPIToken,
		conf.MaxConcurrency,
	)

	if conf.DBPath != "" {
		kvStore, err := database.NewBoltKVStore(
			conf.DBPath,
			conf.DBBucketName,
		)
		if err != nil {
			l.Fatalf("couldn't create bolt kv store: %v", err)
		}
		defer kvStore.Close()

		githubClient = github.NewStoredClient(
			githubClient,
			kvStore,
			conf.DBDataTTL,
			l.WithField("component", "githubStoredClient"),
		)
	}

	githubCachedClient, err := github.NewCachedClient(
		githubClient,
		conf.CacheSize,
		conf.CacheTTL,
	)
	if err != nil {
		l.Fatalf("couldn't create github client cache: %v", err)
	}

	service := app.NewService(
		githubCachedClient,
		app.ServiceOptions{
			TopContributors: conf.TopContributors,
			Boundary:        conf.Boundary,
			MaxConcurrency:  conf.MaxConcurrency,
			Timeout:         conf.ReportTimeout,
		},
		l.WithField("component", "service"),
	)

	mux := http.NewMux(service, conf.ReportTimeout+10*time.Second, l.WithField("component", "mux"))
	server := http.NewServer(
		conf.HTTPServerAddress,
		conf.HTTPProfileServerAddress,
		mux,
		l.WithField("component", "httpServer"),
	)

	grpcService := grpc.NewService(service)
	grpcServer := grpc.NewServer(
		grpcService,
		conf.GRPCServerAddress,
		l.WithField("component", "grpcServer"),
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		server.Run(ctx)
		wg.Done()
	}()
	wg.Add(1)
	go func() {
		if err := grpcServer.Run(ctx); err != nil {
			l.Errorf("couldn't run grpc server: %v", err)
			cancel()
		}
		wg.Done()
	}()
	wg.Wait()
}
