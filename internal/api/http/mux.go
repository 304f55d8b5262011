package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/m-zajac/busfactor/internal/app"
	"github.com/sirupsen/logrus"
)

// Service can compute bus factor reports.
//go:generate mockgen -destination mock/service.go -package mock github.com/m-zajac/busfactor/internal/api/http Service
type Service interface {
	Report(ctx context.Context, language string, projectsCount int) ([]app.ReportEntry, error)
	ReportWithFailures(ctx context.Context, language string, projectsCount int) ([]app.ReportEntry, []app.ProjectFailure, error)
}

// NewMux creates router for app's http server.
func NewMux(service Service, timeout time.Duration, l logrus.FieldLogger) *http.ServeMux {
	timeoutMiddleware := NewTimeoutMiddleware(timeout)
	loggingMiddleware := NewLoggingMiddleware(l)

	reportPath := "/busfactor/"
	reportHandler := NewReportHandler(
		func(r *http.Request) string {
			return strings.TrimPrefix(r.URL.Path, reportPath)
		},
		service,
		l,
	)
	reportHandler = loggingMiddleware(timeoutMiddleware(reportHandler))

	m := http.NewServeMux()
	m.HandleFunc(reportPath, reportHandler)
	m.HandleFunc("/healthz", NewHealthHandler())

	return m
}
