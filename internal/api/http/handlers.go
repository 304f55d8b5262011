package http

import (
	"fmt"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/m-zajac/busfactor/internal/app"
	"github.com/sirupsen/logrus"
)

const (
	defaultHandlerProjectsCountValue = 50
	maxHandlerProjectsCountValue     = 1000
)

type riskyProject struct {
	Name           string  `json:"name"`
	Owner          string  `json:"owner"`
	TopContributor string  `json:"topContributor"`
	Share          float64 `json:"share"`
}

type failedProject struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
	Error string `json:"error"`
}

type reportResponse struct {
	Language string          `json:"language"`
	Projects []riskyProject  `json:"projects"`
	Failures []failedProject `json:"failures,omitempty"`
}

func newReportResponse(language string, entries []app.ReportEntry, failures []app.ProjectFailure) reportResponse {
	projects := make([]riskyProject, 0, len(entries))
	for _, e := range entries {
		projects = append(projects, riskyProject{
			Name:           e.Project.Name,
			Owner:          e.Project.Owner.Login,
			TopContributor: e.Risk.TopLogin,
			Share:          e.Risk.Share,
		})
	}

	var failed []failedProject
	for _, f := range failures {
		failed = append(failed, failedProject{
			Name:  f.Project.Name,
			Owner: f.Project.Owner.Login,
			Error: f.Err.Error(),
		})
	}

	return reportResponse{
		Language: language,
		Projects: projects,
		Failures: failed,
	}
}

// NewReportHandler creates handlerfunc returning bus factor report.
//
// Query params: projectsCount - number of top projects to analyze,
// isolateFailures - if true, failing projects are listed in response instead of failing the request.
func NewReportHandler(
	getLanguage func(*http.Request) string,
	service Service,
	l logrus.FieldLogger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := getLanguage(r)
		projectsCount, err := getIntParam(r, "projectsCount", defaultHandlerProjectsCountValue, maxHandlerProjectsCountValue)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		isolateFailures, _ := strconv.ParseBool(r.URL.Query().Get("isolateFailures"))

		var (
			entries  []app.ReportEntry
			failures []app.ProjectFailure
		)
		if isolateFailures {
			entries, failures, err = service.ReportWithFailures(r.Context(), lang, projectsCount)
		} else {
			entries, err = service.Report(r.Context(), lang, projectsCount)
		}
		if err != nil {
			status := statusForError(err)
			if status == http.StatusInternalServerError {
				l.Errorf("report for %s failed: %v", lang, err)
				http.Error(w, "", status)
				return
			}

			l.Warnf("report for %s failed: %v", lang, err)
			http.Error(w, err.Error(), status)
			return
		}

		response := newReportResponse(lang, entries, failures)

		w.Header().Set("Content-type", "application/json; charset=utf-8")
		if err := jsoniter.ConfigFastest.NewEncoder(w).Encode(response); err != nil {
			l.Errorf("encoding report response: %v", err)
		}
	}
}

// NewHealthHandler creates handlerfunc for liveness probes.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

func statusForError(err error) int {
	switch {
	case app.IsInvalidRequestError(err):
		return http.StatusBadRequest
	case app.IsInsufficientResultsError(err):
		return http.StatusNotFound
	case app.IsTooManyRequestsError(err):
		return http.StatusTooManyRequests
	case app.IsRequestFailedError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// getIntParam returns defaultValue when param is missing.
// Values that are not integers in range [1, maxValue] are rejected.
func getIntParam(r *http.Request, name string, defaultValue int, maxValue int) (int, error) {
	vs := r.URL.Query().Get(name)
	if vs == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(vs)
	if err != nil || v < 1 || v > maxValue {
		return 0, fmt.Errorf("invalid %s param %q: must be integer in range [1, %d]", name, vs, maxValue)
	}

	return v, nil
}
