package github

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/m-zajac/busfactor/internal/app"
	"github.com/m-zajac/busfactor/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchPageJSON returns search response with n items, ids starting from first.
func searchPageJSON(first, n int) []byte {
	items := make([]string, 0, n)
	for id := first; id < first+n; id++ {
		items = append(items, fmt.Sprintf(
			`{"id": %d, "name": "project%d", "full_name": "owner%d/project%d", "owner": {"login": "owner%d", "id": %d}}`,
			id, id, id, id, id, id+100000,
		))
	}
	return []byte(`{"total_count": 409167, "incomplete_results": false, "items": [` + strings.Join(items, ",") + `]}`)
}

// contributorsPageJSON returns contributors response with n items, ids starting from first.
func contributorsPageJSON(first, n int) []byte {
	items := make([]string, 0, n)
	for id := first; id < first+n; id++ {
		items = append(items, fmt.Sprintf(
			`{"login": "user%d", "id": %d, "type": "User", "contributions": %d}`,
			id, id, 1000-id,
		))
	}
	return []byte(`[` + strings.Join(items, ",") + `]`)
}

// newSearchDoer returns doer serving `total` search results.
// Pages listed in failPages respond with given status.
func newSearchDoer(total int, failPages map[int]int) *mock.HTTPDoer {
	return &mock.HTTPDoer{
		DoFunc: func(r *http.Request) (*http.Response, error) {
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			if status, ok := failPages[page]; ok {
				return mock.NewResponse(r, status, []byte(`{"message":"Validation Failed"}`)), nil
			}
			first := (page-1)*PerPage + 1
			n := total - (page-1)*PerPage
			if n > PerPage {
				n = PerPage
			}
			if n < 0 {
				n = 0
			}
			return mock.NewResponse(r, http.StatusOK, searchPageJSON(first, n)), nil
		},
	}
}

func wantProjects(count int) []app.Project {
	ps := make([]app.Project, 0, count)
	for id := 1; id <= count; id++ {
		ps = append(ps, app.Project{
			ID:    id,
			Name:  fmt.Sprintf("project%d", id),
			Owner: app.User{ID: id + 100000, Login: fmt.Sprintf("owner%d", id)},
		})
	}
	return ps
}

func TestClient_SearchProjects(t *testing.T) {
	t.Parallel()

	bigDataBlob := make([]byte, 1024*1024*11)
	for i := range bigDataBlob {
		bigDataBlob[i] = 'x'
	}

	tests := []struct {
		name         string
		doer         *mock.HTTPDoer
		query        string
		count        int
		want         []app.Project
		wantErr      bool
		checkErr     func(*testing.T, error)
		wantAPICalls int
	}{
		{
			name:    "empty query",
			query:   "",
			count:   1,
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				assert.True(t, app.IsInvalidRequestError(err))
			},
		},
		{
			name:    "negative count",
			query:   "language:go",
			count:   -1,
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				assert.True(t, app.IsInvalidRequestError(err))
			},
		},
		{
			name:         "zero count",
			doer:         newSearchDoer(1000, nil),
			query:        "language:go",
			count:        0,
			want:         []app.Project{},
			wantAPICalls: 0,
		},
		{
			name:         "single page, surplus discarded",
			doer:         newSearchDoer(1000, nil),
			query:        "language:go",
			count:        5,
			want:         wantProjects(5),
			wantAPICalls: 1,
		},
		{
			name:         "exactly one page",
			doer:         newSearchDoer(1000, nil),
			query:        "language:go",
			count:        100,
			want:         wantProjects(100),
			wantAPICalls: 1,
		},
		{
			name:         "many pages",
			doer:         newSearchDoer(1000, nil),
			query:        "language:go",
			count:        250,
			want:         wantProjects(250),
			wantAPICalls: 3,
		},
		{
			name:    "not enough projects",
			doer:    newSearchDoer(120, nil),
			query:   "language:go",
			count:   150,
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				require.True(t, app.IsInsufficientResultsError(err))
				assert.Contains(t, err.Error(), "page 2 returned 20 items, want 50")
			},
			wantAPICalls: 2,
		},
		{
			name:    "status not ok",
			doer:    newSearchDoer(1000, map[int]int{2: http.StatusBadRequest}),
			query:   "language:go",
			count:   300,
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				require.True(t, app.IsRequestFailedError(err))
				assert.Equal(t, http.StatusBadRequest, app.RequestFailedStatus(err))
				assert.Contains(t, err.Error(), "Validation Failed")
			},
			wantAPICalls: 3,
		},
		{
			name:    "status no content",
			doer:    newSearchDoer(1000, map[int]int{1: http.StatusNoContent}),
			query:   "language:go",
			count:   10,
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				assert.Equal(t, http.StatusNoContent, app.RequestFailedStatus(err))
			},
			wantAPICalls: 1,
		},
		{
			name: "status ok, body unexpectedly large",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusOK},
				Bodies: [][]byte{
					bigDataBlob,
				},
			},
			query:        "language:go",
			count:        1,
			wantErr:      true,
			wantAPICalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.doer, "https://fake", "token", 2)
			got, err := c.SearchProjects(
				context.Background(),
				tt.query,
				"stars",
				"desc",
				tt.count,
			)
			require.Equal(t, tt.wantErr, err != nil, "unexpected error: %v", err)
			if tt.checkErr != nil {
				tt.checkErr(t, err)
			}
			assert.Equal(t, tt.want, got)

			if tt.doer == nil {
				return
			}

			reqs := tt.doer.Requests()
			require.Len(t, reqs, tt.wantAPICalls)

			var pages []int
			for _, req := range reqs {
				assert.Equal(t, "/search/repositories", req.URL.Path)
				assert.Equal(t, tt.query, req.URL.Query().Get("q"))
				assert.Equal(t, "stars", req.URL.Query().Get("sort"))
				assert.Equal(t, "desc", req.URL.Query().Get("order"))
				assert.Equal(t, "100", req.URL.Query().Get("per_page"))
				assert.True(t, strings.HasPrefix(req.URL.RawQuery, "q="+tt.query+"&sort=stars&order=desc&per_page=100&page="))
				page, err := strconv.Atoi(req.URL.Query().Get("page"))
				require.NoError(t, err)
				pages = append(pages, page)

				checkAPIHeaders(req, t)
			}
			sort.Ints(pages)
			for i, p := range pages {
				assert.Equal(t, i+1, p, "each page must be requested once")
			}
		})
	}
}

func TestClient_SearchProjectsIdempotent(t *testing.T) {
	t.Parallel()

	c := NewClient(newSearchDoer(1000, nil), "https://fake", "token", 0)
	first, err := c.SearchProjects(context.Background(), "language:rust", "stars", "desc", 420)
	require.NoError(t, err)
	second, err := c.SearchProjects(context.Background(), "language:rust", "stars", "desc", 420)
	require.NoError(t, err)

	require.Len(t, first, 420)
	assert.Equal(t, first, second)
}

func TestClient_SearchProjectsWithoutToken(t *testing.T) {
	t.Parallel()

	doer := newSearchDoer(10, nil)
	c := NewClient(doer, "https://fake", "", 0)
	_, err := c.SearchProjects(context.Background(), "language:rust", "stars", "desc", 10)
	require.NoError(t, err)

	reqs := doer.Requests()
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Header.Get("Authorization"))
}

// newContributorsDoer returns doer serving given contributors pages in order.
// Status 204 is returned after the last page if noContentAtEnd is set, empty list otherwise.
func newContributorsDoer(pages [][]byte, noContentAtEnd bool) *mock.HTTPDoer {
	return &mock.HTTPDoer{
		DoFunc: func(r *http.Request) (*http.Response, error) {
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			if page <= len(pages) {
				return mock.NewResponse(r, http.StatusOK, pages[page-1]), nil
			}
			if noContentAtEnd {
				return mock.NewResponse(r, http.StatusNoContent, nil), nil
			}
			return mock.NewResponse(r, http.StatusOK, []byte(`[]`)), nil
		},
	}
}

func wantContributors(first, n int) []app.Contributor {
	cs := make([]app.Contributor, 0, n)
	for id := first; id < first+n; id++ {
		cs = append(cs, app.Contributor{
			User:          app.User{ID: id, Login: fmt.Sprintf("user%d", id)},
			Contributions: 1000 - id,
		})
	}
	return cs
}

func TestClient_Contributors(t *testing.T) {
	t.Parallel()

	project := app.Project{
		ID:    177736533,
		Name:  "996.ICU",
		Owner: app.User{ID: 48942249, Login: "996icu"},
	}

	tests := []struct {
		name         string
		doer         *mock.HTTPDoer
		project      app.Project
		want         []app.Contributor
		wantErr      bool
		checkErr     func(*testing.T, error)
		wantAPICalls int
	}{
		{
			name:    "empty owner",
			project: app.Project{ID: 1, Name: "100-Days-Of-ML-Code"},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				assert.True(t, app.IsInvalidRequestError(err))
			},
		},
		{
			name:    "empty project name",
			project: app.Project{ID: 1, Owner: app.User{Login: "Avik-Jain"}},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				assert.True(t, app.IsInvalidRequestError(err))
			},
		},
		{
			name:         "shorter than one page",
			doer:         newContributorsDoer([][]byte{contributorsPageJSON(1, 3)}, true),
			project:      project,
			want:         wantContributors(1, 3),
			wantAPICalls: 1,
		},
		{
			name: "exactly one page, then no content",
			doer: newContributorsDoer([][]byte{
				contributorsPageJSON(1, PerPage),
			}, true),
			project:      project,
			want:         wantContributors(1, PerPage),
			wantAPICalls: 2,
		},
		{
			name: "many pages, last one short",
			doer: newContributorsDoer([][]byte{
				contributorsPageJSON(1, PerPage),
				contributorsPageJSON(PerPage+1, PerPage),
				contributorsPageJSON(2*PerPage+1, 7),
			}, false),
			project:      project,
			want:         wantContributors(1, 2*PerPage+7),
			wantAPICalls: 3,
		},
		{
			name: "full pages, then empty list",
			doer: newContributorsDoer([][]byte{
				contributorsPageJSON(1, PerPage),
				contributorsPageJSON(PerPage+1, PerPage),
			}, false),
			project:      project,
			want:         wantContributors(1, 2*PerPage),
			wantAPICalls: 3,
		},
		{
			name:         "no contributors",
			doer:         newContributorsDoer(nil, true),
			project:      project,
			want:         []app.Contributor{},
			wantAPICalls: 1,
		},
		{
			name: "status not ok",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusBadRequest},
				Bodies:   [][]byte{[]byte(`{"message":"bad request"}`)},
			},
			project: project,
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				require.True(t, app.IsRequestFailedError(err))
				assert.Equal(t, http.StatusBadRequest, app.RequestFailedStatus(err))
				assert.Contains(t, err.Error(), "bad request")
			},
			wantAPICalls: 1,
		},
		{
			name: "rate limit exceeded",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusForbidden},
				Headers:  []http.Header{{"X-Ratelimit-Remaining": []string{"0"}}},
			},
			project: project,
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "rate limit exceeded")
			},
			wantAPICalls: 1,
		},
		{
			name: "invalid json",
			doer: &mock.HTTPDoer{
				Statuses: []int{http.StatusOK},
				Bodies:   [][]byte{[]byte(`{"not": "a list"}`)},
			},
			project:      project,
			wantErr:      true,
			wantAPICalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.doer, "https://fake", "token", 0)
			got, err := c.Contributors(context.Background(), tt.project)
			require.Equal(t, tt.wantErr, err != nil, "unexpected error: %v", err)
			if tt.checkErr != nil {
				tt.checkErr(t, err)
			}
			assert.Equal(t, tt.want, got)

			if tt.doer == nil {
				return
			}

			reqs := tt.doer.Requests()
			require.Len(t, reqs, tt.wantAPICalls)
			for i, req := range reqs {
				assert.Equal(t, "/repos/996icu/996.ICU/contributors", req.URL.Path)
				assert.Equal(t, fmt.Sprintf("per_page=100&page=%d", i+1), req.URL.RawQuery)
				checkAPIHeaders(req, t)
			}
		})
	}
}

func TestClient_ContributorsCanceled(t *testing.T) {
	t.Parallel()

	doer := newContributorsDoer([][]byte{contributorsPageJSON(1, 3)}, true)
	doer.DoFunc = func(r *http.Request) (*http.Response, error) {
		return nil, r.Context().Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(doer, "https://fake", "token", 0)
	got, err := c.Contributors(ctx, app.Project{Name: "go", Owner: app.User{Login: "golang"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func checkAPIHeaders(r *http.Request, t *testing.T) {
	assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
	assert.Contains(t, r.Header.Get("Authorization"), "token ")
}
