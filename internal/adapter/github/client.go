package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/m-zajac/busfactor/internal/app"
	"golang.org/x/sync/errgroup"
)

// PerPage is the page size used for all paginated github api calls.
const PerPage = 100

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client returns details about github projects and contributors.
// This struct is an adapter for app.GithubClient.
type Client struct {
	doer           HTTPDoer
	address        string
	authToken      string
	maxConcurrency int

	searchResponseMaxSize       int
	contributorsResponseMaxSize int
	errorBodyMaxSize            int
}

var _ app.GithubClient = &Client{}

// NewClient creates new github client.
// authToken is optional. maxConcurrency limits number of search pages fetched at once, 0 means no limit.
func NewClient(doer HTTPDoer, address string, authToken string, maxConcurrency int) *Client {
	c := Client{
		doer:           doer,
		address:        address,
		authToken:      authToken,
		maxConcurrency: maxConcurrency,

		searchResponseMaxSize:       1024 * 1024 * 10,
		contributorsResponseMaxSize: 1024 * 1024 * 10,
		errorBodyMaxSize:            1024 * 64,
	}

	return &c
}

// SearchProjects returns first `count` projects matching given search query, in search rank order.
// Pages are fetched concurrently. Returns app.InsufficientResultsError if there are fewer matching projects than `count`.
func (c *Client) SearchProjects(ctx context.Context, query string, sort string, order string, count int) ([]app.Project, error) {
	if query == "" {
		return nil, app.InvalidRequestError("search query cannot be empty")
	}
	if count < 0 {
		return nil, app.InvalidRequestError("count cannot be negative")
	}
	if count == 0 {
		return []app.Project{}, nil
	}

	type page struct {
		offset   int
		projects []app.Project
	}
	pagesCount := (count + PerPage - 1) / PerPage
	pages := make(chan page, pagesCount)

	g, gctx := errgroup.WithContext(ctx)
	if c.maxConcurrency > 0 {
		g.SetLimit(c.maxConcurrency)
	}
	for i := 0; i < pagesCount; i++ {
		i := i
		g.Go(func() error {
			offset := i * PerPage
			want := min(count, offset+PerPage) - offset

			projects, err := c.searchPage(gctx, query, sort, order, i+1)
			if err != nil {
				return fmt.Errorf("fetching search page %d: %w", i+1, err)
			}
			if len(projects) < want {
				return &app.InsufficientResultsError{
					Page: i + 1,
					Want: want,
					Got:  len(projects),
				}
			}

			pages <- page{
				offset:   offset,
				projects: projects[:want],
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(pages)

	result := make([]app.Project, count)
	for p := range pages {
		copy(result[p.offset:], p.projects)
	}

	return result, nil
}

func (c *Client) searchPage(ctx context.Context, query string, sort string, order string, page int) ([]app.Project, error) {
	q := Query{}.
		Add("q", query).
		Add("sort", sort).
		Add("order", order).
		Add("per_page", PerPage).
		Add("page", page)

	body, err := c.get(ctx, "/search/repositories?"+q.Encode(), c.searchResponseMaxSize, false)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshalling response: %w", err)
	}

	return resp.ToProjects(), nil
}

// Contributors returns all contributors of given project.
// Pages are fetched one by one until github returns a short, empty or 204 "no content" page.
func (c *Client) Contributors(ctx context.Context, project app.Project) ([]app.Contributor, error) {
	if project.Name == "" {
		return nil, app.InvalidRequestError("project's name cannot be empty")
	}
	if project.Owner.Login == "" {
		return nil, app.InvalidRequestError("project's owner login cannot be empty")
	}

	path := fmt.Sprintf("/repos/%s/%s/contributors", project.Owner.Login, project.Name)
	result := make([]app.Contributor, 0)
	for page := 1; ; page++ {
		q := Query{}.
			Add("per_page", PerPage).
			Add("page", page)

		body, err := c.get(ctx, path+"?"+q.Encode(), c.contributorsResponseMaxSize, true)
		if err != nil {
			return nil, fmt.Errorf("fetching contributors page %d: %w", page, err)
		}
		if body == nil {
			break
		}

		var resp contributorsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("unmarshalling response: %w", err)
		}
		if len(resp) == 0 {
			break
		}
		result = append(result, resp.ToContributors()...)

		// Short page is the last one.
		if len(resp) < PerPage {
			break
		}
	}

	return result, nil
}

// get requests given api path. Any status other than 200 fails with app.RequestFailedError,
// unless allowNoContent is set and status is 204. Then nil body is returned.
func (c *Client) get(ctx context.Context, path string, maxBytes int, allowNoContent bool) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.address+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating http request: %w", err)
	}

	body, code, err := c.makeRequest(httpReq, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("making http request: %w", err)
	}
	if code == http.StatusNoContent && allowNoContent {
		return nil, nil
	}
	if code != http.StatusOK {
		return nil, &app.RequestFailedError{
			URL:        httpReq.URL.String(),
			StatusCode: code,
			Body:       string(body),
		}
	}

	return body, nil
}

func (c *Client) makeRequest(req *http.Request, maxBytes int) ([]byte, int, error) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "token "+c.authToken)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("doing http request: %w", err)
	}
	// Always drain body before close to allow connection reuse.
	// See: http://tleyden.github.io/blog/2016/11/21/tuning-the-go-http-client-library-for-load-testing/
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNoContent {
		return nil, resp.StatusCode, nil
	}
	if resp.StatusCode/100 > 3 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, int64(c.errorBodyMaxSize)))
		return nil, 0, &app.RequestFailedError{
			URL:         req.URL.String(),
			StatusCode:  resp.StatusCode,
			Body:        string(b),
			RateLimited: c.checkRateLimitExceeded(&resp.Header),
		}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading http response body: %w", err)
	}

	return b, resp.StatusCode, nil
}

func (c *Client) checkRateLimitExceeded(h *http.Header) bool {
	if s := h.Get("X-RateLimit-Remaining"); s != "" {
		if limit, err := strconv.Atoi(s); err == nil && limit == 0 {
			return true
		}
	}
	return false
}
