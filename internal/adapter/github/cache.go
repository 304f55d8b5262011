package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/m-zajac/busfactor/internal/app"
)

// CachedClient wraps github client with caching layer.
type CachedClient struct {
	client            app.GithubClient
	projectsCache     *lru.Cache
	contributorsCache *lru.Cache
	ttl               time.Duration
}

var _ app.GithubClient = &CachedClient{}

// NewCachedClient creates new CachedClient instance.
func NewCachedClient(client app.GithubClient, size int, ttl time.Duration) (*CachedClient, error) {
	if size <= 0 {
		return nil, errors.New("cache size must be greater than 0")
	}
	projectsCache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache for projects: %w", err)
	}
	contributorsCache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache for contributors: %w", err)
	}

	return &CachedClient{
		client:            client,
		projectsCache:     projectsCache,
		contributorsCache: contributorsCache,
		ttl:               ttl,
	}, nil
}

// SearchProjects returns first `count` projects matching given search query.
//
// Cached result of a search with a greater count is reused.
func (c *CachedClient) SearchProjects(ctx context.Context, query string, sort string, order string, count int) ([]app.Project, error) {
	key := c.projectsCacheKey(query, sort, order)
	val, ok := c.projectsCache.Get(key)
	if ok {
		entry := val.(projectsCacheEntry)
		if entry.count >= count && entry.created.Add(c.ttl).After(time.Now()) {
			projects := entry.data
			if len(projects) > count {
				projects = projects[:count]
			}
			return projects, nil
		}
	}

	projects, err := c.client.SearchProjects(ctx, query, sort, order, count)
	if err != nil {
		return projects, err
	}

	entry := projectsCacheEntry{
		created: time.Now(),
		count:   count,
		data:    projects,
	}
	c.projectsCache.Add(key, entry)

	return projects, nil
}

// Contributors returns all contributors of given project.
func (c *CachedClient) Contributors(ctx context.Context, project app.Project) ([]app.Contributor, error) {
	key := c.contributorsCacheKey(project)
	val, ok := c.contributorsCache.Get(key)
	if ok {
		entry := val.(contributorsCacheEntry)
		if entry.created.Add(c.ttl).After(time.Now()) {
			return entry.data, nil
		}
	}

	contributors, err := c.client.Contributors(ctx, project)
	if err != nil {
		return contributors, err
	}

	entry := contributorsCacheEntry{
		created: time.Now(),
		data:    contributors,
	}
	c.contributorsCache.Add(key, entry)

	return contributors, nil
}

func (c *CachedClient) projectsCacheKey(query string, sort string, order string) string {
	return query + "|" + sort + "|" + order
}

func (c *CachedClient) contributorsCacheKey(project app.Project) string {
	return project.FullName()
}

type projectsCacheEntry struct {
	created time.Time
	count   int
	data    []app.Project
}

type contributorsCacheEntry struct {
	created time.Time
	data    []app.Contributor
}
