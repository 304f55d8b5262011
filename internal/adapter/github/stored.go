package github

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-zajac/busfactor/internal/app"
	"github.com/sirupsen/logrus"
)

// KVStore provides simple kv data storage
type KVStore interface {
	ReadKey(key []byte) ([]byte, error)
	UpdateKey(key []byte, data []byte) error
}

// StoredClient wraps GithubClient and returns raw api data saved in store if possible.
//
// If data is not available (or its ttl is exceeded), client is called and its result is saved.
// Store write failures are logged, they don't fail the call.
type StoredClient struct {
	client app.GithubClient
	store  KVStore
	ttl    time.Duration
	l      logrus.FieldLogger
}

var _ app.GithubClient = &StoredClient{}

// NewStoredClient creates new StoredClient instance.
func NewStoredClient(client app.GithubClient, store KVStore, ttl time.Duration, l logrus.FieldLogger) *StoredClient {
	return &StoredClient{
		client: client,
		store:  store,
		ttl:    ttl,
		l:      l,
	}
}

// SearchProjects returns first `count` projects matching given search query.
//
// Returns data from store if available.
func (c *StoredClient) SearchProjects(ctx context.Context, query string, sort string, order string, count int) ([]app.Project, error) {
	key := c.projectsDBKey(query, sort, order)
	data, err := c.store.ReadKey(key)
	if err != nil {
		return nil, err
	}
	if data != nil {
		var entry projectsDBEntry
		if err := c.unserialize(data, &entry); err != nil {
			return nil, fmt.Errorf("unserializing projects data: %w", err)
		}
		if entry.Count >= count && c.fresh(entry.Created) {
			c.l.Debugf("StoredClient: projects for %s read from store", query)
			projects := entry.Data
			if len(projects) > count {
				projects = projects[:count]
			}
			return projects, nil
		}
	}

	projects, err := c.client.SearchProjects(ctx, query, sort, order, count)
	if err != nil {
		return nil, err
	}
	c.save(key, projectsDBEntry{
		Created: time.Now().Unix(),
		Count:   count,
		Data:    projects,
	})

	return projects, nil
}

// Contributors returns all contributors of given project.
//
// Returns data from store if available.
func (c *StoredClient) Contributors(ctx context.Context, project app.Project) ([]app.Contributor, error) {
	key := c.contributorsDBKey(project)
	data, err := c.store.ReadKey(key)
	if err != nil {
		return nil, err
	}
	if data != nil {
		var entry contributorsDBEntry
		if err := c.unserialize(data, &entry); err != nil {
			return nil, fmt.Errorf("unserializing contributors data: %w", err)
		}
		if c.fresh(entry.Created) {
			c.l.Debugf("StoredClient: contributors for %s read from store", project.FullName())
			return entry.Data, nil
		}
	}

	contributors, err := c.client.Contributors(ctx, project)
	if err != nil {
		return nil, err
	}
	c.save(key, contributorsDBEntry{
		Created: time.Now().Unix(),
		Data:    contributors,
	})

	return contributors, nil
}

func (c *StoredClient) fresh(created int64) bool {
	return time.Unix(created, 0).Add(c.ttl).After(time.Now())
}

func (c *StoredClient) save(key []byte, entry interface{}) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.l.Errorf("StoredClient: marshalling json for %s: %v", key, err)
		return
	}
	if err := c.store.UpdateKey(key, data); err != nil {
		c.l.Errorf("StoredClient: saving %s: %v", key, err)
	}
}

func (c *StoredClient) unserialize(data []byte, entry interface{}) error {
	if err := json.Unmarshal(data, entry); err != nil {
		return fmt.Errorf("unmarshalling json: %w", err)
	}

	return nil
}

func (c *StoredClient) projectsDBKey(query string, sort string, order string) []byte {
	return []byte("pr/" + query + "/" + sort + "/" + order)
}

func (c *StoredClient) contributorsDBKey(project app.Project) []byte {
	return []byte("co/" + project.FullName())
}

type projectsDBEntry struct {
	Created int64
	Count   int
	Data    []app.Project
}

type contributorsDBEntry struct {
	Created int64
	Data    []app.Contributor
}
