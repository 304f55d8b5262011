package github

import (
	"github.com/m-zajac/busfactor/internal/app"
)

type searchResponse struct {
	Items []searchResponseItem `json:"items"`
}

type searchResponseItem struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Owner responseUser `json:"owner"`
}

type responseUser struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
}

func (s searchResponse) ToProjects() []app.Project {
	ps := make([]app.Project, 0, len(s.Items))
	for _, i := range s.Items {
		ps = append(ps, app.Project{
			ID:   i.ID,
			Name: i.Name,
			Owner: app.User{
				ID:    i.Owner.ID,
				Login: i.Owner.Login,
			},
		})
	}

	return ps
}

type contributorsResponse []struct {
	ID            int    `json:"id"`
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

func (s contributorsResponse) ToContributors() []app.Contributor {
	cs := make([]app.Contributor, 0, len(s))
	for _, el := range s {
		cs = append(cs, app.Contributor{
			User: app.User{
				ID:    el.ID,
				Login: el.Login,
			},
			Contributions: el.Contributions,
		})
	}

	return cs
}
