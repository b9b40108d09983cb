package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/superbullet/superbullet/internal/domain"
)

// GistClient publishes project exports as secret gists
type GistClient struct {
	client *github.Client
}

type GistClientDependencies struct {
	Token string
	// HTTPClient and BaseURL are optional; tests point them at a local server
	HTTPClient *http.Client
	BaseURL    string
}

func NewGistClient(deps GistClientDependencies) (*GistClient, error) {
	ctx := context.Background()
	if deps.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, deps.HTTPClient)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: deps.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if deps.BaseURL != "" {
		var err error

		client, err = client.WithEnterpriseURLs(deps.BaseURL, deps.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set github base url: %w", err)
		}
	}

	return &GistClient{client: client}, nil
}

func (c *GistClient) CreateGist(ctx context.Context, description string, files map[string]string) (domain.Gist, error) {
	gistFiles := make(map[github.GistFilename]github.GistFile, len(files))

	for name, content := range files {
		gistFiles[github.GistFilename(name)] = github.GistFile{
			Filename: github.String(name),
			Content:  github.String(content),
		}
	}

	gist, _, err := c.client.Gists.Create(ctx, &github.Gist{
		Description: github.String(description),
		Public:      github.Bool(false),
		Files:       gistFiles,
	})
	if err != nil {
		return domain.Gist{}, fmt.Errorf("failed to create gist: %w", err)
	}

	return domain.Gist{
		ID:      gist.GetID(),
		URL:     gist.GetHTMLURL(),
		Files:   len(gist.Files),
		Private: !gist.GetPublic(),
	}, nil
}
