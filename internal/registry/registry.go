package registry

import (
	"fmt"
	"slices"

	"github.com/drewdunne/codepros/internal/config"
	"github.com/drewdunne/codepros/internal/provider"
	"github.com/drewdunne/codepros/internal/provider/github"
	"github.com/drewdunne/codepros/internal/provider/gitlab"
	"github.com/drewdunne/codepros/internal/provider/graphql"
)

// Registry manages provider instances.
type Registry struct {
	providers map[string]provider.Provider
}

// New creates a provider registry holding every provider whose credentials
// are present in cfg.
func New(cfg *config.Config) (*Registry, error) {
	r := &Registry{
		providers: make(map[string]provider.Provider),
	}
	gh := cfg.GitHub

	if gh.Token != "" && gh.GraphQLURL != "" {
		p, err := graphql.New(gh.GraphQLURL, gh.Token, cfg.Timeout())
		if err != nil {
			return nil, fmt.Errorf("creating graphql provider: %w", err)
		}
		r.providers[config.ProviderGraphQL] = p
	}

	ghOpts := []github.Option{github.WithTimeout(cfg.Timeout())}
	if gh.APIURL != "" {
		ghOpts = append(ghOpts, github.WithBaseURL(gh.APIURL))
	}
	switch {
	case gh.UsesApp():
		p, err := github.NewApp(gh.AppID, gh.InstallationID, gh.PrivateKeyPath, ghOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating github provider: %w", err)
		}
		r.providers[config.ProviderGitHub] = p
	case gh.Token != "":
		p, err := github.New(gh.Token, ghOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating github provider: %w", err)
		}
		r.providers[config.ProviderGitHub] = p
	}

	if cfg.GitLab.Token != "" {
		glOpts := []gitlab.Option{gitlab.WithTimeout(cfg.Timeout())}
		if cfg.GitLab.APIURL != "" {
			glOpts = append(glOpts, gitlab.WithBaseURL(cfg.GitLab.APIURL))
		}
		p, err := gitlab.New(cfg.GitLab.Token, glOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating gitlab provider: %w", err)
		}
		r.providers[config.ProviderGitLab] = p
	}

	return r, nil
}

// Get returns the provider for the given name, or nil if not configured.
func (r *Registry) Get(name string) provider.Provider {
	return r.providers[name]
}

// List returns all configured provider names in lexical order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
