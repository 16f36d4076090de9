package config

import (
	"fmt"
	"os"
)

// EnvURL overrides the backend URL
const EnvURL = "TODOS_URL"

// DefaultURL is used when nothing else names a backend
const DefaultURL = "http://localhost:3000"

// Source records where a resolved backend URL came from
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceProfile Source = "profile"
	SourceDefault Source = "default"
)

// Resolved is the backend the client should talk to
type Resolved struct {
	URL     string
	Source  Source
	Profile string // Set when Source is SourceProfile
}

// ResolveURL picks the backend URL. Precedence: flagURL, then TODOS_URL,
// then the named profile (or the current one when profile is empty), then
// DefaultURL. Naming a profile that does not exist is an error.
func ResolveURL(r *Registry, flagURL, profile string) (Resolved, error) {
	if flagURL != "" {
		u, err := NormalizeURL(flagURL)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{URL: u, Source: SourceFlag}, nil
	}

	if env := os.Getenv(EnvURL); env != "" {
		u, err := NormalizeURL(env)
		if err != nil {
			return Resolved{}, fmt.Errorf("%s: %w", EnvURL, err)
		}
		return Resolved{URL: u, Source: SourceEnv}, nil
	}

	if r != nil {
		if profile != "" {
			p := r.Profile(profile)
			if p == nil {
				return Resolved{}, fmt.Errorf("unknown profile %q", profile)
			}
			return Resolved{URL: p.URL, Source: SourceProfile, Profile: profile}, nil
		}
		if name, p := r.Current(); p != nil {
			return Resolved{URL: p.URL, Source: SourceProfile, Profile: name}, nil
		}
	}

	return Resolved{URL: DefaultURL, Source: SourceDefault}, nil
}
