package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// CurrentVersion is the config file format written by this build
const CurrentVersion = 1

// DefaultProfile names the profile created on first use
const DefaultProfile = "default"

// Registry represents the entire user configuration file.
// It stores the known todo backends and application preferences.
type Registry struct {
	Version        int                 `yaml:"version"`
	CurrentProfile string              `yaml:"current_profile,omitempty"`
	Profiles       map[string]*Profile `yaml:"profiles,omitempty"` // Keyed by profile name
	Preferences    *Preferences        `yaml:"preferences,omitempty"`
}

// Profile is a named todo backend
type Profile struct {
	URL        string    `yaml:"url"`
	LastUsed   time.Time `yaml:"last_used,omitempty"`
	Discovered bool      `yaml:"discovered,omitempty"` // Added by `todos scan`
}

// Preferences represents application-wide user preferences.
// Zero values mean "use the default".
type Preferences struct {
	DateFormat             string `yaml:"date_format,omitempty"` // Go time layout for creation dates
	RequestTimeoutSeconds  int    `yaml:"request_timeout_seconds,omitempty"`
	DiscoverTimeoutSeconds int    `yaml:"discover_timeout_seconds,omitempty"`
	ToastSeconds           int    `yaml:"toast_seconds,omitempty"`
	LogLevel               string `yaml:"log_level,omitempty"`
}

// Preference defaults
const (
	DefaultDateFormat             = "2006-Jan-02"
	DefaultRequestTimeoutSeconds  = 10
	DefaultDiscoverTimeoutSeconds = 5
	DefaultToastSeconds           = 4
)

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Profiles:    make(map[string]*Profile),
		Preferences: &Preferences{},
	}
}

// Profile returns the named profile, or nil
func (r *Registry) Profile(name string) *Profile {
	return r.Profiles[name]
}

// Current returns the selected profile and its name, or nil when none is
// selected or the selection points at a missing profile.
func (r *Registry) Current() (string, *Profile) {
	if r.CurrentProfile == "" {
		return "", nil
	}
	return r.CurrentProfile, r.Profiles[r.CurrentProfile]
}

// SetProfileURL creates or updates a profile. The first profile added
// becomes the current one.
func (r *Registry) SetProfileURL(name, rawURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("profile name is required")
	}
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return err
	}

	r.ensureProfile(name).URL = normalized
	if r.CurrentProfile == "" {
		r.CurrentProfile = name
	}
	return nil
}

// RecordDiscovered stores a backend found on the network. Profiles the
// user created by hand are never overwritten.
func (r *Registry) RecordDiscovered(name, rawURL string) (bool, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return false, err
	}
	if existing := r.Profiles[name]; existing != nil && !existing.Discovered {
		return false, nil
	}
	p := r.ensureProfile(name)
	p.URL = normalized
	p.Discovered = true
	return true, nil
}

// UseProfile selects the named profile
func (r *Registry) UseProfile(name string) error {
	if r.Profiles[name] == nil {
		return fmt.Errorf("unknown profile %q (known: %s)", name, strings.Join(r.ProfileNames(), ", "))
	}
	r.CurrentProfile = name
	return nil
}

// RemoveProfile deletes a profile, clearing the selection if it was current
func (r *Registry) RemoveProfile(name string) bool {
	if r.Profiles[name] == nil {
		return false
	}
	delete(r.Profiles, name)
	if r.CurrentProfile == name {
		r.CurrentProfile = ""
	}
	return true
}

// TouchProfile records that the named profile was just used
func (r *Registry) TouchProfile(name string, now time.Time) {
	if p := r.Profiles[name]; p != nil {
		p.LastUsed = now
	}
}

// ProfileNames returns the profile names in sorted order
func (r *Registry) ProfileNames() []string {
	names := make([]string, 0, len(r.Profiles))
	for name := range r.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ensureProfile(name string) *Profile {
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}
	p, ok := r.Profiles[name]
	if !ok {
		p = &Profile{}
		r.Profiles[name] = p
	}
	return p
}

// Prefs returns the preferences, never nil
func (r *Registry) Prefs() *Preferences {
	if r.Preferences == nil {
		r.Preferences = &Preferences{}
	}
	return r.Preferences
}

// DateLayout returns the configured date layout or the default
func (p *Preferences) DateLayout() string {
	if p == nil || p.DateFormat == "" {
		return DefaultDateFormat
	}
	return p.DateFormat
}

// RequestTimeout returns the per-request timeout
func (p *Preferences) RequestTimeout() time.Duration {
	return seconds(p, func(p *Preferences) int { return p.RequestTimeoutSeconds }, DefaultRequestTimeoutSeconds)
}

// DiscoverTimeout returns how long `todos scan` listens
func (p *Preferences) DiscoverTimeout() time.Duration {
	return seconds(p, func(p *Preferences) int { return p.DiscoverTimeoutSeconds }, DefaultDiscoverTimeoutSeconds)
}

// ToastDuration returns how long notifications stay on screen
func (p *Preferences) ToastDuration() time.Duration {
	return seconds(p, func(p *Preferences) int { return p.ToastSeconds }, DefaultToastSeconds)
}

func seconds(p *Preferences, get func(*Preferences) int, def int) time.Duration {
	n := def
	if p != nil && get(p) > 0 {
		n = get(p)
	}
	return time.Duration(n) * time.Second
}

// NormalizeURL checks that raw is an absolute http(s) URL and strips any
// trailing slash
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid backend URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid backend URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid backend URL %q: missing host", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
