package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "todos") {
		t.Errorf("GetConfigDir() = %q, want /tmp/xdg/todos", dir)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/somewhere/else.yaml")

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if path != "/somewhere/else.yaml" {
		t.Errorf("GetConfigPath() = %q", path)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with config.yaml, got %q", path)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("Version = %d, want 1", reg.Version)
	}
	if reg.Profiles == nil || reg.Preferences == nil {
		t.Error("NewRegistry() should initialize profiles and preferences")
	}
	if name, p := reg.Current(); name != "" || p != nil {
		t.Errorf("Current() = %q/%v, want none", name, p)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	reg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Version != CurrentVersion {
		t.Errorf("Version = %d", reg.Version)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	if err := reg.SetProfileURL("home", "http://nas.local:3000/"); err != nil {
		t.Fatalf("SetProfileURL() error = %v", err)
	}
	if err := reg.SetProfileURL("work", "https://todos.example.com"); err != nil {
		t.Fatalf("SetProfileURL() error = %v", err)
	}
	used := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	reg.TouchProfile("home", used)
	reg.Preferences.DateFormat = "02/01/2006"
	reg.Preferences.ToastSeconds = 7

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.CurrentProfile != "home" {
		t.Errorf("CurrentProfile = %q, want home (first added)", loaded.CurrentProfile)
	}
	home := loaded.Profile("home")
	if home == nil || home.URL != "http://nas.local:3000" {
		t.Fatalf("home profile = %+v", home)
	}
	if !home.LastUsed.Equal(used) {
		t.Errorf("LastUsed = %v, want %v", home.LastUsed, used)
	}
	if loaded.Prefs().DateLayout() != "02/01/2006" {
		t.Errorf("DateLayout() = %q", loaded.Prefs().DateLayout())
	}
	if loaded.Prefs().ToastDuration() != 7*time.Second {
		t.Errorf("ToastDuration() = %v", loaded.Prefs().ToastDuration())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "version: [", "failed to parse"},
		{"future version", "version: 2\n", "unsupported config version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FillsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Profiles == nil || reg.Preferences == nil {
		t.Error("Load() should initialize missing sections")
	}
}

func TestProfiles(t *testing.T) {
	reg := NewRegistry()

	if err := reg.SetProfileURL("", "http://x"); err == nil {
		t.Error("empty profile name should fail")
	}
	if err := reg.SetProfileURL("a", "ftp://x"); err == nil {
		t.Error("non-http URL should fail")
	}

	_ = reg.SetProfileURL("a", "http://a:3000")
	_ = reg.SetProfileURL("b", "http://b:3000")
	if reg.CurrentProfile != "a" {
		t.Errorf("CurrentProfile = %q, want a", reg.CurrentProfile)
	}

	if err := reg.UseProfile("b"); err != nil {
		t.Fatalf("UseProfile(b) error = %v", err)
	}
	if err := reg.UseProfile("zzz"); err == nil || !strings.Contains(err.Error(), "a, b") {
		t.Errorf("UseProfile(zzz) error = %v, want list of known profiles", err)
	}

	if got := reg.ProfileNames(); strings.Join(got, ",") != "a,b" {
		t.Errorf("ProfileNames() = %v", got)
	}

	if !reg.RemoveProfile("b") {
		t.Fatal("RemoveProfile(b) = false")
	}
	if reg.CurrentProfile != "" {
		t.Error("removing the current profile should clear the selection")
	}
	if reg.RemoveProfile("b") {
		t.Error("removing twice should report false")
	}
}

func TestRecordDiscovered(t *testing.T) {
	reg := NewRegistry()
	_ = reg.SetProfileURL("manual", "http://manual:3000")

	added, err := reg.RecordDiscovered("manual", "http://10.0.0.5:3000")
	if err != nil || added {
		t.Errorf("RecordDiscovered over manual profile = %v, %v; want false, nil", added, err)
	}
	if reg.Profile("manual").URL != "http://manual:3000" {
		t.Error("manual profile was overwritten")
	}

	added, err = reg.RecordDiscovered("nas", "http://10.0.0.6:3000")
	if err != nil || !added {
		t.Fatalf("RecordDiscovered(nas) = %v, %v", added, err)
	}
	if p := reg.Profile("nas"); !p.Discovered {
		t.Error("discovered profile not flagged")
	}

	added, _ = reg.RecordDiscovered("nas", "http://10.0.0.7:3000")
	if !added || reg.Profile("nas").URL != "http://10.0.0.7:3000" {
		t.Error("rediscovery should refresh the address")
	}
}

func TestPreferencesDefaults(t *testing.T) {
	var p *Preferences
	if p.DateLayout() != DefaultDateFormat {
		t.Errorf("nil DateLayout() = %q", p.DateLayout())
	}
	if p.RequestTimeout() != 10*time.Second {
		t.Errorf("nil RequestTimeout() = %v", p.RequestTimeout())
	}

	p = &Preferences{RequestTimeoutSeconds: -3, DiscoverTimeoutSeconds: 2}
	if p.RequestTimeout() != 10*time.Second {
		t.Errorf("negative RequestTimeout() = %v, want default", p.RequestTimeout())
	}
	if p.DiscoverTimeout() != 2*time.Second {
		t.Errorf("DiscoverTimeout() = %v", p.DiscoverTimeout())
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:3000", "http://localhost:3000", false},
		{" https://x.example.com/ ", "https://x.example.com", false},
		{"localhost:3000", "", true},
		{"http://", "", true},
		{"::", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
