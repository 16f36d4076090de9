// Package config manages the todos user configuration file.
//
// The file holds named backend profiles and display preferences. It never
// stores todo data.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/todos/config.yaml or $HOME/.config/todos/config.yaml
//   - macOS: $HOME/.config/todos/config.yaml
//   - Windows: %LOCALAPPDATA%\todos\config.yaml
//
// TODOS_CONFIG overrides the location.
//
// # Example
//
//	version: 1
//	current_profile: home
//	profiles:
//	  home:
//	    url: http://nas.local:3000
//	preferences:
//	  date_format: 2006-Jan-02
//	  request_timeout_seconds: 10
//
// # Usage
//
//	reg, path, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	if err := reg.SetProfileURL("home", "http://nas.local:3000"); err != nil {
//	    return err
//	}
//	if err := reg.SaveTo(path); err != nil {
//	    return err
//	}
//
// The backend URL is resolved by ResolveURL: --url flag, then TODOS_URL,
// then the selected profile, then http://localhost:3000.
//
// Saves write a temporary file and rename it into place, so a crash never
// leaves a half-written config.
package config
