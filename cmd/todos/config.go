package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/todos/internal/config"
	"github.com/muurk/todos/internal/ui"
)

var setURLProfile string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetURLCmd)
	configCmd.AddCommand(configUseCmd)
	configCmd.AddCommand(configRemoveCmd)

	configSetURLCmd.Flags().StringVar(&setURLProfile, "name", "", "Profile to set (default: current profile, or \"default\")")
}

// configCmd groups profile management
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage backend profiles and preferences",
	Long: `Manage the todos configuration file.

The file lives at $XDG_CONFIG_HOME/todos/config.yaml (override with
TODOS_CONFIG) and holds named backend profiles plus preferences.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration and the backend in use",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	s := current

	data, err := yaml.Marshal(s.registry)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	source := string(s.backend.Source)
	if s.backend.Profile != "" {
		source += " " + s.backend.Profile
	}
	s.stdout.PrintResult(ui.NewSuccessResult("Configuration",
		ui.Field{Key: "File", Value: s.path},
		ui.Field{Key: "Backend", Value: s.backend.URL},
		ui.Field{Key: "Source", Value: source},
	))
	s.stdout.Print(string(data))
	return nil
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Save a backend URL in a profile",
	Long: `Save a backend URL in a profile, creating it if needed.

The first profile saved becomes the current one.`,
	Example: `  todos config set-url http://localhost:3000
  todos config set-url http://nas.local:3000 --name home`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetURL,
}

func runConfigSetURL(cmd *cobra.Command, args []string) error {
	s := current

	name := setURLProfile
	if name == "" {
		name = s.registry.CurrentProfile
	}
	if name == "" {
		name = config.DefaultProfile
	}

	if err := s.registry.SetProfileURL(name, args[0]); err != nil {
		return err
	}
	if err := s.registry.SaveTo(s.path); err != nil {
		return err
	}

	p := s.registry.Profile(name)
	s.stdout.Println(fmt.Sprintf("Profile %s → %s", name, p.URL))
	return nil
}

var configUseCmd = &cobra.Command{
	Use:   "use <profile>",
	Short: "Select the profile used by default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current
		if err := s.registry.UseProfile(args[0]); err != nil {
			return err
		}
		if err := s.registry.SaveTo(s.path); err != nil {
			return err
		}
		s.stdout.Println("Using profile " + args[0])
		return nil
	},
}

var configRemoveCmd = &cobra.Command{
	Use:   "rm <profile>",
	Short: "Remove a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current
		if !s.registry.RemoveProfile(args[0]) {
			return fmt.Errorf("unknown profile %q (known: %s)", args[0], strings.Join(s.registry.ProfileNames(), ", "))
		}
		return s.registry.SaveTo(s.path)
	},
}
