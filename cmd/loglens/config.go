package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/loglenshq/loglens/internal/config"
)

// configCmd manages the local configuration file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the loglens configuration file",
	Long: `Manage the loglens configuration file at ~/.loglens/config.yaml.

Examples:
  # Show the effective configuration
  loglens config show

  # Override a setting
  loglens config set server.port 9090

  # Revert a setting to its default
  loglens config unset server.port`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration override",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configPathCmd)
}

// runConfigShow handles the config show command
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// runConfigSet handles the config set command
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	store, err := config.NewStore("")
	if err != nil {
		return err
	}

	if err := store.Set(key, coerceValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	// Reload so a bad value is caught immediately
	if _, err := config.Load(""); err != nil {
		return fmt.Errorf("new value for %s is invalid: %w", key, err)
	}

	fmt.Printf("Set %s = %s\n", key, raw)
	return nil
}

// runConfigUnset handles the config unset command
func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := args[0]

	store, err := config.NewStore("")
	if err != nil {
		return err
	}

	if err := store.Unset(key); err != nil {
		return fmt.Errorf("failed to unset %s: %w", key, err)
	}

	fmt.Printf("Unset %s (reverted to default)\n", key)
	return nil
}

// coerceValue converts CLI strings into YAML-native scalars where possible.
func coerceValue(raw string) any {
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return raw
}

// sortedKeys returns the map's keys in stable order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
