package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the settings stored in the config file.

Use "settings set <key> <value>" to change a single setting.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change one setting and save the config file.

Available keys:
  log.verbose         - Print debug output (true/false)
  catalog.data_dir    - Directory holding catalog.db (empty for ~/.yieldgrab/data)
  catalog.memory      - Keep the catalog in memory instead of SQLite (true/false)
  catalog.tables_dir  - Directory of <target>.tsv tables loaded into a memory catalog`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

// settingSetters apply a config value to the matching settings field.
var settingSetters = map[string]func(*domain.AppSettings, string) error{
	"log.verbose": func(s *domain.AppSettings, v string) error {
		return setBool(&s.Log.Verbose, v)
	},
	"catalog.data_dir": func(s *domain.AppSettings, v string) error {
		s.Catalog.DataDir = v
		return nil
	},
	"catalog.memory": func(s *domain.AppSettings, v string) error {
		return setBool(&s.Catalog.Memory, v)
	},
	"catalog.tables_dir": func(s *domain.AppSettings, v string) error {
		s.Catalog.TablesDir = v
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  Verbose: %t\n", settings.Log.Verbose)
	cmd.Println()

	cmd.Println("[Catalog]")
	cmd.Printf("  Data directory: %s\n", orDefault(settings.Catalog.DataDir, "(default: ~/.yieldgrab/data)"))
	cmd.Printf("  In memory: %t\n", settings.Catalog.Memory)
	cmd.Printf("  Tables directory: %s\n", orDefault(settings.Catalog.TablesDir, "(not set)"))
	cmd.Println()

	cmd.Printf("Config file: %s\n", orDefault(settingsService.ConfigPath(), "(none)"))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
	set, ok := settingSetters[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (available: %s)",
			domain.ErrInvalidInput, key, strings.Join(settingKeys(), ", "))
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := set(settings, value); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s = %q\n", key, value)
	return nil
}

func setBool(field *bool, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("expected true or false, got %q", value)
	}
	*field = b
	return nil
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
