package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aymane70/taskman/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change client settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path, _ := config.Path()
		fmt.Printf("Config file: %s\n\n", path)
		fmt.Printf("  server_url:     %s\n", cfg.ServerURL)
		fmt.Printf("  page_size:      %d\n", cfg.PageSize)
		fmt.Printf("  confirm_delete: %t\n", cfg.ConfirmDelete)
		fmt.Printf("  log_level:      %s\n", cfg.LogLevel)
		fmt.Printf("  log_file:       %s\n", cfg.LogFile)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save it to the config file.

Keys: server_url, page_size, confirm_delete, log_level, log_file`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		switch key {
		case "server_url":
			cfg.ServerURL = value
		case "page_size":
			size, err := strconv.Atoi(value)
			if err != nil || size < 1 {
				return fmt.Errorf("page_size must be a positive integer")
			}
			cfg.PageSize = size
		case "confirm_delete":
			confirm, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("confirm_delete must be true or false")
			}
			cfg.ConfirmDelete = confirm
		case "log_level":
			cfg.LogLevel = value
		case "log_file":
			cfg.LogFile = value
		default:
			return fmt.Errorf("unknown config key %q", key)
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("✓ Set %s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
