package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/deconflict/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or modify deconflict configuration.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Recursive: %t\n", cfg.Scan.Recursive)
			fmt.Printf("Cross Device: %t\n", cfg.Scan.CrossDevice)
			fmt.Printf("Include Local Mounts: %t\n", cfg.Scan.IncludeLocalMounts)
			fmt.Printf("Comparison Method: %s\n", cfg.Compare.Method)
			fmt.Printf("Buffer Size: %d\n", cfg.Compare.BufferSize)
			fmt.Printf("Ledger Path: %s\n", cfg.Ledger.Path)
			fmt.Printf("Show Identical: %t\n", cfg.Output.ShowIdentical)
			fmt.Printf("Logging Enabled: %t\n", cfg.Logging.Enabled)
			fmt.Printf("Log Level: %s\n", cfg.Logging.Level)
			if len(cfg.CloudFolders) > 0 {
				fmt.Println("Extra Cloud Folders:")
				for _, pattern := range cfg.CloudFolders {
					fmt.Printf("  - %s\n", pattern)
				}
			}

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}

			fmt.Printf("Configuration file created at: %s\n", path)
			return nil
		},
	}
}
