// Package config implements the config export subcommand.
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtuomin/moodwatch-go/internal/conf"
)

// Command creates the config subcommand: write the effective settings to a
// YAML file users can edit.
func Command(settings *conf.Settings) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the effective configuration to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := conf.ExportSettings(settings, output); err != nil {
				return err
			}
			fmt.Printf("configuration written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "config.yaml", "Output file path")
	return cmd
}
