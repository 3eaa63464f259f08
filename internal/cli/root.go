package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rl1809/bata-cart/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bata-cart",
		Short:         "Shopping cart service for the Bata storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", os.Getenv("BATA_CONFIG"), "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))

	return cmd
}

func (o *RootOptions) loadConfig() (config.Config, error) {
	return config.Load(o.ConfigPath)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
