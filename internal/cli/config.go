package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type settings struct {
	ProviderURL string `yaml:"provider_url"`
	Timeout     string `yaml:"timeout"`
	ErrorScope  string `yaml:"error_scope"`
	Verbose     bool   `yaml:"verbose"`
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect livewise settings",
		Long: `Settings resolve in this order (highest first):
1. CLI flags
2. Environment variables (LIVEWISE_PROVIDER_URL, LIVEWISE_TIMEOUT, ...)
3. Defaults`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(settings{
				ProviderURL: a.v.GetString(keyProviderURL),
				Timeout:     a.v.GetDuration(keyTimeout).String(),
				ErrorScope:  a.v.GetString(keyErrorScope),
				Verbose:     a.v.GetBool(keyVerbose),
			})
			if err != nil {
				return fmt.Errorf("marshal settings: %w", err)
			}
			_, err = a.out.Write(out)
			return err
		},
	})
	return cmd
}
