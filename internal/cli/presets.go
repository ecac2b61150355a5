package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPresetsCmd(a *app) *cobra.Command {
	var types bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Print the chain preset as YAML",
		Long: `Presets prints the preset selected with --preset, or the built-in
default chain, as YAML with every parameter filled in. Use it as a
starting point for your own presets.

Examples:
  fxchain presets > master.yaml
  fxchain presets --types`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if types {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(a.registry.Types(), "\n"))
				return err
			}

			p, err := a.loadPreset()
			if err != nil {
				return fmt.Errorf("presets: %w", err)
			}

			chain, err := a.buildChain(0)
			if err != nil {
				return fmt.Errorf("presets: %w", err)
			}

			data, err := chain.Preset(p.Name).Marshal()
			if err != nil {
				return fmt.Errorf("presets: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().BoolVar(&types, "types", false, "list the available effect types instead")

	return cmd
}
