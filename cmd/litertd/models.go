package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MaxGubin/LiteRT/internal/registry"
)

func modelsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models found in the models directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			reg, err := registry.LoadDir(cfg.ModelsDir)
			if err != nil {
				return err
			}
			if len(reg) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no .tflite models in %s\n", cfg.ModelsDir)
				return nil
			}
			for _, m := range reg {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\t%s\n", m.ID, m.SizeBytes, m.Path)
			}
			return nil
		},
	}
}
