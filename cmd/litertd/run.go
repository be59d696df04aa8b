package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MaxGubin/LiteRT/internal/common/fsutil"
	"github.com/MaxGubin/LiteRT/pkg/types"
)

func runCmd(f *rootFlags) *cobra.Command {
	var (
		signature  string
		inputsPath string
		inputCSV   string
	)
	cmd := &cobra.Command{
		Use:   "run <model.tflite>",
		Short: "Run a one-shot inference against a model file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			log := newLogger(f.logLevel)

			path, err := fsutil.ExpandHome(args[0])
			if err != nil {
				return err
			}
			if !fsutil.PathExists(path) {
				return fmt.Errorf("model file not found: %s", path)
			}

			inputs, err := readInputs(inputsPath, inputCSV)
			if err != nil {
				return err
			}

			eng := buildEngine(cfg, log)
			defer eng.Close()
			runner, err := eng.Load(path)
			if err != nil {
				return err
			}
			defer runner.Close()

			outputs, err := runner.Run(cmd.Context(), signature, inputs)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(outputs)
		},
	}
	cmd.Flags().StringVar(&signature, "signature", "", "Signature key (empty selects the first)")
	cmd.Flags().StringVar(&inputsPath, "inputs", "", "JSON file with input tensors")
	cmd.Flags().StringVar(&inputCSV, "data", "", "Comma separated float32 values for a single input")
	return cmd
}

// readInputs builds the input tensors from --inputs (JSON) or --data (CSV).
func readInputs(inputsPath, inputCSV string) ([]types.Tensor, error) {
	switch {
	case inputsPath != "" && inputCSV != "":
		return nil, fmt.Errorf("--inputs and --data are mutually exclusive")
	case inputsPath != "":
		b, err := os.ReadFile(inputsPath)
		if err != nil {
			return nil, err
		}
		var tensors []types.Tensor
		if err := json.Unmarshal(b, &tensors); err != nil {
			return nil, fmt.Errorf("parse %s: %w", inputsPath, err)
		}
		return tensors, nil
	case inputCSV != "":
		var data []float32
		for _, s := range splitCSV(inputCSV) {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, fmt.Errorf("bad value %q: %w", s, err)
			}
			data = append(data, float32(v))
		}
		return []types.Tensor{{Data: data}}, nil
	}
	return nil, fmt.Errorf("provide --inputs or --data")
}
