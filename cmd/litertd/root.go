package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MaxGubin/LiteRT/internal/config"
)

// rootFlags collects everything shared by the subcommands. File config loads
// first; set flags win over file values.
type rootFlags struct {
	configPath string
	logLevel   string

	addr               string
	modelsDir          string
	defaultModel       string
	accelerator        string
	dispatchLibraryDir string
	cacheSize          int
	maxQueueDepth      int
	maxWaitMS          int
	corsOrigins        string
}

func rootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "litertd",
		Short:         "LiteRT model serving daemon and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Config file (.yaml/.yml, .json, .toml)")
	pf.StringVar(&f.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	pf.StringVar(&f.modelsDir, "models-dir", "~/models/tflite", "Directory to scan for *.tflite model files")
	pf.StringVar(&f.accelerator, "accelerator", "none", "Compilation target: none|cpu|gpu|npu")
	pf.StringVar(&f.dispatchLibraryDir, "dispatch-library-dir", "", "Directory with vendor dispatch libraries")

	root.AddCommand(serveCmd(f), modelsCmd(f), runCmd(f))
	return root
}

// loadConfig merges the optional config file with the flags set on cmd.
func loadConfig(cmd *cobra.Command, f *rootFlags) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		var err error
		cfg, err = config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
	}
	override := func(name string, apply func()) {
		if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
			apply()
		}
	}
	override("addr", func() { cfg.Addr = f.addr })
	override("models-dir", func() { cfg.ModelsDir = f.modelsDir })
	override("default-model", func() { cfg.DefaultModel = f.defaultModel })
	override("accelerator", func() { cfg.Accelerator = f.accelerator })
	override("dispatch-library-dir", func() { cfg.DispatchLibraryDir = f.dispatchLibraryDir })
	override("cache-size", func() { cfg.CacheSize = f.cacheSize })
	override("max-queue-depth", func() { cfg.MaxQueueDepth = f.maxQueueDepth })
	override("max-wait-ms", func() { cfg.MaxWaitMS = f.maxWaitMS })

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = f.modelsDir
	}
	if cfg.Accelerator == "" {
		cfg.Accelerator = f.accelerator
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// splitCSV splits a comma separated flag value, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
