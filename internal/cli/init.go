package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/rollcall/internal/jsonstore"
	"github.com/mesh-intelligence/rollcall/internal/paths"
	"github.com/mesh-intelligence/rollcall/pkg/types"
)

// configFile holds the structure written to config.yaml by init. Explicit
// values from flags land in the file so later runs pick them up without
// repeating the flags.
type configFile struct {
	Port            int    `yaml:"port"`
	DataDir         string `yaml:"data_dir,omitempty"`
	ExportDir       string `yaml:"export_dir,omitempty"`
	Timezone        string `yaml:"timezone"`
	DebounceMS      int    `yaml:"debounce_ms"`
	RolloverPollSec int    `yaml:"rollover_poll_sec"`
	ExportDelayMS   int    `yaml:"export_delay_ms"`
	PageSize        int    `yaml:"page_size"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize rollcall storage",
		Long:  "Create configuration, partition, and export directories, then seed today's partition.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("resolve config directory: %s", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("create config directory: %s", err))
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("write config: %s", err))
	}

	cfg, err := loadConfig()
	if err != nil {
		return exitError(cmd, exitUserError, err.Error())
	}
	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("create export directory: %s", err))
	}

	// Opening the store creates the data directory and today's partition.
	store, err := jsonstore.Open(cfg)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("initialize storage: %s", err))
	}
	if err := store.Close(); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("finalize storage: %s", err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Rollcall initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the
// file does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Port:            3000,
		DataDir:         flags.dataDir,
		ExportDir:       flags.exportDir,
		Timezone:        types.DefaultTimezone,
		DebounceMS:      100,
		RolloverPollSec: 30,
		ExportDelayMS:   600,
		PageSize:        5,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
