// Config loading for the rollcalld CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/rollcall/internal/paths"
	"github.com/mesh-intelligence/rollcall/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyPort         = "port"
	cfgKeyDataDir      = "data_dir"
	cfgKeyExportDir    = "export_dir"
	cfgKeyTimezone     = "timezone"
	cfgKeyDebounce     = "debounce_ms"
	cfgKeyRolloverPoll = "rollover_poll_sec"
	cfgKeyExportDelay  = "export_delay_ms"
	cfgKeyPageSize     = "page_size"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# rollcalld configuration

# HTTP listen port
port: 3000

# Partition and spreadsheet directories (optional; overridable by flags)
# data_dir:
# export_dir:

# Reference timezone for day boundaries
timezone: Asia/Seoul

# Persistence and export timing
debounce_ms: 100
rollover_poll_sec: 30
export_delay_ms: 600

# Members listing page size
page_size: 5
`

// loadConfig resolves the config directory, reads config.yaml through
// Viper, and assembles the runtime Config. It creates the config
// directory and a default config.yaml on first run. ROLLCALL_* environment
// variables override file values; flags override both.
func loadConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyPort, 3000)
	v.SetDefault(cfgKeyTimezone, types.DefaultTimezone)
	v.SetDefault(cfgKeyDebounce, 100)
	v.SetDefault(cfgKeyRolloverPoll, 30)
	v.SetDefault(cfgKeyExportDelay, 600)
	v.SetDefault(cfgKeyPageSize, 5)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("ROLLCALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config.yaml is not an error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	exportDir, err := paths.ResolveExportDir(flags.exportDir, v.GetString(cfgKeyExportDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve export dir: %w", err)
	}

	cfg := types.Config{
		Port:            v.GetInt(cfgKeyPort),
		DataDir:         dataDir,
		ExportDir:       exportDir,
		Timezone:        v.GetString(cfgKeyTimezone),
		DebounceMS:      v.GetInt(cfgKeyDebounce),
		RolloverPollSec: v.GetInt(cfgKeyRolloverPoll),
		ExportDelayMS:   v.GetInt(cfgKeyExportDelay),
		PageSize:        v.GetInt(cfgKeyPageSize),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
