// Package config loads hwid settings from hwid.yaml and HWID_* variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
	RestartDelay  time.Duration `mapstructure:"restart_delay"`
	BackupFile    string        `mapstructure:"backup_file"`
	NativeWMI     bool          `mapstructure:"native_wmi"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
	LogFile       string        `mapstructure:"log_file"`
	LogMaxSizeMB  int           `mapstructure:"log_max_size_mb"`
	LogMaxBackups int           `mapstructure:"log_max_backups"`
	Output        string        `mapstructure:"output"`
}

func Default() *Config {
	return &Config{
		ProbeTimeout:  5 * time.Second,
		RestartDelay:  2 * time.Second,
		BackupFile:    "hwid_backup.reg",
		LogLevel:      "info",
		LogFormat:     "text",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		Output:        "text",
	}
}

// Load reads cfgFile, or hwid.yaml from the config dir and the working
// directory when cfgFile is empty. A missing default file is not an error.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()
	v := viper.New()

	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("hwid")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("HWID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent
// from the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("probe_timeout", cfg.ProbeTimeout)
	v.SetDefault("restart_delay", cfg.RestartDelay)
	v.SetDefault("backup_file", cfg.BackupFile)
	v.SetDefault("native_wmi", cfg.NativeWMI)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("log_max_size_mb", cfg.LogMaxSizeMB)
	v.SetDefault("log_max_backups", cfg.LogMaxBackups)
	v.SetDefault("output", cfg.Output)
}

// Dir is where hwid.yaml is looked up by default.
func Dir() string {
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			return filepath.Join(pd, "hwid")
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "hwid")
	}
	return "."
}
