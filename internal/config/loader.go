package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "DHTDOCTOR",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "DHTDOCTOR",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (DHTDOCTOR_*)
// 3. Project config (.dht-doctor.yaml in current directory)
// 4. User config (~/.config/dht-doctor/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".dht-doctor")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "dht-doctor"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	// Log defaults
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	// Crawler defaults. The candidate list covers the build layouts the
	// crawler project produces.
	l.v.SetDefault("crawler.candidates", []string{
		"./builds/macos/arm/Release/dht_crawler",
		"./builds/linux/x86_64/Release/dht_crawler",
		"./build/Release/dht_crawler",
		"./build/dht_crawler",
		"./dht_crawler",
	})
	l.v.SetDefault("crawler.workdir", "")
	l.v.SetDefault("crawler.user", "test")
	l.v.SetDefault("crawler.password", "test")
	l.v.SetDefault("crawler.database", "test")
	l.v.SetDefault("crawler.target", "00009643dee7016aa207644c782918db9fe39f86")
	l.v.SetDefault("crawler.debug", true)
	l.v.SetDefault("crawler.verbose", true)

	// Monitor defaults
	l.v.SetDefault("monitor.deadline", "120s")
	l.v.SetDefault("monitor.grace", "5s")
	l.v.SetDefault("monitor.max_anomalies", 200)

	// Probe defaults: the well-known DHT bootstrap routers.
	l.v.SetDefault("probe.targets", []string{
		"router.utorrent.com",
		"router.bittorrent.com",
		"dht.transmissionbt.com",
	})
	l.v.SetDefault("probe.timeout", "3s")
	l.v.SetDefault("probe.parallel", 1)

	// Report defaults
	l.v.SetDefault("report.format", "text")

	// Serve defaults
	l.v.SetDefault("serve.addr", "127.0.0.1:8787")
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}
