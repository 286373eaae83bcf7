package config

import (
	"os"
	"path"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SysConfig system settings
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig admin api listener
type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// DBConfig persistence backend settings. Type selects the backend:
// bolt (default), postgres or memory.
type DBConfig struct {
	Type          string `yaml:"type" json:"type"`
	Path          string `yaml:"path" json:"path"`
	Host          string `yaml:"host" json:"host"`
	Port          int    `yaml:"port" json:"port"`
	Name          string `yaml:"name" json:"name"`
	User          string `yaml:"user" json:"user"`
	Passwd        string `yaml:"passwd" json:"passwd"`
	MaxConn       int    `yaml:"max_conn" json:"max_conn"`
	IdleConn      int    `yaml:"idle_conn" json:"idle_conn"`
	Debug         bool   `yaml:"debug" json:"debug"`
	MaxValueBytes int    `yaml:"max_value_bytes" json:"max_value_bytes"`
	MaxTotalBytes int    `yaml:"max_total_bytes" json:"max_total_bytes"`
}

// LogConfig logger settings
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// StoreConfig content store tuning
type StoreConfig struct {
	MaxNotifications  int `yaml:"max_notifications" json:"max_notifications"`
	ImageMaxDimension int `yaml:"image_max_dimension" json:"image_max_dimension"`
	ImageQuality      int `yaml:"image_quality" json:"image_quality"`
	ImageMaxPixels    int `yaml:"image_max_pixels" json:"image_max_pixels"`
	CompressWorkers   int `yaml:"compress_workers" json:"compress_workers"`
	BackupKeep        int `yaml:"backup_keep" json:"backup_keep"`
}

type AppConfig struct {
	System   SysConfig   `yaml:"system" json:"system"`
	Web      WebConfig   `yaml:"web" json:"web"`
	Database DBConfig    `yaml:"database" json:"database"`
	Logger   LogConfig   `yaml:"logger" json:"logger"`
	Store    StoreConfig `yaml:"store" json:"store"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetBackupDir() string {
	return path.Join(c.System.Workdir, "backup")
}

// InitDirs creates the working directory layout.
func (c *AppConfig) InitDirs() error {
	for _, dir := range []string{c.GetLogDir(), c.GetDataDir(), c.GetBackupDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return nil
}

// DatabasePath returns the bolt file location.
func (c *AppConfig) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return path.Join(c.GetDataDir(), "storefront.db")
}

// DefaultAppConfig returns the built-in configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "Storefront",
			Location: "Asia/Riyadh",
			Workdir:  "/var/storefront",
			Debug:    true,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 1817,
		},
		Database: DBConfig{
			Type:     "bolt",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "storefront",
			User:     "postgres",
			Passwd:   "myroot",
			MaxConn:  20,
			IdleConn: 5,

			MaxTotalBytes: 5 * 1024 * 1024,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: true,
			Filename:   "/var/storefront/logs/storefront.log",
		},
		Store: StoreConfig{
			MaxNotifications:  50,
			ImageMaxDimension: 800,
			ImageQuality:      70,
			ImageMaxPixels:    40_000_000,
			CompressWorkers:   4,
			BackupKeep:        7,
		},
	}
}

// LoadConfig reads cfile when it exists, falling back to the defaults,
// then applies STOREFRONT_* environment overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", cfile)
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
	}
	if err := applyEnv(cfg, os.Environ()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envBindings maps environment variable names to yaml paths.
var envBindings = map[string]string{
	"STOREFRONT_SYSTEM_WORKDIR":            "system.workdir",
	"STOREFRONT_SYSTEM_LOCATION":           "system.location",
	"STOREFRONT_SYSTEM_DEBUG":              "system.debug",
	"STOREFRONT_WEB_HOST":                  "web.host",
	"STOREFRONT_WEB_PORT":                  "web.port",
	"STOREFRONT_DB_TYPE":                   "database.type",
	"STOREFRONT_DB_PATH":                   "database.path",
	"STOREFRONT_DB_HOST":                   "database.host",
	"STOREFRONT_DB_PORT":                   "database.port",
	"STOREFRONT_DB_NAME":                   "database.name",
	"STOREFRONT_DB_USER":                   "database.user",
	"STOREFRONT_DB_PWD":                    "database.passwd",
	"STOREFRONT_DB_MAX_TOTAL_BYTES":        "database.max_total_bytes",
	"STOREFRONT_LOGGER_MODE":               "logger.mode",
	"STOREFRONT_LOGGER_FILE_ENABLE":        "logger.file_enable",
	"STOREFRONT_STORE_MAX_NOTIFICATIONS":   "store.max_notifications",
	"STOREFRONT_STORE_IMAGE_MAX_DIMENSION": "store.image_max_dimension",
	"STOREFRONT_STORE_IMAGE_QUALITY":       "store.image_quality",
	"STOREFRONT_STORE_IMAGE_MAX_PIXELS":    "store.image_max_pixels",
}

func applyEnv(cfg *AppConfig, environ []string) error {
	overrides := map[string]interface{}{}
	for _, kv := range environ {
		name, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		p, ok := envBindings[name]
		if !ok {
			continue
		}
		section, field, _ := strings.Cut(p, ".")
		sub, _ := overrides[section].(map[string]interface{})
		if sub == nil {
			sub = map[string]interface{}{}
			overrides[section] = sub
		}
		sub[field] = value
	}
	if len(overrides) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return errors.Wrap(err, "env decoder")
	}
	return errors.Wrap(dec.Decode(overrides), "apply env overrides")
}
