package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Supported storage drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBLogLevel    string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
	Port          string
	GinMode       string
	OpenAIAPIKey  string
	LogLevel      string
	LogFormat     string
	LogFile       string
}

var defaults = map[string]string{
	"db_driver":      DriverMySQL,
	"db_host":        "localhost",
	"db_port":        "3306",
	"db_user":        "taskuser",
	"db_password":    "taskpassword",
	"db_name":        "task_management",
	"db_log_level":   "warn",
	"sqlite_path":    "tasks.db",
	"mongo_uri":      "mongodb://localhost:27017",
	"mongo_database": "task_management",
	"port":           "8080",
	"gin_mode":       "debug",
	"openai_api_key": "",
	"log_level":      "info",
	"log_format":     "text",
	"log_file":       "",
}

// Load reads configuration from defaults, then the file named by CONFIG_FILE
// (if any), then environment variables. Later sources win.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("config_file"); err != nil {
		return nil, fmt.Errorf("failed to bind CONFIG_FILE: %w", err)
	}
	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		DBDriver:      strings.ToLower(v.GetString("db_driver")),
		DBHost:        v.GetString("db_host"),
		DBPort:        v.GetString("db_port"),
		DBUser:        v.GetString("db_user"),
		DBPassword:    v.GetString("db_password"),
		DBName:        v.GetString("db_name"),
		DBLogLevel:    v.GetString("db_log_level"),
		SQLitePath:    v.GetString("sqlite_path"),
		MongoURI:      v.GetString("mongo_uri"),
		MongoDatabase: v.GetString("mongo_database"),
		Port:          v.GetString("port"),
		GinMode:       v.GetString("gin_mode"),
		OpenAIAPIKey:  v.GetString("openai_api_key"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		LogFile:       v.GetString("log_file"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

// IsSQL reports whether the configured driver is served by GORM
func (c *Config) IsSQL() bool {
	return c.DBDriver != DriverMongo
}
