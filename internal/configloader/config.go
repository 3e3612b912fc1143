package configloader

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Structure to bind application parameters
type Config struct {
	LogLevel            string `mapstructure:"LOG_LEVEL"`             // logrus library log level to be assigned
	LogFormat           string `mapstructure:"LOG_FORMAT"`            // "text" or "json"
	LogSyslog           bool   `mapstructure:"LOG_SYSLOG"`            // mirror entries to the system log
	BundlePath          string `mapstructure:"BUNDLE_PATH"`           // package root, derived from the executable when empty
	ExecutableKey       string `mapstructure:"EXECUTABLE_KEY"`        // descriptor key naming the companion executable
	ExternalLibraryPath string `mapstructure:"EXTERNAL_LIBRARY_PATH"` // host install that makes the cache patch unnecessary
	LoaderCacheFile     string `mapstructure:"LOADER_CACHE_FILE"`     // cache file name inside the bundled lib folder
	EnvironmentFile     string `mapstructure:"ENVIRONMENT_FILE"`      // dotenv file inside the resources folder
}

var defaults = map[string]interface{}{
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "text",
	"LOG_SYSLOG":            syslogAvailable,
	"BUNDLE_PATH":           "",
	"EXECUTABLE_KEY":        "RustBinaryName",
	"EXTERNAL_LIBRARY_PATH": "/usr/local/opt/gdk-pixbuf/",
	"LOADER_CACHE_FILE":     "pixbux-loaders.cache",
	"ENVIRONMENT_FILE":      "launcher.env",
}

// Initialize default parameters values
func initDefaultConfiguration(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Load configuration from env file
func LoadConfiguration(applicationName string, configurationFilePath string) (config Config, err error) {
	v := viper.New()
	initDefaultConfiguration(v)

	if configurationFilePath == "" {
		// Read the volume root path
		root := filepath.VolumeName(".")
		if root == "" {
			root = string(filepath.Separator)
		}

		// Set configuration named config from etc/*appName*, $HOME/.*appName* or current folders
		v.AddConfigPath(filepath.Join(root, "etc", applicationName))
		v.AddConfigPath(filepath.Join("$HOME", "."+applicationName))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	} else {
		// Set the configuration file path
		v.SetConfigFile(configurationFilePath)
	}

	// Get configuration from environment variables, if set
	v.AutomaticEnv()

	// Get configuration from configuration file, if set
	if configError := v.ReadInConfig(); configError != nil {
		logrus.Warn(configError.Error())
	}
	err = v.Unmarshal(&config)

	return
}
