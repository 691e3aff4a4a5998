package flags

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarConfigFile = "MCPCAT_CONFIG_FILE"
	EnvVarLogPath    = "MCPCAT_LOG_PATH"
	EnvVarLogLevel   = "MCPCAT_LOG_LEVEL"

	// Defaults
	DefaultConfigFile = ".mcpcat.toml"
	DefaultLogPath    = ""
	DefaultLogLevel   = "info"

	// Flag names
	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"
	FlagNameAPIURL     = "api-url"
	FlagNameTimeout    = "timeout"
)

var (
	ConfigFile string
	LogPath    string
	LogLevel   string

	// APIURL and Timeout have no environment fallback here: the config package resolves
	// NEXT_PUBLIC_API_URL and MCPCAT_TIMEOUT so that flags only win when explicitly set.
	APIURL  string
	Timeout time.Duration
)

func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initLogger(fs)
	initCatalog(fs)
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarConfigFile)); env != "" {
			ConfigFile = env
		} else {
			ConfigFile = DefaultConfigFile
		}
	}
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to config file")
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogPath)); env != "" {
			LogPath = env
		} else {
			LogPath = DefaultLogPath
		}
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to generated log file")

	if LogLevel == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogLevel)); env != "" {
			LogLevel = strings.ToLower(env)
		} else {
			LogLevel = DefaultLogLevel
		}
	}
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level for mcpcat logs")
}

func initCatalog(fs *pflag.FlagSet) {
	fs.StringVar(&APIURL, FlagNameAPIURL, APIURL, "base URL of the catalog service (overrides NEXT_PUBLIC_API_URL)")
	fs.DurationVar(&Timeout, FlagNameTimeout, Timeout, "timeout for each catalog request (overrides MCPCAT_TIMEOUT)")
}
