package app

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ballotbox/votekit/pkg/constants"
	pkgerrors "github.com/ballotbox/votekit/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file actually read, empty when none was found
	ConfigFile string

	// Node
	RPCURL  string
	ChainID int64
	Network string

	// Project paths
	ArtifactPath      string
	ConsumerABIPath   string
	DeploymentPath    string
	ClientContextPath string
	ExtractDir        string

	// Logging. LogLevel is only set by --log-level; EnvLogLevel comes from
	// LOG_LEVEL and the config file.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or .votekit.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is only an error when it was asked for explicitly
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, pkgerrors.NewConfigError("config file", "cannot read "+configFile, err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		RPCURL:  v.GetString("rpc_url"),
		ChainID: v.GetInt64("chain_id"),
		Network: v.GetString("network"),

		ArtifactPath:      v.GetString("artifact_path"),
		ConsumerABIPath:   v.GetString("consumer_abi_path"),
		DeploymentPath:    v.GetString("deployment_path"),
		ClientContextPath: v.GetString("client_context_path"),
		ExtractDir:        v.GetString("extract_dir"),

		EnvLogLevel: v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
	}

	if config.ChainID <= 0 {
		return nil, pkgerrors.NewConfigError("chain_id", "must be positive", nil)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc_url", constants.DefaultRPCURL)
	v.SetDefault("chain_id", constants.DefaultChainID)
	v.SetDefault("network", constants.DefaultNetwork)
	v.SetDefault("artifact_path", constants.DefaultArtifactPath)
	v.SetDefault("consumer_abi_path", constants.DefaultConsumerABIPath)
	v.SetDefault("deployment_path", constants.DefaultDeploymentPath)
	v.SetDefault("client_context_path", constants.DefaultClientContextPath)
	v.SetDefault("extract_dir", constants.DefaultExtractDir)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, rpcURL string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if rpcURL != "" {
		c.RPCURL = rpcURL
	}
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides a variable that is already set, so .env
// wins over .env.local for keys both define.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
