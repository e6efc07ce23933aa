package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/render"
)

const (
	app = "doc-matcher"
)

type Config struct {
	APIURL       string        `mapstructure:"api-url"`
	SessionFile  string        `mapstructure:"session-file"`
	UserAgent    string        `mapstructure:"user-agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Output       string        `mapstructure:"output"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	AI           *AIConfig     `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Focus        string        `mapstructure:"focus"`
	Instructions string        `mapstructure:"instructions"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "doc-matcher is a cli for recruiters working with the Smart Document Matcher backend",
		Long: "doc-matcher manages job descriptions and consultant profiles, shows the best matching " +
			"consultants for a job and tracks the matching workflow.",
		SilenceUsage: true,
	}
)

// Execute executes the root command. SIGINT and SIGTERM cancel in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	envs := map[string]string{
		"api-url":                "DOC_MATCHER_API_URL",
		"session-file":           "DOC_MATCHER_SESSION_FILE",
		"output":                 "DOC_MATCHER_OUTPUT",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.gemini.model":        "GEMINI_MODEL",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("api-url", matcher.DefaultAPIURL)
	viper.SetDefault("timeout", matcher.DefaultTimeout)
	viper.SetDefault("output", render.FormatCards)
	viper.SetDefault("max-log-length", 500)
	viper.SetDefault("ai.gemini.max-retries", 3)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is doc-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("output", "o", render.FormatCards, "output format: cards, json or yaml")
	rootCmd.PersistentFlags().String("api-url", matcher.DefaultAPIURL, "backend api base url")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}
