package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/talentscout/internal/ai/openaiapi"
	"github.com/spigell/talentscout/internal/storage"
)

const (
	app = "talentscout"
)

type Config struct {
	StorageFile string    `mapstructure:"storage-file"`
	AI          *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	// Provider is one of auto, mock, openai or gemini.
	Provider     string        `mapstructure:"provider"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api-key"`
	APIKeyFile  string  `mapstructure:"api-key-file"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max-tokens"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentscout is a terminal hiring assistant that screens candidates and generates technical questions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	for key, env := range map[string]string{
		"storage-file":      "STORAGE_FILE",
		"ai.provider":       "AI_PROVIDER",
		"ai.openai.api-key": "OPENAI_API_KEY",
		"ai.openai.model":   "OPENAI_MODEL",
		"ai.gemini.api-key": "GEMINI_API_KEY",
		"ai.gemini.model":   "GEMINI_MODEL",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-output", "stderr", "where logs are written: stderr, stdout or a file path")
	rootCmd.PersistentFlags().StringP("storage-file", "s", "", "file where submissions are stored (default is "+storage.DefaultPath+")")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-output", rootCmd.PersistentFlags().Lookup("log-output"))
	viper.BindPFlag("storage-file", rootCmd.PersistentFlags().Lookup("storage-file"))
}

func setDefaults() {
	viper.SetDefault("storage-file", storage.DefaultPath)
	viper.SetDefault("ai.provider", providerAuto)
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("ai.openai.model", openaiapi.DefaultModel)
	viper.SetDefault("ai.openai.temperature", openaiapi.DefaultTemperature)
	viper.SetDefault("ai.openai.max-tokens", openaiapi.DefaultMaxTokens)
}

func initConfig() {
	// A missing .env is fine, variables may come from the real environment.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Only an explicitly requested config file must exist.
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
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.OpenAI == nil {
		config.AI.OpenAI = &OpenAIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
