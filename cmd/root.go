package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "farewelly"
)

type Config struct {
	Listen string        `mapstructure:"listen"`
	HrFlow *HrFlowConfig `mapstructure:"hrflow"`
	Gemini *GeminiConfig `mapstructure:"gemini"`
	HeyGen *HeyGenConfig `mapstructure:"heygen"`
}

type HrFlowConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	UserEmail  string `mapstructure:"user-email"`
	SourceKey  string `mapstructure:"source-key"`
	BoardKey   string `mapstructure:"board-key"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type HeyGenConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	AvatarID   string `mapstructure:"avatar-id"`
	VoiceID    string `mapstructure:"voice-id"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "farewelly is a recruiting-feedback backend: candidate analysis, rejection emails and avatar videos",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"hrflow.api-key-file": "HRFLOW_API_KEY_FILE",
		"hrflow.user-email":   "HRFLOW_USER_EMAIL",
		"hrflow.source-key":   "HRFLOW_SOURCE_KEY",
		"hrflow.board-key":    "HRFLOW_BOARD_KEY",
		"gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"heygen.api-key-file": "HEYGEN_API_KEY_FILE",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is farewelly.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing config file is fine: everything can come from the environment.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Listen == "" {
		config.Listen = ":8000"
	}
	if config.HrFlow == nil {
		config.HrFlow = &HrFlowConfig{}
	}
	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}
	if config.HeyGen == nil {
		config.HeyGen = &HeyGenConfig{}
	}

	return config, nil
}
