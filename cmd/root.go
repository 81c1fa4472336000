package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobpulse/internal/resume"
	"github.com/spigell/jobpulse/internal/sources"
)

const (
	app = "jobpulse"
)

type Config struct {
	UserAgent   string             `mapstructure:"user-agent"`
	Fetch       *FetchConfig       `mapstructure:"fetch"`
	Boards      sources.Boards     `mapstructure:"boards"`
	Exclude     *ExcludeConfig     `mapstructure:"exclude"`
	Resume      resume.Config      `mapstructure:"resume"`
	Embedder    *EmbedderConfig    `mapstructure:"embedder"`
	CoverLetter *CoverLetterConfig `mapstructure:"cover-letter"`
	Export      *ExportConfig      `mapstructure:"export"`
	Skills      []string           `mapstructure:"skills"`
}

type FetchConfig struct {
	Query             string        `mapstructure:"query"`
	Limit             int           `mapstructure:"limit"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests-per-second"`
	Burst             int           `mapstructure:"burst"`
	CatalogFile       string        `mapstructure:"catalog-file"`
}

type ExcludeConfig struct {
	Companies      []string `mapstructure:"companies"`
	RemoteOnly     bool     `mapstructure:"remote-only"`
	LocationsAllow []string `mapstructure:"locations-allow"`
	LocationsBlock []string `mapstructure:"locations-block"`
}

type EmbedderConfig struct {
	Provider   string        `mapstructure:"provider"`
	Dimensions int           `mapstructure:"dimensions"`
	Gemini     *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	KeyringAccount string `mapstructure:"keyring-account"`
	Model          string `mapstructure:"model"`
	MaxRetries     int    `mapstructure:"max-retries"`
}

type CoverLetterConfig struct {
	Name string `mapstructure:"name"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobpulse aggregates remote job postings and ranks them against your resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("embedder.gemini.api-key-file", "JOBPULSE_GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding JOBPULSE_GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobpulse.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("user-agent", app+"/1.0")
	viper.SetDefault("fetch.limit", 150)
	viper.SetDefault("fetch.timeout", 30*time.Second)
	viper.SetDefault("fetch.requests-per-second", 2)
	viper.SetDefault("fetch.burst", 2)
	viper.SetDefault("resume.max-bytes", 10<<20)
	viper.SetDefault("embedder.provider", "hashing")
	viper.SetDefault("embedder.dimensions", 256)
	viper.SetDefault("embedder.gemini.model", "text-embedding-004")
	viper.SetDefault("embedder.gemini.max-retries", 3)
	viper.SetDefault("cover-letter.name", "Your Name")
}

func initConfig() {
	// Only the run command needs a config.
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults cover a missing jobpulse.yaml; an explicit --config must exist.
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

	if config.Fetch == nil {
		config.Fetch = &FetchConfig{}
	}
	if config.Exclude == nil {
		config.Exclude = &ExcludeConfig{}
	}
	if config.Embedder == nil {
		config.Embedder = &EmbedderConfig{}
	}
	if config.Embedder.Gemini == nil {
		config.Embedder.Gemini = &GeminiConfig{}
	}
	if config.CoverLetter == nil {
		config.CoverLetter = &CoverLetterConfig{}
	}
	if config.Export == nil {
		config.Export = &ExportConfig{}
	}

	return config, nil
}
