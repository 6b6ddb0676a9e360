package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cvbank"
)

type Config struct {
	Database    *DatabaseConfig `mapstructure:"database"`
	Redis       *RedisConfig    `mapstructure:"redis"`
	Matching    *MatchingConfig `mapstructure:"matching"`
	Schedule    *ScheduleConfig `mapstructure:"schedule"`
	ExcludeFile string          `mapstructure:"exclude-file"`
}

type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	URLFile string `mapstructure:"url-file"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type MatchingConfig struct {
	Workers           int           `mapstructure:"workers"`
	StrictTransitions bool          `mapstructure:"strict-transitions"`
	LockTTL           time.Duration `mapstructure:"lock-ttl"`
}

type ScheduleConfig struct {
	Spec   string `mapstructure:"spec"`
	Listen string `mapstructure:"listen"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cvbank matches CV profiles against job postings and tracks recruiter decisions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"database.url":      "DATABASE_URL",
		"database.url-file": "CVBANK_DATABASE_URL_FILE",
		"redis.url":         "REDIS_URL",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("matching.workers", 4)
	viper.SetDefault("matching.lock-ttl", "5m")
	viper.SetDefault("schedule.spec", "@every 6h")
	viper.SetDefault("schedule.listen", ":9090")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cvbank.yaml in current directory)")
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

	// Everything can come from the environment, so only an explicit or
	// broken config file is fatal.
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

	if config.Database == nil {
		config.Database = &DatabaseConfig{}
	}
	if config.Redis == nil {
		config.Redis = &RedisConfig{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Schedule == nil {
		config.Schedule = &ScheduleConfig{}
	}

	return config, nil
}
