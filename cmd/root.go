package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/platoro/foodgram/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "foodgram",
	Short: "recipe sharing service",
	Example: `foodgram serve
foodgram db migrate
foodgram ingredient import -f ingredients.json
foodgram ingredient list -n flour`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional yaml config file overriding the environment")

	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(ingredientCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

// loadConfig reads the environment and, when --config was given, overlays the
// yaml file on top.
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	if cfgFile == "" {
		return cfg
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Fatalf("error reading config file: %v", err)
	}

	if v := viper.GetString("port"); v != "" {
		cfg.HTTPPort = v
	}
	if v := viper.GetString("database_url"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := viper.GetString("database_driver"); v != "" {
		cfg.DatabaseDriver = v
	}
	if v := viper.GetString("redis_addr"); v != "" {
		cfg.RedisAddr = v
	}
	if v := viper.GetString("upload_dir"); v != "" {
		cfg.UploadDir = v
	}
	if v := viper.GetString("jwt_secret"); v != "" {
		cfg.JWTSecret = v
	}

	return cfg
}
