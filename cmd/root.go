/*
Copyright © 2025 arthamitra
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthamitra/finassist-be/config"
	"github.com/arthamitra/finassist-be/database"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finassist-be",
	Short: "Personal finance assistant backend",
	Long: `Backend for a personal finance assistant that answers questions over a
user's financial records with retrieval-augmented generation: records are
formatted, embedded and indexed per user next to a shared financial
knowledge base, and chat responses are grounded in both plus a live
financial snapshot.`,
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
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newVectorIndex opens one of the two index collections with the backend
// the config selects.
func newVectorIndex(cfg *config.Config, collection string) (database.VectorIndex, error) {
	if cfg.VectorStore == "weaviate" {
		return database.NewWeaviateIndex(cfg.WeaviateStoreConfig, collection)
	}
	return database.NewLocalIndex(cfg.IndexDir, collection)
}
