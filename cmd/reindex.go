/*
Copyright © 2025 arthamitra
*/
package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/arthamitra/finassist-be/config"
	"github.com/arthamitra/finassist-be/database"
	"github.com/arthamitra/finassist-be/repository"
	"github.com/arthamitra/finassist-be/service"
)

// reindexCmd represents the reindex command
var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild one user's vector index from the ledger",
	Long: `Deletes every indexed document of the given user and re-embeds their
ledger records from scratch. Full replace, not additive.`,
	Run: func(cmd *cobra.Command, args []string) {
		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			log.Fatal("--user is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		mongoClient, err := database.NewMongoClient(context.Background(), cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		ledger := repository.NewLedgerRepo(mongoClient.Database(cfg.MongoDatabase))

		userIndex, err := newVectorIndex(cfg, database.UserDataCollection)
		if err != nil {
			log.Fatalf("Failed to open user data index: %v", err)
		}
		defer userIndex.Close()

		embedder := service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		indexService := service.NewIndexService(userIndex, embedder, ledger)

		indexed, err := indexService.ReindexUser(context.Background(), userID)
		if err != nil {
			log.Fatalf("Failed to reindex user %s: %v", userID, err)
		}
		log.Printf("Reindexed %d records for user %s", indexed, userID)
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)

	reindexCmd.Flags().StringP("user", "u", "", "User id to reindex")
}
