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
	"github.com/arthamitra/finassist-be/service"
)

// seedKnowledgeCmd represents the seedKnowledge command
var seedKnowledgeCmd = &cobra.Command{
	Use:   "seed-knowledge",
	Short: "Seed the shared financial knowledge index",
	Long: `Embeds and stores the curated financial knowledge set (regulatory facts,
investment guidelines, planning heuristics) into the shared knowledge
index. Safe to re-run: items already stored are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		knowledgeIndex, err := newVectorIndex(cfg, database.KnowledgeCollection)
		if err != nil {
			log.Fatalf("Failed to open knowledge index: %v", err)
		}
		defer knowledgeIndex.Close()

		embedder := service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		knowledgeService := service.NewKnowledgeService(knowledgeIndex, embedder)

		inserted, err := knowledgeService.Seed(context.Background())
		if err != nil {
			log.Fatalf("Failed to seed knowledge: %v", err)
		}
		log.Printf("Seeded %d knowledge items", inserted)
	},
}

func init() {
	rootCmd.AddCommand(seedKnowledgeCmd)
}
