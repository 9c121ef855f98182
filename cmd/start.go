/*
Copyright © 2025 arthamitra
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/arthamitra/finassist-be/config"
	"github.com/arthamitra/finassist-be/database"
	"github.com/arthamitra/finassist-be/handler"
	"github.com/arthamitra/finassist-be/middleware"
	"github.com/arthamitra/finassist-be/repository"
	"github.com/arthamitra/finassist-be/service"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the finance assistant server",
	Long:  `Starts the server handling AI chat and record indexing requests`,
	Run: func(cmd *cobra.Command, args []string) {
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
		knowledgeIndex, err := newVectorIndex(cfg, database.KnowledgeCollection)
		if err != nil {
			log.Fatalf("Failed to open knowledge index: %v", err)
		}
		defer knowledgeIndex.Close()

		embedder := service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		aiService := newAIService(cfg)

		summaryService := service.NewSummaryService(ledger)
		indexService := service.NewIndexService(userIndex, embedder, ledger)
		ragService := service.NewRAGService(
			embedder, userIndex, knowledgeIndex, summaryService, aiService, cfg.RequestTimeout())
		wsService := service.NewWebSocketService(ragService)

		corsHandler := handler.NewCorsHandler()
		chatHandler := handler.NewChatHandler(ragService, wsService)
		recordHandler := handler.NewRecordHandler(indexService)

		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		apiV1.Use(middleware.AuthMiddleware)
		{
			apiV1.POST("/chat/message", chatHandler.HandleChatMessage)
			apiV1.GET("/chat/suggestions", chatHandler.HandleSuggestions)
			apiV1.GET("/chat/ws", chatHandler.HandleChatWS)

			apiV1.POST("/records", recordHandler.HandleIndexRecord)
			apiV1.POST("/records/reindex", recordHandler.HandleReindex)
			apiV1.DELETE("/records", recordHandler.HandleClear)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func newAIService(cfg *config.Config) service.AIService {
	switch cfg.AIProvider {
	case "openai":
		return service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model)
	default:
		geminiService, err := service.NewGeminiService([]string{cfg.GeminiAPIKey}, cfg.Model)
		if err != nil {
			log.Fatalf("Failed to create Gemini service: %v", err)
		}
		return geminiService
	}
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
