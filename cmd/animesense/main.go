package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/animesense/internal/profile"
	"github.com/hrygo/animesense/internal/version"
	"github.com/hrygo/animesense/plugin/ai"
	"github.com/hrygo/animesense/plugin/ai/recommend"
	"github.com/hrygo/animesense/server"
	"github.com/hrygo/animesense/server/retrieval"
	"github.com/hrygo/animesense/server/runner/indexer"
	"github.com/hrygo/animesense/store"
	"github.com/hrygo/animesense/store/db"
)

const (
	greetingBanner = `
animesense - RAG anime recommender
`
)

var rootCmd = &cobra.Command{
	Use:   "animesense",
	Short: "RAG-based anime recommendation service",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := loadProfile()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to open embedding index; run 'animesense index' first", "error", err)
			cancel()
			return
		}
		storeInstance := store.New(dbDriver, instanceProfile)

		aiConfig := ai.NewConfigFromProfile(instanceProfile)
		embeddingService, err := ai.NewEmbeddingService(&aiConfig.Embedding)
		if err != nil {
			slog.Error("failed to create embedding service", "error", err)
			cancel()
			return
		}
		llmService, err := ai.NewLLMService(&aiConfig.LLM)
		if err != nil {
			slog.Error("failed to create LLM service", "error", err)
			cancel()
			return
		}

		retriever := retrieval.New(storeInstance, embeddingService, instanceProfile.Collection, instanceProfile.SearchK)
		chain := recommend.NewChain(retriever, llmService, instanceProfile.SearchK)

		s := server.NewServer(instanceProfile, storeInstance, chain)

		fmt.Printf("%s\n", greetingBanner)
		fmt.Printf("Version %s has been started on port %d\n", instanceProfile.Version, instanceProfile.Port)

		// Start blocks until the listener fails or a signal arrives.
		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
		}
		s.Shutdown(context.Background())
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the embedding index from the catalog CSV",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := loadProfile()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		dbDriver, err := db.NewBuildDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to open index for build", "error", err)
			return
		}
		storeInstance := store.New(dbDriver, instanceProfile)
		defer storeInstance.Close()

		aiConfig := ai.NewConfigFromProfile(instanceProfile)
		embeddingService, err := ai.NewEmbeddingService(&aiConfig.Embedding)
		if err != nil {
			slog.Error("failed to create embedding service", "error", err)
			return
		}

		if err := indexer.New(instanceProfile, storeInstance, embeddingService).Run(ctx); err != nil {
			slog.Error("index build failed", "error", err)
			os.Exit(1)
		}
	},
}

func loadProfile() *profile.Profile {
	instanceProfile := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Version: version.Version,
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return instanceProfile
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8000)
	viper.SetDefault("data", ".")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8000, "port of server")
	rootCmd.PersistentFlags().String("data", ".", "data directory")

	if err := viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("addr", rootCmd.PersistentFlags().Lookup("addr")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data")); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("animesense")
	viper.AutomaticEnv()

	rootCmd.AddCommand(indexCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
