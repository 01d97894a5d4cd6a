package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/farewelly/farewelly/internal/ai/gemini"
	"github.com/farewelly/farewelly/internal/analysis"
	"github.com/farewelly/farewelly/internal/heygen"
	"github.com/farewelly/farewelly/internal/hrflow"
	"github.com/farewelly/farewelly/internal/logger"
	"github.com/farewelly/farewelly/internal/secrets"
	"github.com/farewelly/farewelly/internal/server"
	"github.com/farewelly/farewelly/internal/video"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the farewelly HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :8000)")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Info("starting farewelly", zap.String("version", version))

	hr, generator := buildCollaborators(ctx, config, l)

	heygenClient := buildHeyGen(config, l)

	service := analysis.NewService(hr, generator, logger.WithUpstream(l, "gemini", config.Gemini.Model))
	tracker := video.NewTracker(heygenClient, l)

	srv := server.New(hr, service, tracker, heygenClient, l)

	if err := srv.Run(ctx, config.Listen); err != nil {
		l.Fatal("serving api", zap.Error(err))
	}
}

// buildCollaborators wires the data provider and the text generator. Both are
// required for the analyze workflow, so configuration errors are fatal here.
func buildCollaborators(ctx context.Context, config *Config, l *zap.Logger) (*hrflow.Client, *gemini.Generator) {
	hrKey, err := secrets.Load(secrets.Source{
		Name: "hrflow api key",
		File: config.HrFlow.APIKeyFile,
	})
	if err != nil {
		l.Fatal("loading hrflow api key",
			zap.Error(err),
			zap.String("hint", "set HRFLOW_API_KEY_FILE or the hrflow.api-key-file config key"),
		)
	}

	hr := hrflow.New(ctx, logger.WithUpstream(l, "hrflow", ""), hrKey, config.HrFlow.UserEmail, hrflow.Keys{
		SourceKey: config.HrFlow.SourceKey,
		BoardKey:  config.HrFlow.BoardKey,
	})

	geminiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
	})
	if err != nil {
		l.Fatal("loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE or the gemini.api-key-file config key"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, geminiKey, config.Gemini.Model)
	if err != nil {
		l.Fatal("creating gemini generator", zap.Error(err))
	}

	return hr, generator
}

// buildHeyGen wires the video client. A missing key is not fatal: the client
// reports it on submission and the rest of the API keeps working.
func buildHeyGen(config *Config, l *zap.Logger) *heygen.Client {
	heygenKey, err := secrets.Load(secrets.Source{
		Name: "heygen api key",
		File: config.HeyGen.APIKeyFile,
	})
	if err != nil {
		l.Warn("video generation disabled",
			zap.Error(err),
			zap.String("hint", "set HEYGEN_API_KEY_FILE or the heygen.api-key-file config key"),
		)
		heygenKey = ""
	}

	client := heygen.New(logger.WithUpstream(l, "heygen", ""), heygenKey)
	if config.HeyGen.AvatarID != "" {
		client.AvatarID = config.HeyGen.AvatarID
	}
	if config.HeyGen.VoiceID != "" {
		client.VoiceID = config.HeyGen.VoiceID
	}

	return client
}
