package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"namestat/internal/config"
	"namestat/internal/controller"
	"namestat/internal/handler"
	"namestat/internal/service/grammar"
	"namestat/pkg/mcp"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report and tagging API together with the MCP tool",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var taggerCmd = &cobra.Command{
	Use:   "tagger",
	Short: "Serve only the part-of-speech tagging endpoint",
	Args:  cobra.NoArgs,
	RunE:  runTagger,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default from app config)")
	taggerCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default from app config)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(taggerCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := controller.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	processor, tagger, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	repoController := controller.NewRepoController(processor, tagger, opts, logger)
	router := handler.SetupRouter(repoController, logger)
	mcpServer := mcp.NewNamingStatsServer(processor, opts, cfg, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listen(gctx, port(cfg.App.Port), router, logger)
	})
	g.Go(func() error {
		return mcpServer.ListenAndServe(gctx)
	})
	return g.Wait()
}

func runTagger(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// serving the remote provider from itself would loop
	tagger, err := newLocalTagger(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("Tagger ready", zap.String("tagger", tagger.Name()))

	repoController := controller.NewRepoController(nil, tagger, controller.ScanOptions{}, logger)
	return listen(ctx, port(cfg.App.Port), handler.SetupTaggerRouter(repoController, logger), logger)
}

func port(configured int) int {
	if servePort != 0 {
		return servePort
	}
	return configured
}

// listen serves router until ctx is done, then shuts down gracefully
func listen(ctx context.Context, port int, router *gin.Engine, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.Int("port", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server", zap.Int("port", port))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newLocalTagger(ctx context.Context, cfg *config.Config) (grammar.Tagger, error) {
	if cfg.Tagger.Provider == config.ProviderRemote {
		return grammar.NewLexiconTagger(cfg.Tagger.LexiconPath)
	}
	return grammar.NewTagger(ctx, cfg)
}
