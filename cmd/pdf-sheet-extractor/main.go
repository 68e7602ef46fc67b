package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/pdf-sheet-extractor/internal/config"
	"github.com/a3tai/pdf-sheet-extractor/internal/mcp"
	"github.com/a3tai/pdf-sheet-extractor/internal/pdf"
	"github.com/a3tai/pdf-sheet-extractor/internal/web"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newLogger builds the process logger. Output goes to stderr in every mode
// so stdout stays reserved for the MCP protocol in stdio mode.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	level := cfg.ZapLevel()
	if cfg.IsStdioMode() && !cfg.IsDebug() && level < zapcore.WarnLevel {
		// Keep the MCP client's stderr quiet unless debugging
		level = zapcore.WarnLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.IsDebug() {
		zcfg.Development = true
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return zcfg.Build()
}

// runServerMode serves the web form until a signal arrives or the server fails
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *web.Server, addr string, logger *zap.Logger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gCtx, addr)
	})

	g.Go(func() error {
		select {
		case sig := <-signalCh:
			logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

// runStdioMode serves the MCP tools. The parent process owns our lifecycle,
// so this returns once stdin closes.
func runStdioMode(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx)
}

func run(cfg *config.Config, logger *zap.Logger) error {
	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.OutputDirectory, logger.Named("pdf"))
	if err != nil {
		return fmt.Errorf("failed to create PDF service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		server, err := web.NewServer(pdfService, logger.Named("web"),
			web.WithAllowedOrigins(cfg.AllowedOrigins...))
		if err != nil {
			return fmt.Errorf("failed to create web server: %w", err)
		}
		return runServerMode(ctx, cancel, server, cfg.Address(), logger)
	}

	server, err := mcp.NewServer(cfg, pdfService, logger.Named("mcp"))
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return runStdioMode(ctx, server)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Debug("starting", zap.String("config", cfg.String()))

	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("PDF Sheet Extractor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
