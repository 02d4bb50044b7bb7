// graph-mail lists the signed-in user's Outlook mail through Microsoft Graph,
// either from an interactive menu or as MCP tools over stdio.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	flag "github.com/spf13/pflag"

	"github.com/hal9000y/graph-mail/internal/auth"
	"github.com/hal9000y/graph-mail/internal/config"
	"github.com/hal9000y/graph-mail/internal/gservice"
	"github.com/hal9000y/graph-mail/internal/session"
	"github.com/hal9000y/graph-mail/internal/tool"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the base YAML config")
	configOverride := flag.String("config-override", "config.dev.yaml", "Path to a YAML config merged over the base, ignored when absent")
	envFile := flag.String("env-file", "", "Path to env file")
	enableStdio := flag.Bool("stdio", false, "Serve MCP tools on stdio instead of the interactive menu (disables console logging)")
	logFile := flag.String("log-file", "", "Path to log file")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	logger, closeLogs := setupLogger(*enableStdio, *logFile, *verbose)

	code := run(logger, config.Sources{
		Files:   []string{*configFile, *configOverride},
		EnvFile: *envFile,
	}, *enableStdio)

	closeLogs()
	os.Exit(code)
}

func run(logger *slog.Logger, src config.Sources, enableStdio bool) int {
	cfg, err := config.Load(src)
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, cfgErr)
		} else {
			fmt.Fprintf(os.Stderr, "config.Load failed: %v\n", err)
		}
		return 1
	}

	// Sign-in instructions must not corrupt the MCP stream on stdout.
	var prompt io.Writer = os.Stdout
	if enableStdio {
		prompt = os.Stderr
	}

	cred, err := auth.NewCredential(cfg.AuthSettings(), prompt, logger)
	if err != nil {
		logger.Error("auth.NewCredential failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if tok, ok := cred.(*auth.Token); ok {
		defer func() {
			logger.Info("persisting token if exists")
			if err := tok.Persist(); err != nil {
				logger.Error("tok.Persist failed", "error", err)
			}
		}()
	}

	graph, err := gservice.NewGraph(cred, cfg.GraphUserScopes, logger)
	if err != nil {
		logger.Error("gservice.NewGraph failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if enableStdio {
		logger.Info("starting stdio transport")
		if err := tool.NewServer(graph, cfg.ParentFolderID).Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("srv.Run failed", "error", err)
			return 1
		}
		logger.Info("stdio transport stopped")
		return 0
	}

	err = session.New(graph, os.Stdin, os.Stdout, cfg.ParentFolderID, logger).Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown signal received")
	case err != nil:
		logger.Error("session failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}

func setupLogger(enableStdio bool, logFile string, verbose bool) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		if !verbose {
			opts.Level = slog.LevelInfo
		}

		logger := slog.New(slog.NewTextHandler(f, opts))

		return logger, func() {
			if err := f.Close(); err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	if enableStdio {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}
}
