package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"recipeforge/internal/config"
	"recipeforge/internal/logger"
	"recipeforge/internal/manifest"
	"recipeforge/internal/mcpserver"
)

var mcpFlags struct {
	port int
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the manifest tree over MCP",
	Long: `Start an MCP server exposing the manifest tree to AI tools:
agent lookup with flattened rulepacks, prompt rendering, model
resolution, and on-demand recipe compilation.

Runs until interrupted with Ctrl+C.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpFlags.port, "port", "p", 0, "Port to listen on (0 picks a free port)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	store, err := manifest.Load(cfg.ManifestDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mcpserver.New(store, mcpFlags.port)
	if _, err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("MCP server listening at %s\n", srv.URL())

	<-ctx.Done()
	fmt.Println("\nStopping.")
	return srv.Stop()
}
