package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"notesplit/internal/adapters/filesystem"
	"notesplit/internal/adapters/llm"
	mcpadapter "notesplit/internal/adapters/mcp"
	"notesplit/internal/adapters/sqlite"
	"notesplit/internal/config"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	vaultFlag := flag.String("vault", "", "path to the vault (overrides the config file)")
	noIndex := flag.Bool("no-index", false, "do not expose or update the link index")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("notesplit-mcp: %v", err)
	}
	if *vaultFlag != "" {
		cfg.VaultPath = *vaultFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("notesplit-mcp: %v", err)
	}

	oracle, err := llm.New(cfg)
	if err != nil {
		log.Fatalf("notesplit-mcp: %v", err)
	}

	// stdout carries the protocol, so logs go to stderr only
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("notesplit-mcp: %v", err)
	}
	defer logger.Sync()

	deps := mcpadapter.Deps{
		Store:        filesystem.NewStore(cfg.Vault(), cfg.NoteExtension),
		Oracle:       oracle,
		Resolve:      cfg.ResolveNote,
		MaxSegments:  cfg.MaxSegments,
		LockDocument: cfg.LockDocument,
		Logger:       logger,
	}
	if !*noIndex {
		idx := sqlite.NewIndex(cfg.Index())
		if err := idx.Open(cfg.Vault()); err != nil {
			logger.Warn("link index unavailable", zap.Error(err))
		} else {
			defer idx.Close()
			deps.Index = idx
		}
	}

	mcpServer := server.NewMCPServer(
		"notesplit-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, deps)
	mcpadapter.RegisterWriteTools(mcpServer, deps)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("notesplit-mcp: %v", err)
	}
}
