package main

import (
	"github.com/rs/zerolog/log"

	domainkagi "github.com/menloresearch/kagi-mcp/internal/domain/kagi"
	"github.com/menloresearch/kagi-mcp/internal/infrastructure/config"
	kagiclient "github.com/menloresearch/kagi-mcp/internal/infrastructure/kagi"
	"github.com/menloresearch/kagi-mcp/internal/infrastructure/logger"
	_ "github.com/menloresearch/kagi-mcp/internal/infrastructure/metrics" // Register Prometheus metrics
	"github.com/menloresearch/kagi-mcp/internal/interfaces/httpserver"
	"github.com/menloresearch/kagi-mcp/internal/interfaces/httpserver/routes/mcp"
)

// @title Kagi MCP Service
// @version 1.0
// @description Model Context Protocol (MCP) service exposing Kagi search and summarization tools.
// @BasePath /
func main() {
	// Load configuration; the service refuses to start without a credential
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("log_level", cfg.LogLevel).
		Str("base_url", cfg.KagiBaseURL).
		Msg("Starting Kagi MCP service")

	// Initialize infrastructure
	client, err := kagiclient.NewKagiClient(kagiclient.ClientConfig{
		APIKey:  cfg.KagiAPIKey,
		BaseURL: cfg.KagiBaseURL,
		Timeout: cfg.HTTPTimeout(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Kagi client")
	}
	kagiService := domainkagi.NewService(client)

	// Initialize MCP routes
	kagiMCP := mcp.NewKagiMCP(kagiService, cfg.SummarizerEngine)
	mcpRoute := mcp.NewMCPRoute(kagiMCP)

	// Start HTTP server
	server := httpserver.NewHTTPServer(cfg, mcpRoute)
	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
