package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/waverider-dev/discord-bridge/config"
	"github.com/waverider-dev/discord-bridge/logger/dlog"
	"github.com/waverider-dev/discord-bridge/mcp"
	"github.com/waverider-dev/discord-bridge/platform"
	"github.com/waverider-dev/discord-bridge/tools"
	"golang.org/x/net/context"
)

// The MCP entrypoint serves tool calls over stdio while the gateway
// session runs in the background. Tool handlers block on readiness, so
// requests arriving before the first GuildsReady simply wait.
func main() {
	cfg, err := config.Load()
	if err != nil {
		dlog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	session, err := platform.Connect(cfg.DiscordToken)
	if err != nil {
		dlog.Error("Failed to create gateway client", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := session.Start(ctx); err != nil {
			dlog.Error("Gateway session ended", "err", err)
			stop()
		}
	}()

	server := mcp.NewServer(tools.NewDispatcher(session), os.Stdin, os.Stdout)
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		dlog.Error("MCP server ended", "err", err)
		os.Exit(1)
	}
	dlog.Info("Graceful shutdown")
}
