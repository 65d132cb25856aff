package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/waverider-dev/discord-bridge/ai"
	"github.com/waverider-dev/discord-bridge/config"
	"github.com/waverider-dev/discord-bridge/discord"
	"github.com/waverider-dev/discord-bridge/integrations/claude"
	"github.com/waverider-dev/discord-bridge/integrations/cohere"
	"github.com/waverider-dev/discord-bridge/logger/dlog"
	"github.com/waverider-dev/discord-bridge/platform"
	"golang.org/x/net/context"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		dlog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	completer := newCompleter(cfg)
	if completer == nil {
		dlog.Warn("No AI provider configured, ask commands will degrade")
	} else {
		dlog.Info("AI provider selected", "provider", completer.Name())
	}

	pool := ai.NewPool(ai.DefaultPoolSize)
	defer pool.Close()

	b := discord.NewBot(completer, pool, cfg.Prefix)
	session, err := platform.Connect(cfg.DiscordToken, b.Opts()...)
	if err != nil {
		dlog.Error("Failed to create gateway client", "err", err)
		os.Exit(1)
	}
	b.Attach(session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Start(ctx); err != nil {
		dlog.Error("Gateway session ended", "err", err)
		os.Exit(1)
	}
	dlog.Info("Graceful shutdown")
}

func newCompleter(cfg config.Config) ai.Completer {
	switch {
	case cfg.AnthropicAPIKey != "":
		return claude.New(cfg.AnthropicAPIKey, cfg.Model)
	case cfg.CohereAPIKey != "":
		return cohere.New(cfg.CohereAPIKey, cfg.Model)
	default:
		return nil
	}
}
