package discord

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/gateway"
	"github.com/waverider-dev/discord-bridge/ai"
	"github.com/waverider-dev/discord-bridge/platform"
)

const presenceText = "動能股市場 | /help"

// Bot wires the interactive command surface: slash commands, the legacy
// prefix command and member welcomes. AI answers are produced off the
// gateway goroutine through the worker pool.
type Bot struct {
	session   platform.Session
	completer ai.Completer
	pool      *ai.Pool
	prefix    string
}

func NewBot(completer ai.Completer, pool *ai.Pool, prefix string) *Bot {
	return &Bot{completer: completer, pool: pool, prefix: prefix}
}

// Attach hands the bot its session once the gateway client exists. Events
// only start flowing after the gateway opens, so setting it late is safe.
func (b *Bot) Attach(session platform.Session) {
	b.session = session
}

// Opts returns the listener and presence configuration to pass to
// platform.Connect.
func (b *Bot) Opts() []bot.ConfigOpt {
	return []bot.ConfigOpt{
		bot.WithGatewayConfigOpts(
			gateway.WithPresenceOpts(gateway.WithWatchingActivity(presenceText)),
		),
		bot.WithEventListenerFunc(b.onReady),
		bot.WithEventListenerFunc(b.onCommand),
		bot.WithEventListenerFunc(b.onMessage),
		bot.WithEventListenerFunc(b.onMemberJoin),
	}
}
