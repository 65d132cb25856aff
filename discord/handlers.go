package discord

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/waverider-dev/discord-bridge/ai"
	"github.com/waverider-dev/discord-bridge/logger/dlog"
	"github.com/waverider-dev/discord-bridge/platform"
	"golang.org/x/net/context"
)

func (b *Bot) onCommand(e *events.ApplicationCommandInteractionCreate) {
	data := e.SlashCommandInteractionData()
	switch data.CommandName() {
	case "ping":
		latency := e.Client().Gateway().Latency().Milliseconds()
		err := e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("🏓 Pong! 延遲: %dms", latency),
		})
		if err != nil {
			dlog.Error("Failed to respond to ping", "err", err)
		}
	case "help":
		if err := e.CreateMessage(interactionEmbed(helpEmbed())); err != nil {
			dlog.Error("Failed to respond to help", "err", err)
		}
	case "about":
		if err := e.CreateMessage(interactionEmbed(aboutEmbed())); err != nil {
			dlog.Error("Failed to respond to about", "err", err)
		}
	case "ask":
		b.handleAsk(e)
	}
}

func interactionEmbed(embed platform.Embed) discord.MessageCreate {
	return discord.MessageCreate{Embeds: []discord.Embed{platform.BuildEmbed(embed)}}
}

// Interaction responses are token scoped and go through the interaction's
// own client; regular channel sends below go through the session.
func (b *Bot) handleAsk(e *events.ApplicationCommandInteractionCreate) {
	question := e.SlashCommandInteractionData().String("question")
	asker := e.User().EffectiveName()
	dlog.Info("Question received", "user", e.User().Username, "question", question)

	if err := e.DeferCreateMessage(false); err != nil {
		dlog.Error("Failed to defer ask response", "err", err)
		return
	}

	client := e.Client()
	applicationID := e.ApplicationID()
	token := e.Token()
	b.pool.Submit(func() {
		answer := ai.Answer(context.Background(), b.completer, question)
		embeds := []discord.Embed{platform.BuildEmbed(answerEmbed(answer, asker))}
		_, err := client.Rest().UpdateInteractionResponse(applicationID, token, discord.MessageUpdate{
			Embeds: &embeds,
		})
		if err != nil {
			dlog.Error("Failed to deliver answer", "err", err)
		}
	})
}

func (b *Bot) onMessage(e *events.GuildMessageCreate) {
	if e.Message.Author.Bot {
		return
	}
	question, ok := parseAskCommand(e.Message.Content, b.prefix)
	if !ok {
		return
	}
	dlog.Info("Prefix question received", "user", e.Message.Author.Username, "question", question)

	if err := e.Client().Rest().SendTyping(e.ChannelID); err != nil {
		dlog.Warn("Failed to send typing indicator", "err", err)
	}

	b.answerInChannel(e.ChannelID, e.MessageID, e.Message.Author.EffectiveName(), question)
}

// answerInChannel runs the completion on the pool and replies through the
// session.
func (b *Bot) answerInChannel(channelID, messageID snowflake.ID, asker, question string) {
	b.pool.Submit(func() {
		answer := ai.Answer(context.Background(), b.completer, question)
		_, err := b.session.SendReply(context.Background(), channelID, messageID, answerEmbed(answer, asker))
		if err != nil {
			dlog.Error("Failed to deliver answer", "err", err)
		}
	})
}

// parseAskCommand extracts the question from a legacy "<prefix>ask" message.
func parseAskCommand(content, prefix string) (string, bool) {
	rest, found := strings.CutPrefix(content, prefix+"ask")
	if !found {
		return "", false
	}
	if rest != "" && !strings.HasPrefix(rest, " ") && !strings.HasPrefix(rest, "\n") {
		return "", false
	}
	question := strings.TrimSpace(rest)
	if question == "" {
		return "", false
	}
	return question, true
}

func (b *Bot) onMemberJoin(e *events.GuildMemberJoin) {
	dlog.Info("New member joined", "user", e.Member.User.Username, "guild", e.GuildID)
	b.welcome(e.GuildID, e.Member.EffectiveName(), e.Member.User.EffectiveAvatarURL())
}

// welcome posts the greeting to the server's system channel, if it has
// one.
func (b *Bot) welcome(serverID snowflake.ID, name, avatarURL string) {
	server, ok := b.session.Server(serverID)
	if !ok || server.SystemChannelID == nil {
		return
	}
	_, err := b.session.SendEmbed(context.Background(), *server.SystemChannelID, welcomeEmbed(name, avatarURL))
	if err != nil {
		dlog.Error("Failed to send welcome message", "err", err)
	}
}
