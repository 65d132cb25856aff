package discord

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/waverider-dev/discord-bridge/logger/dlog"
)

var commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "ask",
		Description: "詢問交易相關問題",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "question",
				Description: "你想問的問題",
				Required:    true,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "ping",
		Description: "檢查機器人是否在線",
	},
	discord.SlashCommandCreate{
		Name:        "help",
		Description: "顯示可用指令列表",
	},
	discord.SlashCommandCreate{
		Name:        "about",
		Description: "關於 WaveRider Bot",
	},
}

// A failed sync leaves the previous command set in place, the bot still
// serves prefix commands, so log and carry on.
func (b *Bot) onReady(e *events.Ready) {
	dlog.Info("Bot is ready", "user", e.User.Username, "guilds", len(e.Guilds))

	synced, err := e.Client().Rest().SetGlobalCommands(e.Client().ApplicationID(), commands)
	if err != nil {
		dlog.Error("Failed to sync commands", "err", err)
		return
	}
	dlog.Info("Synced slash commands", "count", len(synced))
}
