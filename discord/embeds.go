package discord

import (
	"fmt"

	"github.com/waverider-dev/discord-bridge/platform"
)

const (
	colorBlue   = 0x3498db
	colorGreen  = 0x2ecc71
	colorGold   = 0xf1c40f
	colorPurple = 0x9b59b6
)

func answerEmbed(answer, asker string) platform.Embed {
	return platform.Embed{
		Title:       "💡 AI 回答",
		Description: answer,
		Color:       colorPurple,
		Footer:      "Asked by " + asker,
	}
}

func welcomeEmbed(name, avatarURL string) platform.Embed {
	return platform.Embed{
		Title: fmt.Sprintf("歡迎 %s 加入 WaveRider 社群！", name),
		Description: "很高興你加入我們的交易討論社群！\n\n" +
			"**快速開始：**\n" +
			"• 📖 閱讀社群規則\n" +
			"• 👋 到自我介紹區打個招呼\n" +
			"• 🤖 有問題可以用 `/ask` 問我\n\n" +
			"祝交易順利！📈",
		Color:        colorGreen,
		ThumbnailURL: avatarURL,
	}
}

func helpEmbed() platform.Embed {
	return platform.Embed{
		Title:       "WaveRider Bot 指令列表",
		Description: "以下是可用的指令：",
		Color:       colorBlue,
		Fields: []platform.EmbedField{
			{
				Name:  "🤖 AI 問答",
				Value: "`/ask <問題>` - 詢問交易相關問題",
			},
			{
				Name: "📊 資訊",
				Value: "`/ping` - 檢查機器人狀態\n" +
					"`/help` - 顯示此說明\n" +
					"`/about` - 關於本機器人",
			},
			{
				Name: "📈 交易（開發中）",
				Value: "`/signals` - 查看最新訊號\n" +
					"`/watchlist` - 查看觀察清單",
			},
		},
		Footer: "WaveRider Discord Bot v1.0",
	}
}

func aboutEmbed() platform.Embed {
	return platform.Embed{
		Title: "關於 WaveRider Bot",
		Description: "WaveRider Discord Bot 是一個智慧化的社群管理機器人，" +
			"整合 Claude AI 提供交易策略問答服務。",
		Color: colorGold,
		Fields: []platform.EmbedField{
			{Name: "版本", Value: "1.0.0 (Phase 1 MVP)", Inline: true},
			{Name: "AI 引擎", Value: "Claude by Anthropic", Inline: true},
			{
				Name: "功能",
				Value: "• 智慧問答系統\n" +
					"• 新成員歡迎\n" +
					"• 交易訊號推播（開發中）",
			},
		},
	}
}
