package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/bitly/go-simplejson"
	"github.com/waverider-dev/discord-bridge/platform"
)

const (
	defaultMessageLimit = 20
	maxMessageLimit     = 100
)

// Embed colors matching the palette the community bot uses.
var embedColors = map[string]int{
	"blue":   0x3498db,
	"green":  0x2ecc71,
	"red":    0xe74c3c,
	"gold":   0xf1c40f,
	"purple": 0x9b59b6,
}

type messageView struct {
	ID          string   `json:"id"`
	Author      string   `json:"author"`
	Content     string   `json:"content"`
	Timestamp   string   `json:"timestamp"`
	Attachments []string `json:"attachments"`
}

// textChannel resolves a channel id and enforces the text kind, the only
// variant that supports sends and history reads.
func (d *Dispatcher) textChannel(id string) (platform.Channel, error) {
	channelID, err := parseID("channel_id", id)
	if err != nil {
		return platform.Channel{}, err
	}
	channel, ok := d.session.Channel(channelID)
	if !ok {
		return platform.Channel{}, fmt.Errorf("channel not found: %s", id)
	}
	if channel.Kind != platform.KindText {
		return platform.Channel{}, fmt.Errorf("channel %s is not a text channel", id)
	}
	return channel, nil
}

func (d *Dispatcher) getMessages() Tool {
	type args struct {
		ChannelID string `mapstructure:"channel_id"`
		Limit     int    `mapstructure:"limit"`
	}
	return Tool{
		Name:        "get_messages",
		Description: "Read the message history of a text channel",
		Schema: Schema{
			Type: "object",
			Properties: map[string]Property{
				"channel_id": {Type: "string", Description: "Discord channel id"},
				"limit":      {Type: "number", Description: "messages to read, default 20, max 100"},
			},
			Required: []string{"channel_id"},
		},
		handler: func(ctx context.Context, raw map[string]any) (any, error) {
			var a args
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			if a.Limit <= 0 {
				a.Limit = defaultMessageLimit
			}
			if a.Limit > maxMessageLimit {
				a.Limit = maxMessageLimit
			}
			if err := d.session.AwaitReady(ctx); err != nil {
				return nil, err
			}
			channel, err := d.textChannel(a.ChannelID)
			if err != nil {
				return nil, err
			}

			messages, err := d.session.Messages(ctx, channel.ID, a.Limit)
			if err != nil {
				return nil, err
			}
			out := make([]messageView, 0, len(messages))
			for _, message := range messages {
				attachments := message.Attachments
				if attachments == nil {
					attachments = []string{}
				}
				out = append(out, messageView{
					ID:          message.ID.String(),
					Author:      message.Author,
					Content:     message.Content,
					Timestamp:   message.Timestamp.Format(time.RFC3339),
					Attachments: attachments,
				})
			}
			return out, nil
		},
	}
}

func (d *Dispatcher) sendMessage() Tool {
	type args struct {
		ChannelID string `mapstructure:"channel_id"`
		Content   string `mapstructure:"content"`
	}
	return Tool{
		Name:        "send_message",
		Description: "Send a plain text message to a text channel",
		Schema: Schema{
			Type: "object",
			Properties: map[string]Property{
				"channel_id": {Type: "string", Description: "Discord channel id"},
				"content":    {Type: "string", Description: "message text"},
			},
			Required: []string{"channel_id", "content"},
		},
		handler: func(ctx context.Context, raw map[string]any) (any, error) {
			var a args
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			if a.Content == "" {
				return nil, fmt.Errorf("content is required")
			}
			if err := d.session.AwaitReady(ctx); err != nil {
				return nil, err
			}
			channel, err := d.textChannel(a.ChannelID)
			if err != nil {
				return nil, err
			}

			messageID, err := d.session.SendMessage(ctx, channel.ID, a.Content)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"success":    true,
				"message_id": messageID.String(),
				"channel":    channel.Name,
			}, nil
		},
	}
}

func (d *Dispatcher) sendStructuredMessage() Tool {
	type args struct {
		ChannelID string `mapstructure:"channel_id"`
		Title     string `mapstructure:"title"`
		Body      string `mapstructure:"body"`
		Color     string `mapstructure:"color"`
		Fields    string `mapstructure:"fields"`
	}
	return Tool{
		Name:        "send_structured_message",
		Description: "Send a rich embed message to a text channel",
		Schema: Schema{
			Type: "object",
			Properties: map[string]Property{
				"channel_id": {Type: "string", Description: "Discord channel id"},
				"title":      {Type: "string", Description: "embed title"},
				"body":       {Type: "string", Description: "embed body text"},
				"color":      {Type: "string", Description: "blue, green, red, gold or purple, default blue"},
				"fields":     {Type: "string", Description: `JSON array of {"name", "value", "inline"} objects`},
			},
			Required: []string{"channel_id", "title", "body"},
		},
		handler: func(ctx context.Context, raw map[string]any) (any, error) {
			var a args
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			if a.Title == "" {
				return nil, fmt.Errorf("title is required")
			}
			if err := d.session.AwaitReady(ctx); err != nil {
				return nil, err
			}
			channel, err := d.textChannel(a.ChannelID)
			if err != nil {
				return nil, err
			}

			color, ok := embedColors[a.Color]
			if !ok {
				color = embedColors["blue"]
			}
			messageID, err := d.session.SendEmbed(ctx, channel.ID, platform.Embed{
				Title:       a.Title,
				Description: a.Body,
				Color:       color,
				Fields:      parseEmbedFields(a.Fields),
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"success":    true,
				"message_id": messageID.String(),
				"channel":    channel.Name,
			}, nil
		},
	}
}

// parseEmbedFields reads the fields argument leniently: anything that is
// not a JSON array yields zero fields rather than an error.
func parseEmbedFields(raw string) []platform.EmbedField {
	if raw == "" {
		return nil
	}
	parsed, err := simplejson.NewJson([]byte(raw))
	if err != nil {
		return nil
	}
	items, err := parsed.Array()
	if err != nil {
		return nil
	}
	fields := make([]platform.EmbedField, 0, len(items))
	for i := range items {
		item := parsed.GetIndex(i)
		fields = append(fields, platform.EmbedField{
			Name:   item.Get("name").MustString(),
			Value:  item.Get("value").MustString(),
			Inline: item.Get("inline").MustBool(),
		})
	}
	return fields
}
