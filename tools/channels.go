package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/disgoorg/snowflake/v2"
	"github.com/waverider-dev/discord-bridge/platform"
)

type channelView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Topic    string `json:"topic,omitempty"`
	Category string `json:"category,omitempty"`
}

func (d *Dispatcher) listChannels() Tool {
	type args struct {
		ServerID string `mapstructure:"server_id"`
	}
	return Tool{
		Name:        "list_channels",
		Description: "List every channel of a server, grouped by category",
		Schema: Schema{
			Type: "object",
			Properties: map[string]Property{
				"server_id": {Type: "string", Description: "Discord server id"},
			},
			Required: []string{"server_id"},
		},
		handler: func(ctx context.Context, raw map[string]any) (any, error) {
			var a args
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			serverID, err := parseID("server_id", a.ServerID)
			if err != nil {
				return nil, err
			}
			if err := d.session.AwaitReady(ctx); err != nil {
				return nil, err
			}
			if _, ok := d.session.Server(serverID); !ok {
				return nil, fmt.Errorf("server not found: %s", a.ServerID)
			}

			channels := d.session.ChannelsOf(serverID)
			// deterministic listing: category name, then kind, then name
			sort.Slice(channels, func(i, j int) bool {
				a, b := channels[i], channels[j]
				if a.Category != b.Category {
					return a.Category < b.Category
				}
				if a.Kind != b.Kind {
					return a.Kind < b.Kind
				}
				return a.Name < b.Name
			})

			out := make([]channelView, 0, len(channels))
			for _, channel := range channels {
				view := channelView{
					ID:       channel.ID.String(),
					Name:     channel.Name,
					Type:     string(channel.Kind),
					Category: channel.Category,
				}
				if channel.Kind == platform.KindText {
					view.Topic = channel.Topic
				}
				out = append(out, view)
			}
			return out, nil
		},
	}
}

func (d *Dispatcher) createChannel() Tool {
	type args struct {
		ServerID   string `mapstructure:"server_id"`
		Name       string `mapstructure:"name"`
		Kind       string `mapstructure:"kind"`
		CategoryID string `mapstructure:"category_id"`
		Topic      string `mapstructure:"topic"`
	}
	return Tool{
		Name:        "create_channel",
		Description: "Create a text, voice or category channel in a server",
		Schema: Schema{
			Type: "object",
			Properties: map[string]Property{
				"server_id":   {Type: "string", Description: "Discord server id"},
				"name":        {Type: "string", Description: "channel name"},
				"kind":        {Type: "string", Description: "text, voice or category, default text"},
				"category_id": {Type: "string", Description: "parent category id"},
				"topic":       {Type: "string", Description: "channel topic, text channels only"},
			},
			Required: []string{"server_id", "name"},
		},
		handler: func(ctx context.Context, raw map[string]any) (any, error) {
			var a args
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			serverID, err := parseID("server_id", a.ServerID)
			if err != nil {
				return nil, err
			}
			if a.Name == "" {
				return nil, fmt.Errorf("name is required")
			}
			var parentID *snowflake.ID
			if a.CategoryID != "" {
				id, err := parseID("category_id", a.CategoryID)
				if err != nil {
					return nil, err
				}
				parentID = &id
			}
			if err := d.session.AwaitReady(ctx); err != nil {
				return nil, err
			}
			if _, ok := d.session.Server(serverID); !ok {
				return nil, fmt.Errorf("server not found: %s", a.ServerID)
			}

			created, err := d.session.CreateChannel(ctx, serverID, platform.ChannelRequest{
				Name:     a.Name,
				Kind:     platform.ParseChannelKind(a.Kind),
				ParentID: parentID,
				Topic:    a.Topic,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"success":    true,
				"channel_id": created.ID.String(),
				"name":       created.Name,
				"type":       string(created.Kind),
			}, nil
		},
	}
}

func (d *Dispatcher) deleteChannel() Tool {
	type args struct {
		ChannelID string `mapstructure:"channel_id"`
		Reason    string `mapstructure:"reason"`
	}
	return Tool{
		Name:        "delete_channel",
		Description: "Delete a channel",
		Schema: Schema{
			Type: "object",
			Properties: map[string]Property{
				"channel_id": {Type: "string", Description: "Discord channel id"},
				"reason":     {Type: "string", Description: "audit log reason"},
			},
			Required: []string{"channel_id"},
		},
		handler: func(ctx context.Context, raw map[string]any) (any, error) {
			var a args
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			channelID, err := parseID("channel_id", a.ChannelID)
			if err != nil {
				return nil, err
			}
			if err := d.session.AwaitReady(ctx); err != nil {
				return nil, err
			}
			channel, ok := d.session.Channel(channelID)
			if !ok {
				return nil, fmt.Errorf("channel not found: %s", a.ChannelID)
			}

			if err := d.session.DeleteChannel(ctx, channelID, a.Reason); err != nil {
				return nil, err
			}
			return map[string]any{
				"success":         true,
				"deleted_channel": channel.Name,
			}, nil
		},
	}
}
