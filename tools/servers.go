package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/waverider-dev/discord-bridge/platform"
)

const defaultMemberLimit = 100

type serverSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	Owner       string `json:"owner"`
}

func (d *Dispatcher) listServers() Tool {
	return Tool{
		Name:        "list_servers",
		Description: "List every Discord server the bot is connected to",
		Schema:      Schema{Type: "object", Properties: map[string]Property{}},
		handler: func(ctx context.Context, _ map[string]any) (any, error) {
			if err := d.session.AwaitReady(ctx); err != nil {
				return nil, err
			}
			servers := d.session.Servers()
			out := make([]serverSummary, 0, len(servers))
			for _, server := range servers {
				out = append(out, serverSummary{
					ID:          server.ID.String(),
					Name:        server.Name,
					MemberCount: server.MemberCount,
					Owner:       server.OwnerName,
				})
			}
			return out, nil
		},
	}
}

type memberView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Bot         bool     `json:"bot"`
	Roles       []string `json:"roles"`
	JoinedAt    string   `json:"joined_at"`
}

func (d *Dispatcher) listMembers() Tool {
	type args struct {
		ServerID string `mapstructure:"server_id"`
		Limit    int    `mapstructure:"limit"`
	}
	return Tool{
		Name:        "list_members",
		Description: "List members of a server",
		Schema: Schema{
			Type: "object",
			Properties: map[string]Property{
				"server_id": {Type: "string", Description: "Discord server id"},
				"limit":     {Type: "number", Description: "maximum members to return, default 100"},
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
			if a.Limit <= 0 {
				a.Limit = defaultMemberLimit
			}
			if err := d.session.AwaitReady(ctx); err != nil {
				return nil, err
			}
			if _, ok := d.session.Server(serverID); !ok {
				return nil, fmt.Errorf("server not found: %s", a.ServerID)
			}

			members := d.session.Members(serverID, a.Limit)
			out := make([]memberView, 0, len(members))
			for _, member := range members {
				roles := member.Roles
				if roles == nil {
					roles = []string{}
				}
				out = append(out, memberView{
					ID:          member.ID.String(),
					Name:        member.Username,
					DisplayName: member.DisplayName,
					Bot:         member.Bot,
					Roles:       roles,
					JoinedAt:    member.JoinedAt.Format(time.RFC3339),
				})
			}
			return out, nil
		},
	}
}

type serverInfo struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	MemberCount int            `json:"member_count"`
	Owner       string         `json:"owner"`
	CreatedAt   string         `json:"created_at"`
	Categories  []categoryView `json:"categories"`
	Summary     kindSummary    `json:"channels_summary"`
	Roles       []roleView     `json:"roles"`
}

type categoryView struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Channels []channelStub `json:"channels"`
}

type channelStub struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type kindSummary struct {
	Text     int `json:"text"`
	Voice    int `json:"voice"`
	Category int `json:"category"`
	Forum    int `json:"forum"`
}

type roleView struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (d *Dispatcher) getServerInfo() Tool {
	type args struct {
		ServerID string `mapstructure:"server_id"`
	}
	return Tool{
		Name:        "get_server_info",
		Description: "Get detailed information about a server",
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
			server, ok := d.session.Server(serverID)
			if !ok {
				return nil, fmt.Errorf("server not found: %s", a.ServerID)
			}

			channels := d.session.ChannelsOf(serverID)
			sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })

			info := serverInfo{
				ID:          server.ID.String(),
				Name:        server.Name,
				Description: server.Description,
				MemberCount: server.MemberCount,
				Owner:       server.OwnerName,
				CreatedAt:   server.CreatedAt.Format(time.RFC3339),
				Categories:  []categoryView{},
				Roles:       []roleView{},
			}

			for _, channel := range channels {
				switch channel.Kind {
				case platform.KindCategory:
					category := categoryView{
						ID:       channel.ID.String(),
						Name:     channel.Name,
						Channels: []channelStub{},
					}
					for _, child := range channels {
						if child.ParentID == nil || *child.ParentID != channel.ID {
							continue
						}
						category.Channels = append(category.Channels, channelStub{
							ID:   child.ID.String(),
							Name: child.Name,
							Type: string(child.Kind),
						})
					}
					info.Categories = append(info.Categories, category)
					info.Summary.Category++
				case platform.KindText:
					info.Summary.Text++
				case platform.KindVoice:
					info.Summary.Voice++
				case platform.KindForum:
					info.Summary.Forum++
				}
			}

			roles := d.session.Roles(serverID)
			sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
			for _, role := range roles {
				info.Roles = append(info.Roles, roleView{Name: role.Name, Color: role.Color})
			}
			return info, nil
		},
	}
}
