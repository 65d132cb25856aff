package platform

import (
	"fmt"
	"sort"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/waverider-dev/discord-bridge/logger/dlog"
	"golang.org/x/net/context"
)

// DiscordSession is the disgo backed Session. The underlying cache is the
// entity snapshot; it is refreshed by the gateway event stream, not by any
// code in this package.
type DiscordSession struct {
	client bot.Client
	gate   *Gate
}

// Connect builds the gateway client. The gate is armed by the guilds ready
// event, once the initial guild snapshot has arrived. Extra opts let the
// caller attach its own event listeners and presence before the gateway
// opens.
func Connect(token string, opts ...bot.ConfigOpt) (*DiscordSession, error) {
	s := &DiscordSession{gate: NewGate()}

	base := []bot.ConfigOpt{
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentsNonPrivileged,
				gateway.IntentMessageContent,
				gateway.IntentGuildMembers,
				gateway.IntentGuildMessages,
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagsAll),
		),
		bot.WithEventListenerFunc(func(e *events.Ready) {
			dlog.Info("gateway handshake complete", "username", e.User.Username)
		}),
		bot.WithEventListenerFunc(func(e *events.GuildsReady) {
			dlog.Info("guild snapshot populated, session ready")
			s.gate.Set()
		}),
	}

	client, err := disgo.New(token, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("build gateway client: %w", err)
	}
	s.client = client
	return s, nil
}

// Start opens the gateway and blocks until ctx is cancelled, then closes
// the connection. It must be called exactly once per process.
func (s *DiscordSession) Start(ctx context.Context) error {
	if err := s.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	<-ctx.Done()
	s.client.Close(context.TODO())
	dlog.Info("gateway closed")
	return nil
}

// Client exposes the raw disgo client for command registration and
// latency reads. Handlers should stay on the Session interface.
func (s *DiscordSession) Client() bot.Client {
	return s.client
}

func (s *DiscordSession) AwaitReady(ctx context.Context) error {
	return s.gate.Wait(ctx)
}

func (s *DiscordSession) Servers() []Server {
	var servers []Server
	s.client.Caches().GuildsForEach(func(g discord.Guild) {
		servers = append(servers, s.server(g))
	})
	sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
	return servers
}

func (s *DiscordSession) Server(id snowflake.ID) (Server, bool) {
	g, ok := s.client.Caches().Guild(id)
	if !ok {
		return Server{}, false
	}
	return s.server(g), true
}

func (s *DiscordSession) server(g discord.Guild) Server {
	ownerName := g.OwnerID.String()
	if owner, ok := s.client.Caches().Member(g.ID, g.OwnerID); ok {
		ownerName = owner.User.Username
	}
	return Server{
		ID:              g.ID,
		Name:            g.Name,
		Description:     strValue(g.Description),
		MemberCount:     g.MemberCount,
		OwnerID:         g.OwnerID,
		OwnerName:       ownerName,
		CreatedAt:       g.ID.Time(),
		SystemChannelID: g.SystemChannelID,
	}
}

func (s *DiscordSession) Channel(id snowflake.ID) (Channel, bool) {
	ch, ok := s.client.Caches().Channel(id)
	if !ok {
		return Channel{}, false
	}
	converted, ok := s.channel(ch)
	return converted, ok
}

func (s *DiscordSession) ChannelsOf(serverID snowflake.ID) []Channel {
	var channels []Channel
	s.client.Caches().ChannelsForEach(func(ch discord.GuildChannel) {
		if ch.GuildID() != serverID {
			return
		}
		if converted, ok := s.channel(ch); ok {
			channels = append(channels, converted)
		}
	})
	return channels
}

// channel converts a cached guild channel into the tagged view type.
// Channel variants outside the four kinds (threads, announcements) are
// not part of the bridge surface and report false.
func (s *DiscordSession) channel(ch discord.GuildChannel) (Channel, bool) {
	var kind ChannelKind
	switch ch.Type() {
	case discord.ChannelTypeGuildCategory:
		kind = KindCategory
	case discord.ChannelTypeGuildText:
		kind = KindText
	case discord.ChannelTypeGuildVoice:
		kind = KindVoice
	case discord.ChannelTypeGuildForum:
		kind = KindForum
	default:
		return Channel{}, false
	}

	converted := Channel{
		ID:       ch.ID(),
		ServerID: ch.GuildID(),
		Name:     ch.Name(),
		Kind:     kind,
		ParentID: ch.ParentID(),
	}
	if tc, ok := ch.(discord.GuildMessageChannel); ok {
		converted.Topic = strValue(tc.Topic())
	}
	if converted.ParentID != nil {
		if parent, ok := s.client.Caches().Channel(*converted.ParentID); ok {
			converted.Category = parent.Name()
		}
	}
	return converted, true
}

func (s *DiscordSession) Member(serverID, userID snowflake.ID) (Member, bool) {
	m, ok := s.client.Caches().Member(serverID, userID)
	if !ok {
		return Member{}, false
	}
	return s.member(serverID, m), true
}

func (s *DiscordSession) Members(serverID snowflake.ID, limit int) []Member {
	var members []Member
	s.client.Caches().MembersForEach(serverID, func(m discord.Member) {
		if len(members) >= limit {
			return
		}
		members = append(members, s.member(serverID, m))
	})
	return members
}

func (s *DiscordSession) member(serverID snowflake.ID, m discord.Member) Member {
	var roles []string
	for _, roleID := range m.RoleIDs {
		role, ok := s.client.Caches().Role(serverID, roleID)
		if !ok || role.Name == "@everyone" {
			continue
		}
		roles = append(roles, role.Name)
	}
	return Member{
		ID:          m.User.ID,
		Username:    m.User.Username,
		DisplayName: m.EffectiveName(),
		Bot:         m.User.Bot,
		Roles:       roles,
		JoinedAt:    m.JoinedAt,
	}
}

func (s *DiscordSession) Roles(serverID snowflake.ID) []Role {
	var roles []Role
	s.client.Caches().RolesForEach(serverID, func(r discord.Role) {
		if r.Name == "@everyone" {
			return
		}
		roles = append(roles, Role{
			Name:  r.Name,
			Color: fmt.Sprintf("#%06x", r.Color),
		})
	})
	return roles
}

func (s *DiscordSession) Messages(ctx context.Context, channelID snowflake.ID, limit int) ([]Message, error) {
	history, err := s.client.Rest().GetMessages(channelID, 0, 0, 0, limit, rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(history))
	for _, m := range history {
		attachments := make([]string, 0, len(m.Attachments))
		for _, a := range m.Attachments {
			attachments = append(attachments, a.URL)
		}
		messages = append(messages, Message{
			ID:          m.ID,
			Author:      m.Author.Username,
			Content:     m.Content,
			Timestamp:   m.CreatedAt,
			Attachments: attachments,
		})
	}
	return messages, nil
}

func (s *DiscordSession) SendMessage(ctx context.Context, channelID snowflake.ID, content string) (snowflake.ID, error) {
	message, err := s.client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Content: content,
	}, rest.WithCtx(ctx))
	if err != nil {
		return 0, err
	}
	return message.ID, nil
}

func (s *DiscordSession) SendEmbed(ctx context.Context, channelID snowflake.ID, embed Embed) (snowflake.ID, error) {
	message, err := s.client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Embeds: []discord.Embed{BuildEmbed(embed)},
	}, rest.WithCtx(ctx))
	if err != nil {
		return 0, err
	}
	return message.ID, nil
}

func (s *DiscordSession) SendReply(ctx context.Context, channelID, messageID snowflake.ID, embed Embed) (snowflake.ID, error) {
	message, err := s.client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Embeds:           []discord.Embed{BuildEmbed(embed)},
		MessageReference: &discord.MessageReference{MessageID: &messageID},
	}, rest.WithCtx(ctx))
	if err != nil {
		return 0, err
	}
	return message.ID, nil
}

// BuildEmbed converts the platform neutral embed to the wire type,
// stamping the current time. Interaction responses use it too, since
// they bypass Session sends.
func BuildEmbed(embed Embed) discord.Embed {
	now := time.Now()
	built := discord.Embed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
		Timestamp:   &now,
	}
	for _, field := range embed.Fields {
		inline := field.Inline
		built.Fields = append(built.Fields, discord.EmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: &inline,
		})
	}
	if embed.Footer != "" {
		built.Footer = &discord.EmbedFooter{Text: embed.Footer}
	}
	if embed.ThumbnailURL != "" {
		built.Thumbnail = &discord.EmbedResource{URL: embed.ThumbnailURL}
	}
	return built
}

func (s *DiscordSession) CreateChannel(ctx context.Context, serverID snowflake.ID, req ChannelRequest) (Channel, error) {
	var create discord.GuildChannelCreate
	switch req.Kind {
	case KindCategory:
		create = discord.GuildCategoryChannelCreate{Name: req.Name}
	case KindVoice:
		voiceCreate := discord.GuildVoiceChannelCreate{Name: req.Name}
		if req.ParentID != nil {
			voiceCreate.ParentID = *req.ParentID
		}
		create = voiceCreate
	default:
		textCreate := discord.GuildTextChannelCreate{Name: req.Name, Topic: req.Topic}
		if req.ParentID != nil {
			textCreate.ParentID = *req.ParentID
		}
		create = textCreate
	}

	created, err := s.client.Rest().CreateGuildChannel(serverID, create, rest.WithCtx(ctx))
	if err != nil {
		return Channel{}, err
	}
	return Channel{
		ID:       created.ID(),
		ServerID: serverID,
		Name:     created.Name(),
		Kind:     req.Kind,
		ParentID: req.ParentID,
	}, nil
}

func (s *DiscordSession) DeleteChannel(ctx context.Context, channelID snowflake.ID, reason string) error {
	opts := []rest.RequestOpt{rest.WithCtx(ctx)}
	if reason != "" {
		opts = append(opts, rest.WithReason(reason))
	}
	return s.client.Rest().DeleteChannel(channelID, opts...)
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
