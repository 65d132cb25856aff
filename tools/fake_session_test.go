package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/waverider-dev/discord-bridge/platform"
)

// fakeSession is an in-memory Session with a pre-armed gate. Mutations
// record what was asked of them instead of hitting a gateway.
type fakeSession struct {
	servers  []platform.Server
	channels []platform.Channel
	members  map[snowflake.ID][]platform.Member
	roles    map[snowflake.ID][]platform.Role
	history  map[snowflake.ID][]platform.Message

	sentMessages []string
	sentEmbeds   []platform.Embed
	deleted      []snowflake.ID
	failSend     error
}

func (f *fakeSession) AwaitReady(ctx context.Context) error { return ctx.Err() }

func (f *fakeSession) Servers() []platform.Server { return f.servers }

func (f *fakeSession) Server(id snowflake.ID) (platform.Server, bool) {
	for _, server := range f.servers {
		if server.ID == id {
			return server, true
		}
	}
	return platform.Server{}, false
}

func (f *fakeSession) Channel(id snowflake.ID) (platform.Channel, bool) {
	for _, channel := range f.channels {
		if channel.ID == id {
			return channel, true
		}
	}
	return platform.Channel{}, false
}

func (f *fakeSession) ChannelsOf(serverID snowflake.ID) []platform.Channel {
	var out []platform.Channel
	for _, channel := range f.channels {
		if channel.ServerID == serverID {
			out = append(out, channel)
		}
	}
	return out
}

func (f *fakeSession) Member(serverID, userID snowflake.ID) (platform.Member, bool) {
	for _, member := range f.members[serverID] {
		if member.ID == userID {
			return member, true
		}
	}
	return platform.Member{}, false
}

func (f *fakeSession) Members(serverID snowflake.ID, limit int) []platform.Member {
	members := f.members[serverID]
	if len(members) > limit {
		members = members[:limit]
	}
	return members
}

func (f *fakeSession) Roles(serverID snowflake.ID) []platform.Role { return f.roles[serverID] }

func (f *fakeSession) Messages(_ context.Context, channelID snowflake.ID, limit int) ([]platform.Message, error) {
	history := f.history[channelID]
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (f *fakeSession) SendMessage(_ context.Context, channelID snowflake.ID, content string) (snowflake.ID, error) {
	if f.failSend != nil {
		return 0, f.failSend
	}
	f.sentMessages = append(f.sentMessages, content)
	return snowflake.ID(900), nil
}

func (f *fakeSession) SendEmbed(_ context.Context, channelID snowflake.ID, embed platform.Embed) (snowflake.ID, error) {
	if f.failSend != nil {
		return 0, f.failSend
	}
	f.sentEmbeds = append(f.sentEmbeds, embed)
	return snowflake.ID(901), nil
}

func (f *fakeSession) SendReply(_ context.Context, channelID, messageID snowflake.ID, embed platform.Embed) (snowflake.ID, error) {
	if f.failSend != nil {
		return 0, f.failSend
	}
	f.sentEmbeds = append(f.sentEmbeds, embed)
	return snowflake.ID(902), nil
}

func (f *fakeSession) CreateChannel(_ context.Context, serverID snowflake.ID, req platform.ChannelRequest) (platform.Channel, error) {
	created := platform.Channel{
		ID:       snowflake.ID(800 + len(f.channels)),
		ServerID: serverID,
		Name:     req.Name,
		Kind:     req.Kind,
		ParentID: req.ParentID,
		Topic:    req.Topic,
	}
	f.channels = append(f.channels, created)
	return created, nil
}

func (f *fakeSession) DeleteChannel(_ context.Context, channelID snowflake.ID, reason string) error {
	f.deleted = append(f.deleted, channelID)
	return nil
}

func idPtr(id snowflake.ID) *snowflake.ID { return &id }

// newFixtureSession builds one server with two categories, text channels in
// and out of categories, a voice channel and message history.
func newFixtureSession() *fakeSession {
	serverID := snowflake.ID(100)
	joined := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	history := make([]platform.Message, 0, 150)
	for i := 0; i < 150; i++ {
		history = append(history, platform.Message{
			ID:        snowflake.ID(5000 + i),
			Author:    "trader",
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: joined.Add(time.Duration(i) * time.Minute),
		})
	}

	return &fakeSession{
		servers: []platform.Server{{
			ID:          serverID,
			Name:        "WaveRider",
			Description: "momentum swing traders",
			MemberCount: 42,
			OwnerID:     snowflake.ID(1),
			OwnerName:   "captain",
			CreatedAt:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		}},
		channels: []platform.Channel{
			{ID: 201, ServerID: serverID, Name: "trading", Kind: platform.KindCategory},
			{ID: 202, ServerID: serverID, Name: "general", Kind: platform.KindCategory},
			{ID: 210, ServerID: serverID, Name: "signals", Kind: platform.KindText, ParentID: idPtr(201), Category: "trading", Topic: "daily setups"},
			{ID: 211, ServerID: serverID, Name: "voice-floor", Kind: platform.KindVoice, ParentID: idPtr(201), Category: "trading"},
			{ID: 212, ServerID: serverID, Name: "chat", Kind: platform.KindText, ParentID: idPtr(202), Category: "general"},
			{ID: 213, ServerID: serverID, Name: "welcome", Kind: platform.KindText},
		},
		members: map[snowflake.ID][]platform.Member{
			serverID: {
				{ID: 301, Username: "alice", DisplayName: "Alice", Roles: []string{"mod"}, JoinedAt: joined},
				{ID: 302, Username: "bob", DisplayName: "Bob", Bot: true, JoinedAt: joined},
				{ID: 303, Username: "carol", DisplayName: "Carol", JoinedAt: joined},
			},
		},
		roles: map[snowflake.ID][]platform.Role{
			serverID: {{Name: "mod", Color: "#1abc9c"}},
		},
		history: map[snowflake.ID][]platform.Message{
			snowflake.ID(210): history,
		},
	}
}
