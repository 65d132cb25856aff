package platform

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// Session is the connection handle every handler receives. There is one
// per process; it is constructed explicitly and passed in, never reached
// through package state.
//
// Snapshot accessors (Servers, Server, Channel, ChannelsOf, Member,
// Members, Roles) read the local entity snapshot without touching the
// network and report a miss with a bool instead of an error. They are only
// guaranteed populated once AwaitReady has returned. The remaining methods
// perform live reads or mutations against the platform and can fail.
type Session interface {
	// AwaitReady blocks until the gateway handshake has completed and the
	// initial entity snapshot is populated. Safe for any number of
	// concurrent callers.
	AwaitReady(ctx context.Context) error

	Servers() []Server
	Server(id snowflake.ID) (Server, bool)
	Channel(id snowflake.ID) (Channel, bool)
	ChannelsOf(serverID snowflake.ID) []Channel
	Member(serverID, userID snowflake.ID) (Member, bool)
	Members(serverID snowflake.ID, limit int) []Member
	Roles(serverID snowflake.ID) []Role

	Messages(ctx context.Context, channelID snowflake.ID, limit int) ([]Message, error)
	SendMessage(ctx context.Context, channelID snowflake.ID, content string) (snowflake.ID, error)
	SendEmbed(ctx context.Context, channelID snowflake.ID, embed Embed) (snowflake.ID, error)
	// SendReply posts an embed as a reply to an existing message.
	SendReply(ctx context.Context, channelID, messageID snowflake.ID, embed Embed) (snowflake.ID, error)
	CreateChannel(ctx context.Context, serverID snowflake.ID, req ChannelRequest) (Channel, error)
	DeleteChannel(ctx context.Context, channelID snowflake.ID, reason string) error
}
