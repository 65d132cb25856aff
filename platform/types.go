package platform

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// ChannelKind tags the channel variants the bridge understands. Only
// KindText channels accept message sends and history reads.
type ChannelKind string

const (
	KindCategory ChannelKind = "category"
	KindText     ChannelKind = "text"
	KindVoice    ChannelKind = "voice"
	KindForum    ChannelKind = "forum"
)

// ParseChannelKind maps a user supplied kind string to a ChannelKind,
// falling back to text for anything it does not recognize.
func ParseChannelKind(s string) ChannelKind {
	switch ChannelKind(s) {
	case KindCategory, KindVoice, KindForum:
		return ChannelKind(s)
	default:
		return KindText
	}
}

type Server struct {
	ID          snowflake.ID
	Name        string
	Description string
	MemberCount int
	OwnerID     snowflake.ID
	OwnerName   string
	CreatedAt   time.Time
	// SystemChannelID is where the platform posts join notices; nil when
	// the server has none configured.
	SystemChannelID *snowflake.ID
}

type Channel struct {
	ID       snowflake.ID
	ServerID snowflake.ID
	Name     string
	Kind     ChannelKind
	Topic    string
	ParentID *snowflake.ID
	// Category is the resolved name of the parent category, empty for
	// top level channels and for categories themselves.
	Category string
}

type Member struct {
	ID          snowflake.ID
	Username    string
	DisplayName string
	Bot         bool
	Roles       []string
	JoinedAt    time.Time
}

type Message struct {
	ID          snowflake.ID
	Author      string
	Content     string
	Timestamp   time.Time
	Attachments []string
}

type Role struct {
	Name  string
	Color string
}

// ChannelRequest describes a channel to create. ParentID and Topic are
// optional; Topic only applies to text channels.
type ChannelRequest struct {
	Name     string
	Kind     ChannelKind
	ParentID *snowflake.ID
	Topic    string
}

type Embed struct {
	Title        string
	Description  string
	Color        int
	Fields       []EmbedField
	Footer       string
	ThumbnailURL string
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}
