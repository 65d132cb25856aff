package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatch(t *testing.T, d *Dispatcher, name string, args map[string]any) string {
	t.Helper()
	return d.Dispatch(context.Background(), name, args)
}

func decodeList(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func decodeObject(t *testing.T, raw string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestListServers(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	servers := decodeList(t, dispatch(t, d, "list_servers", nil))

	require.Len(t, servers, 1)
	assert.Equal(t, "100", servers[0]["id"])
	assert.Equal(t, "WaveRider", servers[0]["name"])
	assert.Equal(t, float64(42), servers[0]["member_count"])
	assert.Equal(t, "captain", servers[0]["owner"])
}

func TestListServersEmptyConnection(t *testing.T) {
	d := NewDispatcher(&fakeSession{})
	result := dispatch(t, d, "list_servers", nil)
	assert.Equal(t, "[]", result)
}

func TestListChannelsSorted(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	channels := decodeList(t, dispatch(t, d, "list_channels", map[string]any{"server_id": "100"}))

	require.Len(t, channels, 6)
	_, present := channels[0]["category"]
	assert.False(t, present, "top level rows must omit the category key")

	var got []string
	for _, channel := range channels {
		// uncategorized rows carry no category key at all
		category, _ := channel["category"].(string)
		if category == "" {
			category = "-"
		}
		got = append(got, fmt.Sprintf("%s/%s/%s", category, channel["type"], channel["name"]))
	}
	// category name ascending, then kind, then channel name; uncategorized first
	want := []string{
		"-/category/general",
		"-/category/trading",
		"-/text/welcome",
		"general/text/chat",
		"trading/text/signals",
		"trading/voice/voice-floor",
	}
	assert.Equal(t, want, got)
}

func TestListChannelsUnknownServer(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	result := decodeObject(t, dispatch(t, d, "list_channels", map[string]any{"server_id": "999"}))
	assert.Contains(t, result["error"], "999")
}

func TestGetMessagesClampsLimit(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	messages := decodeList(t, dispatch(t, d, "get_messages", map[string]any{
		"channel_id": "210",
		"limit":      500,
	}))
	assert.LessOrEqual(t, len(messages), 100)
	assert.Len(t, messages, 100)
}

func TestGetMessagesDefaultLimit(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	messages := decodeList(t, dispatch(t, d, "get_messages", map[string]any{"channel_id": "210"}))
	assert.Len(t, messages, 20)
	assert.Equal(t, []any{}, messages[0]["attachments"])
}

func TestGetMessagesRejectsNonText(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	result := decodeObject(t, dispatch(t, d, "get_messages", map[string]any{"channel_id": "211"}))
	assert.Contains(t, result["error"], "not a text channel")
}

func TestSendMessage(t *testing.T) {
	session := newFixtureSession()
	d := NewDispatcher(session)
	result := decodeObject(t, dispatch(t, d, "send_message", map[string]any{
		"channel_id": "210",
		"content":    "breakout on watch",
	}))

	assert.Equal(t, true, result["success"])
	assert.Equal(t, "900", result["message_id"])
	assert.Equal(t, "signals", result["channel"])
	require.Len(t, session.sentMessages, 1)
}

func TestSendMessageTransportFailure(t *testing.T) {
	session := newFixtureSession()
	session.failSend = fmt.Errorf("missing permissions")
	d := NewDispatcher(session)

	result := decodeObject(t, dispatch(t, d, "send_message", map[string]any{
		"channel_id": "210",
		"content":    "x",
	}))
	assert.Equal(t, "missing permissions", result["error"])
}

func TestSendStructuredMessageMalformedFields(t *testing.T) {
	session := newFixtureSession()
	d := NewDispatcher(session)
	result := decodeObject(t, dispatch(t, d, "send_structured_message", map[string]any{
		"channel_id": "210",
		"title":      "Weekly recap",
		"body":       "momentum holding",
		"fields":     "not json",
	}))

	assert.Equal(t, true, result["success"])
	require.Len(t, session.sentEmbeds, 1)
	assert.Empty(t, session.sentEmbeds[0].Fields)
}

func TestSendStructuredMessageFieldsAndColor(t *testing.T) {
	session := newFixtureSession()
	d := NewDispatcher(session)
	dispatch(t, d, "send_structured_message", map[string]any{
		"channel_id": "210",
		"title":      "Signal",
		"body":       "VCP setup",
		"color":      "gold",
		"fields":     `[{"name": "Ticker", "value": "NVDA", "inline": true}]`,
	})

	require.Len(t, session.sentEmbeds, 1)
	embed := session.sentEmbeds[0]
	assert.Equal(t, 0xf1c40f, embed.Color)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Ticker", embed.Fields[0].Name)
	assert.True(t, embed.Fields[0].Inline)
}

func TestSendStructuredMessageDefaultsToBlue(t *testing.T) {
	session := newFixtureSession()
	d := NewDispatcher(session)
	dispatch(t, d, "send_structured_message", map[string]any{
		"channel_id": "210",
		"title":      "t",
		"body":       "b",
		"color":      "magenta",
	})
	require.Len(t, session.sentEmbeds, 1)
	assert.Equal(t, 0x3498db, session.sentEmbeds[0].Color)
}

func TestCreateChannelDefaultsToText(t *testing.T) {
	session := newFixtureSession()
	d := NewDispatcher(session)
	result := decodeObject(t, dispatch(t, d, "create_channel", map[string]any{
		"server_id":   "100",
		"name":        "earnings",
		"category_id": "201",
		"topic":       "earnings season",
	}))

	assert.Equal(t, true, result["success"])
	assert.Equal(t, "earnings", result["name"])
	assert.Equal(t, "text", result["type"])
}

func TestDeleteChannel(t *testing.T) {
	session := newFixtureSession()
	d := NewDispatcher(session)
	result := decodeObject(t, dispatch(t, d, "delete_channel", map[string]any{
		"channel_id": "213",
		"reason":     "cleanup",
	}))

	assert.Equal(t, true, result["success"])
	assert.Equal(t, "welcome", result["deleted_channel"])
	require.Len(t, session.deleted, 1)
}

func TestDeleteChannelUnknownID(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	result := decodeObject(t, dispatch(t, d, "delete_channel", map[string]any{"channel_id": "404"}))
	assert.Contains(t, result["error"], "404")
	assert.Contains(t, result["error"], "not found")
}

func TestListMembersDefaultLimit(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	members := decodeList(t, dispatch(t, d, "list_members", map[string]any{"server_id": "100"}))

	require.Len(t, members, 3)
	assert.Equal(t, "alice", members[0]["name"])
	assert.Equal(t, []any{"mod"}, members[0]["roles"])
	assert.Equal(t, []any{}, members[2]["roles"])
	assert.Equal(t, true, members[1]["bot"])
}

func TestListMembersTruncates(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	members := decodeList(t, dispatch(t, d, "list_members", map[string]any{
		"server_id": "100",
		"limit":     2,
	}))
	assert.Len(t, members, 2)
}

func TestGetServerInfoIdempotent(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	args := map[string]any{"server_id": "100"}

	first := dispatch(t, d, "get_server_info", args)
	second := dispatch(t, d, "get_server_info", args)
	assert.Equal(t, first, second)

	info := decodeObject(t, first)
	assert.Equal(t, "WaveRider", info["name"])
	summary := info["channels_summary"].(map[string]any)
	assert.Equal(t, float64(3), summary["text"])
	assert.Equal(t, float64(1), summary["voice"])
	assert.Equal(t, float64(2), summary["category"])
	assert.Equal(t, float64(0), summary["forum"])

	categories := info["categories"].([]any)
	require.Len(t, categories, 2)
	trading := categories[0].(map[string]any)
	assert.Equal(t, "trading", trading["name"])
	assert.Len(t, trading["channels"], 2)
}

func TestUnknownToolName(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	result := decodeObject(t, dispatch(t, d, "reboot_world", nil))
	assert.Contains(t, result["error"], "unknown tool")
}

func TestMissingRequiredArgument(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	result := decodeObject(t, dispatch(t, d, "list_channels", map[string]any{}))
	assert.Contains(t, result["error"], "server_id is required")
}

func TestNumericIDArgumentTolerated(t *testing.T) {
	d := NewDispatcher(newFixtureSession())
	channels := decodeList(t, dispatch(t, d, "list_channels", map[string]any{"server_id": 100}))
	assert.Len(t, channels, 6)
}
