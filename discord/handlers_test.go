package discord

import (
	"context"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waverider-dev/discord-bridge/ai"
	"github.com/waverider-dev/discord-bridge/platform"
)

// recordingSession captures what the bot sends through its injected
// session.
type recordingSession struct {
	servers []platform.Server

	embeds      []platform.Embed
	embedTo     []snowflake.ID
	replies     []platform.Embed
	replyTo     []snowflake.ID
	repliedMsgs []snowflake.ID
}

func (r *recordingSession) AwaitReady(ctx context.Context) error { return nil }

func (r *recordingSession) Servers() []platform.Server { return r.servers }

func (r *recordingSession) Server(id snowflake.ID) (platform.Server, bool) {
	for _, server := range r.servers {
		if server.ID == id {
			return server, true
		}
	}
	return platform.Server{}, false
}

func (r *recordingSession) Channel(snowflake.ID) (platform.Channel, bool) {
	return platform.Channel{}, false
}
func (r *recordingSession) ChannelsOf(snowflake.ID) []platform.Channel { return nil }
func (r *recordingSession) Member(snowflake.ID, snowflake.ID) (platform.Member, bool) {
	return platform.Member{}, false
}
func (r *recordingSession) Members(snowflake.ID, int) []platform.Member { return nil }
func (r *recordingSession) Roles(snowflake.ID) []platform.Role          { return nil }
func (r *recordingSession) Messages(context.Context, snowflake.ID, int) ([]platform.Message, error) {
	return nil, nil
}
func (r *recordingSession) SendMessage(context.Context, snowflake.ID, string) (snowflake.ID, error) {
	return 0, nil
}

func (r *recordingSession) SendEmbed(_ context.Context, channelID snowflake.ID, embed platform.Embed) (snowflake.ID, error) {
	r.embeds = append(r.embeds, embed)
	r.embedTo = append(r.embedTo, channelID)
	return snowflake.ID(901), nil
}

func (r *recordingSession) SendReply(_ context.Context, channelID, messageID snowflake.ID, embed platform.Embed) (snowflake.ID, error) {
	r.replies = append(r.replies, embed)
	r.replyTo = append(r.replyTo, channelID)
	r.repliedMsgs = append(r.repliedMsgs, messageID)
	return snowflake.ID(902), nil
}

func (r *recordingSession) CreateChannel(context.Context, snowflake.ID, platform.ChannelRequest) (platform.Channel, error) {
	return platform.Channel{}, nil
}
func (r *recordingSession) DeleteChannel(context.Context, snowflake.ID, string) error { return nil }

type stubCompleter struct {
	answer string
	calls  int
}

func (s *stubCompleter) Name() string { return "stub" }

func (s *stubCompleter) Complete(ctx context.Context, question string) (string, error) {
	s.calls++
	return s.answer, nil
}

func idPtr(id snowflake.ID) *snowflake.ID { return &id }

func TestWelcomeGoesToSystemChannel(t *testing.T) {
	session := &recordingSession{servers: []platform.Server{{
		ID:              snowflake.ID(100),
		Name:            "WaveRider",
		SystemChannelID: idPtr(snowflake.ID(213)),
	}}}
	b := NewBot(nil, ai.NewPool(1), "!")
	b.Attach(session)

	b.welcome(snowflake.ID(100), "carol", "https://cdn.example/carol.png")

	require.Len(t, session.embeds, 1)
	assert.Equal(t, snowflake.ID(213), session.embedTo[0])
	assert.Contains(t, session.embeds[0].Title, "carol")
	assert.Equal(t, colorGreen, session.embeds[0].Color)
	assert.Equal(t, "https://cdn.example/carol.png", session.embeds[0].ThumbnailURL)
}

func TestWelcomeSkippedWithoutSystemChannel(t *testing.T) {
	session := &recordingSession{servers: []platform.Server{{
		ID:   snowflake.ID(100),
		Name: "WaveRider",
	}}}
	b := NewBot(nil, ai.NewPool(1), "!")
	b.Attach(session)

	b.welcome(snowflake.ID(100), "carol", "")
	b.welcome(snowflake.ID(999), "dave", "")

	assert.Empty(t, session.embeds)
}

func TestAnswerInChannelRepliesThroughSession(t *testing.T) {
	session := &recordingSession{}
	completer := &stubCompleter{answer: "動能交易是追隨趨勢的策略。"}
	pool := ai.NewPool(1)
	b := NewBot(completer, pool, "!")
	b.Attach(session)

	b.answerInChannel(snowflake.ID(210), snowflake.ID(501), "alice", "什麼是動能交易？")
	pool.Close()

	assert.Equal(t, 1, completer.calls)
	require.Len(t, session.replies, 1)
	assert.Equal(t, snowflake.ID(210), session.replyTo[0])
	assert.Equal(t, snowflake.ID(501), session.repliedMsgs[0])
	assert.Equal(t, "動能交易是追隨趨勢的策略。", session.replies[0].Description)
	assert.Equal(t, "Asked by alice", session.replies[0].Footer)
}

func TestAnswerInChannelWithoutProvider(t *testing.T) {
	session := &recordingSession{}
	pool := ai.NewPool(1)
	b := NewBot(nil, pool, "!")
	b.Attach(session)

	b.answerInChannel(snowflake.ID(210), snowflake.ID(502), "bob", "question")
	pool.Close()

	require.Len(t, session.replies, 1)
	assert.Equal(t, ai.UnavailableMessage, session.replies[0].Description)
}

func TestParseAskCommand(t *testing.T) {
	question, ok := parseAskCommand("!ask 什麼是動能交易？", "!")
	assert.True(t, ok)
	assert.Equal(t, "什麼是動能交易？", question)
}

func TestParseAskCommandCustomPrefix(t *testing.T) {
	question, ok := parseAskCommand("?ask how do stops work", "?")
	assert.True(t, ok)
	assert.Equal(t, "how do stops work", question)

	_, ok = parseAskCommand("!ask how do stops work", "?")
	assert.False(t, ok)
}

func TestParseAskCommandIgnoresOtherMessages(t *testing.T) {
	for _, content := range []string{
		"hello there",
		"!askew question",
		"!ask",
		"!ask   ",
		"ask without prefix",
	} {
		_, ok := parseAskCommand(content, "!")
		assert.False(t, ok, "content %q should not parse", content)
	}
}

func TestAnswerEmbedCarriesAsker(t *testing.T) {
	embed := answerEmbed("答案", "alice")
	assert.Equal(t, "💡 AI 回答", embed.Title)
	assert.Equal(t, "答案", embed.Description)
	assert.Equal(t, colorPurple, embed.Color)
	assert.Equal(t, "Asked by alice", embed.Footer)
}

func TestHelpEmbedListsCommands(t *testing.T) {
	embed := helpEmbed()
	assert.Equal(t, colorBlue, embed.Color)
	assert.Len(t, embed.Fields, 3)
	assert.Contains(t, embed.Fields[0].Value, "/ask")
	assert.Contains(t, embed.Fields[1].Value, "/ping")
}
