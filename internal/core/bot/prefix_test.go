package bot

import (
	"context"
	"errors"
	"testing"

	"cmdbot/internal/core/command"
	"cmdbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrefixFirstMatchWins(t *testing.T) {
	b := New(WithPrefixes("!", "!!"))

	prefix, ok := b.resolvePrefix(context.Background(), newMessage("!!ping"))

	require.True(t, ok)
	assert.Equal(t, "!", prefix, "candidates are tried in order, not by length")
}

func TestResolvePrefixNoMatch(t *testing.T) {
	b := New(WithPrefixes("!", "?"))

	_, ok := b.resolvePrefix(context.Background(), newMessage("ping"))

	assert.False(t, ok)
}

func TestResolvePrefixResolverError(t *testing.T) {
	b := New(WithPrefixResolver(func(_ context.Context, _ *Bot, _ *domain.Message) ([]string, error) {
		return nil, errors.New("store unavailable")
	}))

	_, ok := b.resolvePrefix(context.Background(), newMessage("!ping"))

	assert.False(t, ok, "a failing resolver drops the message")
}

func TestResolvePrefixDynamicResolver(t *testing.T) {
	b := New(WithPrefixResolver(func(_ context.Context, _ *Bot, m *domain.Message) ([]string, error) {
		if m.Channel.ID == "c-1" {
			return []string{"$"}, nil
		}
		return []string{"!"}, nil
	}))

	prefix, ok := b.resolvePrefix(context.Background(), newMessage("$ping"))

	require.True(t, ok)
	assert.Equal(t, "$", prefix)
}

func TestWhenMentioned(t *testing.T) {
	b := New(
		WithSelf(domain.User{ID: "bot-1", Name: "cmdbot"}),
		WithPrefixResolver(WhenMentioned()),
	)

	invoked := false
	cmd, err := command.New("ping", func(_ *command.Context) error {
		invoked = true
		return nil
	}).Build()
	require.NoError(t, err)
	require.NoError(t, b.AddCommand(cmd))

	process(b, "@cmdbot ping")
	assert.True(t, invoked)

	invoked = false
	process(b, "!ping")
	assert.False(t, invoked, "plain prefixes are not accepted by a mention-only resolver")
}

func TestWhenMentionedOr(t *testing.T) {
	b := New(
		WithSelf(domain.User{ID: "bot-1", Name: "cmdbot"}),
		WithPrefixResolver(WhenMentionedOr("!")),
	)

	count := 0
	cmd, err := command.New("ping", func(_ *command.Context) error {
		count++
		return nil
	}).Build()
	require.NoError(t, err)
	require.NoError(t, b.AddCommand(cmd))

	process(b, "!ping")
	process(b, "@cmdbot ping")

	assert.Equal(t, 2, count)
}
