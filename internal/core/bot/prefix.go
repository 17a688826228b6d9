package bot

import (
	"context"
	"strings"

	"cmdbot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// PrefixResolver produces the ordered candidate prefixes for a message. The
// first candidate the message content starts with wins, so a shorter prefix
// placed before a longer one sharing its leading characters will shadow it.
type PrefixResolver func(ctx context.Context, b *Bot, m *domain.Message) ([]string, error)

// StaticPrefixes resolves to a fixed ordered list of literal prefixes.
func StaticPrefixes(prefixes ...string) PrefixResolver {
	return func(_ context.Context, _ *Bot, _ *domain.Message) ([]string, error) {
		return prefixes, nil
	}
}

// WhenMentioned treats a leading mention of the bot as the prefix.
func WhenMentioned() PrefixResolver {
	return func(_ context.Context, b *Bot, _ *domain.Message) ([]string, error) {
		return []string{mention(b.User())}, nil
	}
}

// WhenMentionedOr accepts the given prefixes followed by the bot mention.
func WhenMentionedOr(prefixes ...string) PrefixResolver {
	return func(_ context.Context, b *Bot, _ *domain.Message) ([]string, error) {
		return append(append([]string(nil), prefixes...), mention(b.User())), nil
	}
}

func mention(u domain.User) string {
	return "@" + u.Name + " "
}

func (b *Bot) resolvePrefix(ctx context.Context, m *domain.Message) (string, bool) {
	candidates, err := b.prefix(ctx, b, m)
	if err != nil {
		log.Warn().Err(err).Msg("prefix resolver failed, ignoring message")
		return "", false
	}

	for _, prefix := range candidates {
		if strings.HasPrefix(m.Content, prefix) {
			return prefix, true
		}
	}
	return "", false
}
