package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"cmdbot/internal/core/bot"
	"cmdbot/internal/core/domain"
)

// Sender writes replies to a local writer, the port implementation used when
// the bot runs without a chat transport.
type Sender struct {
	out io.Writer
	seq int
}

func NewSender(out io.Writer) *Sender {
	return &Sender{out: out}
}

func (s *Sender) SendMessageReply(_ context.Context, _ *domain.Message, text string) (string, error) {
	if _, err := fmt.Fprintln(s.out, text); err != nil {
		return "", err
	}
	s.seq++
	return strconv.Itoa(s.seq), nil
}

func (s *Sender) SendTyping(_ context.Context, _ *domain.Message) {}

// Run reads lines from in and processes each as a message from a local user
// until in is drained or ctx is cancelled.
func Run(ctx context.Context, engine *bot.Bot, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	author := domain.User{ID: "local", Name: "local"}
	channel := domain.Channel{ID: "console"}

	for id := 1; scanner.Scan(); id++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		engine.Process(ctx, &domain.Message{
			ID:      strconv.Itoa(id),
			Content: scanner.Text(),
			Author:  author,
			Channel: channel,
		})
	}
	return scanner.Err()
}
