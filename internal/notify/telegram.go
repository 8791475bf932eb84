package notify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// maxMessageLen is Telegram's limit for one text message.
const maxMessageLen = 4096

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts digests to one chat.
type Telegram struct {
	api    sender
	chatID int64
}

// NewTelegram authorizes the bot token and targets chatID.
func NewTelegram(token string, chatID int64, log *logrus.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.WithField("account", api.Self.UserName).Info("telegram bot authorized")
	return &Telegram{api: api, chatID: chatID}, nil
}

// Notify sends text as HTML, split on line boundaries when it exceeds the
// message limit.
func (t *Telegram) Notify(ctx context.Context, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(t.chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := t.api.Send(msg); err != nil {
			return fmt.Errorf("send to chat %d: %w", t.chatID, err)
		}
	}
	return nil
}

func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			// A single overlong line is cut inside itself.
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			cut := cutPoint(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// cutPoint returns where to cut a line longer than limit bytes: on a rune
// boundary, and before an HTML tag that would otherwise be split.
func cutPoint(line string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	if lt := strings.LastIndexByte(line[:cut], '<'); lt > 0 && !strings.Contains(line[lt:cut], ">") {
		cut = lt
	}
	if cut == 0 {
		// Never return an empty chunk; keep the first rune whole.
		_, size := utf8.DecodeRuneInString(line)
		cut = size
	}
	return cut
}
