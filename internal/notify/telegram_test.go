package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestTelegramNotify(t *testing.T) {
	t.Run("sends html to the chat", func(t *testing.T) {
		api := &fakeSender{}
		tg := &Telegram{api: api, chatID: 42}
		require.NoError(t, tg.Notify(context.Background(), "<b>hi</b>"))
		require.Len(t, api.sent, 1)
		assert.Equal(t, int64(42), api.sent[0].ChatID)
		assert.Equal(t, tgbotapi.ModeHTML, api.sent[0].ParseMode)
		assert.Equal(t, "<b>hi</b>", api.sent[0].Text)
	})

	t.Run("send failure", func(t *testing.T) {
		tg := &Telegram{api: &fakeSender{err: errors.New("429")}, chatID: 42}
		assert.ErrorContains(t, tg.Notify(context.Background(), "x"), "429")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		api := &fakeSender{}
		tg := &Telegram{api: api, chatID: 42}
		assert.ErrorIs(t, tg.Notify(ctx, "x"), context.Canceled)
		assert.Empty(t, api.sent)
	})
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	text := "aaaa\nbbbb\ncccc\n"
	chunks := splitMessage(text, 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc\n"}, chunks)
	assert.Equal(t, text, strings.Join(chunks, ""))

	long := strings.Repeat("x", 25)
	chunks = splitMessage("ab\n"+long, 10)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 10)
	}
	assert.Equal(t, "ab\n"+long, strings.Join(chunks, ""))
}

func TestSplitMessageKeepsRunesAndTags(t *testing.T) {
	t.Run("multi-byte runes stay whole", func(t *testing.T) {
		text := "⚠️ " + strings.Repeat("é", 10) + "🟢"
		chunks := splitMessage(text, 5)
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c), "invalid utf-8 in %q", c)
			assert.LessOrEqual(t, len(c), 5)
			assert.NotEmpty(t, c)
		}
		assert.Equal(t, text, strings.Join(chunks, ""))
	})

	t.Run("tags are not split", func(t *testing.T) {
		chunks := splitMessage("aaaa<b>bold</b>", 6)
		assert.Equal(t, []string{"aaaa", "<b>bol", "d</b>"}, chunks)
	})

	t.Run("rune longer than the limit is kept whole", func(t *testing.T) {
		chunks := splitMessage("🟢🟢", 2)
		assert.Equal(t, []string{"🟢", "🟢"}, chunks)
	})
}
