package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	gotParams *bot.SendMessageParams
	err       error
}

func (f *fakeSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.gotParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{}, nil
}

func TestTelegram_SendsToConfiguredChat(t *testing.T) {
	fake := &fakeSender{}
	announce := Telegram(fake, 4242)

	require.NoError(t, announce("daily-report", "completed"))
	require.NotNil(t, fake.gotParams)
	assert.Equal(t, int64(4242), fake.gotParams.ChatID)
	assert.Contains(t, fake.gotParams.Text, "daily-report")
	assert.Contains(t, fake.gotParams.Text, "completed")
}

func TestTelegram_PropagatesSendError(t *testing.T) {
	boom := errors.New("telegram unavailable")
	fake := &fakeSender{err: boom}
	announce := Telegram(fake, 1)

	err := announce("job", "msg")
	assert.ErrorIs(t, err, boom)
}
