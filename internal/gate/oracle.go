package gate

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ChannelOracle проверяет членство в обязательном канале через Telegram API
type ChannelOracle struct {
	bot     *tgbotapi.BotAPI
	channel string // формат @channel
	logger  *zap.Logger
}

// NewChannelOracle создает новый оракул членства в канале
func NewChannelOracle(bot *tgbotapi.BotAPI, channel string, logger *zap.Logger) *ChannelOracle {
	return &ChannelOracle{
		bot:     bot,
		channel: channel,
		logger:  logger,
	}
}

// IsMember проверяет, состоит ли пользователь в канале. Покинувшие и
// исключенные не считаются участниками.
func (o *ChannelOracle) IsMember(ctx context.Context, telegramID int64) (bool, error) {
	member, err := o.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: o.channel,
			UserID:             telegramID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("ошибка запроса членства в канале: %w", err)
	}

	switch member.Status {
	case "left", "kicked":
		return false, nil
	default:
		return true, nil
	}
}
