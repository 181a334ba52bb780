// Package bot — access.go проверяет роль пользователя в группе.
// Решение об авторизации принимает Telegram: бот лишь спрашивает статус
// участника и доверяет ответу платформы.
package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// IsChatAdmin сообщает, является ли пользователь админом чата.
// Ошибка запроса трактуется как «не админ»: лучше отказать в мутации
// фильтра, чем разрешить её без подтверждения платформы.
func (b *Bot) IsChatAdmin(chatID, userID int64) bool {
	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"chat_id": chatID,
			"user_id": userID,
		}).Warn("GetChatMember failed, считаем не-админом")
		return false
	}

	switch member.Status {
	case "creator", "administrator":
		return true
	default:
		return false
	}
}
