// Package bot — welcome.go приветствует новых участников группы.
package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// welcomeTemplates — шаблоны приветствий; {user} заменяется на хэндл.
var welcomeTemplates = []string{
	"🎉 Holy moly! {user} just crash-landed into our group! Quick, hide the memes!",
	"👋 Whoosh! {user} just ninja'd their way in here! Everyone act natural!",
	"🌟 Alert! Alert! {user} has infiltrated our secret hideout!",
	"🎪 Ladies and gentlemen! Please welcome our newest clown, {user}!",
	"🚀 {user} has entered the chat! This is not a drill, I repeat, NOT A DRILL!",
	"💫 Look what the cat dragged in! It's {user}!",
	"🎭 Plot twist! {user} just joined our chaos party!",
	"🌈 *Poof* {user} appeared! Please don't be a bot... please don't be a bot...",
	"🎪 Breaking news: {user} has discovered our secret society!",
	"🎯 {user} has spawned in the chat! Quick, give them the initiation test!",
}

// handleNewMembers приветствует каждого нового участника (кроме ботов)
// случайным шаблоном.
func (b *Bot) handleNewMembers(chatID int64, newMembers []tgbotapi.User) {
	for _, user := range newMembers {
		if user.IsBot {
			continue
		}

		mention := "@" + user.UserName
		if user.UserName == "" {
			mention = user.FirstName
		}

		b.randMu.Lock()
		template := welcomeTemplates[b.rng.Intn(len(welcomeTemplates))]
		b.randMu.Unlock()

		b.sendMessage(chatID, strings.ReplaceAll(template, "{user}", mention))

		log.WithFields(log.Fields{
			"chat_id": chatID,
			"user":    user.UserName,
		}).Info("Новый участник поприветствован")
	}
}
