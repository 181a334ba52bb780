// Package bot — help.go хранит тексты /help и /dev.
package bot

const helpText = `🤖 AegisIX Bot

Karma Commands:
/rewards - Get daily karma points (1-300)
/karma - Check your karma balance
/give - Give karma to another user
/store - Browse the karma store
/buy - Purchase status with PID
/leaderboard - View status rankings

Fun Commands:
/shipping - Ship two random members
/info - View detailed user info
/urban <word> - Search Urban Dictionary
/tod <truth/dare> - Truth or Dare game
/nhie - Never Have I Ever game

Admin Commands:
/filters - Manage word filters

Notes:
• Karma rewards refresh daily
• Status purchases are permanent
• Shipping resets every 24h
• Some commands require admin rights`

const devText = `🛠 Developer Information

Recent Updates:
• Karma system with store
• Shipping feature
• Word filters
• Detailed user info
• Welcome messages

Stats:
• 20 Status ranks
• 10 Welcome messages
• 14 Bot commands`
