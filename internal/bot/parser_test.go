package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommandPrefixes(t *testing.T) {
	p := NewCommandParser()

	cmd, args, ok := p.ParseCommand("/rewards")
	assert.True(t, ok)
	assert.Equal(t, "rewards", cmd)
	assert.Empty(t, args)

	// Префикс "!" равнозначен "/"
	cmd, _, ok = p.ParseCommand("!rewards")
	assert.True(t, ok)
	assert.Equal(t, "rewards", cmd)

	_, _, ok = p.ParseCommand("просто сообщение")
	assert.False(t, ok)

	_, _, ok = p.ParseCommand("/")
	assert.False(t, ok)
}

func TestParseCommandArgs(t *testing.T) {
	p := NewCommandParser()

	cmd, args, ok := p.ParseCommand("/give @alice 50")
	assert.True(t, ok)
	assert.Equal(t, "give", cmd)
	assert.Equal(t, []string{"@alice", "50"}, args)

	// Лишние пробелы не ломают разбор
	cmd, args, ok = p.ParseCommand("  /buy   P001  ")
	assert.True(t, ok)
	assert.Equal(t, "buy", cmd)
	assert.Equal(t, []string{"P001"}, args)
}

func TestParseCommandStripsBotMention(t *testing.T) {
	p := NewCommandParser()

	cmd, args, ok := p.ParseCommand("/rewards@karma_bot")
	assert.True(t, ok)
	assert.Equal(t, "rewards", cmd)
	assert.Empty(t, args)

	// Команды нормализуются к нижнему регистру
	cmd, _, ok = p.ParseCommand("/REWARDS@Karma_Bot")
	assert.True(t, ok)
	assert.Equal(t, "rewards", cmd)
}
