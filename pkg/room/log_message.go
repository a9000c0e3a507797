package room

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"toes-server/pkg/deck"
)

const logMessageLimit = 25

// LogMessage is a line of the table's running commentary
// If PlayerIDs is empty, the message is a general statement.
type LogMessage struct {
	UUID      string      `json:"uuid"`
	Round     int         `json:"round"`
	PlayerIDs []string    `json:"playerIds"`
	Cards     []deck.Card `json:"cards"`
	Message   string      `json:"message"`
	Time      time.Time   `json:"time"`
}

func (d *Dealer) newLogMessage(playerID string, format string, a ...interface{}) *LogMessage {
	playerIDs := []string{}
	if playerID != "" {
		playerIDs = []string{playerID}
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		Round:     d.state.Round,
		PlayerIDs: playerIDs,
		Cards:     []deck.Card{},
		Message:   fmt.Sprintf(format, a...),
		Time:      d.cfg.Clock.Now(),
	}
}

// addLogMessages adds log messages, keeping only the most recent ones
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages ...*LogMessage) {
	d.lock.Lock()
	defer d.lock.Unlock()

	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}

// LogMessages returns the most recent log messages, oldest first
func (d *Dealer) LogMessages() []*LogMessage {
	d.lock.RLock()
	defer d.lock.RUnlock()

	messages := make([]*LogMessage, len(d.logMessages))
	copy(messages, d.logMessages)

	return messages
}
