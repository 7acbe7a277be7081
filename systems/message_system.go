package systems

import (
	"sync"
)

// MessageLog stores the most recent game messages for the renderers to
// show
type MessageLog struct {
	mu          sync.Mutex
	messages    []ColoredMessage
	MaxMessages int
}

// NewMessageLog creates a new message log
func NewMessageLog() *MessageLog {
	return &MessageLog{
		MaxMessages: 100, // Store the last 100 messages
	}
}

// Add adds a normal message to the log
func (ml *MessageLog) Add(message string) {
	ml.AddTyped(message, MessageTypeNormal)
}

// AddAlert adds an alert to the log
func (ml *MessageLog) AddAlert(message string) {
	ml.AddTyped(message, MessageTypeAlert)
}

// AddTyped adds a message of the given type
func (ml *MessageLog) AddTyped(message string, t MessageType) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.messages = append(ml.messages, ColoredMessage{Text: message, Type: t})

	// Truncate if we have too many messages
	if len(ml.messages) > ml.MaxMessages {
		ml.messages = ml.messages[len(ml.messages)-ml.MaxMessages:]
	}
}

// RecentMessages gets the n most recent messages, newest first
func (ml *MessageLog) RecentMessages(n int) []ColoredMessage {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	if n > len(ml.messages) {
		n = len(ml.messages)
	}

	result := make([]ColoredMessage, n)
	for i := 0; i < n; i++ {
		result[i] = ml.messages[len(ml.messages)-1-i]
	}
	return result
}

// Clear clears all messages
func (ml *MessageLog) Clear() {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.messages = nil
}
