package testutil

import (
	"context"
	"sync"

	"anoa.com/recipemarket/pkg/mailer"
)

// MemoryMailer records sent messages.
type MemoryMailer struct {
	mu       sync.Mutex
	Sent     []mailer.Message
	FailNext error
}

func (m *MemoryMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *MemoryMailer) Last() (mailer.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) == 0 {
		return mailer.Message{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}
