package mailer_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"campus-portal-be/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Email
}

func (s *captureSender) send(e mailer.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, e)
	return nil
}

func TestMailerDeliversQueuedEmail(t *testing.T) {
	sender := &captureSender{}
	m := mailer.NewWithSender(8, sender.send)

	m.Enqueue(mailer.Email{To: "a@example.com", Subject: "one"})
	m.Enqueue(mailer.Email{To: "b@example.com", Subject: "two"})
	m.Close()

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "one", sender.sent[0].Subject)
	assert.Equal(t, "two", sender.sent[1].Subject)
}

func TestMailerSendFailureDoesNotPropagate(t *testing.T) {
	m := mailer.NewWithSender(8, func(mailer.Email) error {
		return errors.New("smtp down")
	})

	// Enqueue must not panic or block on a failing transport
	m.Enqueue(mailer.Email{To: "a@example.com", Subject: "doomed"})
	m.Close()
}

func TestMailerEnqueueNeverBlocksWhenFull(t *testing.T) {
	release := make(chan struct{})
	m := mailer.NewWithSender(1, func(mailer.Email) error {
		<-release
		return nil
	})
	defer func() {
		close(release)
		m.Close()
	}()

	// First email occupies the worker, second fills the queue; the rest
	// must be dropped without blocking the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			m.Enqueue(mailer.Email{To: "a@example.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestPasswordResetEmailTemplate(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://portal.example.edu")

	e := mailer.PasswordResetEmail("student@example.edu", "Rafi", "tok123")

	assert.Equal(t, "student@example.edu", e.To)
	assert.Contains(t, e.Body, "Rafi")
	assert.Contains(t, e.Body, "https://portal.example.edu/user/reset-password?token=tok123")
	assert.Contains(t, e.Body, "30 minutes")
}

func TestWelcomeEmailTemplate(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://portal.example.edu")

	e := mailer.WelcomeEmail("student@example.edu", "Rafi")

	assert.Equal(t, "student@example.edu", e.To)
	assert.Contains(t, e.Subject, "Welcome")
	assert.Contains(t, e.Body, "Rafi")
	assert.Contains(t, e.Body, "https://portal.example.edu/user/login")
}

func TestBulkEmailTemplate(t *testing.T) {
	e := mailer.BulkEmail("student@example.edu", "Exam notice", "Exams start Monday.")

	assert.Equal(t, "Exam notice", e.Subject)
	assert.Contains(t, e.Body, "Exams start Monday.")
}
