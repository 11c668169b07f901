package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"sync"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// SendFunc performs the actual transport. Swappable for tests.
type SendFunc func(e Email) error

// Mailer delivers email off the request path. Enqueue never blocks: when
// the queue is full the message is dropped and logged, so a slow or failing
// SMTP host can never delay a caller.
type Mailer struct {
	queue chan Email
	send  SendFunc
	wg    sync.WaitGroup
	once  sync.Once
}

// New builds a mailer with the given queue capacity, sending over SMTP
// configured from SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD and
// EMAIL_FROM. When SMTP_HOST is unset the mailer logs messages instead of
// sending them.
func New(queueSize int) *Mailer {
	return NewWithSender(queueSize, smtpSend)
}

// NewWithSender builds a mailer with a custom transport.
func NewWithSender(queueSize int, send SendFunc) *Mailer {
	m := &Mailer{
		queue: make(chan Email, queueSize),
		send:  send,
	}
	m.wg.Add(1)
	go m.run()
	return m
}

func (m *Mailer) run() {
	defer m.wg.Done()
	for e := range m.queue {
		if err := m.send(e); err != nil {
			log.Printf("mailer: failed to send %q to %s: %v", e.Subject, e.To, err)
		}
	}
}

// Enqueue submits an email for background delivery.
func (m *Mailer) Enqueue(e Email) {
	select {
	case m.queue <- e:
	default:
		log.Printf("mailer: queue full, dropping %q to %s", e.Subject, e.To)
	}
}

// Close drains the queue and stops the worker.
func (m *Mailer) Close() {
	m.once.Do(func() {
		close(m.queue)
	})
	m.wg.Wait()
}

func smtpSend(e Email) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("EMAIL_FROM")

	if host == "" {
		log.Printf("mailer: SMTP not configured, logging email\nTo: %s\nSubject: %s\n%s", e.To, e.Subject, e.Body)
		return nil
	}
	if port == "" {
		port = "587"
	}

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", e.To, from, e.Subject, e.Body))

	auth := smtp.PlainAuth("", username, password, host)
	return smtp.SendMail(host+":"+port, auth, from, []string{e.To}, msg)
}
