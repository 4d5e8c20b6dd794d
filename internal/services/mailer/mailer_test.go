package mailer

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-directory/internal/lib/smtp"
	"github.com/magabrotheeeer/membership-directory/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

// captureWriter собирает тело письма для проверки содержимого.
type captureWriter struct {
	bytes.Buffer
}

func (w *captureWriter) Close() error { return nil }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTransport(body *captureWriter) (*MockTransport, *MockSMTPClient) {
	client := new(MockSMTPClient)
	client.On("Mail", "noreply@association.example.org").Return(nil)
	client.On("Rcpt", mock.AnythingOfType("string")).Return(nil)
	client.On("Data").Return(body, nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@association.example.org")
	transport.On("Connect").Return(client, nil)
	return transport, client
}

func TestMailer_SendRenewalReminder(t *testing.T) {
	periodEnd := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		window      string
		wantSubject string
	}{
		{name: "upcoming 30 days", window: models.WindowUpcoming30, wantSubject: "Votre adhésion expire dans 30 jours"},
		{name: "upcoming 7 days", window: models.WindowUpcoming7, wantSubject: "Votre adhésion expire dans 7 jours"},
		{name: "already expired", window: models.WindowExpired, wantSubject: "Votre adhésion a expiré"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &captureWriter{}
			transport, client := setupTransport(body)
			m := New(transport, newNoopLogger(), "https://association.example.org",
				"admin@example.org", "contact@example.org")

			err := m.SendRenewalReminder(models.ReminderInfo{
				Email:     "member@example.com",
				FirstName: "Jean",
				Locale:    "fr",
				PeriodEnd: periodEnd,
				Window:    tt.window,
			})
			assert.NoError(t, err)

			msg := body.String()
			assert.Contains(t, msg, "Subject: "+tt.wantSubject)
			assert.Contains(t, msg, "To: member@example.com")
			assert.Contains(t, msg, "31/03/2025")
			client.AssertCalled(t, "Rcpt", "member@example.com")
		})
	}
}

func TestMailer_SendContactMessage(t *testing.T) {
	body := &captureWriter{}
	transport, client := setupTransport(body)
	m := New(transport, newNoopLogger(), "https://association.example.org",
		"admin@example.org", "contact@example.org")

	err := m.SendContactMessage("Jean Dupont", "jean@example.com", "Bonjour, une question.")
	assert.NoError(t, err)

	// Сообщение с формы уходит на контактный адрес ассоциации
	client.AssertCalled(t, "Rcpt", "contact@example.org")
	assert.Contains(t, body.String(), "jean@example.com")
	assert.Contains(t, body.String(), "Bonjour, une question.")
}

func TestMailer_SendHTML(t *testing.T) {
	body := &captureWriter{}
	transport, _ := setupTransport(body)
	m := New(transport, newNoopLogger(), "https://association.example.org",
		"admin@example.org", "contact@example.org")

	err := m.SendHTML("member@example.com", "Lettre de mars", "<h1>Bonjour</h1>")
	assert.NoError(t, err)

	msg := body.String()
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "<h1>Bonjour</h1>")
}

func TestMailer_ConnectFailure(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@association.example.org")
	transport.On("Connect").Return(nil, errors.New("connection refused"))

	m := New(transport, newNoopLogger(), "https://association.example.org",
		"admin@example.org", "contact@example.org")

	err := m.SendPasswordReset("member@example.com", "fr", "token")
	assert.Error(t, err)
}
