package services_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/sender"
)

// Мок для Notifier
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) SendRenewalReminder(info models.ReminderInfo) error {
	args := m.Called(info)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSenderService_HandleReminder(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		setupMocks func(n *NotifierMock)
		wantErr    bool
	}{
		{
			name: "valid message delivered",
			body: []byte(`{"subscription_id":1,"email":"a@example.com","first_name":"Jean","locale":"fr","window":"upcoming7"}`),
			setupMocks: func(n *NotifierMock) {
				n.On("SendRenewalReminder", mock.MatchedBy(func(info models.ReminderInfo) bool {
					return info.Email == "a@example.com" && info.Window == models.WindowUpcoming7
				})).Return(nil).Once()
			},
		},
		{
			name:       "malformed json",
			body:       []byte(`{not json`),
			setupMocks: func(_ *NotifierMock) {},
			wantErr:    true,
		},
		{
			name: "mailer failure propagates for redelivery",
			body: []byte(`{"email":"a@example.com","window":"expired"}`),
			setupMocks: func(n *NotifierMock) {
				n.On("SendRenewalReminder", mock.Anything).Return(errors.New("smtp timeout")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := new(NotifierMock)
			svc := services.NewSenderService(notifier, newNoopLogger())

			tt.setupMocks(notifier)

			err := svc.HandleReminder(tt.body)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			notifier.AssertExpectations(t)
		})
	}
}
