package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/newsletter"
)

// Мок для NewsletterRepository
type NewsletterRepoMock struct {
	mock.Mock
}

func (m *NewsletterRepoMock) ListUsersByRoles(ctx context.Context, roles []string) ([]*models.User, error) {
	args := m.Called(ctx, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *NewsletterRepoMock) ListUpcomingPublishedEvents(ctx context.Context, from time.Time, limit int) ([]*models.Event, error) {
	args := m.Called(ctx, from, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *NewsletterRepoMock) ListPublishedArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *NewsletterRepoMock) LogNewsletter(ctx context.Context, subject string, recipientCount int) (int64, error) {
	args := m.Called(ctx, subject, recipientCount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NewsletterRepoMock) AddSubscriber(ctx context.Context, email, locale string) (int64, error) {
	args := m.Called(ctx, email, locale)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NewsletterRepoMock) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscriber), args.Error(1)
}

// Мок для Sender
type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) SendHTML(to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewsletterService_Compose(t *testing.T) {
	repo := new(NewsletterRepoMock)
	svc := services.NewNewsletterService(repo, new(SenderMock), newNoopLogger())

	events := []*models.Event{
		{ID: 1, Title: "Assemblée générale", Location: "Paris",
			EventDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)},
	}
	articles := []*models.Article{
		{ID: 1, Title: "Bilan du trimestre", AuthorName: "Marie Curie"},
	}
	links := []models.CuratedLink{
		{Title: "Lien 1", URL: "https://example.com/1"},
		{Title: "Lien 2", URL: "https://example.com/2"},
		{Title: "Lien 3", URL: "https://example.com/3"},
		{Title: "Lien 4", URL: "https://example.com/4"},
	}

	repo.On("ListUpcomingPublishedEvents", mock.Anything, mock.Anything, 5).Return(events, nil).Once()
	repo.On("ListPublishedArticles", mock.Anything, 5).Return(articles, nil).Once()

	digest, err := svc.Compose(context.Background(), "Lettre de mars", links)
	require.NoError(t, err)

	assert.Equal(t, "Lettre de mars", digest.Subject)
	assert.Len(t, digest.Links, 3, "curated links are capped at three")
	assert.Contains(t, digest.HTML, "Lettre de mars")
	assert.Contains(t, digest.HTML, "https://example.com/1")
	assert.NotContains(t, digest.HTML, "https://example.com/4")
	assert.Contains(t, digest.HTML, "Assemblée générale")
	assert.Contains(t, digest.HTML, "Bilan du trimestre")

	repo.AssertExpectations(t)
}

func TestNewsletterService_Dispatch(t *testing.T) {
	recipients := []*models.User{
		{UID: "u1", Email: "one@example.com", Role: models.RoleMember},
		{UID: "u2", Email: "two@example.com", Role: models.RoleProfessional},
		{UID: "u3", Email: "three@example.com", Role: models.RoleAdmin},
	}
	digest := &services.Digest{Subject: "Lettre de mars", HTML: "<html></html>"}

	tests := []struct {
		name       string
		testAddr   string
		setupMocks func(r *NewsletterRepoMock, s *SenderMock)
		wantSent   int
		wantFailed []string
	}{
		{
			name: "all recipients reached and run is logged",
			setupMocks: func(r *NewsletterRepoMock, s *SenderMock) {
				r.On("ListUsersByRoles", mock.Anything,
					[]string{models.RoleMember, models.RoleProfessional, models.RoleAdmin}).
					Return(recipients, nil).Once()
				r.On("ListSubscribers", mock.Anything).Return([]*models.Subscriber{}, nil).Once()
				s.On("SendHTML", mock.Anything, "Lettre de mars", "<html></html>").Return(nil).Times(3)
				r.On("LogNewsletter", mock.Anything, "Lettre de mars", 3).Return(int64(1), nil).Once()
			},
			wantSent: 3,
		},
		{
			name: "external subscribers included, shared address deduplicated",
			setupMocks: func(r *NewsletterRepoMock, s *SenderMock) {
				r.On("ListUsersByRoles", mock.Anything, mock.Anything).Return(recipients, nil).Once()
				r.On("ListSubscribers", mock.Anything).Return([]*models.Subscriber{
					{ID: 1, Email: "one@example.com", Locale: "fr"},
					{ID: 2, Email: "reader@example.com", Locale: "fr"},
				}, nil).Once()
				s.On("SendHTML", "one@example.com", mock.Anything, mock.Anything).Return(nil).Once()
				s.On("SendHTML", "two@example.com", mock.Anything, mock.Anything).Return(nil).Once()
				s.On("SendHTML", "three@example.com", mock.Anything, mock.Anything).Return(nil).Once()
				s.On("SendHTML", "reader@example.com", mock.Anything, mock.Anything).Return(nil).Once()
				r.On("LogNewsletter", mock.Anything, "Lettre de mars", 4).Return(int64(3), nil).Once()
			},
			wantSent: 4,
		},
		{
			name: "partial failure collected and still logged",
			setupMocks: func(r *NewsletterRepoMock, s *SenderMock) {
				r.On("ListUsersByRoles", mock.Anything, mock.Anything).Return(recipients, nil).Once()
				r.On("ListSubscribers", mock.Anything).Return([]*models.Subscriber{}, nil).Once()
				s.On("SendHTML", "one@example.com", mock.Anything, mock.Anything).Return(nil).Once()
				s.On("SendHTML", "two@example.com", mock.Anything, mock.Anything).
					Return(errors.New("mailbox full")).Once()
				s.On("SendHTML", "three@example.com", mock.Anything, mock.Anything).Return(nil).Once()
				r.On("LogNewsletter", mock.Anything, "Lettre de mars", 2).Return(int64(2), nil).Once()
			},
			wantSent:   2,
			wantFailed: []string{"two@example.com"},
		},
		{
			name:     "test address skips recipients and log",
			testAddr: "admin@example.com",
			setupMocks: func(_ *NewsletterRepoMock, s *SenderMock) {
				s.On("SendHTML", "admin@example.com", "Lettre de mars", "<html></html>").Return(nil).Once()
			},
			wantSent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(NewsletterRepoMock)
			sender := new(SenderMock)
			svc := services.NewNewsletterService(repo, sender, newNoopLogger())

			tt.setupMocks(repo, sender)

			report, err := svc.Dispatch(context.Background(), digest, tt.testAddr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, report.SentCount)
			assert.Equal(t, tt.wantFailed, report.Failed)

			repo.AssertExpectations(t)
			sender.AssertExpectations(t)
			if tt.testAddr != "" {
				repo.AssertNotCalled(t, "LogNewsletter", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestNewsletterService_Subscribe(t *testing.T) {
	t.Run("new subscriber", func(t *testing.T) {
		repo := new(NewsletterRepoMock)
		svc := services.NewNewsletterService(repo, new(SenderMock), newNoopLogger())

		repo.On("AddSubscriber", mock.Anything, "new@example.com", "fr").Return(int64(1), nil).Once()

		err := svc.Subscribe(context.Background(), "new@example.com", "fr")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(NewsletterRepoMock)
		svc := services.NewNewsletterService(repo, new(SenderMock), newNoopLogger())

		repo.On("AddSubscriber", mock.Anything, "dup@example.com", "fr").
			Return(int64(0), &pgconn.PgError{Code: pgerrcode.UniqueViolation}).Once()

		err := svc.Subscribe(context.Background(), "dup@example.com", "fr")
		assert.ErrorIs(t, err, services.ErrAlreadySubscribed)
	})
}
