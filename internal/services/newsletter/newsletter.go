// Package services содержит бизнес-логику рассылки: сборку HTML-дайджеста
// из ссылок, событий и материалов сообщества, массовую отправку с учётом
// частичных сбоев и самостоятельную подписку на список рассылки.
package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// ErrAlreadySubscribed возвращается при повторной подписке того же адреса.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// Лимиты дайджеста: не больше пяти событий и пяти материалов.
const (
	maxDigestEvents   = 5
	maxDigestArticles = 5
	maxCuratedLinks   = 3
)

// NewsletterRepository определяет методы хранилища для рассылки.
type NewsletterRepository interface {
	ListUsersByRoles(ctx context.Context, roles []string) ([]*models.User, error)
	ListUpcomingPublishedEvents(ctx context.Context, from time.Time, limit int) ([]*models.Event, error)
	ListPublishedArticles(ctx context.Context, limit int) ([]*models.Article, error)
	LogNewsletter(ctx context.Context, subject string, recipientCount int) (int64, error)
	AddSubscriber(ctx context.Context, email, locale string) (int64, error)
	ListSubscribers(ctx context.Context) ([]*models.Subscriber, error)
}

// Sender отправляет одно HTML-письмо одному получателю.
type Sender interface {
	SendHTML(to, subject, htmlBody string) error
}

// Digest собранное содержимое дайджеста.
type Digest struct {
	Subject  string
	Links    []models.CuratedLink
	Events   []*models.Event
	Articles []*models.Article
	HTML     string
}

// NewsletterService реализует сборку и отправку дайджеста.
type NewsletterService struct {
	repo   NewsletterRepository
	sender Sender
	log    *slog.Logger
}

// NewNewsletterService создает новый экземпляр NewsletterService.
func NewNewsletterService(repo NewsletterRepository, sender Sender, log *slog.Logger) *NewsletterService {
	return &NewsletterService{
		repo:   repo,
		sender: sender,
		log:    log,
	}
}

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
<h1>{{.Subject}}</h1>
{{if .Links}}<h2>À ne pas manquer</h2>
<ul>{{range .Links}}<li><a href="{{.URL}}">{{.Title}}</a></li>{{end}}</ul>{{end}}
{{if .Events}}<h2>Événements à venir</h2>
<ul>{{range .Events}}<li><strong>{{.Title}}</strong> — {{.EventDate.Format "02/01/2006"}}, {{.Location}}</li>{{end}}</ul>{{end}}
{{if .Articles}}<h2>La vie de l'association</h2>
<ul>{{range .Articles}}<li><strong>{{.Title}}</strong> par {{.AuthorName}}</li>{{end}}</ul>{{end}}
</body>
</html>`))

// Compose собирает дайджест: до трёх кураторских ссылок из запроса,
// до пяти ближайших опубликованных событий и до пяти свежих материалов.
func (s *NewsletterService) Compose(ctx context.Context, subject string, links []models.CuratedLink) (*Digest, error) {
	const op = "services.newsletter.Compose"

	if len(links) > maxCuratedLinks {
		links = links[:maxCuratedLinks]
	}

	events, err := s.repo.ListUpcomingPublishedEvents(ctx, time.Now().UTC(), maxDigestEvents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	articles, err := s.repo.ListPublishedArticles(ctx, maxDigestArticles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	digest := &Digest{
		Subject:  subject,
		Links:    links,
		Events:   events,
		Articles: articles,
	}
	var sb strings.Builder
	if err := digestTemplate.Execute(&sb, digest); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	digest.HTML = sb.String()
	return digest, nil
}

// Dispatch отправляет дайджест. При непустом testAddr письмо уходит только
// на этот адрес и журнальная запись не создаётся. Иначе рассылка идёт
// последовательно всем членам ассоциации и внешним подписчикам; сбои по
// отдельным адресам собираются в отчёт и не прерывают отправку остальным.
// Журнальная строка с числом успешных получателей пишется после рассылки.
func (s *NewsletterService) Dispatch(ctx context.Context, digest *Digest, testAddr string) (*models.DispatchReport, error) {
	const op = "services.newsletter.Dispatch"

	if testAddr != "" {
		if err := s.sender.SendHTML(testAddr, digest.Subject, digest.HTML); err != nil {
			return &models.DispatchReport{Failed: []string{testAddr}}, nil
		}
		return &models.DispatchReport{SentCount: 1}, nil
	}

	emails, err := s.recipientEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := &models.DispatchReport{}
	for _, email := range emails {
		if err := s.sender.SendHTML(email, digest.Subject, digest.HTML); err != nil {
			s.log.Error("failed to send newsletter", "recipient", email, sl.Err(err))
			report.Failed = append(report.Failed, email)
			continue
		}
		report.SentCount++
	}

	if _, err := s.repo.LogNewsletter(ctx, digest.Subject, report.SentCount); err != nil {
		s.log.Error("failed to log newsletter", sl.Err(err))
	}
	s.log.Info("newsletter dispatched",
		slog.Int("sent", report.SentCount), slog.Int("failed", len(report.Failed)))
	return report, nil
}

// recipientEmails объединяет адреса членов ассоциации и внешних подписчиков.
// Член, подписавшийся ещё и через форму, получает одно письмо.
func (s *NewsletterService) recipientEmails(ctx context.Context) ([]string, error) {
	users, err := s.repo.ListUsersByRoles(ctx,
		[]string{models.RoleMember, models.RoleProfessional, models.RoleAdmin})
	if err != nil {
		return nil, err
	}
	subscribers, err := s.repo.ListSubscribers(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(users)+len(subscribers))
	emails := make([]string, 0, len(users)+len(subscribers))
	for _, u := range users {
		if _, ok := seen[u.Email]; ok {
			continue
		}
		seen[u.Email] = struct{}{}
		emails = append(emails, u.Email)
	}
	for _, sub := range subscribers {
		if _, ok := seen[sub.Email]; ok {
			continue
		}
		seen[sub.Email] = struct{}{}
		emails = append(emails, sub.Email)
	}
	return emails, nil
}

// Subscribe добавляет адрес в список рассылки.
func (s *NewsletterService) Subscribe(ctx context.Context, email, locale string) error {
	const op = "services.newsletter.Subscribe"
	if _, err := s.repo.AddSubscriber(ctx, email, locale); err != nil {
		if storage.IsUniqueViolation(err) {
			return ErrAlreadySubscribed
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
