// Package mailer отправляет служебные письма ассоциации через SMTP транспорт:
// уведомления о регистрации, модерации, сбросе пароля, напоминания о продлении
// и сообщения с формы обратной связи.
package mailer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/lib/smtp"
	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// Mailer формирует и отправляет письма. Ошибка отправки никогда не должна
// откатывать уже сохранённые данные: вызывающая сторона логирует её и идёт дальше.
type Mailer struct {
	transport   smtp.TransportInterface
	log         *slog.Logger
	baseURL     string
	adminAddr   string
	contactAddr string
}

// New создает новый экземпляр Mailer.
func New(transport smtp.TransportInterface, log *slog.Logger, baseURL, adminAddr, contactAddr string) *Mailer {
	return &Mailer{
		transport:   transport,
		log:         log,
		baseURL:     baseURL,
		adminAddr:   adminAddr,
		contactAddr: contactAddr,
	}
}

// SendPendingRegistration уведомляет нового пользователя, что заявка ждёт модерации.
func (m *Mailer) SendPendingRegistration(u models.User) error {
	subject := "Votre inscription est en attente de validation"
	body := fmt.Sprintf("Bonjour %s,\n\nVotre inscription a bien été reçue. "+
		"Un administrateur va examiner votre demande, vous recevrez un email dès sa validation.\n\n%s",
		u.FirstName, m.baseURL)
	return m.sendText([]string{u.Email}, subject, body)
}

// SendAdminNewRegistration уведомляет администратора о новой заявке.
func (m *Mailer) SendAdminNewRegistration(u models.User) error {
	subject := "Nouvelle inscription : " + u.FullName()
	body := fmt.Sprintf("Nouvelle inscription en attente de validation.\n\nNom : %s\nEmail : %s\nRôle : %s",
		u.FullName(), u.Email, u.Role)
	return m.sendText([]string{m.adminAddr}, subject, body)
}

// SendAccountApproved уведомляет пользователя об активации учётной записи.
func (m *Mailer) SendAccountApproved(u models.User) error {
	subject := "Votre compte a été validé"
	body := fmt.Sprintf("Bonjour %s,\n\nVotre compte est maintenant actif. "+
		"Vous pouvez vous connecter sur %s.\n\nÀ bientôt !", u.FirstName, m.baseURL)
	return m.sendText([]string{u.Email}, subject, body)
}

// SendAccountSuspended уведомляет пользователя о приостановке учётной записи.
func (m *Mailer) SendAccountSuspended(u models.User) error {
	subject := "Votre compte a été suspendu"
	body := fmt.Sprintf("Bonjour %s,\n\nVotre compte a été suspendu par un administrateur. "+
		"Pour toute question, contactez-nous via %s.", u.FirstName, m.baseURL)
	return m.sendText([]string{u.Email}, subject, body)
}

// SendPasswordReset отправляет ссылку для сброса пароля.
func (m *Mailer) SendPasswordReset(email, locale, token string) error {
	link := fmt.Sprintf("%s/%s/reinitialiser-mot-de-passe?token=%s", m.baseURL, locale, token)
	subject := "Réinitialisation de votre mot de passe"
	body := fmt.Sprintf("Bonjour,\n\nPour choisir un nouveau mot de passe, suivez ce lien :\n%s\n\n"+
		"Ce lien expire dans une heure. Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.", link)
	return m.sendText([]string{email}, subject, body)
}

// SendContactMessage пересылает сообщение с формы обратной связи на адрес ассоциации.
func (m *Mailer) SendContactMessage(name, from, message string) error {
	subject := "Message de contact : " + name
	body := fmt.Sprintf("De : %s <%s>\n\n%s", name, from, message)
	return m.sendText([]string{m.contactAddr}, subject, body)
}

// SendRenewalReminder отправляет напоминание об истечении членского взноса.
// Текст зависит от окна: за 30 дней, за 7 дней или уже истёк.
func (m *Mailer) SendRenewalReminder(info models.ReminderInfo) error {
	var subject, body string
	end := info.PeriodEnd.Format("02/01/2006")
	switch info.Window {
	case models.WindowUpcoming7:
		subject = "Votre adhésion expire dans 7 jours"
		body = fmt.Sprintf("Bonjour %s,\n\nVotre adhésion expire le %s. "+
			"Pensez à la renouveler pour conserver votre accès et votre visibilité dans l'annuaire.\n\n%s",
			info.FirstName, end, m.baseURL)
	case models.WindowExpired:
		subject = "Votre adhésion a expiré"
		body = fmt.Sprintf("Bonjour %s,\n\nVotre adhésion a expiré le %s. "+
			"Votre fiche n'est plus visible dans l'annuaire. Renouvelez votre adhésion pour la réactiver.\n\n%s",
			info.FirstName, end, m.baseURL)
	default:
		subject = "Votre adhésion expire dans 30 jours"
		body = fmt.Sprintf("Bonjour %s,\n\nVotre adhésion expire le %s. "+
			"Vous pouvez la renouveler dès maintenant sur %s.",
			info.FirstName, end, m.baseURL)
	}
	return m.sendText([]string{info.Email}, subject, body)
}

// SendHTML отправляет письмо с HTML-содержимым одному получателю.
// Используется рассылкой дайджеста.
func (m *Mailer) SendHTML(to, subject, htmlBody string) error {
	return m.send([]string{to}, subject, "text/html", htmlBody)
}

func (m *Mailer) sendText(to []string, subject, bodyText string) error {
	return m.send(to, subject, "text/plain", bodyText)
}

func (m *Mailer) send(to []string, subject, contentType, body string) error {
	msg := strings.Join([]string{
		"From: " + m.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: " + contentType + "; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	client, err := m.transport.Connect()
	if err != nil {
		m.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(m.transport.GetSMTPUser()); err != nil {
		m.log.Error("failed to set MAIL FROM", "from", m.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			m.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		m.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		m.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		m.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		m.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	m.log.Info("email sent successfully", "to", to, "subject", subject)
	return nil
}
