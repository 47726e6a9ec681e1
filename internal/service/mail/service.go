package mail

import (
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"edudesk/internal/config"
	"edudesk/internal/lib/sl"
)

// Service sends transactional mail through SendGrid. Mail failures are
// reported to the caller but registration never depends on them.
type Service struct {
	apiKey    string
	fromEmail string
	fromName  string
	log       *slog.Logger
}

func NewMailService(conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		apiKey:    conf.SendGrid.ApiKey,
		fromEmail: conf.SendGrid.FromEmail,
		fromName:  conf.SendGrid.FromName,
		log:       logger.With(sl.Module("mail service")),
	}
}

// SendWelcome delivers the post-registration confirmation mail to the
// school admin.
func (s *Service) SendWelcome(toName, toEmail, schoolName string) error {
	subject := fmt.Sprintf("Welcome to EduDesk, %s", schoolName)
	body := fmt.Sprintf(`Hi %s,

%s has been registered successfully. You can now sign in with your
username and start setting up classes, staff and messaging.

If you did not request this registration, please contact support.`,
		toName, schoolName)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(s.apiKey)

	response, err := client.Send(message)
	if err != nil {
		s.log.With(sl.Err(err)).Error("send welcome mail")
		return err
	}
	if response.StatusCode >= 300 {
		err = fmt.Errorf("sendgrid responded with %d", response.StatusCode)
		s.log.With(sl.Err(err)).Error("send welcome mail")
		return err
	}

	s.log.With(
		slog.String("email", toEmail),
		slog.String("school", schoolName),
	).Info("welcome mail sent")
	return nil
}
