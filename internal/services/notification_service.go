package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/versity-app/volunteer-api/internal/mailer"
	"github.com/versity-app/volunteer-api/internal/models"
)

// NotificationService composes and delivers user-facing emails. Delivery
// runs on its own goroutine so a slow or failing relay never delays or rolls
// back the operation that triggered it.
type NotificationService struct {
	mailer  mailer.Mailer
	baseURL string
	log     *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(m mailer.Mailer, baseURL string, log *zap.Logger) *NotificationService {
	return &NotificationService{
		mailer:  m,
		baseURL: baseURL,
		log:     log,
	}
}

func (s *NotificationService) dispatch(msg mailer.Message) {
	go func() {
		if err := s.mailer.Send(msg); err != nil {
			s.log.Error("failed to send notification email",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}()
}

// SendWelcome greets a newly registered user.
func (s *NotificationService) SendWelcome(user *models.User) {
	s.dispatch(mailer.Message{
		To:      user.Email,
		Subject: "Welcome to Versity!",
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nThank you for registering with Versity. Browse opportunities, apply for positions that match your skills and track your volunteer hours.\n\nLog in now: %s/login\n\nBest regards,\nThe Versity Team\n",
			user.Username, s.baseURL),
		HTMLBody: fmt.Sprintf(
			"<p>Hello %s,</p><p>Thank you for registering with Versity. Browse opportunities, apply for positions that match your skills and track your volunteer hours.</p><p><a href=%q>Log In Now</a></p><p>Best regards,<br>The Versity Team</p>",
			user.Username, s.baseURL+"/login"),
	})
}

// SendPasswordReset delivers a reset link built from the token.
func (s *NotificationService) SendPasswordReset(email, token string) {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)

	s.dispatch(mailer.Message{
		To:      email,
		Subject: "Reset Your Versity Password",
		TextBody: fmt.Sprintf(
			"We received a request to reset your password.\n\nReset it here: %s\n\nIf you didn't request this, you can safely ignore this email. Your password will not be changed.\n",
			resetLink),
		HTMLBody: fmt.Sprintf(
			"<p>We received a request to reset your password.</p><p><a href=%q>Reset Password</a></p><p>If you didn't request this, you can safely ignore this email. Your password will not be changed.</p>",
			resetLink),
	})
}

// SendApplicationSubmitted confirms that a volunteer's application went in.
func (s *NotificationService) SendApplicationSubmitted(user *models.User, opportunityTitle string) {
	s.dispatch(mailer.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Application Submitted: %s", opportunityTitle),
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nYour application for %s has been submitted. The organization will review it and get back to you.\n\nView your applications: %s/dashboard\n",
			user.Username, opportunityTitle, s.baseURL),
		HTMLBody: fmt.Sprintf(
			"<p>Hello %s,</p><p>Your application for <strong>%s</strong> has been submitted. The organization will review it and get back to you.</p><p><a href=%q>View Your Applications</a></p>",
			user.Username, opportunityTitle, s.baseURL+"/dashboard"),
	})
}

// SendMatchDecision tells a volunteer their application was accepted or
// rejected.
func (s *NotificationService) SendMatchDecision(user *models.User, opportunityTitle string, status models.MatchStatus) {
	var outcome string
	switch status {
	case models.MatchStatusAccepted:
		outcome = "Congratulations! The organization has accepted your application. They will contact you with further details soon."
	case models.MatchStatusRejected:
		outcome = "The organization has decided not to proceed with your application at this time. Don't be discouraged, there are many other opportunities waiting for you."
	default:
		outcome = "Your application is being reviewed by the organization."
	}

	s.dispatch(mailer.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Application Update: %s", opportunityTitle),
		TextBody: fmt.Sprintf(
			"Hello %s,\n\n%s\n\nView your applications: %s/dashboard\n",
			user.Username, outcome, s.baseURL),
		HTMLBody: fmt.Sprintf(
			"<p>Hello %s,</p><p>%s</p><p><a href=%q>View Your Applications</a></p>",
			user.Username, outcome, s.baseURL+"/dashboard"),
	})
}

// SendHourDecision tells a volunteer whether their logged hours were
// approved.
func (s *NotificationService) SendHourDecision(user *models.User, opportunityTitle string, hours float64, status models.HourStatus) {
	var subject, outcome string
	if status == models.HourStatusApproved {
		subject = fmt.Sprintf("Hours Approved: %s", opportunityTitle)
		outcome = fmt.Sprintf("Good news! Your %g hours for %s have been approved.", hours, opportunityTitle)
	} else {
		subject = fmt.Sprintf("Hours Rejected: %s", opportunityTitle)
		outcome = fmt.Sprintf("Your %g hours for %s could not be verified. Please contact the organization for more information.", hours, opportunityTitle)
	}

	s.dispatch(mailer.Message{
		To:      user.Email,
		Subject: subject,
		TextBody: fmt.Sprintf(
			"Hello %s,\n\n%s\n\nView your hours: %s/dashboard/hours\n",
			user.Username, outcome, s.baseURL),
		HTMLBody: fmt.Sprintf(
			"<p>Hello %s,</p><p>%s</p><p><a href=%q>View Your Hours</a></p>",
			user.Username, outcome, s.baseURL+"/dashboard/hours"),
	})
}
