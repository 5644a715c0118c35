package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/installment-service/internal/config"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// StatementSubject is the subject line of a monthly statement e-mail
func StatementSubject(s *models.UserSummary) string {
	return fmt.Sprintf("Installment statement for %s", s.Month)
}

// StatementBody renders the plain text body of a monthly statement
func StatementBody(s *models.UserSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", s.User.Name)

	if len(s.Installments) == 0 {
		fmt.Fprintf(&b, "You have no installments due in %s.\n", s.Month)
	} else {
		fmt.Fprintf(&b, "Installments due in %s:\n\n", s.Month)
		for _, item := range s.Installments {
			fmt.Fprintf(&b, "  %s (%d/%d): %s %s\n",
				item.Description, item.InstallmentNumber, item.TotalInstallments,
				item.Amount.StringFixed(2), item.Currency)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Due this month: %s\n", s.MonthDue.StringFixed(2))
	if s.MonthPaid.IsPositive() {
		fmt.Fprintf(&b, "Already paid: %s\n", s.MonthPaid.StringFixed(2))
	}
	switch {
	case s.MonthResidual.IsNegative():
		fmt.Fprintf(&b, "Overpaid by: %s\n", s.MonthResidual.Neg().StringFixed(2))
	default:
		fmt.Fprintf(&b, "Left to pay: %s\n", s.MonthResidual.StringFixed(2))
	}
	fmt.Fprintf(&b, "Outstanding debt: %s across %d remaining installments\n",
		s.OutstandingDebt.StringFixed(2), s.RemainingInstallments)

	b.WriteString("\nBest regards,\nInstallment Service")
	return b.String()
}

// SendMonthlyStatement e-mails a user's month summary
func (s *Sender) SendMonthlyStatement(to string, summary *models.UserSummary) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = StatementSubject(summary)
	e.Text = []byte(StatementBody(summary))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send statement to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
