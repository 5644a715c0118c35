package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 5 * time.Minute

// SummarySource builds the month summaries to mail. *service.Service satisfies it.
type SummarySource interface {
	CurrentMonth() calendar.Month
	MonthlySummaries(ctx context.Context, month calendar.Month) ([]models.UserSummary, error)
}

// Mailer delivers one statement. *email.Sender satisfies it.
type Mailer interface {
	SendMonthlyStatement(to string, summary *models.UserSummary) error
}

// Scheduler runs the monthly statement job on a cron schedule
type Scheduler struct {
	cron   *cron.Cron
	source SummarySource
	mailer Mailer
	log    *logrus.Logger
}

// New registers the statement job. schedule uses the standard 5-field cron format.
func New(schedule string, source SummarySource, mailer Mailer, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.PrintfLogger(log))),
		source: source,
		mailer: mailer,
		log:    log,
	}
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := s.SendStatements(ctx); err != nil {
			s.log.Errorf("Statement job failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid statement schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Statement scheduler started")
}

// Stop halts the scheduler. The returned context is done once a running job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// SendStatements mails the current month's statement to every recipient.
// A failed delivery is logged and does not stop the others.
func (s *Scheduler) SendStatements(ctx context.Context) (int, error) {
	month := s.source.CurrentMonth()
	summaries, err := s.source.MonthlySummaries(ctx, month)
	if err != nil {
		return 0, fmt.Errorf("failed to build statements for %s: %w", month, err)
	}

	sent := 0
	for i := range summaries {
		summary := &summaries[i]
		if err := s.mailer.SendMonthlyStatement(summary.User.Email, summary); err != nil {
			s.log.Warnf("Statement for user %s not sent: %v", summary.User.ID, err)
			continue
		}
		sent++
	}

	s.log.Infof("Sent %d of %d statements for %s", sent, len(summaries), month)
	return sent, nil
}
