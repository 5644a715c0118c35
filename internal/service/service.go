package service

import (
	"context"
	"time"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/config"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Store is the persistence the service depends on. *repository.Repository satisfies it.
type Store interface {
	ListUsers(ctx context.Context, includeInactive bool) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeactivateUser(ctx context.Context, id string) error

	ListCards(ctx context.Context, includeInactive bool) ([]models.Card, error)
	GetCard(ctx context.Context, id string) (*models.Card, error)
	CreateCard(ctx context.Context, card *models.Card) error
	UpdateCard(ctx context.Context, card *models.Card) error
	DeactivateCard(ctx context.Context, id string) error
	DeleteCard(ctx context.Context, id string) error

	ListPurchases(ctx context.Context, filter models.PurchaseFilter) ([]models.Purchase, error)
	GetPurchase(ctx context.Context, id string) (*models.Purchase, error)
	CreatePurchase(ctx context.Context, p *models.Purchase) error
	UpdatePurchase(ctx context.Context, p *models.Purchase) error
	DeletePurchase(ctx context.Context, id string) error

	ListPaymentRecords(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, error)
	GetPaymentRecord(ctx context.Context, id string) (*models.PaymentRecord, error)
	CreatePaymentRecord(ctx context.Context, rec *models.PaymentRecord) error
	UpdatePaymentRecord(ctx context.Context, rec *models.PaymentRecord) error
	DeletePaymentRecord(ctx context.Context, id string) error

	CreateOperator(ctx context.Context, op *models.Operator) error
	FindOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)

	CreateLog(ctx context.Context, entry *models.AuditLog) error
	ListLogs(ctx context.Context, filter models.LogFilter) ([]models.AuditLog, error)
}

// RateProvider supplies exchange rates quoted in TRY
type RateProvider interface {
	GetRates(ctx context.Context) ([]models.ExchangeRate, error)
}

// Service handles business logic
type Service struct {
	store  Store
	rates  RateProvider
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time
}

// NewService initializes a new service
func NewService(store Store, rates RateProvider, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{store: store, rates: rates, log: log, config: cfg, now: time.Now}
}

// CurrentMonth is the month used when a request does not name one
func (s *Service) CurrentMonth() calendar.Month {
	return calendar.MonthOf(s.now())
}

type actorKey struct{}

// WithActor stores the signed-in operator's email on the context
func WithActor(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, actorKey{}, email)
}

// ActorFromContext returns the operator email stored by WithActor, if any
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
