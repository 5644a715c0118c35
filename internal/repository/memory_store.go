package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/validation"
)

// MemoryStore keeps the ledger in process memory. It backs tests and the
// DB_CONN=memory development mode.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[string]models.User
	cards     map[string]models.Card
	purchases []models.Purchase
	payments  []models.PaymentRecord
	operators map[string]models.Operator
	logs      []models.AuditLog
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     map[string]models.User{},
		cards:     map[string]models.Card{},
		operators: map[string]models.Operator{},
	}
}

func (m *MemoryStore) ListUsers(_ context.Context, includeInactive bool) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		if u.IsActive || includeInactive {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return &u, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = newID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, models.ErrNotFound)
	}
	user.CreatedAt, user.UpdatedAt = old.CreatedAt, time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) DeactivateUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	u.IsActive = false
	m.users[id] = u
	return nil
}

func (m *MemoryStore) ListCards(_ context.Context, includeInactive bool) ([]models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Card, 0, len(m.cards))
	for _, c := range m.cards {
		if c.IsActive || includeInactive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetCard(_ context.Context, id string) (*models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return nil, fmt.Errorf("card %s: %w", id, models.ErrNotFound)
	}
	return &c, nil
}

func (m *MemoryStore) CreateCard(_ context.Context, card *models.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card.ID = newID()
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	m.cards[card.ID] = *card
	return nil
}

func (m *MemoryStore) UpdateCard(_ context.Context, card *models.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.cards[card.ID]
	if !ok {
		return fmt.Errorf("card %s: %w", card.ID, models.ErrNotFound)
	}
	card.CreatedAt, card.UpdatedAt = old.CreatedAt, time.Now()
	m.cards[card.ID] = *card
	return nil
}

func (m *MemoryStore) DeactivateCard(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return fmt.Errorf("card %s: %w", id, models.ErrNotFound)
	}
	c.IsActive = false
	m.cards[id] = c
	return nil
}

func (m *MemoryStore) DeleteCard(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return fmt.Errorf("card %s: %w", id, models.ErrNotFound)
	}
	delete(m.cards, id)
	for i := range m.purchases {
		if m.purchases[i].CardID == id {
			m.purchases[i].CardID = ""
		}
	}
	return nil
}

func (m *MemoryStore) ListPurchases(_ context.Context, filter models.PurchaseFilter) ([]models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Purchase, 0)
	for i := len(m.purchases) - 1; i >= 0; i-- {
		p := m.purchases[i]
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.CardID != "" && p.CardID != filter.CardID {
			continue
		}
		if err := validation.ValidatePurchase(p); err != nil {
			return nil, corruptRecord("purchase", p.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MemoryStore) GetPurchase(_ context.Context, id string) (*models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.purchases {
		if p.ID == id {
			if err := validation.ValidatePurchase(p); err != nil {
				return nil, corruptRecord("purchase", p.ID, err)
			}
			return &p, nil
		}
	}
	return nil, fmt.Errorf("purchase %s: %w", id, models.ErrNotFound)
}

func (m *MemoryStore) CreatePurchase(_ context.Context, p *models.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[p.UserID]; !ok {
		return fmt.Errorf("failed to create purchase: %w: referenced record does not exist", models.ErrInvalidInput)
	}
	p.ID = newID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.purchases = append(m.purchases, *p)
	return nil
}

func (m *MemoryStore) UpdatePurchase(_ context.Context, p *models.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.purchases {
		if m.purchases[i].ID == p.ID {
			p.CreatedAt, p.UpdatedAt = m.purchases[i].CreatedAt, time.Now()
			m.purchases[i] = *p
			return nil
		}
	}
	return fmt.Errorf("purchase %s: %w", p.ID, models.ErrNotFound)
}

func (m *MemoryStore) DeletePurchase(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.purchases {
		if m.purchases[i].ID == id {
			m.purchases = append(m.purchases[:i], m.purchases[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("purchase %s: %w", id, models.ErrNotFound)
}

func (m *MemoryStore) ListPaymentRecords(_ context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PaymentRecord, 0)
	for _, r := range m.payments {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if !filter.Month.IsZero() && r.Month != filter.Month {
			continue
		}
		if err := validation.ValidatePaymentRecord(r); err != nil {
			return nil, corruptRecord("payment record", r.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryStore) GetPaymentRecord(_ context.Context, id string) (*models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.payments {
		if r.ID == id {
			if err := validation.ValidatePaymentRecord(r); err != nil {
				return nil, corruptRecord("payment record", r.ID, err)
			}
			return &r, nil
		}
	}
	return nil, fmt.Errorf("payment record %s: %w", id, models.ErrNotFound)
}

func (m *MemoryStore) CreatePaymentRecord(_ context.Context, rec *models.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[rec.UserID]; !ok {
		return fmt.Errorf("failed to create payment record: %w: referenced record does not exist", models.ErrInvalidInput)
	}
	rec.ID = newID()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	m.payments = append(m.payments, *rec)
	return nil
}

func (m *MemoryStore) UpdatePaymentRecord(_ context.Context, rec *models.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.payments {
		if m.payments[i].ID == rec.ID {
			rec.CreatedAt, rec.UpdatedAt = m.payments[i].CreatedAt, time.Now()
			m.payments[i] = *rec
			return nil
		}
	}
	return fmt.Errorf("payment record %s: %w", rec.ID, models.ErrNotFound)
}

func (m *MemoryStore) DeletePaymentRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.payments {
		if m.payments[i].ID == id {
			m.payments = append(m.payments[:i], m.payments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("payment record %s: %w", id, models.ErrNotFound)
}

func (m *MemoryStore) CreateOperator(_ context.Context, op *models.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.operators[op.Email]; ok {
		return fmt.Errorf("failed to create operator: %w: %s", models.ErrConflict, op.Email)
	}
	op.ID = newID()
	op.CreatedAt = time.Now()
	m.operators[op.Email] = *op
	return nil
}

func (m *MemoryStore) FindOperatorByEmail(_ context.Context, email string) (*models.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operators[email]
	if !ok {
		return nil, fmt.Errorf("operator %s: %w", email, models.ErrNotFound)
	}
	return &op, nil
}

func (m *MemoryStore) CreateLog(_ context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == "" {
		entry.ID = newID()
	}
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *MemoryStore) ListLogs(_ context.Context, filter models.LogFilter) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditLog, 0)
	for i := len(m.logs) - 1; i >= 0; i-- {
		l := m.logs[i]
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.Actor != "" && l.Actor != filter.Actor {
			continue
		}
		if filter.UserID != "" && l.Meta["user_id"] != filter.UserID {
			continue
		}
		if filter.CardID != "" && l.Meta["card_id"] != filter.CardID {
			continue
		}
		out = append(out, l)
		if len(out) == maxLogs {
			break
		}
	}
	return out, nil
}

