package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/installment"
	"github.com/Dan9191/installment-service/internal/integrations/tcmb"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/shopspring/decimal"
)

// MaxProjectionMonths bounds the projection window
const MaxProjectionMonths = 60

// Dashboard builds the month overview. User rows honour the card filter and
// card rows honour the user filter; rows with nothing due and no debt are hidden.
func (s *Service) Dashboard(ctx context.Context, month calendar.Month, cardID, userID string) (*models.Dashboard, error) {
	users, err := s.store.ListUsers(ctx, true)
	if err != nil {
		return nil, err
	}
	cards, err := s.store.ListCards(ctx, false)
	if err != nil {
		return nil, err
	}
	purchases, err := s.store.ListPurchases(ctx, models.PurchaseFilter{})
	if err != nil {
		return nil, err
	}

	dash := &models.Dashboard{
		Month:        month,
		Users:        make([]models.UserStats, 0),
		Cards:        make([]models.CardStats, 0),
		BaseCurrency: s.config.BaseCurrency,
	}

	forUsers := purchases
	if cardID != "" {
		forUsers = installment.ByCard(purchases, cardID)
	}
	for _, u := range users {
		if userID != "" && u.ID != userID {
			continue
		}
		owned := installment.ByUser(forUsers, u.ID)
		row := models.UserStats{
			UserID:                u.ID,
			UserName:              u.Name,
			UserColor:             u.Color,
			MonthTotal:            installment.MonthlyTotal(owned, month),
			TotalDebt:             installment.TotalOutstandingDebt(owned, month),
			TotalSpending:         installment.TotalSpending(owned),
			RemainingInstallments: installment.RemainingInstallmentCount(owned, month),
		}
		if row.MonthTotal.IsZero() && row.TotalDebt.IsZero() {
			continue
		}
		dash.Users = append(dash.Users, row)
		dash.UserTotals = addTotals(dash.UserTotals, row.MonthTotal, row.TotalDebt, row.TotalSpending)
	}

	forCards := purchases
	if userID != "" {
		forCards = installment.ByUser(purchases, userID)
	}
	for _, c := range cards {
		charged := installment.ByCard(forCards, c.ID)
		row := models.CardStats{
			CardID:        c.ID,
			CardName:      c.Name,
			CardColor:     c.Color,
			MonthTotal:    installment.MonthlyTotal(charged, month),
			TotalDebt:     installment.TotalOutstandingDebt(charged, month),
			TotalSpending: installment.TotalSpending(charged),
		}
		if row.MonthTotal.IsZero() && row.TotalDebt.IsZero() {
			continue
		}
		dash.Cards = append(dash.Cards, row)
		dash.CardTotals = addTotals(dash.CardTotals, row.MonthTotal, row.TotalDebt, row.TotalSpending)
	}

	visible := forUsers
	if userID != "" {
		visible = installment.ByUser(forUsers, userID)
	}
	dash.ConvertedMonthTotal = s.convertedTotal(ctx, installment.InstallmentsDueInMonth(visible, month))

	return dash, nil
}

func addTotals(t models.Totals, month, debt, spending decimal.Decimal) models.Totals {
	return models.Totals{
		MonthTotal:    t.MonthTotal.Add(month),
		TotalDebt:     t.TotalDebt.Add(debt),
		TotalSpending: t.TotalSpending.Add(spending),
	}
}

// convertedTotal sums items in the base currency. It returns nil when every
// item is already in the base currency or rates are unavailable.
func (s *Service) convertedTotal(ctx context.Context, items []models.LineItem) *decimal.Decimal {
	foreign := false
	for _, item := range items {
		if item.Currency != s.config.BaseCurrency {
			foreign = true
			break
		}
	}
	if !foreign || s.rates == nil {
		return nil
	}

	rates, err := s.rates.GetRates(ctx)
	if err != nil {
		s.log.Warnf("Exchange rates unavailable, skipping converted total: %v", err)
		return nil
	}
	total := decimal.Zero
	for _, item := range items {
		converted, err := tcmb.Convert(item.Amount, item.Currency, s.config.BaseCurrency, rates)
		if err != nil {
			s.log.Warnf("Cannot convert purchase %s: %v", item.PurchaseID, err)
			return nil
		}
		total = total.Add(converted)
	}
	return &total
}

// Statement lists the installments due in month, optionally narrowed to one
// user or card
func (s *Service) Statement(ctx context.Context, month calendar.Month, userID, cardID string) (*models.Statement, error) {
	purchases, err := s.store.ListPurchases(ctx, models.PurchaseFilter{UserID: userID, CardID: cardID})
	if err != nil {
		return nil, err
	}
	items := installment.InstallmentsDueInMonth(purchases, month)
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return &models.Statement{Month: month, Items: items, Total: total}, nil
}

// UserSummary is the per-user month view. Payments net against the month's
// due amount only; outstanding debt is reported alongside, unchanged.
func (s *Service) UserSummary(ctx context.Context, userID string, month calendar.Month) (*models.UserSummary, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, *user, month)
}

func (s *Service) summarize(ctx context.Context, user models.User, month calendar.Month) (*models.UserSummary, error) {
	purchases, err := s.store.ListPurchases(ctx, models.PurchaseFilter{UserID: user.ID})
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListPaymentRecords(ctx, models.PaymentFilter{UserID: user.ID})
	if err != nil {
		return nil, err
	}

	monthDue := installment.MonthlyTotal(purchases, month)
	payments := installment.PaymentsFor(records, user.ID, month)
	return &models.UserSummary{
		User:                  user,
		Month:                 month,
		MonthDue:              monthDue,
		MonthPaid:             installment.TotalPaid(payments),
		MonthResidual:         installment.ResidualForUserMonth(monthDue, records, user.ID, month),
		OutstandingDebt:       installment.TotalOutstandingDebt(purchases, month),
		RemainingInstallments: installment.RemainingInstallmentCount(purchases, month),
		TotalSpending:         installment.TotalSpending(purchases),
		Installments:          installment.InstallmentsDueInMonth(purchases, month),
		Purchases:             installment.ProgressForAll(purchases, month),
		Payments:              payments,
	}, nil
}

// Projection returns a user's month totals for count months from start
func (s *Service) Projection(ctx context.Context, userID string, start calendar.Month, count int) ([]models.MonthTotal, error) {
	if count < 1 || count > MaxProjectionMonths {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", models.ErrInvalidInput, MaxProjectionMonths)
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	purchases, err := s.store.ListPurchases(ctx, models.PurchaseFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return installment.Projection(purchases, start, count), nil
}

// MonthlySummaries builds the month summary of every active user with an
// e-mail address
func (s *Service) MonthlySummaries(ctx context.Context, month calendar.Month) ([]models.UserSummary, error) {
	users, err := s.store.ListUsers(ctx, false)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		summary, err := s.summarize(ctx, u, month)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize user %s: %w", u.ID, err)
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// Rates returns the current exchange rates
func (s *Service) Rates(ctx context.Context) ([]models.ExchangeRate, error) {
	if s.rates == nil {
		return nil, fmt.Errorf("exchange rates are not configured")
	}
	return s.rates.GetRates(ctx)
}
