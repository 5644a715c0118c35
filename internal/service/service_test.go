package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/config"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/repository"
	"github.com/Dan9191/installment-service/internal/validation"
)

var (
	_ Store = (*repository.Repository)(nil)
	_ Store = (*repository.MemoryStore)(nil)
)

// mockRates is a RateProvider returning fixed rates
type mockRates struct {
	rates []models.ExchangeRate
	err   error
	calls int
}

func (m *mockRates) GetRates(context.Context) ([]models.ExchangeRate, error) {
	m.calls++
	return m.rates, m.err
}

// failingLogStore refuses every audit log write
type failingLogStore struct {
	*repository.MemoryStore
}

func (failingLogStore) CreateLog(context.Context, *models.AuditLog) error {
	return errors.New("disk full")
}

// tamperingStore rewrites purchase audit entries on the way out
type tamperingStore struct {
	*repository.MemoryStore
}

func (s tamperingStore) ListLogs(ctx context.Context, filter models.LogFilter) ([]models.AuditLog, error) {
	logs, err := s.MemoryStore.ListLogs(ctx, filter)
	for i := range logs {
		if logs[i].Action == models.ActionPurchaseCreate {
			logs[i].Description = "Purchase created: something else"
		}
	}
	return logs, err
}

func newServiceWithStore(t *testing.T, store Store) (*Service, *mockRates) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "jwt-secret", HMACSecret: "hmac-secret", BaseCurrency: "TRY"}
	rates := &mockRates{}
	svc := NewService(store, rates, log, cfg)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, rates
}

func newTestService(t *testing.T) (*Service, *repository.MemoryStore, *mockRates) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc, rates := newServiceWithStore(t, store)
	return svc, store, rates
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func mustUser(t *testing.T, svc *Service, name, email string) *models.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), validation.UserInput{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func mustCard(t *testing.T, svc *Service, name string) *models.Card {
	t.Helper()
	c, err := svc.CreateCard(context.Background(), validation.CardInput{Name: name})
	require.NoError(t, err)
	return c
}

func mustPurchase(t *testing.T, svc *Service, in validation.PurchaseInput) *models.Purchase {
	t.Helper()
	p, err := svc.CreatePurchase(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	op, err := svc.Register(ctx, validation.Credentials{Email: " Admin@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", op.Email)
	assert.NotEqual(t, "correct-horse", op.PasswordHash)

	token, err := svc.Login(ctx, validation.Credentials{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	claims, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, op.ID, claims.Subject)
}

func TestRegister_Errors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validation.Credentials{Email: "not-an-email", Password: "correct-horse"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Register(ctx, validation.Credentials{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Register(ctx, validation.Credentials{Email: "a@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, validation.Credentials{Email: "a@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, validation.Credentials{Email: "a@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, validation.Credentials{Email: "a@example.com", Password: "wrong-horse"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Login(ctx, validation.Credentials{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Authenticate("garbage")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCreatePurchase_WritesSignedAuditLog(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := mustUser(t, svc, "Ayse", "")
	ctx := WithActor(context.Background(), "admin@example.com")

	p, err := svc.CreatePurchase(ctx, validation.PurchaseInput{
		UserID: user.ID, StoreName: "Store", ProductName: "Phone",
		TotalAmount: "1200", InstallmentCount: "12", FirstInstallmentDate: "2026-01-10",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCurrency, p.Currency)

	logs, err := svc.Logs(context.Background(), models.LogFilter{Action: models.ActionPurchaseCreate})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "admin@example.com", logs[0].Actor)
	assert.Equal(t, "Purchase created: Store - Phone", logs[0].Description)
	assert.Equal(t, p.ID, logs[0].Meta["purchase_id"])
	assert.Equal(t, "1200.00", logs[0].Meta["total_amount"])
	assert.True(t, logs[0].Verified)
}

func TestLogs_DetectsTampering(t *testing.T) {
	store := tamperingStore{repository.NewMemoryStore()}
	svc, _ := newServiceWithStore(t, store)
	user := mustUser(t, svc, "Ayse", "")
	mustPurchase(t, svc, validation.PurchaseInput{
		UserID: user.ID, StoreName: "Store", TotalAmount: "100", InstallmentCount: "1", FirstInstallmentDate: "2026-01-10",
	})

	logs, err := svc.Logs(context.Background(), models.LogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, l.Action != models.ActionPurchaseCreate, l.Verified, l.Action)
	}
}

func TestCreatePurchase_Rejected(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := mustUser(t, svc, "Ayse", "")
	ctx := context.Background()

	_, err := svc.CreatePurchase(ctx, validation.PurchaseInput{
		UserID: "missing", StoreName: "Store", TotalAmount: "100", InstallmentCount: "1", FirstInstallmentDate: "2026-01-10",
	})
	assert.ErrorIs(t, err, models.ErrInvalidPurchase)

	_, err = svc.CreatePurchase(ctx, validation.PurchaseInput{
		UserID: user.ID, CardID: "missing", StoreName: "Store", TotalAmount: "100", InstallmentCount: "1", FirstInstallmentDate: "2026-01-10",
	})
	assert.ErrorIs(t, err, models.ErrInvalidPurchase)

	_, err = svc.CreatePurchase(ctx, validation.PurchaseInput{
		UserID: user.ID, StoreName: "Store", TotalAmount: "-5", InstallmentCount: "1", FirstInstallmentDate: "2026-01-10",
	})
	assert.ErrorIs(t, err, models.ErrInvalidPurchase)

	purchases, err := store.ListPurchases(ctx, models.PurchaseFilter{})
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestAuditFailureDoesNotFailRequest(t *testing.T) {
	store := failingLogStore{repository.NewMemoryStore()}
	svc, _ := newServiceWithStore(t, store)

	user, err := svc.CreateUser(context.Background(), validation.UserInput{Name: "Ayse"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultColor, user.Color)

	logs, err := svc.Logs(context.Background(), models.LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestUpdateAndDeletePurchase(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := mustUser(t, svc, "Ayse", "")
	ctx := context.Background()
	p := mustPurchase(t, svc, validation.PurchaseInput{
		UserID: user.ID, StoreName: "Store", TotalAmount: "100", InstallmentCount: "3", FirstInstallmentDate: "2026-01-10",
	})

	updated, err := svc.UpdatePurchase(ctx, p.ID, validation.PurchaseInput{
		UserID: user.ID, StoreName: "Store", TotalAmount: "300", InstallmentCount: "3", FirstInstallmentDate: "2026-01-10",
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	stored, err := store.GetPurchase(ctx, p.ID)
	require.NoError(t, err)
	assertDecimal(t, "300", stored.TotalAmount)

	_, err = svc.UpdatePurchase(ctx, "missing", validation.PurchaseInput{
		UserID: user.ID, StoreName: "Store", TotalAmount: "300", InstallmentCount: "3", FirstInstallmentDate: "2026-01-10",
	})
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, svc.DeletePurchase(ctx, p.ID))
	_, err = store.GetPurchase(ctx, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, svc.DeletePurchase(ctx, p.ID), models.ErrNotFound)

	logs, err := svc.Logs(ctx, models.LogFilter{Action: models.ActionPurchaseDelete})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestPayments(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := mustUser(t, svc, "Ayse", "")
	ctx := context.Background()

	_, err := svc.CreatePayment(ctx, validation.PaymentInput{UserID: "missing", Month: "2026-03", Amount: "50", PaymentDate: "2026-03-02"})
	assert.ErrorIs(t, err, models.ErrInvalidPayment)

	_, err = svc.CreatePayment(ctx, validation.PaymentInput{UserID: user.ID, Month: "2026-3", Amount: "50", PaymentDate: "2026-03-02"})
	assert.ErrorIs(t, err, models.ErrInvalidPayment)

	rec, err := svc.CreatePayment(ctx, validation.PaymentInput{UserID: user.ID, Month: "2026-03", Amount: "50", PaymentDate: "2026-03-02"})
	require.NoError(t, err)

	rec, err = svc.UpdatePayment(ctx, rec.ID, validation.PaymentInput{UserID: user.ID, Month: "2026-03", Amount: "75.50", PaymentDate: "2026-03-02"})
	require.NoError(t, err)
	assertDecimal(t, "75.5", rec.Amount)

	list, err := svc.ListPayments(ctx, models.PaymentFilter{UserID: user.ID, Month: calendar.MustMonth("2026-03")})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeletePayment(ctx, rec.ID))
	list, err = svc.ListPayments(ctx, models.PaymentFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Empty(t, list)

	logs, err := svc.Logs(ctx, models.LogFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Len(t, logs, 4, "user create plus three payment actions")
}

func TestDeleteCard(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	soft := mustCard(t, svc, "Bonus")
	hard := mustCard(t, svc, "World")

	require.NoError(t, svc.DeleteCard(ctx, soft.ID, false))
	got, err := store.GetCard(ctx, soft.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, svc.DeleteCard(ctx, hard.ID, true))
	_, err = store.GetCard(ctx, hard.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteCard(ctx, "missing", true), models.ErrNotFound)

	logs, err := svc.Logs(ctx, models.LogFilter{Action: models.ActionCardDelete})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, hard.ID, logs[0].Meta["card_id"])
}

func TestDeactivateUser(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := mustUser(t, svc, "Ayse", "")

	require.NoError(t, svc.DeactivateUser(context.Background(), user.ID))
	got, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := svc.ListUsers(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListUsers(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// seedDashboard creates two users and one card:
// Ayse owes 1200/12 from January on the card, Burak paid 300 in one go in December.
func seedDashboard(t *testing.T, svc *Service) (ayse, burak *models.User, card *models.Card) {
	t.Helper()
	ayse = mustUser(t, svc, "Ayse", "ayse@example.com")
	burak = mustUser(t, svc, "Burak", "")
	card = mustCard(t, svc, "Bonus")
	mustPurchase(t, svc, validation.PurchaseInput{
		UserID: ayse.ID, CardID: card.ID, StoreName: "Store", ProductName: "Phone",
		TotalAmount: "1200", InstallmentCount: "12", FirstInstallmentDate: "2026-01-10",
	})
	mustPurchase(t, svc, validation.PurchaseInput{
		UserID: burak.ID, StoreName: "Market",
		TotalAmount: "300", InstallmentCount: "1", FirstInstallmentDate: "2025-12-05",
	})
	return ayse, burak, card
}

func TestDashboard(t *testing.T) {
	svc, _, rates := newTestService(t)
	ayse, _, card := seedDashboard(t, svc)

	dash, err := svc.Dashboard(context.Background(), calendar.MustMonth("2026-03"), "", "")
	require.NoError(t, err)

	require.Len(t, dash.Users, 1, "users with nothing due and no debt are hidden")
	row := dash.Users[0]
	assert.Equal(t, ayse.ID, row.UserID)
	assertDecimal(t, "100", row.MonthTotal)
	assertDecimal(t, "1000", row.TotalDebt)
	assertDecimal(t, "1200", row.TotalSpending)
	assert.Equal(t, 10, row.RemainingInstallments)
	assertDecimal(t, "100", dash.UserTotals.MonthTotal)
	assertDecimal(t, "1000", dash.UserTotals.TotalDebt)

	require.Len(t, dash.Cards, 1)
	assert.Equal(t, card.ID, dash.Cards[0].CardID)
	assertDecimal(t, "1000", dash.CardTotals.TotalDebt)

	assert.Nil(t, dash.ConvertedMonthTotal)
	assert.Zero(t, rates.calls, "rates are only needed for foreign currencies")
	assert.Equal(t, "TRY", dash.BaseCurrency)
}

func TestDashboard_Filters(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, burak, _ := seedDashboard(t, svc)
	other := mustCard(t, svc, "World")
	ctx := context.Background()
	march := calendar.MustMonth("2026-03")

	dash, err := svc.Dashboard(ctx, march, other.ID, "")
	require.NoError(t, err)
	assert.Empty(t, dash.Users)
	assert.Len(t, dash.Cards, 1, "card rows ignore the card filter")

	dash, err = svc.Dashboard(ctx, march, "", burak.ID)
	require.NoError(t, err)
	assert.Empty(t, dash.Users)
	assert.Empty(t, dash.Cards)

	dash, err = svc.Dashboard(ctx, calendar.MustMonth("2025-12"), "", burak.ID)
	require.NoError(t, err)
	require.Len(t, dash.Users, 1)
	assertDecimal(t, "300", dash.Users[0].MonthTotal)
	assertDecimal(t, "300", dash.Users[0].TotalDebt)
}

func TestDashboard_ConvertedMonthTotal(t *testing.T) {
	svc, _, rates := newTestService(t)
	ayse := mustUser(t, svc, "Ayse", "")
	mustPurchase(t, svc, validation.PurchaseInput{
		UserID: ayse.ID, StoreName: "Shop", TotalAmount: "300", InstallmentCount: "3", FirstInstallmentDate: "2026-03-01",
	})
	mustPurchase(t, svc, validation.PurchaseInput{
		UserID: ayse.ID, StoreName: "Online", TotalAmount: "1200", InstallmentCount: "12", FirstInstallmentDate: "2026-03-01", Currency: "usd",
	})
	rates.rates = []models.ExchangeRate{{Code: "USD", Unit: 1, Rate: dec("40")}}
	march := calendar.MustMonth("2026-03")

	dash, err := svc.Dashboard(context.Background(), march, "", "")
	require.NoError(t, err)
	require.NotNil(t, dash.ConvertedMonthTotal)
	assertDecimal(t, "4100", *dash.ConvertedMonthTotal)

	rates.err = errors.New("feed down")
	dash, err = svc.Dashboard(context.Background(), march, "", "")
	require.NoError(t, err)
	assert.Nil(t, dash.ConvertedMonthTotal)
}

func TestStatement(t *testing.T) {
	svc, _, _ := newTestService(t)
	ayse, _, card := seedDashboard(t, svc)
	ctx := context.Background()

	st, err := svc.Statement(ctx, calendar.MustMonth("2026-03"), "", "")
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, "Store - Phone", st.Items[0].Description)
	assert.Equal(t, 3, st.Items[0].InstallmentNumber)
	assertDecimal(t, "100", st.Total)

	st, err = svc.Statement(ctx, calendar.MustMonth("2025-12"), "", "")
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assertDecimal(t, "300", st.Total)

	st, err = svc.Statement(ctx, calendar.MustMonth("2026-03"), ayse.ID, card.ID)
	require.NoError(t, err)
	assert.Len(t, st.Items, 1)
}

func TestUserSummary(t *testing.T) {
	svc, _, _ := newTestService(t)
	ayse, _, _ := seedDashboard(t, svc)
	ctx := context.Background()
	for _, in := range []validation.PaymentInput{
		{UserID: ayse.ID, Month: "2026-03", Amount: "50", PaymentDate: "2026-03-02"},
		{UserID: ayse.ID, Month: "2026-03", Amount: "30", PaymentDate: "2026-03-09"},
		{UserID: ayse.ID, Month: "2026-02", Amount: "100", PaymentDate: "2026-02-02"},
	} {
		_, err := svc.CreatePayment(ctx, in)
		require.NoError(t, err)
	}

	sum, err := svc.UserSummary(ctx, ayse.ID, calendar.MustMonth("2026-03"))
	require.NoError(t, err)
	assertDecimal(t, "100", sum.MonthDue)
	assertDecimal(t, "80", sum.MonthPaid)
	assertDecimal(t, "20", sum.MonthResidual)
	assertDecimal(t, "1000", sum.OutstandingDebt, "payments never reduce debt")
	assert.Equal(t, 10, sum.RemainingInstallments)
	assert.Len(t, sum.Payments, 2)
	require.Len(t, sum.Purchases, 1)
	assert.Equal(t, 2, sum.Purchases[0].PaidInstallments)
	require.Len(t, sum.Installments, 1)

	_, err = svc.UserSummary(ctx, "missing", calendar.MustMonth("2026-03"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProjection(t *testing.T) {
	svc, _, _ := newTestService(t)
	ayse, _, _ := seedDashboard(t, svc)
	ctx := context.Background()

	totals, err := svc.Projection(ctx, ayse.ID, calendar.MustMonth("2026-11"), 3)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assertDecimal(t, "100", totals[0].Total)
	assertDecimal(t, "100", totals[1].Total)
	assertDecimal(t, "0", totals[2].Total)
	assert.Equal(t, "2027-01", totals[2].Month.String())

	_, err = svc.Projection(ctx, ayse.ID, calendar.MustMonth("2026-11"), 0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Projection(ctx, ayse.ID, calendar.MustMonth("2026-11"), MaxProjectionMonths+1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Projection(ctx, "missing", calendar.MustMonth("2026-11"), 3)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMonthlySummaries(t *testing.T) {
	svc, _, _ := newTestService(t)
	ayse, _, _ := seedDashboard(t, svc)
	gone := mustUser(t, svc, "Gone", "gone@example.com")
	require.NoError(t, svc.DeactivateUser(context.Background(), gone.ID))

	summaries, err := svc.MonthlySummaries(context.Background(), calendar.MustMonth("2026-03"))
	require.NoError(t, err)
	require.Len(t, summaries, 1, "only active users with an e-mail")
	assert.Equal(t, ayse.ID, summaries[0].User.ID)
	assertDecimal(t, "100", summaries[0].MonthDue)
}

func TestCurrentMonthAndRates(t *testing.T) {
	svc, _, rates := newTestService(t)
	assert.Equal(t, "2026-03", svc.CurrentMonth().String())

	rates.rates = []models.ExchangeRate{{Code: "EUR", Unit: 1, Rate: dec("45")}}
	got, err := svc.Rates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rates.rates, got)
}
