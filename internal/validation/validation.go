package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/shopspring/decimal"
)

var (
	colorRe    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Purchase converts client input into a typed purchase. Errors wrap
// models.ErrInvalidPurchase.
func Purchase(in PurchaseInput) (models.Purchase, error) {
	invalid := func(format string, args ...any) (models.Purchase, error) {
		return models.Purchase{}, fmt.Errorf("%w: %s", models.ErrInvalidPurchase, fmt.Sprintf(format, args...))
	}

	amount, err := ParseAmount(string(in.TotalAmount))
	if err != nil {
		return invalid("total_amount: %v", err)
	}
	count, err := ParseCount(string(in.InstallmentCount))
	if err != nil {
		return invalid("installment_count: %v", err)
	}
	date, err := ParseDay(in.FirstInstallmentDate)
	if err != nil {
		return invalid("first_installment_date: %v", err)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}

	p := models.Purchase{
		UserID:               strings.TrimSpace(in.UserID),
		CardID:               strings.TrimSpace(in.CardID),
		StoreName:            strings.TrimSpace(in.StoreName),
		ProductName:          strings.TrimSpace(in.ProductName),
		Description:          strings.TrimSpace(in.Description),
		TotalAmount:          amount,
		InstallmentCount:     count,
		FirstInstallmentDate: date,
		Currency:             currency,
	}
	if err := ValidatePurchase(p); err != nil {
		return models.Purchase{}, err
	}
	return p, nil
}

// ValidatePurchase checks a typed purchase, e.g. one read back from storage.
func ValidatePurchase(p models.Purchase) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", models.ErrInvalidPurchase, fmt.Sprintf(format, args...))
	}
	if p.UserID == "" {
		return invalid("user_id is required")
	}
	if p.StoreName == "" && p.Description == "" {
		return invalid("store_name is required")
	}
	if err := checkAmount(p.TotalAmount); err != nil {
		return invalid("total_amount: %v", err)
	}
	if p.InstallmentCount < 1 || p.InstallmentCount > MaxInstallmentCount {
		return invalid("installment_count must be between 1 and %d, got %d", MaxInstallmentCount, p.InstallmentCount)
	}
	if p.FirstInstallmentDate.IsZero() {
		return invalid("first_installment_date is required")
	}
	if !currencyRe.MatchString(p.Currency) {
		return invalid("currency %q must be 3 uppercase letters", p.Currency)
	}
	return nil
}

// PaymentRecord converts client input into a typed payment record. Errors
// wrap models.ErrInvalidPayment.
func PaymentRecord(in PaymentInput) (models.PaymentRecord, error) {
	invalid := func(format string, args ...any) (models.PaymentRecord, error) {
		return models.PaymentRecord{}, fmt.Errorf("%w: %s", models.ErrInvalidPayment, fmt.Sprintf(format, args...))
	}

	month, err := calendar.ParseMonth(strings.TrimSpace(in.Month))
	if err != nil {
		return invalid("month: %v", err)
	}
	amount, err := ParseAmount(string(in.Amount))
	if err != nil {
		return invalid("amount: %v", err)
	}
	date, err := ParseDay(in.PaymentDate)
	if err != nil {
		return invalid("payment_date: %v", err)
	}

	r := models.PaymentRecord{
		UserID:      strings.TrimSpace(in.UserID),
		Month:       month,
		Amount:      amount,
		PaymentDate: date,
		Description: strings.TrimSpace(in.Description),
	}
	if err := ValidatePaymentRecord(r); err != nil {
		return models.PaymentRecord{}, err
	}
	return r, nil
}

// ValidatePaymentRecord checks a typed payment record.
func ValidatePaymentRecord(r models.PaymentRecord) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", models.ErrInvalidPayment, fmt.Sprintf(format, args...))
	}
	if r.UserID == "" {
		return invalid("user_id is required")
	}
	if r.Month.IsZero() {
		return invalid("month is required")
	}
	if err := checkAmount(r.Amount); err != nil {
		return invalid("amount: %v", err)
	}
	if r.PaymentDate.IsZero() {
		return invalid("payment_date is required")
	}
	if len(r.Description) > MaxNoteLength {
		return invalid("description too long, max %d characters", MaxNoteLength)
	}
	return nil
}

// Month parses a "YYYY-MM" query value.
func Month(s string) (calendar.Month, error) {
	return calendar.ParseMonth(strings.TrimSpace(s))
}

// ParseAmount parses a positive amount with at most two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if err := checkAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func checkAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", d)
	}
	if d.GreaterThan(MaxAmount) {
		return fmt.Errorf("amount too large, got %s", d)
	}
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("amount %s has more than 2 decimal places", d)
	}
	return nil
}

// ParseCount parses an installment count. Integral decimals such as "3.0"
// are accepted; fractions are not.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if d.LessThan(decimal.NewFromInt(1)) || d.GreaterThan(decimal.NewFromInt(MaxInstallmentCount)) {
		return 0, fmt.Errorf("must be between 1 and %d, got %s", MaxInstallmentCount, s)
	}
	return int(d.IntPart()), nil
}

// ParseDay accepts "YYYY-MM-DD" or an RFC 3339 timestamp. A timestamp keeps
// the calendar day in its own offset, so no time zone shifts the day.
func ParseDay(s string) (calendar.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return calendar.Date{}, fmt.Errorf("%w: date is required", calendar.ErrInvalidDate)
	}
	if len(s) == len("2006-01-02") {
		return calendar.ParseDate(s)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("%w: %q", calendar.ErrInvalidDate, s)
	}
	return calendar.DateOf(t), nil
}

// User validates user input, applying the default color.
func User(in UserInput) (models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if len(name) > MaxNameLength {
		return models.User{}, fmt.Errorf("%w: name too long, max %d characters", models.ErrInvalidInput, MaxNameLength)
	}
	color, err := Color(in.Color)
	if err != nil {
		return models.User{}, err
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return models.User{}, fmt.Errorf("%w: invalid email %q", models.ErrInvalidInput, email)
		}
	}
	note := strings.TrimSpace(in.Note)
	if len(note) > MaxNoteLength {
		return models.User{}, fmt.Errorf("%w: note too long, max %d characters", models.ErrInvalidInput, MaxNoteLength)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return models.User{Name: name, Color: color, Note: note, Email: email, IsActive: active}, nil
}

// Card validates card input, applying the default color.
func Card(in CardInput) (models.Card, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Card{}, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if len(name) > MaxNameLength {
		return models.Card{}, fmt.Errorf("%w: name too long, max %d characters", models.ErrInvalidInput, MaxNameLength)
	}
	color, err := Color(in.Color)
	if err != nil {
		return models.Card{}, err
	}
	note := strings.TrimSpace(in.Note)
	if len(note) > MaxNoteLength {
		return models.Card{}, fmt.Errorf("%w: note too long, max %d characters", models.ErrInvalidInput, MaxNoteLength)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return models.Card{Name: name, Color: color, Note: note, IsActive: active}, nil
}

// Color returns the default color for empty input.
func Color(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.DefaultColor, nil
	}
	if !colorRe.MatchString(s) {
		return "", fmt.Errorf("%w: color %q must look like #RRGGBB", models.ErrInvalidInput, s)
	}
	return s, nil
}

// ValidateCredentials checks an operator login or registration request.
func ValidateCredentials(c Credentials) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(c.Email)); err != nil {
		return fmt.Errorf("%w: invalid email", models.ErrInvalidInput)
	}
	if len(c.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", models.ErrInvalidInput)
	}
	return nil
}
