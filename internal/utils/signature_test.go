package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/installment-service/internal/models"
)

func sampleLog() *models.AuditLog {
	return &models.AuditLog{
		ID:          "log-1",
		Action:      models.ActionPurchaseCreate,
		Description: "Purchase created: Store - Phone",
		Meta:        map[string]any{"purchase_id": "p1", "user_id": "u1", "amount": "1200.00"},
		Actor:       "admin@example.com",
		CreatedAt:   time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestGenerateHMAC(t *testing.T) {
	a := GenerateHMAC("secret", "a", "b")
	b := GenerateHMAC("secret", "a", "b")
	c := GenerateHMAC("other", "a", "b")
	d := GenerateHMAC("secret", "ab")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Len(t, a, 64)
}

func TestSignAndVerifyAuditLog(t *testing.T) {
	l := sampleLog()
	require.NoError(t, SignAuditLog(l, "secret"))
	assert.NotEmpty(t, l.Signature)
	assert.True(t, VerifyAuditLog(l, "secret"))
	assert.False(t, VerifyAuditLog(l, "wrong"))

	tampered := *l
	tampered.Meta = map[string]any{"purchase_id": "p1", "user_id": "u2", "amount": "1200.00"}
	assert.False(t, VerifyAuditLog(&tampered, "secret"))

	moved := *l
	moved.CreatedAt = l.CreatedAt.Add(time.Second)
	assert.False(t, VerifyAuditLog(&moved, "secret"))
}

func TestSignAuditLog_LocationIndependent(t *testing.T) {
	l := sampleLog()
	require.NoError(t, SignAuditLog(l, "secret"))

	loc := time.FixedZone("UTC+3", 3*3600)
	shifted := *l
	shifted.CreatedAt = l.CreatedAt.In(loc)
	assert.True(t, VerifyAuditLog(&shifted, "secret"))
}

func TestSignAuditLog_EmptyMeta(t *testing.T) {
	a := sampleLog()
	a.Meta = nil
	b := sampleLog()
	b.Meta = map[string]any{}

	require.NoError(t, SignAuditLog(a, "secret"))
	require.NoError(t, SignAuditLog(b, "secret"))
	assert.Equal(t, a.Signature, b.Signature)
}
