package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/installment-service/internal/models"
)

// GenerateHMAC returns the hex encoded HMAC-SHA256 of the given parts joined by "|"
func GenerateHMAC(secret string, parts ...string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h.Sum(nil))
}

// auditPayload flattens the signed fields of an audit log entry.
// Meta keys are emitted sorted by encoding/json, so the payload is stable.
func auditPayload(l *models.AuditLog) ([]string, error) {
	meta := []byte("{}")
	if len(l.Meta) > 0 {
		var err error
		meta, err = json.Marshal(l.Meta)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal audit meta: %w", err)
		}
	}
	return []string{
		l.ID,
		l.Action,
		l.Description,
		l.Actor,
		string(meta),
		l.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

// SignAuditLog computes and stores the signature of an audit log entry
func SignAuditLog(l *models.AuditLog, secret string) error {
	parts, err := auditPayload(l)
	if err != nil {
		return err
	}
	l.Signature = GenerateHMAC(secret, parts...)
	return nil
}

// VerifyAuditLog reports whether the stored signature matches the entry contents
func VerifyAuditLog(l *models.AuditLog, secret string) bool {
	parts, err := auditPayload(l)
	if err != nil {
		return false
	}
	expected := GenerateHMAC(secret, parts...)
	return hmac.Equal([]byte(expected), []byte(l.Signature))
}
