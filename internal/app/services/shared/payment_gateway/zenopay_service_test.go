package payment_gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"smarthealth-service/internal/app/contracts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signFields(secret string, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	service := &zenopayService{
		SecretKey: "test-secret",
		Log:       zap.NewNop(),
	}

	fields := map[string]string{
		"transactionId": "tx-1",
		"reference":     "ZP-20260831-001",
		"status":        "COMPLETED",
		"amount":        "5000",
		"phone":         "255712000001",
	}

	// Keys sorted: amount, phone, reference, status, transactionId.
	canonical := "amount=5000&phone=255712000001&reference=ZP-20260831-001&status=COMPLETED&transactionId=tx-1"
	valid := signFields("test-secret", canonical)

	assert.True(t, service.VerifySignature(fields, valid))
}

func TestVerifySignatureAcceptsUppercaseHex(t *testing.T) {
	service := &zenopayService{SecretKey: "test-secret", Log: zap.NewNop()}

	fields := map[string]string{"status": "success", "transactionId": "tx-1"}
	valid := signFields("test-secret", "status=success&transactionId=tx-1")

	assert.True(t, service.VerifySignature(fields, valid))
	assert.True(t, service.VerifySignature(fields, strings.ToUpper(valid)))
}

func TestVerifySignatureRejectsTamperedFields(t *testing.T) {
	service := &zenopayService{SecretKey: "test-secret", Log: zap.NewNop()}

	fields := map[string]string{
		"transactionId": "tx-1",
		"status":        "success",
		"amount":        "5000",
	}
	valid := signFields("test-secret", "amount=5000&status=success&transactionId=tx-1")
	require.True(t, service.VerifySignature(fields, valid))

	fields["amount"] = "1"
	assert.False(t, service.VerifySignature(fields, valid))
}

func TestVerifySignatureRejectsEmpty(t *testing.T) {
	service := &zenopayService{SecretKey: "test-secret", Log: zap.NewNop()}
	assert.False(t, service.VerifySignature(map[string]string{"status": "success"}, ""))
}

func TestVerifySignatureIgnoresSignatureField(t *testing.T) {
	service := &zenopayService{SecretKey: "test-secret", Log: zap.NewNop()}

	valid := signFields("test-secret", "status=success&transactionId=tx-1")
	fields := map[string]string{
		"transactionId": "tx-1",
		"status":        "success",
		"signature":     valid,
	}
	assert.True(t, service.VerifySignature(fields, valid))
}

func TestInitiatePaymentTestMode(t *testing.T) {
	service := &zenopayService{
		TestMode: true,
		Log:      zap.NewNop(),
	}

	out, err := service.InitiatePayment(context.Background(), &contracts.InitiatePaymentInput{
		TransactionID: "tx-1",
		Phone:         "255712000001",
		Amount:        5000,
		Description:   "Consultation with Dr. Neema",
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", out.PaymentID)
	assert.Equal(t, "pending", out.Status)
}
