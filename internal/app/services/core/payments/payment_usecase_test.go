package payments

import (
	"context"
	"testing"
	"time"

	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryTransactionRepo struct {
	transactions map[string]*models.Transaction
}

func (m *memoryTransactionRepo) Create(_ context.Context, tx *models.Transaction) (string, error) {
	m.transactions[tx.ID] = tx
	return tx.ID, nil
}

func (m *memoryTransactionRepo) FindByID(_ context.Context, id string) (*models.Transaction, error) {
	return m.transactions[id], nil
}

func (m *memoryTransactionRepo) UpdateStatus(_ context.Context, id string, status models.TransactionStatus) error {
	if tx, ok := m.transactions[id]; ok {
		tx.Status = status
	}
	return nil
}

func (m *memoryTransactionRepo) UpdateRef(_ context.Context, id, ref string) error {
	if tx, ok := m.transactions[id]; ok {
		tx.TransactionRef = ref
	}
	return nil
}

type caseStatusRecorder struct {
	statuses map[string]models.CaseStatus
}

func (c *caseStatusRecorder) Create(_ context.Context, _ *models.Case) (string, error) {
	return "", nil
}

func (c *caseStatusRecorder) FindByID(_ context.Context, _ string) (*models.Case, error) {
	return nil, nil
}

func (c *caseStatusRecorder) AssignToDoctor(_ context.Context, _, _ string) error { return nil }

func (c *caseStatusRecorder) UpdateStatus(_ context.Context, caseID string, status models.CaseStatus) error {
	c.statuses[caseID] = status
	return nil
}

func (c *caseStatusRecorder) UpdateSymptoms(_ context.Context, _, _ string) error { return nil }

func (c *caseStatusRecorder) SetRecording(_ context.Context, _, _ string) error { return nil }

func (c *caseStatusRecorder) SetRecordingObjectKey(_ context.Context, _, _ string) error { return nil }

func (c *caseStatusRecorder) GetBySubscriber(_ context.Context, _ string, _ int) ([]models.Case, error) {
	return nil, nil
}

func (c *caseStatusRecorder) CountActiveByDoctor(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (c *caseStatusRecorder) CancelStaleProvisional(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type subscriberReader struct {
	subscribers map[string]*models.Subscriber
}

func (s *subscriberReader) FindByPhone(_ context.Context, _ string) (*models.Subscriber, error) {
	return nil, nil
}

func (s *subscriberReader) FindByID(_ context.Context, id string) (*models.Subscriber, error) {
	return s.subscribers[id], nil
}

func (s *subscriberReader) Create(_ context.Context, _ *models.Subscriber) (string, error) {
	return "", nil
}

func (s *subscriberReader) UpdateLanguage(_ context.Context, _, _ string) error { return nil }

func (s *subscriberReader) IncrementConsultationCount(_ context.Context, _ string) error { return nil }

func (s *subscriberReader) AddBalance(_ context.Context, _ string, _ float64) error { return nil }

func (s *subscriberReader) DebitBalanceIfSufficient(_ context.Context, _ string, _ float64) (bool, error) {
	return false, nil
}

type signatureGate struct {
	valid bool
}

func (g *signatureGate) InitiatePayment(_ context.Context, _ *contracts.InitiatePaymentInput) (*contracts.InitiatePaymentOutput, error) {
	return nil, nil
}

func (g *signatureGate) VerifySignature(_ map[string]string, _ string) bool {
	return g.valid
}

type smsRecorder struct {
	messages []string
}

func (r *smsRecorder) Send(_ context.Context, _ string, message string) error {
	r.messages = append(r.messages, message)
	return nil
}

type paymentTestEnv struct {
	usecase      *paymentUsecase
	transactions *memoryTransactionRepo
	cases        *caseStatusRecorder
	gateway      *signatureGate
	sms          *smsRecorder
}

func newPaymentTestEnv() *paymentTestEnv {
	env := &paymentTestEnv{
		transactions: &memoryTransactionRepo{transactions: make(map[string]*models.Transaction)},
		cases:        &caseStatusRecorder{statuses: make(map[string]models.CaseStatus)},
		gateway:      &signatureGate{valid: true},
		sms:          &smsRecorder{},
	}
	subscribers := &subscriberReader{subscribers: map[string]*models.Subscriber{
		"sub-1": {ID: "sub-1", Phone: "255712000001", Language: "en"},
	}}
	env.usecase = &paymentUsecase{
		transactionRepo: env.transactions,
		caseRepo:        env.cases,
		subscriberRepo:  subscribers,
		paymentGateway:  env.gateway,
		smsService:      env.sms,
		shortCode:       "*384*34153#",
		Log:             zap.NewNop(),
	}
	return env
}

func pendingTransaction(env *paymentTestEnv) *models.Transaction {
	tx := &models.Transaction{
		ID:           "tx-1",
		SubscriberID: "sub-1",
		CaseID:       "case-1",
		Amount:       5000,
		Status:       models.TransactionPending,
	}
	env.transactions.transactions[tx.ID] = tx
	return tx
}

func TestHandleCallbackRejectsBadSignature(t *testing.T) {
	env := newPaymentTestEnv()
	tx := pendingTransaction(env)
	env.gateway.valid = false

	err := env.usecase.HandleCallback(context.Background(), &contracts.PaymentCallbackRequest{
		TransactionID: "tx-1",
		Status:        "success",
		Signature:     "bogus",
	})
	require.Error(t, err)
	assert.Equal(t, models.TransactionPending, tx.Status)
	assert.Empty(t, env.sms.messages)
}

func TestHandleCallbackSuccess(t *testing.T) {
	env := newPaymentTestEnv()
	tx := pendingTransaction(env)

	err := env.usecase.HandleCallback(context.Background(), &contracts.PaymentCallbackRequest{
		TransactionID: "tx-1",
		Reference:     "ZP-20260831-001",
		Status:        "COMPLETED",
		Amount:        "5000",
		Phone:         "255712000001",
		Signature:     "sig",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionCompleted, tx.Status)
	assert.Equal(t, "ZP-20260831-001", tx.TransactionRef)
	require.Len(t, env.sms.messages, 1)
	assert.Contains(t, env.sms.messages[0], "Payment of KES 5000 received")
}

func TestHandleCallbackIdempotent(t *testing.T) {
	env := newPaymentTestEnv()
	tx := pendingTransaction(env)
	tx.Status = models.TransactionCompleted
	tx.TransactionRef = "ZP-20260831-001"

	err := env.usecase.HandleCallback(context.Background(), &contracts.PaymentCallbackRequest{
		TransactionID: "tx-1",
		Reference:     "ZP-20260831-002",
		Status:        "success",
		Signature:     "sig",
	})
	require.NoError(t, err)
	assert.Equal(t, "ZP-20260831-001", tx.TransactionRef)
	assert.Empty(t, env.sms.messages)
}

func TestHandleCallbackFailureCancelsCase(t *testing.T) {
	env := newPaymentTestEnv()
	tx := pendingTransaction(env)

	err := env.usecase.HandleCallback(context.Background(), &contracts.PaymentCallbackRequest{
		TransactionID: "tx-1",
		Status:        "failed",
		Signature:     "sig",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionFailed, tx.Status)
	assert.Equal(t, models.CaseCancelled, env.cases.statuses["case-1"])
	assert.Empty(t, env.sms.messages)
}

func TestHandleCallbackUnknownTransaction(t *testing.T) {
	env := newPaymentTestEnv()

	err := env.usecase.HandleCallback(context.Background(), &contracts.PaymentCallbackRequest{
		TransactionID: "tx-missing",
		Status:        "success",
		Signature:     "sig",
	})
	assert.Error(t, err)
}

func TestCheckPaymentStatus(t *testing.T) {
	env := newPaymentTestEnv()
	tx := pendingTransaction(env)

	done, err := env.usecase.CheckPaymentStatus(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.False(t, done)

	tx.Status = models.TransactionCompleted
	done, err = env.usecase.CheckPaymentStatus(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.True(t, done)

	_, err = env.usecase.CheckPaymentStatus(context.Background(), "tx-missing")
	assert.Error(t, err)
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, isSuccessStatus("success"))
	assert.True(t, isSuccessStatus("COMPLETED"))
	assert.True(t, isSuccessStatus("Paid"))
	assert.False(t, isSuccessStatus("failed"))
	assert.False(t, isSuccessStatus("cancelled"))
	assert.False(t, isSuccessStatus(""))
}
