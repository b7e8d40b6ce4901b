package payments

import (
	"context"
	"fmt"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

type paymentUsecase struct {
	transactionRepo contracts.TransactionRepository
	caseRepo        contracts.CaseRepository
	subscriberRepo  contracts.SubscriberRepository
	paymentGateway  contracts.PaymentGatewayService
	smsService      contracts.SMSService
	shortCode       string
	Log             *zap.Logger
}

func NewPaymentUsecase(
	transactionRepo contracts.TransactionRepository,
	caseRepo contracts.CaseRepository,
	subscriberRepo contracts.SubscriberRepository,
	paymentGateway contracts.PaymentGatewayService,
	smsService contracts.SMSService,
	shortCode string,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		paymentUsecaseInstance = &paymentUsecase{
			transactionRepo: transactionRepo,
			caseRepo:        caseRepo,
			subscriberRepo:  subscriberRepo,
			paymentGateway:  paymentGateway,
			smsService:      smsService,
			shortCode:       shortCode,
			Log:             logger,
		}
	})
	return paymentUsecaseInstance
}

// HandleCallback applies a gateway payment result. The signature gate runs
// before any state is touched, and a transaction already out of pending is
// left alone so redelivered callbacks stay idempotent.
func (p *paymentUsecase) HandleCallback(ctx context.Context, req *contracts.PaymentCallbackRequest) error {
	fields := map[string]string{
		"transactionId": req.TransactionID,
		"reference":     req.Reference,
		"status":        req.Status,
		"amount":        req.Amount,
		"phone":         req.Phone,
	}
	if !p.paymentGateway.VerifySignature(fields, req.Signature) {
		p.Log.Warn("paymentUsecase.HandleCallback signature mismatch",
			zap.String(constvars.LoggingTransactionIDKey, req.TransactionID),
		)
		return exceptions.ErrPaymentSignatureInvalid(nil)
	}

	tx, err := p.transactionRepo.FindByID(ctx, req.TransactionID)
	if err != nil {
		return err
	}
	if tx == nil {
		return exceptions.ErrTransactionNotFound(nil)
	}
	if tx.Status != models.TransactionPending {
		p.Log.Info("paymentUsecase.HandleCallback transaction already settled",
			zap.String(constvars.LoggingTransactionIDKey, tx.ID),
			zap.String(constvars.LoggingPaymentStatusKey, string(tx.Status)),
		)
		return nil
	}

	if isSuccessStatus(req.Status) {
		return p.settleSuccess(ctx, tx, req.Reference)
	}
	return p.settleFailure(ctx, tx)
}

func (p *paymentUsecase) settleSuccess(ctx context.Context, tx *models.Transaction, reference string) error {
	if err := p.transactionRepo.UpdateStatus(ctx, tx.ID, models.TransactionCompleted); err != nil {
		return err
	}
	if reference != "" {
		if err := p.transactionRepo.UpdateRef(ctx, tx.ID, reference); err != nil {
			return err
		}
	}

	p.Log.Info("paymentUsecase.settleSuccess payment completed",
		zap.String(constvars.LoggingTransactionIDKey, tx.ID),
		zap.String(constvars.LoggingCaseIDKey, tx.CaseID),
		zap.Float64(constvars.LoggingAmountKey, tx.Amount),
	)

	// The provisional case keeps its placeholder symptoms until the
	// subscriber redials; the SMS tells them to.
	subscriber, err := p.subscriberRepo.FindByID(ctx, tx.SubscriberID)
	if err != nil || subscriber == nil {
		return err
	}
	message := paymentReceivedSMS(subscriber.Language, tx.Amount, p.shortCode)
	if smsErr := p.smsService.Send(ctx, subscriber.Phone, message); smsErr != nil {
		p.Log.Warn("paymentUsecase.settleSuccess sms failed",
			zap.String(constvars.LoggingPhoneKey, subscriber.Phone),
			zap.Error(smsErr),
		)
	}
	return nil
}

func (p *paymentUsecase) settleFailure(ctx context.Context, tx *models.Transaction) error {
	if err := p.transactionRepo.UpdateStatus(ctx, tx.ID, models.TransactionFailed); err != nil {
		return err
	}
	if tx.CaseID != "" {
		if err := p.caseRepo.UpdateStatus(ctx, tx.CaseID, models.CaseCancelled); err != nil {
			return err
		}
	}
	p.Log.Info("paymentUsecase.settleFailure payment failed",
		zap.String(constvars.LoggingTransactionIDKey, tx.ID),
		zap.String(constvars.LoggingCaseIDKey, tx.CaseID),
	)
	return nil
}

func (p *paymentUsecase) CheckPaymentStatus(ctx context.Context, transactionID string) (bool, error) {
	tx, err := p.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		return false, err
	}
	if tx == nil {
		return false, exceptions.ErrTransactionNotFound(nil)
	}
	return tx.Status == models.TransactionCompleted, nil
}

func isSuccessStatus(status string) bool {
	switch strings.ToLower(status) {
	case "success", "completed", "paid":
		return true
	default:
		return false
	}
}

func paymentReceivedSMS(lang string, amount float64, shortCode string) string {
	if lang == constvars.LanguageKiswahili {
		return fmt.Sprintf("Malipo ya KES %.0f yamepokelewa. Piga %s tena kuandika dalili zako.\n\nSmartHealth", amount, shortCode)
	}
	return fmt.Sprintf("Payment of KES %.0f received. Dial %s again to enter your symptoms.\n\nSmartHealth", amount, shortCode)
}
