package ussd

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"strings"
	"time"

	"go.uber.org/zap"
)

// handlePaymentVerification resumes a mobile payment on the redial after the
// push. The pending record is phone-keyed; the current gateway session is
// fresh. Completed payments transition straight to symptom entry.
func (u *ussdUsecase) handlePaymentVerification(ctx context.Context, sessionID string, subscriber *models.Subscriber, pending *models.Session, lang string) (*contracts.USSDReply, error) {
	tx, err := u.transactionRepo.FindByID(ctx, pending.Payload.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		if delErr := u.sessionService.Delete(ctx, subscriber.Phone); delErr != nil {
			u.Log.Warn("ussdUsecase.handlePaymentVerification pending cleanup failed", zap.Error(delErr))
		}
		return endReply(u.texts.paymentFailed(lang)), nil
	}

	switch tx.Status {
	case models.TransactionCompleted:
		session := &models.Session{
			SessionID:     sessionID,
			Channel:       constvars.ChannelUSSD,
			Phone:         subscriber.Phone,
			SubscriberID:  subscriber.ID,
			Authenticated: true,
			Step:          models.StepSymptoms,
			Payload:       pending.Payload,
			CreatedAt:     time.Now(),
		}
		session.Payload.PaymentPending = false
		session.Payload.PaymentConfirmed = true
		if err := u.sessionService.Save(ctx, session); err != nil {
			return nil, err
		}
		if err := u.sessionService.Delete(ctx, subscriber.Phone); err != nil {
			return nil, err
		}
		return conReply(u.texts.paymentCompletedAskSymptoms(lang)), nil

	case models.TransactionPending:
		return endReply(u.texts.paymentStillPending(lang, pending.Payload.CaseID)), nil

	default:
		if err := u.sessionService.Delete(ctx, subscriber.Phone); err != nil {
			return nil, err
		}
		return endReply(u.texts.paymentFailed(lang)), nil
	}
}

// handleConfirmedPaymentSymptoms fills in the real symptoms on the provisional
// case created before the mobile push, then closes out the consultation.
func (u *ussdUsecase) handleConfirmedPaymentSymptoms(ctx context.Context, subscriber *models.Subscriber, session *models.Session, tokens []string, lang string) (*contracts.USSDReply, error) {
	symptoms := strings.TrimSpace(strings.Join(tokens, " "))
	if len(symptoms) < constvars.MinSymptomLength {
		return endReply(u.texts.symptomsTooShort(lang)), nil
	}

	caseID := session.Payload.CaseID
	if err := u.caseRepo.UpdateSymptoms(ctx, caseID, symptoms); err != nil {
		return nil, err
	}

	doctorName := ""
	if session.Payload.SelectedDoctor != nil {
		doctorName = session.Payload.SelectedDoctor.Name
	}

	if err := u.closePaidConsultation(ctx, subscriber, session, lang, caseID); err != nil {
		return nil, err
	}
	return endReply(u.texts.paidCompleted(lang, doctorName, session.Payload.FinalAmount, caseID)), nil
}
