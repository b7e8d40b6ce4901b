package ussd

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/utils"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// handlePaidFlow walks the paid consultation machine. Position is the number
// of accumulated inputs past the main-menu selector: doctor list, doctor
// choice, payment method, symptoms.
func (u *ussdUsecase) handlePaidFlow(ctx context.Context, subscriber *models.Subscriber, session *models.Session, inputs []string, lang string) (*contracts.USSDReply, error) {
	switch {
	case len(inputs) == 0:
		return u.renderDoctorMenu(ctx, session, lang)
	case len(inputs) == 1:
		return u.handleDoctorChoice(ctx, subscriber, session, inputs[0], lang)
	case len(inputs) == 2:
		return u.handlePaymentMethod(ctx, subscriber, session, inputs[1], lang)
	default:
		return u.handlePaidSymptoms(ctx, subscriber, session, inputs[2:], lang)
	}
}

// renderDoctorMenu pins the rendered option list in the session so later
// numeric selections resolve against what the caller actually saw.
func (u *ussdUsecase) renderDoctorMenu(ctx context.Context, session *models.Session, lang string) (*contracts.USSDReply, error) {
	doctors, err := u.doctorRepo.GetAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(doctors) == 0 {
		return endReply(u.texts.noDoctorsAvailable(lang)), nil
	}

	options := make([]models.DoctorOption, 0, len(doctors))
	for _, doctor := range doctors {
		options = append(options, models.DoctorOption{
			ID:             doctor.ID,
			Name:           doctor.Name,
			Specialization: doctor.Specialization,
			Fee:            doctor.Fee,
			Phone:          doctor.Phone,
		})
	}

	session.Step = models.StepDoctorList
	session.Payload.Doctors = options
	session.Payload.SelectedDoctor = nil
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}
	return conReply(u.texts.doctorMenu(lang, options)), nil
}

func (u *ussdUsecase) handleDoctorChoice(ctx context.Context, subscriber *models.Subscriber, session *models.Session, choice, lang string) (*contracts.USSDReply, error) {
	if len(session.Payload.Doctors) == 0 {
		// Session expired between screens; show the list again.
		return u.renderDoctorMenu(ctx, session, lang)
	}

	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(session.Payload.Doctors) {
		return endReply(u.texts.invalidOption(lang)), nil
	}
	selected := session.Payload.Doctors[idx-1]

	discount := 0.0
	finalAmount := selected.Fee
	offer, err := u.offerService.GetBestOffer(ctx, subscriber.ID)
	if err != nil {
		return nil, err
	}
	if offer != nil {
		switch offer.Type {
		case models.OfferFreeConsultation:
			discount = selected.Fee
			finalAmount = 0
		case models.OfferDiscount:
			discount = selected.Fee * float64(offer.DiscountPercentage) / 100
			finalAmount = selected.Fee - discount
		}
		session.Payload.OfferID = offer.ID
		session.Payload.OfferType = offer.Type
	}

	session.Step = models.StepPaymentOptions
	session.Payload.SelectedDoctor = &selected
	session.Payload.Discount = discount
	session.Payload.FinalAmount = finalAmount
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	if finalAmount == 0 {
		return conReply(u.texts.freeOfferScreen(lang, &selected, discount)), nil
	}
	return conReply(u.texts.paymentMenu(lang, &selected, discount, finalAmount, subscriber.Balance)), nil
}

func (u *ussdUsecase) handlePaymentMethod(ctx context.Context, subscriber *models.Subscriber, session *models.Session, method, lang string) (*contracts.USSDReply, error) {
	doctor := session.Payload.SelectedDoctor
	if doctor == nil {
		return endReply(u.texts.invalidOption(lang)), nil
	}

	if session.Payload.FinalAmount == 0 {
		switch method {
		case "1":
			return u.confirmFreeOffer(ctx, session, lang)
		case "2":
			return u.renderDoctorMenu(ctx, session, lang)
		default:
			return endReply(u.texts.invalidOption(lang)), nil
		}
	}

	switch method {
	case constvars.PaymentOptionMobile:
		return u.startMobilePayment(ctx, subscriber, session, lang)
	case constvars.PaymentOptionBalance:
		return u.payFromBalance(ctx, subscriber, session, lang)
	case constvars.PaymentOptionBack:
		return u.renderDoctorMenu(ctx, session, lang)
	default:
		return endReply(u.texts.invalidOption(lang)), nil
	}
}

func (u *ussdUsecase) confirmFreeOffer(ctx context.Context, session *models.Session, lang string) (*contracts.USSDReply, error) {
	if session.Payload.OfferID != "" {
		applied, err := u.offerRepo.ApplyIfUnapplied(ctx, session.Payload.OfferID)
		if err != nil {
			return nil, err
		}
		if !applied {
			// Consumed elsewhere in the meantime; price no longer holds.
			return endReply(u.texts.invalidOption(lang)), nil
		}
	}

	session.Step = models.StepSymptoms
	session.Payload.PaymentMethod = constvars.PaymentMethodFreeOffer
	session.Payload.PaymentConfirmed = true
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}
	return conReply(u.texts.askSymptomsShort(lang)), nil
}

// startMobilePayment creates a provisional case and a pending transaction,
// pushes the gateway request, and parks a phone-keyed pending record so the
// redial after paying resumes at symptom entry.
func (u *ussdUsecase) startMobilePayment(ctx context.Context, subscriber *models.Subscriber, session *models.Session, lang string) (*contracts.USSDReply, error) {
	doctor := session.Payload.SelectedDoctor

	provisional := &models.Case{
		SubscriberID:     subscriber.ID,
		Symptoms:         models.ProvisionalSymptoms,
		ConsultationType: models.ConsultationPaid,
		Priority:         casePriority(session.Payload.OfferType),
		Status:           models.CasePending,
	}
	caseID, err := u.caseRepo.Create(ctx, provisional)
	if err != nil {
		return nil, err
	}
	if err := u.caseRepo.AssignToDoctor(ctx, caseID, doctor.ID); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		SubscriberID:   subscriber.ID,
		CaseID:         caseID,
		Amount:         session.Payload.FinalAmount,
		PaymentMethod:  constvars.PaymentMethodMobile,
		TransactionRef: utils.GenerateTransactionRef(),
		Status:         models.TransactionPending,
	}
	txID, err := u.transactionRepo.Create(ctx, tx)
	if err != nil {
		return nil, err
	}

	_, payErr := u.paymentGateway.InitiatePayment(ctx, &contracts.InitiatePaymentInput{
		TransactionID: txID,
		Phone:         subscriber.Phone,
		Amount:        session.Payload.FinalAmount,
		Description:   "Consultation with Dr. " + doctor.Name,
	})
	if payErr != nil {
		u.Log.Error("ussdUsecase.startMobilePayment gateway initiation failed",
			zap.String(constvars.LoggingTransactionIDKey, txID),
			zap.Error(payErr),
		)
		if stErr := u.transactionRepo.UpdateStatus(ctx, txID, models.TransactionFailed); stErr != nil {
			u.Log.Error("ussdUsecase.startMobilePayment transaction rollback failed", zap.Error(stErr))
		}
		if csErr := u.caseRepo.UpdateStatus(ctx, caseID, models.CaseCancelled); csErr != nil {
			u.Log.Error("ussdUsecase.startMobilePayment case rollback failed", zap.Error(csErr))
		}
		return endReply(u.texts.paymentInitiationFailed(lang)), nil
	}

	if session.Payload.OfferID != "" {
		if _, offErr := u.offerRepo.ApplyIfUnapplied(ctx, session.Payload.OfferID); offErr != nil {
			u.Log.Warn("ussdUsecase.startMobilePayment offer apply failed",
				zap.String(constvars.LoggingOfferIDKey, session.Payload.OfferID),
				zap.Error(offErr),
			)
		}
	}

	session.Step = models.StepPaymentPending
	session.Payload.PaymentPending = true
	session.Payload.PaymentMethod = constvars.PaymentMethodMobile
	session.Payload.TransactionID = txID
	session.Payload.CaseID = caseID
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	// The redial arrives with a fresh gateway session id, so the pending
	// marker is parked under the phone number as well.
	pending := *session
	pending.SessionID = subscriber.Phone
	if err := u.sessionService.Save(ctx, &pending); err != nil {
		return nil, err
	}

	return endReply(u.texts.mobilePaymentSent(lang, session.Payload.FinalAmount, subscriber.Phone, caseID)), nil
}

func (u *ussdUsecase) payFromBalance(ctx context.Context, subscriber *models.Subscriber, session *models.Session, lang string) (*contracts.USSDReply, error) {
	amount := session.Payload.FinalAmount
	debited, err := u.subscriberRepo.DebitBalanceIfSufficient(ctx, subscriber.ID, amount)
	if err != nil {
		return nil, err
	}
	if !debited {
		return endReply(u.texts.insufficientBalance(lang, subscriber.Balance, amount)), nil
	}

	tx := &models.Transaction{
		SubscriberID:   subscriber.ID,
		Amount:         amount,
		PaymentMethod:  constvars.PaymentMethodBalance,
		TransactionRef: utils.GenerateTransactionRef(),
		Status:         models.TransactionCompleted,
	}
	txID, err := u.transactionRepo.Create(ctx, tx)
	if err != nil {
		return nil, err
	}

	if session.Payload.OfferID != "" {
		if _, offErr := u.offerRepo.ApplyIfUnapplied(ctx, session.Payload.OfferID); offErr != nil {
			u.Log.Warn("ussdUsecase.payFromBalance offer apply failed",
				zap.String(constvars.LoggingOfferIDKey, session.Payload.OfferID),
				zap.Error(offErr),
			)
		}
	}

	session.Step = models.StepSymptoms
	session.Payload.PaymentConfirmed = true
	session.Payload.PaymentMethod = constvars.PaymentMethodBalance
	session.Payload.TransactionID = txID
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}
	return conReply(u.texts.balancePaymentSuccess(lang, amount, subscriber.Balance-amount)), nil
}

// handlePaidSymptoms closes out a consultation paid in-session (balance or
// free offer). The mobile branch finishes through the redial path instead.
func (u *ussdUsecase) handlePaidSymptoms(ctx context.Context, subscriber *models.Subscriber, session *models.Session, inputs []string, lang string) (*contracts.USSDReply, error) {
	if !session.Payload.PaymentConfirmed {
		return endReply(u.texts.paymentNotConfirmed(lang)), nil
	}
	doctor := session.Payload.SelectedDoctor
	if doctor == nil {
		return endReply(u.texts.invalidOption(lang)), nil
	}

	symptoms := strings.TrimSpace(strings.Join(inputs, " "))
	if len(symptoms) < constvars.MinSymptomLength {
		return endReply(u.texts.symptomsTooShort(lang)), nil
	}

	consultationType := models.ConsultationPaid
	if session.Payload.OfferType == models.OfferFreeConsultation {
		consultationType = models.ConsultationFreeOffer
	}
	paidCase := &models.Case{
		SubscriberID:     subscriber.ID,
		Symptoms:         symptoms,
		ConsultationType: consultationType,
		Priority:         casePriority(session.Payload.OfferType),
		Status:           models.CasePending,
	}
	caseID, err := u.caseRepo.Create(ctx, paidCase)
	if err != nil {
		return nil, err
	}
	if err := u.caseRepo.AssignToDoctor(ctx, caseID, doctor.ID); err != nil {
		return nil, err
	}

	if err := u.closePaidConsultation(ctx, subscriber, session, lang, caseID); err != nil {
		return nil, err
	}
	return endReply(u.texts.paidCompleted(lang, doctor.Name, session.Payload.FinalAmount, caseID)), nil
}

// closePaidConsultation is the shared paid-flow epilogue: counter, reward
// evaluation, confirmation SMS, and clearing the in-flight payment payload.
func (u *ussdUsecase) closePaidConsultation(ctx context.Context, subscriber *models.Subscriber, session *models.Session, lang, caseID string) error {
	if err := u.subscriberRepo.IncrementConsultationCount(ctx, subscriber.ID); err != nil {
		return err
	}
	if _, err := u.offerService.EvaluateThresholds(ctx, subscriber.ID, subscriber.ConsultationCount+1); err != nil {
		u.Log.Warn("ussdUsecase.closePaidConsultation offer evaluation failed",
			zap.String(constvars.LoggingSubscriberIDKey, subscriber.ID),
			zap.Error(err),
		)
	}

	doctorName := ""
	if session.Payload.SelectedDoctor != nil {
		doctorName = session.Payload.SelectedDoctor.Name
	}
	if err := u.smsService.Send(ctx, subscriber.Phone, u.texts.paidCompletedSMS(lang, doctorName, session.Payload.FinalAmount, caseID)); err != nil {
		u.Log.Warn("ussdUsecase.closePaidConsultation confirmation sms failed",
			zap.String(constvars.LoggingPhoneKey, subscriber.Phone),
			zap.Error(err),
		)
	}

	session.Step = models.StepAuthenticated
	session.Payload.PaymentConfirmed = false
	session.Payload.PaymentPending = false
	session.Payload.CaseID = ""
	session.UpdatedAt = time.Now()
	return u.sessionService.Save(ctx, session)
}

func casePriority(offerType models.OfferType) int {
	if offerType == models.OfferPriorityQueue {
		return 1
	}
	return 0
}
