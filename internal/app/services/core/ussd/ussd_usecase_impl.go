package ussd

import (
	"context"
	"regexp"
	"smarthealth-service/internal/app/config"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"smarthealth-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

var pinPattern = regexp.MustCompile(constvars.RegexFourDigitPin)

var (
	ussdUsecaseInstance contracts.USSDUsecase
	onceUSSDUsecase     sync.Once
)

type ussdUsecase struct {
	sessionService  contracts.SessionService
	lockerService   contracts.LockerService
	attemptLimiter  contracts.AttemptLimiter
	subscriberRepo  contracts.SubscriberRepository
	doctorRepo      contracts.DoctorRepository
	caseRepo        contracts.CaseRepository
	offerRepo       contracts.OfferRepository
	offerService    contracts.OfferService
	transactionRepo contracts.TransactionRepository
	paymentGateway  contracts.PaymentGatewayService
	smsService      contracts.SMSService
	cfg             *config.InternalConfig
	texts           *screenTexts
	Log             *zap.Logger
}

func NewUSSDUsecase(
	sessionService contracts.SessionService,
	lockerService contracts.LockerService,
	attemptLimiter contracts.AttemptLimiter,
	subscriberRepo contracts.SubscriberRepository,
	doctorRepo contracts.DoctorRepository,
	caseRepo contracts.CaseRepository,
	offerRepo contracts.OfferRepository,
	offerService contracts.OfferService,
	transactionRepo contracts.TransactionRepository,
	paymentGateway contracts.PaymentGatewayService,
	smsService contracts.SMSService,
	cfg *config.InternalConfig,
	logger *zap.Logger,
) contracts.USSDUsecase {
	onceUSSDUsecase.Do(func() {
		instance := &ussdUsecase{
			sessionService:  sessionService,
			lockerService:   lockerService,
			attemptLimiter:  attemptLimiter,
			subscriberRepo:  subscriberRepo,
			doctorRepo:      doctorRepo,
			caseRepo:        caseRepo,
			offerRepo:       offerRepo,
			offerService:    offerService,
			transactionRepo: transactionRepo,
			paymentGateway:  paymentGateway,
			smsService:      smsService,
			cfg:             cfg,
			texts:           &screenTexts{shortCode: cfg.App.USSDShortCode},
			Log:             logger,
		}
		ussdUsecaseInstance = instance
	})
	return ussdUsecaseInstance
}

func conReply(text string) *contracts.USSDReply {
	return &contracts.USSDReply{Text: text, Continue: true}
}

func endReply(text string) *contracts.USSDReply {
	return &contracts.USSDReply{Text: text, Continue: false}
}

// Handle serializes webhook deliveries per session and routes the token
// sequence to the flow that owns the session's current position.
func (u *ussdUsecase) Handle(ctx context.Context, req *contracts.USSDRequest) (*contracts.USSDReply, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	phone := utils.NormalizePhoneDigits(req.PhoneNumber)
	tokens := Tokenize(req.Text)

	u.Log.Info("ussdUsecase.Handle called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, req.SessionID),
		zap.String(constvars.LoggingPhoneKey, phone),
		zap.Int(constvars.LoggingTokenCountKey, len(tokens)),
	)

	lockKey := constvars.RedisKeySessionLock + req.SessionID
	lockTTL := time.Duration(u.cfg.App.SessionLockTTLInSecond) * time.Second
	acquired, lockValue, err := u.lockerService.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrSessionLockNotAcquired(nil)
	}
	defer func() {
		if unlockErr := u.lockerService.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			u.Log.Error("ussdUsecase.Handle unlock failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(unlockErr),
			)
		}
	}()

	subscriber, err := u.subscriberRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if subscriber == nil {
		return u.handleRegistration(ctx, req.SessionID, phone, tokens)
	}

	lang := subscriber.Language
	if lang == "" {
		lang = u.cfg.App.DefaultLanguage
	}

	// A mobile payment parks a phone-keyed pending record so the redial,
	// which arrives with a fresh gateway session id, resumes here.
	pending, err := u.sessionService.Get(ctx, phone)
	if err != nil {
		return nil, err
	}
	if pending != nil && pending.Payload.PaymentPending {
		return u.handlePaymentVerification(ctx, req.SessionID, subscriber, pending, lang)
	}

	session, err := u.sessionService.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if session == nil || !session.Authenticated {
		return u.handleLogin(ctx, req.SessionID, subscriber, tokens, lang)
	}

	if session.Step == models.StepSymptoms && session.Payload.PaymentConfirmed && session.Payload.CaseID != "" {
		return u.handleConfirmedPaymentSymptoms(ctx, subscriber, session, tokens, lang)
	}

	// A gateway may resend the PIN ahead of the menu tokens; skip it once
	// the session is already authenticated.
	menuInputs := tokens
	if len(tokens) > 1 && pinPattern.MatchString(tokens[0]) {
		menuInputs = tokens[1:]
	}

	if len(menuInputs) == 0 {
		return conReply(u.texts.mainMenu(lang, subscriber.Name, subscriber.TrialRemaining(time.Now(), u.cfg.App.TrialFreeConsultations))), nil
	}

	session.Step = models.StepMenuNavigation
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	return u.routeMenu(ctx, subscriber, session, menuInputs, lang)
}

func (u *ussdUsecase) routeMenu(ctx context.Context, subscriber *models.Subscriber, session *models.Session, menuInputs []string, lang string) (*contracts.USSDReply, error) {
	switch menuInputs[0] {
	case constvars.MenuOptionTrial:
		return u.handleTrialFlow(ctx, subscriber, session, menuInputs[1:], lang)
	case constvars.MenuOptionPaid:
		return u.handlePaidFlow(ctx, subscriber, session, menuInputs[1:], lang)
	case constvars.MenuOptionHistory:
		return u.handleHistory(ctx, subscriber, lang)
	case constvars.MenuOptionLanguage:
		return u.handleLanguageChange(ctx, subscriber, menuInputs[1:])
	case constvars.MenuOptionLogout:
		return u.handleLogout(ctx, session.SessionID, lang)
	default:
		return endReply(u.texts.invalidOption(lang)), nil
	}
}
