package ussd

import (
	"context"
	"fmt"
	"smarthealth-service/internal/app/config"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/exceptions"
	"smarthealth-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type fakeSessionService struct {
	sessions map[string]models.Session
}

func newFakeSessionService() *fakeSessionService {
	return &fakeSessionService{sessions: make(map[string]models.Session)}
}

func (f *fakeSessionService) Get(_ context.Context, sessionID string) (*models.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := session
	return &copied, nil
}

func (f *fakeSessionService) Save(_ context.Context, session *models.Session) error {
	f.sessions[session.SessionID] = *session
	return nil
}

func (f *fakeSessionService) Delete(_ context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

type fakeLocker struct {
	denyLock bool
	locks    int
	unlocks  int
}

func (f *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (bool, string, error) {
	if f.denyLock {
		return false, "", nil
	}
	f.locks++
	return true, "lock-value", nil
}

func (f *fakeLocker) Unlock(_ context.Context, _, _ string) error {
	f.unlocks++
	return nil
}

type fakeLimiter struct {
	deny     bool
	failures int
	resets   int
}

func (f *fakeLimiter) Allow(_ context.Context, _, _ string) (bool, error) {
	return !f.deny, nil
}

func (f *fakeLimiter) RecordFailure(_ context.Context, _, _ string) error {
	f.failures++
	return nil
}

func (f *fakeLimiter) Reset(_ context.Context, _, _ string) error {
	f.resets++
	return nil
}

type fakeSubscriberRepo struct {
	byPhone map[string]*models.Subscriber
	nextID  int
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{byPhone: make(map[string]*models.Subscriber)}
}

func (f *fakeSubscriberRepo) FindByPhone(_ context.Context, phone string) (*models.Subscriber, error) {
	return f.byPhone[phone], nil
}

func (f *fakeSubscriberRepo) FindByID(_ context.Context, id string) (*models.Subscriber, error) {
	for _, subscriber := range f.byPhone {
		if subscriber.ID == id {
			return subscriber, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriberRepo) Create(_ context.Context, subscriber *models.Subscriber) (string, error) {
	if _, exists := f.byPhone[subscriber.Phone]; exists {
		return "", exceptions.ErrSubscriberAlreadyExists(nil)
	}
	f.nextID++
	subscriber.ID = fmt.Sprintf("sub-%d", f.nextID)
	f.byPhone[subscriber.Phone] = subscriber
	return subscriber.ID, nil
}

func (f *fakeSubscriberRepo) UpdateLanguage(_ context.Context, id, language string) error {
	for _, subscriber := range f.byPhone {
		if subscriber.ID == id {
			subscriber.Language = language
		}
	}
	return nil
}

func (f *fakeSubscriberRepo) IncrementConsultationCount(_ context.Context, id string) error {
	for _, subscriber := range f.byPhone {
		if subscriber.ID == id {
			subscriber.ConsultationCount++
		}
	}
	return nil
}

func (f *fakeSubscriberRepo) AddBalance(_ context.Context, id string, amount float64) error {
	for _, subscriber := range f.byPhone {
		if subscriber.ID == id {
			subscriber.Balance += amount
		}
	}
	return nil
}

func (f *fakeSubscriberRepo) DebitBalanceIfSufficient(_ context.Context, id string, amount float64) (bool, error) {
	for _, subscriber := range f.byPhone {
		if subscriber.ID == id {
			if subscriber.Balance < amount {
				return false, nil
			}
			subscriber.Balance -= amount
			return true, nil
		}
	}
	return false, nil
}

type fakeDoctorRepo struct {
	doctors []models.Doctor
}

func (f *fakeDoctorRepo) FindByID(_ context.Context, id string) (*models.Doctor, error) {
	for i := range f.doctors {
		if f.doctors[i].ID == id {
			return &f.doctors[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepo) GetAvailable(_ context.Context) ([]models.Doctor, error) {
	return f.doctors, nil
}

func (f *fakeDoctorRepo) GetOnline(_ context.Context) ([]models.Doctor, error) {
	return f.doctors, nil
}

type fakeCaseRepo struct {
	cases  map[string]*models.Case
	nextID int
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[string]*models.Case)}
}

func (f *fakeCaseRepo) Create(_ context.Context, c *models.Case) (string, error) {
	f.nextID++
	c.ID = fmt.Sprintf("case-%d", f.nextID)
	c.CreatedAt = time.Now()
	f.cases[c.ID] = c
	return c.ID, nil
}

func (f *fakeCaseRepo) FindByID(_ context.Context, id string) (*models.Case, error) {
	return f.cases[id], nil
}

func (f *fakeCaseRepo) AssignToDoctor(_ context.Context, caseID, doctorID string) error {
	if c, ok := f.cases[caseID]; ok {
		c.DoctorID = doctorID
		c.Status = models.CaseAssigned
	}
	return nil
}

func (f *fakeCaseRepo) UpdateStatus(_ context.Context, caseID string, status models.CaseStatus) error {
	if c, ok := f.cases[caseID]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeCaseRepo) UpdateSymptoms(_ context.Context, caseID, symptoms string) error {
	if c, ok := f.cases[caseID]; ok {
		c.Symptoms = symptoms
	}
	return nil
}

func (f *fakeCaseRepo) SetRecording(_ context.Context, caseID, recordingURL string) error {
	if c, ok := f.cases[caseID]; ok {
		c.RecordingURL = recordingURL
	}
	return nil
}

func (f *fakeCaseRepo) SetRecordingObjectKey(_ context.Context, caseID, objectKey string) error {
	if c, ok := f.cases[caseID]; ok {
		c.RecordingObjectKey = objectKey
	}
	return nil
}

func (f *fakeCaseRepo) GetBySubscriber(_ context.Context, subscriberID string, limit int) ([]models.Case, error) {
	var out []models.Case
	for _, c := range f.cases {
		if c.SubscriberID == subscriberID {
			out = append(out, *c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) CountActiveByDoctor(_ context.Context, doctorID string) (int, error) {
	count := 0
	for _, c := range f.cases {
		if c.DoctorID == doctorID && (c.Status == models.CaseAssigned || c.Status == models.CaseInProgress) {
			count++
		}
	}
	return count, nil
}

func (f *fakeCaseRepo) CancelStaleProvisional(_ context.Context, olderThan time.Time) (int, error) {
	cancelled := 0
	for _, c := range f.cases {
		if c.Symptoms != models.ProvisionalSymptoms || !c.CreatedAt.Before(olderThan) {
			continue
		}
		if c.Status == models.CasePending || c.Status == models.CaseAssigned {
			c.Status = models.CaseCancelled
			cancelled++
		}
	}
	return cancelled, nil
}

type fakeOfferRepo struct {
	offers map[string]*models.Offer
	nextID int
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[string]*models.Offer)}
}

func (f *fakeOfferRepo) Create(_ context.Context, offer *models.Offer) (string, error) {
	f.nextID++
	offer.ID = fmt.Sprintf("offer-%d", f.nextID)
	f.offers[offer.ID] = offer
	return offer.ID, nil
}

func (f *fakeOfferRepo) GetActiveBySubscriber(_ context.Context, subscriberID string) ([]models.Offer, error) {
	var out []models.Offer
	now := time.Now()
	for _, offer := range f.offers {
		if offer.SubscriberID == subscriberID && !offer.Applied && offer.ExpiryDate.After(now) {
			out = append(out, *offer)
		}
	}
	return out, nil
}

func (f *fakeOfferRepo) ApplyIfUnapplied(_ context.Context, offerID string) (bool, error) {
	offer, ok := f.offers[offerID]
	if !ok || offer.Applied {
		return false, nil
	}
	offer.Applied = true
	return true, nil
}

func (f *fakeOfferRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	deleted := 0
	for id, offer := range f.offers {
		if !offer.Applied && offer.ExpiryDate.Before(now) {
			delete(f.offers, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeOfferService struct {
	best        *models.Offer
	evaluations []int
}

func (f *fakeOfferService) EvaluateThresholds(_ context.Context, _ string, consultationCount int) ([]models.Offer, error) {
	f.evaluations = append(f.evaluations, consultationCount)
	return nil, nil
}

func (f *fakeOfferService) GetBestOffer(_ context.Context, _ string) (*models.Offer, error) {
	return f.best, nil
}

type fakeTransactionRepo struct {
	transactions map[string]*models.Transaction
	nextID       int
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: make(map[string]*models.Transaction)}
}

func (f *fakeTransactionRepo) Create(_ context.Context, tx *models.Transaction) (string, error) {
	f.nextID++
	tx.ID = fmt.Sprintf("tx-%d", f.nextID)
	f.transactions[tx.ID] = tx
	return tx.ID, nil
}

func (f *fakeTransactionRepo) FindByID(_ context.Context, id string) (*models.Transaction, error) {
	return f.transactions[id], nil
}

func (f *fakeTransactionRepo) UpdateStatus(_ context.Context, id string, status models.TransactionStatus) error {
	if tx, ok := f.transactions[id]; ok {
		tx.Status = status
	}
	return nil
}

func (f *fakeTransactionRepo) UpdateRef(_ context.Context, id, ref string) error {
	if tx, ok := f.transactions[id]; ok {
		tx.TransactionRef = ref
	}
	return nil
}

type fakePaymentGateway struct {
	initiations []contracts.InitiatePaymentInput
	failNext    bool
}

func (f *fakePaymentGateway) InitiatePayment(_ context.Context, in *contracts.InitiatePaymentInput) (*contracts.InitiatePaymentOutput, error) {
	if f.failNext {
		return nil, fmt.Errorf("gateway unavailable")
	}
	f.initiations = append(f.initiations, *in)
	return &contracts.InitiatePaymentOutput{PaymentID: "pay-1", Status: "pending"}, nil
}

func (f *fakePaymentGateway) VerifySignature(_ map[string]string, _ string) bool {
	return true
}

type fakeSMSService struct {
	messages []string
	phones   []string
}

func (f *fakeSMSService) Send(_ context.Context, phone, message string) error {
	f.phones = append(f.phones, phone)
	f.messages = append(f.messages, message)
	return nil
}

type testEnv struct {
	usecase      *ussdUsecase
	sessions     *fakeSessionService
	locker       *fakeLocker
	limiter      *fakeLimiter
	subscribers  *fakeSubscriberRepo
	doctors      *fakeDoctorRepo
	cases        *fakeCaseRepo
	offers       *fakeOfferRepo
	offerService *fakeOfferService
	transactions *fakeTransactionRepo
	gateway      *fakePaymentGateway
	sms          *fakeSMSService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		sessions:     newFakeSessionService(),
		locker:       &fakeLocker{},
		limiter:      &fakeLimiter{},
		subscribers:  newFakeSubscriberRepo(),
		doctors:      &fakeDoctorRepo{},
		cases:        newFakeCaseRepo(),
		offers:       newFakeOfferRepo(),
		offerService: &fakeOfferService{},
		transactions: newFakeTransactionRepo(),
		gateway:      &fakePaymentGateway{},
		sms:          &fakeSMSService{},
	}
	cfg := &config.InternalConfig{}
	cfg.App.USSDShortCode = "*384*34153#"
	cfg.App.DefaultLanguage = "en"
	cfg.App.ConsultationFee = 5000
	cfg.App.TrialFreeConsultations = 3
	cfg.App.SessionLockTTLInSecond = 15

	env.usecase = &ussdUsecase{
		sessionService:  env.sessions,
		lockerService:   env.locker,
		attemptLimiter:  env.limiter,
		subscriberRepo:  env.subscribers,
		doctorRepo:      env.doctors,
		caseRepo:        env.cases,
		offerRepo:       env.offers,
		offerService:    env.offerService,
		transactionRepo: env.transactions,
		paymentGateway:  env.gateway,
		smsService:      env.sms,
		cfg:             cfg,
		texts:           &screenTexts{shortCode: cfg.App.USSDShortCode},
		Log:             zap.NewNop(),
	}
	return env
}

func (env *testEnv) addSubscriber(phone, name, pin string, balance float64) *models.Subscriber {
	hash, err := utils.HashPin(pin)
	if err != nil {
		panic(err)
	}
	now := time.Now()
	subscriber := &models.Subscriber{
		Phone:      phone,
		Name:       name,
		PinHash:    hash,
		Language:   "en",
		Balance:    balance,
		TrialStart: now,
		TrialEnd:   now.AddDate(0, 1, 0),
	}
	if _, err := env.subscribers.Create(context.Background(), subscriber); err != nil {
		panic(err)
	}
	return subscriber
}
