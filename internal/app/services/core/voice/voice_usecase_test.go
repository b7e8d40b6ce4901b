package voice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"smarthealth-service/internal/app/config"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessionService struct {
	sessions map[string]models.Session
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

type fakeSubscriberRepo struct {
	byID    map[string]*models.Subscriber
	byPhone map[string]*models.Subscriber
	nextID  int
}

func (f *fakeSubscriberRepo) FindByPhone(_ context.Context, phone string) (*models.Subscriber, error) {
	return f.byPhone[phone], nil
}

func (f *fakeSubscriberRepo) FindByID(_ context.Context, id string) (*models.Subscriber, error) {
	return f.byID[id], nil
}

func (f *fakeSubscriberRepo) Create(_ context.Context, subscriber *models.Subscriber) (string, error) {
	f.nextID++
	subscriber.ID = fmt.Sprintf("sub-%d", f.nextID)
	f.byID[subscriber.ID] = subscriber
	f.byPhone[subscriber.Phone] = subscriber
	return subscriber.ID, nil
}

func (f *fakeSubscriberRepo) UpdateLanguage(_ context.Context, _, _ string) error { return nil }

func (f *fakeSubscriberRepo) IncrementConsultationCount(_ context.Context, id string) error {
	if subscriber, ok := f.byID[id]; ok {
		subscriber.ConsultationCount++
	}
	return nil
}

func (f *fakeSubscriberRepo) AddBalance(_ context.Context, _ string, _ float64) error { return nil }

func (f *fakeSubscriberRepo) DebitBalanceIfSufficient(_ context.Context, _ string, _ float64) (bool, error) {
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

func (f *fakeCaseRepo) Create(_ context.Context, c *models.Case) (string, error) {
	f.nextID++
	c.ID = fmt.Sprintf("case-%d", f.nextID)
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

func (f *fakeCaseRepo) CountActiveByDoctor(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (f *fakeCaseRepo) CancelStaleProvisional(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

// fakeCallQueueRepo mirrors the conditional pending transitions of the real
// store.
type fakeCallQueueRepo struct {
	entries map[string]*models.CallQueueEntry
	nextID  int
}

func (f *fakeCallQueueRepo) Create(_ context.Context, entry *models.CallQueueEntry) (string, error) {
	f.nextID++
	entry.ID = fmt.Sprintf("queue-%d", f.nextID)
	f.entries[entry.ID] = entry
	return entry.ID, nil
}

func (f *fakeCallQueueRepo) FindByID(_ context.Context, id string) (*models.CallQueueEntry, error) {
	return f.entries[id], nil
}

func (f *fakeCallQueueRepo) FindByCallSessionID(_ context.Context, callSessionID string) (*models.CallQueueEntry, error) {
	for _, entry := range f.entries {
		if entry.CallSessionID == callSessionID {
			return entry, nil
		}
	}
	return nil, nil
}

func (f *fakeCallQueueRepo) AcceptIfPending(_ context.Context, id, doctorPhone string) (bool, error) {
	entry, ok := f.entries[id]
	if !ok || entry.Status != models.CallQueuePending {
		return false, nil
	}
	now := time.Now()
	entry.Status = models.CallQueueAccepted
	entry.DoctorPhone = doctorPhone
	entry.AcceptedAt = &now
	return true, nil
}

func (f *fakeCallQueueRepo) RejectIfPending(_ context.Context, id, reason string) (bool, error) {
	entry, ok := f.entries[id]
	if !ok || entry.Status != models.CallQueuePending {
		return false, nil
	}
	now := time.Now()
	entry.Status = models.CallQueueRejected
	entry.RejectionReason = reason
	entry.RejectedAt = &now
	return true, nil
}

func (f *fakeCallQueueRepo) Complete(_ context.Context, id string, durationSeconds int) error {
	if entry, ok := f.entries[id]; ok {
		now := time.Now()
		entry.Status = models.CallQueueCompleted
		entry.DurationSeconds = durationSeconds
		entry.CompletedAt = &now
	}
	return nil
}

func (f *fakeCallQueueRepo) TimeoutPending(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type fakeOfferService struct {
	evaluations []int
}

func (f *fakeOfferService) EvaluateThresholds(_ context.Context, _ string, consultationCount int) ([]models.Offer, error) {
	f.evaluations = append(f.evaluations, consultationCount)
	return nil, nil
}

func (f *fakeOfferService) GetBestOffer(_ context.Context, _ string) (*models.Offer, error) {
	return nil, nil
}

type fakeSMSService struct {
	messages []string
}

func (f *fakeSMSService) Send(_ context.Context, _, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

type fakeArchiver struct {
	enqueued map[string]string
}

func (f *fakeArchiver) Enqueue(_ context.Context, caseID, recordingURL string) error {
	f.enqueued[caseID] = recordingURL
	return nil
}

func (f *fakeArchiver) ProcessNext(_ context.Context) (bool, error) {
	return false, nil
}

type fakeDialer struct {
	calls    []string
	failNext bool
}

func (f *fakeDialer) Call(_ context.Context, to string, _ string) error {
	if f.failNext {
		return fmt.Errorf("provider rejected the call")
	}
	f.calls = append(f.calls, to)
	return nil
}

type voiceTestEnv struct {
	usecase      *voiceUsecase
	sessions     *fakeSessionService
	subscribers  *fakeSubscriberRepo
	doctors      *fakeDoctorRepo
	cases        *fakeCaseRepo
	queue        *fakeCallQueueRepo
	offerService *fakeOfferService
	sms          *fakeSMSService
	archiver     *fakeArchiver
	dialer       *fakeDialer
}

func newVoiceTestEnv() *voiceTestEnv {
	env := &voiceTestEnv{
		sessions:     &fakeSessionService{sessions: make(map[string]models.Session)},
		subscribers:  &fakeSubscriberRepo{byID: make(map[string]*models.Subscriber), byPhone: make(map[string]*models.Subscriber)},
		doctors:      &fakeDoctorRepo{},
		cases:        &fakeCaseRepo{cases: make(map[string]*models.Case)},
		queue:        &fakeCallQueueRepo{entries: make(map[string]*models.CallQueueEntry)},
		offerService: &fakeOfferService{},
		sms:          &fakeSMSService{},
		archiver:     &fakeArchiver{enqueued: make(map[string]string)},
		dialer:       &fakeDialer{},
	}
	cfg := &config.InternalConfig{}
	cfg.App.BaseURL = "https://api.smarthealth.example.com"
	cfg.App.EndpointPrefix = "/api/smarthealth/v1"
	cfg.App.DefaultLanguage = "en"
	cfg.App.TrialFreeConsultations = 3
	cfg.JWT.Secret = "test-jwt-secret"
	cfg.JWT.DoctorLegTokenExpInMinute = 10
	cfg.Voice.Provider = "africastalking"
	cfg.Voice.CallerID = "+255800000001"
	cfg.Voice.HoldMusicURL = "https://cdn.smarthealth.example.com/hold.mp3"
	cfg.Voice.RecordMaxInSec = 120

	env.usecase = &voiceUsecase{
		sessionService: env.sessions,
		subscriberRepo: env.subscribers,
		doctorRepo:     env.doctors,
		caseRepo:       env.cases,
		callQueueRepo:  env.queue,
		offerService:   env.offerService,
		smsService:     env.sms,
		archiver:       env.archiver,
		dialer:         env.dialer,
		cfg:            cfg,
		texts:          &callTexts{},
		Log:            zap.NewNop(),
	}
	return env
}

func (env *voiceTestEnv) addSubscriber(phone string) *models.Subscriber {
	now := time.Now()
	subscriber := &models.Subscriber{
		Phone:      phone,
		Name:       "Asha",
		Language:   "en",
		TrialStart: now,
		TrialEnd:   now.AddDate(0, 1, 0),
	}
	if _, err := env.subscribers.Create(context.Background(), subscriber); err != nil {
		panic(err)
	}
	return subscriber
}

func (env *voiceTestEnv) addDoctor(id, name, phone string) {
	env.doctors.doctors = append(env.doctors.doctors, models.Doctor{
		ID:             id,
		Name:           name,
		Phone:          phone,
		Specialization: "General",
		Fee:            5000,
		Status:         models.DoctorOnline,
	})
}

func TestHandleIncomingKnownCaller(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")

	reply, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
	})
	require.NoError(t, err)
	assert.Equal(t, "text/xml", reply.ContentType)
	assert.Contains(t, reply.Body, "<GetDigits")
	assert.Contains(t, reply.Body, "/api/smarthealth/v1/voice/menu")

	session, err := env.sessions.Get(context.Background(), "call-1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, models.StepVoiceIncoming, session.Step)
	assert.True(t, session.Authenticated)
}

func TestHandleIncomingRegistersUnknownCaller(t *testing.T) {
	env := newVoiceTestEnv()

	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000009",
	})
	require.NoError(t, err)

	subscriber := env.subscribers.byPhone["255712000009"]
	require.NotNil(t, subscriber)
	assert.Equal(t, "en", subscriber.Language)
	assert.True(t, subscriber.TrialEnd.After(time.Now()))
}

func TestHandleMenuExpiredSession(t *testing.T) {
	env := newVoiceTestEnv()

	reply, err := env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-unknown",
		PhoneNumber: "+255712000001",
		Digits:      "1",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "<Reject/>")
}

func TestHandleMenuDoctorList(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")

	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
	})
	require.NoError(t, err)

	reply, err := env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
		Digits:      "2",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "/voice/select-doctor")

	session, err := env.sessions.Get(context.Background(), "call-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepVoiceDoctorSelection, session.Step)
	require.Len(t, session.Payload.Doctors, 1)
	assert.Equal(t, "doc-1", session.Payload.Doctors[0].ID)
}

func TestHandleDoctorSelectionRecordsSymptoms(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")

	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001"})
	require.NoError(t, err)
	_, err = env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001", Digits: "2"})
	require.NoError(t, err)

	reply, err := env.usecase.HandleDoctorSelection(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
		Digits:      "1",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "<Record")
	assert.Contains(t, reply.Body, `maxLength="120"`)
	assert.Contains(t, reply.Body, "/voice/process-symptoms")

	session, err := env.sessions.Get(context.Background(), "call-1")
	require.NoError(t, err)
	require.NotNil(t, session.Payload.SelectedDoctor)
	assert.Equal(t, "doc-1", session.Payload.SelectedDoctor.ID)
}

func TestHandleDoctorSelectionInvalidDigitReprompts(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")

	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001"})
	require.NoError(t, err)
	_, err = env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001", Digits: "2"})
	require.NoError(t, err)

	reply, err := env.usecase.HandleDoctorSelection(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
		Digits:      "9",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "/voice/select-doctor")
	assert.NotContains(t, reply.Body, "<Record")
}

func startWaitingCall(t *testing.T, env *voiceTestEnv) {
	t.Helper()
	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001"})
	require.NoError(t, err)
	_, err = env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001", Digits: "2"})
	require.NoError(t, err)
	_, err = env.usecase.HandleDoctorSelection(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001", Digits: "1"})
	require.NoError(t, err)

	reply, err := env.usecase.HandleSymptomsRecorded(context.Background(), &contracts.VoiceRequest{
		SessionID:    "call-1",
		PhoneNumber:  "+255712000001",
		RecordingURL: "https://voice.example.com/recordings/call-1.mp3",
	})
	require.NoError(t, err)
	require.Contains(t, reply.Body, "<Play")
	require.Contains(t, reply.Body, "/voice/wait-for-doctor")
}

func TestHandleSymptomsRecordedQueuesDoctor(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")

	startWaitingCall(t, env)

	entry := env.queue.entries["queue-1"]
	require.NotNil(t, entry)
	assert.Equal(t, models.CallQueuePending, entry.Status)
	assert.Equal(t, "doc-1", entry.DoctorID)
	assert.Equal(t, "call-1", entry.CallSessionID)

	created := env.cases.cases["case-1"]
	require.NotNil(t, created)
	assert.Equal(t, "https://voice.example.com/recordings/call-1.mp3", created.RecordingURL)
	assert.Equal(t, created.RecordingURL, env.archiver.enqueued["case-1"])

	require.Len(t, env.dialer.calls, 1)
	assert.Equal(t, "+255713000001", env.dialer.calls[0])
}

func TestHandleSymptomsRecordedDialFailure(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")
	env.dialer.failNext = true

	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001"})
	require.NoError(t, err)
	_, err = env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001", Digits: "2"})
	require.NoError(t, err)
	_, err = env.usecase.HandleDoctorSelection(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001", Digits: "1"})
	require.NoError(t, err)

	reply, err := env.usecase.HandleSymptomsRecorded(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "<Reject/>")
	assert.Equal(t, models.CallQueueRejected, env.queue.entries["queue-1"].Status)
	assert.Equal(t, "dial_failed", env.queue.entries["queue-1"].RejectionReason)
}

func TestHandleWaitForDoctorLoopsWhilePending(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")
	startWaitingCall(t, env)

	reply, err := env.usecase.HandleWaitForDoctor(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "<Play")
	assert.Contains(t, reply.Body, "/voice/wait-for-doctor")
}

func TestHandleWaitForDoctorBridgesOnAccept(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")
	startWaitingCall(t, env)

	accepted, err := env.queue.AcceptIfPending(context.Background(), "queue-1", "+255713000001")
	require.NoError(t, err)
	require.True(t, accepted)

	reply, err := env.usecase.HandleWaitForDoctor(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, `phoneNumbers="+255713000001"`)
	assert.Contains(t, reply.Body, `callerId="+255800000001"`)
	assert.Equal(t, models.CaseInProgress, env.cases.cases["case-1"].Status)
}

func TestHandleWaitForDoctorRejectedNotifiesCaller(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")
	startWaitingCall(t, env)

	_, err := env.queue.RejectIfPending(context.Background(), "queue-1", "declined")
	require.NoError(t, err)

	reply, err := env.usecase.HandleWaitForDoctor(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "<Reject/>")
	assert.Len(t, env.sms.messages, 1)
}

func TestDoctorLegAcceptFlow(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")
	startWaitingCall(t, env)

	token, err := utils.GenerateDoctorLegToken("queue-1", "test-jwt-secret", 10*time.Minute)
	require.NoError(t, err)

	reply, err := env.usecase.HandleDoctorCall(context.Background(), &contracts.DoctorCallRequest{Token: token})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "/voice/doctor-response?token=")

	reply, err = env.usecase.HandleDoctorResponse(context.Background(), &contracts.DoctorCallRequest{
		Token:  token,
		Digits: "1",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "<Say>")

	entry := env.queue.entries["queue-1"]
	assert.Equal(t, models.CallQueueAccepted, entry.Status)
	assert.Equal(t, "+255713000001", entry.DoctorPhone)

	// A second keypress after the decision cannot change the entry.
	reply, err = env.usecase.HandleDoctorResponse(context.Background(), &contracts.DoctorCallRequest{
		Token:  token,
		Digits: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CallQueueAccepted, entry.Status)
}

func TestDoctorLegDecline(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")
	startWaitingCall(t, env)

	token, err := utils.GenerateDoctorLegToken("queue-1", "test-jwt-secret", 10*time.Minute)
	require.NoError(t, err)

	_, err = env.usecase.HandleDoctorResponse(context.Background(), &contracts.DoctorCallRequest{
		Token:  token,
		Digits: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CallQueueRejected, env.queue.entries["queue-1"].Status)
	assert.Equal(t, "declined", env.queue.entries["queue-1"].RejectionReason)
}

func TestDoctorLegRejectsBadToken(t *testing.T) {
	env := newVoiceTestEnv()

	_, err := env.usecase.HandleDoctorCall(context.Background(), &contracts.DoctorCallRequest{Token: "not-a-token"})
	assert.Error(t, err)
}

func TestHandleCallCompletedSettlesConsultation(t *testing.T) {
	env := newVoiceTestEnv()
	subscriber := env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")
	startWaitingCall(t, env)

	_, err := env.queue.AcceptIfPending(context.Background(), "queue-1", "+255713000001")
	require.NoError(t, err)

	err = env.usecase.HandleCallCompleted(context.Background(), &contracts.VoiceRequest{
		SessionID:         "call-1",
		PhoneNumber:       "+255712000001",
		DurationInSeconds: "185",
	})
	require.NoError(t, err)

	assert.Equal(t, models.CallQueueCompleted, env.queue.entries["queue-1"].Status)
	assert.Equal(t, 185, env.queue.entries["queue-1"].DurationSeconds)
	assert.Equal(t, models.CaseCompleted, env.cases.cases["case-1"].Status)
	assert.Equal(t, 1, subscriber.ConsultationCount)
	assert.NotEmpty(t, env.offerService.evaluations)

	require.Len(t, env.sms.messages, 1)
	assert.Contains(t, env.sms.messages[0], "case-1")

	session, err := env.sessions.Get(context.Background(), "call-1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestHandleTranscriptionReplacesPlaceholder(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")
	startWaitingCall(t, env)

	err := env.usecase.HandleTranscription(context.Background(), &contracts.TranscriptionWebhook{
		SessionID:     "call-1",
		Transcription: "I have had a persistent cough and chest tightness for a week",
	})
	require.NoError(t, err)
	assert.Equal(t, "I have had a persistent cough and chest tightness for a week", env.cases.cases["case-1"].Symptoms)

	// Empty transcriptions are dropped without touching the case.
	err = env.usecase.HandleTranscription(context.Background(), &contracts.TranscriptionWebhook{SessionID: "call-1"})
	require.NoError(t, err)
}

func TestHandleMenuTrialGoesToRecording(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")

	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001"})
	require.NoError(t, err)

	reply, err := env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
		Digits:      "1",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "<Record")
	assert.Contains(t, reply.Body, "/voice/process-symptoms")

	session, err := env.sessions.Get(context.Background(), "call-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepVoiceTrialRecording, session.Step)
}

func TestHandleMenuTrialExpiredReprompts(t *testing.T) {
	env := newVoiceTestEnv()
	subscriber := env.addSubscriber("255712000001")
	subscriber.ConsultationCount = 3

	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001"})
	require.NoError(t, err)

	reply, err := env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{
		SessionID:   "call-1",
		PhoneNumber: "+255712000001",
		Digits:      "1",
	})
	require.NoError(t, err)
	assert.NotContains(t, reply.Body, "<Record")
	assert.Contains(t, reply.Body, "/voice/menu")
	assert.Contains(t, reply.Body, "free trial has ended")
	assert.Empty(t, env.cases.cases)
}

func TestHandleTrialRecordingCreatesCase(t *testing.T) {
	env := newVoiceTestEnv()
	subscriber := env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")

	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001"})
	require.NoError(t, err)
	_, err = env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001", Digits: "1"})
	require.NoError(t, err)

	reply, err := env.usecase.HandleSymptomsRecorded(context.Background(), &contracts.VoiceRequest{
		SessionID:    "call-1",
		PhoneNumber:  "+255712000001",
		RecordingURL: "https://voice.example.com/recordings/call-1.mp3",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "<Say>")

	created := env.cases.cases["case-1"]
	require.NotNil(t, created)
	assert.Equal(t, models.ConsultationTrial, created.ConsultationType)
	assert.Equal(t, "doc-1", created.DoctorID)
	assert.Equal(t, "https://voice.example.com/recordings/call-1.mp3", created.RecordingURL)
	assert.Equal(t, created.RecordingURL, env.archiver.enqueued["case-1"])

	// No payment and no live bridge on the trial path.
	assert.Empty(t, env.queue.entries)
	assert.Empty(t, env.dialer.calls)

	assert.Equal(t, 1, subscriber.ConsultationCount)
	assert.NotEmpty(t, env.offerService.evaluations)
	require.Len(t, env.sms.messages, 1)
	assert.Contains(t, env.sms.messages[0], "case-1")
}

func TestHandleTranscriptionResolvesTrialCase(t *testing.T) {
	env := newVoiceTestEnv()
	env.addSubscriber("255712000001")
	env.addDoctor("doc-1", "Neema", "+255713000001")

	_, err := env.usecase.HandleIncoming(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001"})
	require.NoError(t, err)
	_, err = env.usecase.HandleMenu(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001", Digits: "1"})
	require.NoError(t, err)
	_, err = env.usecase.HandleSymptomsRecorded(context.Background(), &contracts.VoiceRequest{
		SessionID:    "call-1",
		PhoneNumber:  "+255712000001",
		RecordingURL: "https://voice.example.com/recordings/call-1.mp3",
	})
	require.NoError(t, err)

	// The final call event arrives before the transcription; the settled
	// trial session must survive it so the transcription can land.
	err = env.usecase.HandleCallCompleted(context.Background(), &contracts.VoiceRequest{SessionID: "call-1", PhoneNumber: "+255712000001"})
	require.NoError(t, err)

	err = env.usecase.HandleTranscription(context.Background(), &contracts.TranscriptionWebhook{
		SessionID:     "call-1",
		Transcription: "I have had a sharp stomach pain since this morning",
	})
	require.NoError(t, err)
	assert.Equal(t, "I have had a sharp stomach pain since this morning", env.cases.cases["case-1"].Symptoms)
}
