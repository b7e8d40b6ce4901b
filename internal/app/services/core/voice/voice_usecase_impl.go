package voice

import (
	"context"
	"strconv"
	"sync"
	"time"

	"smarthealth-service/internal/app/config"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/app/services/shared/callcontrol"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"smarthealth-service/internal/pkg/utils"

	"go.uber.org/zap"
)

var (
	voiceUsecaseInstance contracts.VoiceUsecase
	onceVoiceUsecase     sync.Once
)

type voiceUsecase struct {
	sessionService contracts.SessionService
	subscriberRepo contracts.SubscriberRepository
	doctorRepo     contracts.DoctorRepository
	caseRepo       contracts.CaseRepository
	callQueueRepo  contracts.CallQueueRepository
	offerService   contracts.OfferService
	smsService     contracts.SMSService
	archiver       contracts.RecordingArchiver
	dialer         contracts.VoiceDialer
	cfg            *config.InternalConfig
	texts          *callTexts
	Log            *zap.Logger
}

func NewVoiceUsecase(
	sessionService contracts.SessionService,
	subscriberRepo contracts.SubscriberRepository,
	doctorRepo contracts.DoctorRepository,
	caseRepo contracts.CaseRepository,
	callQueueRepo contracts.CallQueueRepository,
	offerService contracts.OfferService,
	smsService contracts.SMSService,
	archiver contracts.RecordingArchiver,
	dialer contracts.VoiceDialer,
	cfg *config.InternalConfig,
	logger *zap.Logger,
) contracts.VoiceUsecase {
	onceVoiceUsecase.Do(func() {
		voiceUsecaseInstance = &voiceUsecase{
			sessionService: sessionService,
			subscriberRepo: subscriberRepo,
			doctorRepo:     doctorRepo,
			caseRepo:       caseRepo,
			callQueueRepo:  callQueueRepo,
			offerService:   offerService,
			smsService:     smsService,
			archiver:       archiver,
			dialer:         dialer,
			cfg:            cfg,
			texts:          &callTexts{},
			Log:            logger,
		}
	})
	return voiceUsecaseInstance
}

func (u *voiceUsecase) builderFor(provider string) (contracts.CallControlBuilder, error) {
	if provider == "" {
		provider = u.cfg.Voice.Provider
	}
	return callcontrol.BuilderFor(provider)
}

func (u *voiceUsecase) callbackURL(path string) string {
	return u.cfg.App.BaseURL + u.cfg.App.EndpointPrefix + path
}

func reply(builder contracts.CallControlBuilder, body string) *contracts.VoiceReply {
	return &contracts.VoiceReply{ContentType: builder.ContentType(), Body: body}
}

// HandleIncoming answers a fresh inbound call: implicit registration for
// unknown callers, then the DTMF main menu.
func (u *voiceUsecase) HandleIncoming(ctx context.Context, req *contracts.VoiceRequest) (*contracts.VoiceReply, error) {
	builder, err := u.builderFor(req.Provider)
	if err != nil {
		return nil, err
	}

	phone := utils.NormalizePhoneDigits(req.PhoneNumber)
	subscriber, err := u.findOrCreateSubscriber(ctx, phone)
	if err != nil {
		return nil, err
	}
	lang := u.langOf(subscriber)

	session := &models.Session{
		SessionID:     req.SessionID,
		Channel:       constvars.ChannelVoice,
		Phone:         phone,
		SubscriberID:  subscriber.ID,
		Authenticated: true,
		Step:          models.StepVoiceIncoming,
		CreatedAt:     time.Now(),
	}
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	u.Log.Info("voiceUsecase.HandleIncoming call answered",
		zap.String(constvars.LoggingCallSessionIDKey, req.SessionID),
		zap.String(constvars.LoggingPhoneKey, phone),
	)
	return reply(builder, builder.GetDigits(u.texts.mainMenuPrompt(lang), 1, 10, u.callbackURL("/voice/menu"))), nil
}

func (u *voiceUsecase) HandleMenu(ctx context.Context, req *contracts.VoiceRequest) (*contracts.VoiceReply, error) {
	builder, err := u.builderFor(req.Provider)
	if err != nil {
		return nil, err
	}

	session, subscriber, err := u.loadCallState(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || subscriber == nil {
		return reply(builder, builder.Reject(u.texts.sessionExpired(u.cfg.App.DefaultLanguage))), nil
	}
	lang := u.langOf(subscriber)

	switch req.Digits {
	case "1":
		return u.startTrialRecording(ctx, builder, session, subscriber, lang)
	case "2":
		return u.renderDoctorList(ctx, builder, session, lang)
	case "3":
		return u.renderHistory(ctx, builder, subscriber, lang)
	default:
		prompt := u.texts.invalidSelection(lang) + u.texts.mainMenuPrompt(lang)
		return reply(builder, builder.GetDigits(prompt, 1, 10, u.callbackURL("/voice/menu"))), nil
	}
}

// startTrialRecording goes straight to symptom recording when the caller
// still has free trial consultations left.
func (u *voiceUsecase) startTrialRecording(ctx context.Context, builder contracts.CallControlBuilder, session *models.Session, subscriber *models.Subscriber, lang string) (*contracts.VoiceReply, error) {
	remaining := subscriber.TrialRemaining(time.Now(), u.cfg.App.TrialFreeConsultations)
	if remaining <= 0 {
		return reply(builder, builder.GetDigits(u.texts.trialEnded(lang), 1, 10, u.callbackURL("/voice/menu"))), nil
	}

	session.Step = models.StepVoiceTrialRecording
	session.Payload.SelectedDoctor = nil
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}
	return reply(builder, builder.Record(
		u.texts.symptomsPrompt(lang),
		u.cfg.Voice.RecordMaxInSec,
		"#",
		u.callbackURL("/voice/process-symptoms"),
	)), nil
}

// renderDoctorList pins the spoken option list in the session, mirroring the
// menu pinning on the text channel.
func (u *voiceUsecase) renderDoctorList(ctx context.Context, builder contracts.CallControlBuilder, session *models.Session, lang string) (*contracts.VoiceReply, error) {
	doctors, err := u.doctorRepo.GetOnline(ctx)
	if err != nil {
		return nil, err
	}
	if len(doctors) == 0 {
		return reply(builder, builder.Reject(u.texts.noDoctorsAvailable(lang))), nil
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

	session.Step = models.StepVoiceDoctorSelection
	session.Payload.Doctors = options
	session.Payload.SelectedDoctor = nil
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}
	return reply(builder, builder.GetDigits(u.texts.doctorListPrompt(lang, options), 1, 10, u.callbackURL("/voice/select-doctor"))), nil
}

func (u *voiceUsecase) renderHistory(ctx context.Context, builder contracts.CallControlBuilder, subscriber *models.Subscriber, lang string) (*contracts.VoiceReply, error) {
	cases, err := u.caseRepo.GetBySubscriber(ctx, subscriber.ID, constvars.VoiceHistoryPageSize)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return reply(builder, builder.Say(u.texts.noHistory(lang))), nil
	}

	spoken := ""
	for i, c := range cases {
		spoken += u.texts.historyLine(lang, i+1, string(c.Status))
	}
	spoken += u.texts.callEnded(lang)
	return reply(builder, builder.Say(spoken)), nil
}

func (u *voiceUsecase) HandleDoctorSelection(ctx context.Context, req *contracts.VoiceRequest) (*contracts.VoiceReply, error) {
	builder, err := u.builderFor(req.Provider)
	if err != nil {
		return nil, err
	}

	session, subscriber, err := u.loadCallState(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || subscriber == nil {
		return reply(builder, builder.Reject(u.texts.sessionExpired(u.cfg.App.DefaultLanguage))), nil
	}
	lang := u.langOf(subscriber)

	idx, convErr := strconv.Atoi(req.Digits)
	if convErr != nil || idx < 1 || idx > len(session.Payload.Doctors) {
		prompt := u.texts.invalidSelection(lang) + u.texts.doctorListPrompt(lang, session.Payload.Doctors)
		return reply(builder, builder.GetDigits(prompt, 1, 10, u.callbackURL("/voice/select-doctor"))), nil
	}
	selected := session.Payload.Doctors[idx-1]

	session.Step = models.StepVoiceDoctorSelected
	session.Payload.SelectedDoctor = &selected
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	return reply(builder, builder.Record(
		u.texts.symptomsPrompt(lang),
		u.cfg.Voice.RecordMaxInSec,
		"#",
		u.callbackURL("/voice/process-symptoms"),
	)), nil
}

// HandleSymptomsRecorded creates the case from the recorded leg, queues the
// doctor decision, rings the doctor, and parks the caller on hold.
func (u *voiceUsecase) HandleSymptomsRecorded(ctx context.Context, req *contracts.VoiceRequest) (*contracts.VoiceReply, error) {
	builder, err := u.builderFor(req.Provider)
	if err != nil {
		return nil, err
	}

	session, subscriber, err := u.loadCallState(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || subscriber == nil {
		return reply(builder, builder.Reject(u.texts.sessionExpired(u.cfg.App.DefaultLanguage))), nil
	}
	lang := u.langOf(subscriber)

	if session.Step == models.StepVoiceTrialRecording {
		return u.completeTrialRecording(ctx, builder, session, subscriber, lang, req.RecordingURL)
	}
	if session.Payload.SelectedDoctor == nil {
		return reply(builder, builder.Reject(u.texts.sessionExpired(u.cfg.App.DefaultLanguage))), nil
	}
	doctor := session.Payload.SelectedDoctor

	voiceCase := &models.Case{
		SubscriberID:     subscriber.ID,
		Symptoms:         "Voice consultation",
		ConsultationType: models.ConsultationPaid,
		Status:           models.CasePending,
		RecordingURL:     req.RecordingURL,
	}
	caseID, err := u.caseRepo.Create(ctx, voiceCase)
	if err != nil {
		return nil, err
	}
	if err := u.caseRepo.AssignToDoctor(ctx, caseID, doctor.ID); err != nil {
		return nil, err
	}

	if req.RecordingURL != "" {
		if archErr := u.archiver.Enqueue(ctx, caseID, req.RecordingURL); archErr != nil {
			u.Log.Warn("voiceUsecase.HandleSymptomsRecorded archive enqueue failed",
				zap.String(constvars.LoggingCaseIDKey, caseID),
				zap.Error(archErr),
			)
		}
	}

	entry := &models.CallQueueEntry{
		DoctorID:      doctor.ID,
		SubscriberID:  subscriber.ID,
		CaseID:        caseID,
		CallSessionID: req.SessionID,
		Status:        models.CallQueuePending,
	}
	entryID, err := u.callQueueRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateDoctorLegToken(entryID, u.cfg.JWT.Secret, time.Duration(u.cfg.JWT.DoctorLegTokenExpInMinute)*time.Minute)
	if err != nil {
		return nil, err
	}
	if dialErr := u.dialer.Call(ctx, doctor.Phone, u.callbackURL("/voice/doctor-call?token="+token)); dialErr != nil {
		u.Log.Error("voiceUsecase.HandleSymptomsRecorded doctor dial failed",
			zap.String(constvars.LoggingQueueEntryIDKey, entryID),
			zap.Error(dialErr),
		)
		if _, rejErr := u.callQueueRepo.RejectIfPending(ctx, entryID, "dial_failed"); rejErr != nil {
			u.Log.Error("voiceUsecase.HandleSymptomsRecorded queue reject failed", zap.Error(rejErr))
		}
		return reply(builder, builder.Reject(u.texts.doctorUnavailable(lang))), nil
	}

	session.Step = models.StepVoiceWaiting
	session.Payload.CaseID = caseID
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	u.Log.Info("voiceUsecase.HandleSymptomsRecorded doctor ringing",
		zap.String(constvars.LoggingCallSessionIDKey, req.SessionID),
		zap.String(constvars.LoggingQueueEntryIDKey, entryID),
		zap.String(constvars.LoggingDoctorIDKey, doctor.ID),
	)
	return reply(builder, builder.PlayThenRedirect(u.cfg.Voice.HoldMusicURL, u.callbackURL("/voice/wait-for-doctor"))), nil
}

// completeTrialRecording settles a trial consultation straight from the
// recorded leg: the case is auto-assigned for a callback, no payment and no
// live bridge.
func (u *voiceUsecase) completeTrialRecording(ctx context.Context, builder contracts.CallControlBuilder, session *models.Session, subscriber *models.Subscriber, lang, recordingURL string) (*contracts.VoiceReply, error) {
	trialCase := &models.Case{
		SubscriberID:     subscriber.ID,
		Symptoms:         "Voice consultation",
		ConsultationType: models.ConsultationTrial,
		Status:           models.CasePending,
		RecordingURL:     recordingURL,
	}
	caseID, err := u.caseRepo.Create(ctx, trialCase)
	if err != nil {
		return nil, err
	}

	if assignErr := u.assignLeastLoadedDoctor(ctx, caseID); assignErr != nil {
		u.Log.Warn("voiceUsecase.completeTrialRecording doctor assignment failed",
			zap.String(constvars.LoggingCaseIDKey, caseID),
			zap.Error(assignErr),
		)
	}

	if recordingURL != "" {
		if archErr := u.archiver.Enqueue(ctx, caseID, recordingURL); archErr != nil {
			u.Log.Warn("voiceUsecase.completeTrialRecording archive enqueue failed",
				zap.String(constvars.LoggingCaseIDKey, caseID),
				zap.Error(archErr),
			)
		}
	}

	if err := u.subscriberRepo.IncrementConsultationCount(ctx, subscriber.ID); err != nil {
		return nil, err
	}
	if _, evalErr := u.offerService.EvaluateThresholds(ctx, subscriber.ID, subscriber.ConsultationCount+1); evalErr != nil {
		u.Log.Warn("voiceUsecase.completeTrialRecording offer evaluation failed",
			zap.String(constvars.LoggingSubscriberIDKey, subscriber.ID),
			zap.Error(evalErr),
		)
	}
	if smsErr := u.smsService.Send(ctx, subscriber.Phone, u.texts.trialReceivedSMS(lang, caseID)); smsErr != nil {
		u.Log.Warn("voiceUsecase.completeTrialRecording confirmation sms failed",
			zap.String(constvars.LoggingPhoneKey, subscriber.Phone),
			zap.Error(smsErr),
		)
	}

	session.Step = models.StepVoiceCompleted
	session.Payload.CaseID = caseID
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	u.Log.Info("voiceUsecase.completeTrialRecording trial case created",
		zap.String(constvars.LoggingCallSessionIDKey, session.SessionID),
		zap.String(constvars.LoggingCaseIDKey, caseID),
	)
	return reply(builder, builder.Say(u.texts.trialReceived(lang))), nil
}

// assignLeastLoadedDoctor picks the available doctor carrying the fewest open
// cases. The case stays pending when nobody is available.
func (u *voiceUsecase) assignLeastLoadedDoctor(ctx context.Context, caseID string) error {
	doctors, err := u.doctorRepo.GetAvailable(ctx)
	if err != nil {
		return err
	}
	if len(doctors) == 0 {
		return nil
	}

	bestID := ""
	bestLoad := -1
	for _, doctor := range doctors {
		load, countErr := u.caseRepo.CountActiveByDoctor(ctx, doctor.ID)
		if countErr != nil {
			return countErr
		}
		if bestLoad < 0 || load < bestLoad {
			bestID = doctor.ID
			bestLoad = load
		}
	}

	return u.caseRepo.AssignToDoctor(ctx, caseID, bestID)
}

// HandleWaitForDoctor is the hold loop. The provider re-requests it each time
// the hold audio finishes until the queue entry leaves pending.
func (u *voiceUsecase) HandleWaitForDoctor(ctx context.Context, req *contracts.VoiceRequest) (*contracts.VoiceReply, error) {
	builder, err := u.builderFor(req.Provider)
	if err != nil {
		return nil, err
	}

	entry, err := u.callQueueRepo.FindByCallSessionID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return reply(builder, builder.Reject(u.texts.sessionExpired(u.cfg.App.DefaultLanguage))), nil
	}

	lang := u.cfg.App.DefaultLanguage
	subscriber, subErr := u.subscriberRepo.FindByID(ctx, entry.SubscriberID)
	if subErr == nil && subscriber != nil {
		lang = u.langOf(subscriber)
	}

	switch entry.Status {
	case models.CallQueueAccepted:
		if err := u.caseRepo.UpdateStatus(ctx, entry.CaseID, models.CaseInProgress); err != nil {
			return nil, err
		}
		return reply(builder, builder.Dial(entry.DoctorPhone, u.cfg.Voice.CallerID)), nil
	case models.CallQueuePending:
		return reply(builder, builder.PlayThenRedirect(u.cfg.Voice.HoldMusicURL, u.callbackURL("/voice/wait-for-doctor"))), nil
	case models.CallQueueCompleted:
		return reply(builder, builder.Say(u.texts.callEnded(lang))), nil
	default:
		if subscriber != nil {
			if smsErr := u.smsService.Send(ctx, subscriber.Phone, u.texts.doctorUnavailable(lang)); smsErr != nil {
				u.Log.Warn("voiceUsecase.HandleWaitForDoctor follow up sms failed",
					zap.String(constvars.LoggingQueueEntryIDKey, entry.ID),
					zap.Error(smsErr),
				)
			}
		}
		return reply(builder, builder.Reject(u.texts.doctorUnavailable(lang))), nil
	}
}

// HandleCallCompleted settles the consultation once the bridged call drops.
func (u *voiceUsecase) HandleCallCompleted(ctx context.Context, req *contracts.VoiceRequest) error {
	entry, err := u.callQueueRepo.FindByCallSessionID(ctx, req.SessionID)
	if err != nil {
		return err
	}
	if entry == nil {
		session, sessErr := u.sessionService.Get(ctx, req.SessionID)
		if sessErr != nil {
			return sessErr
		}
		// A settled trial session stays for the transcription callback and
		// expires through the redis TTL.
		if session != nil && session.Step == models.StepVoiceCompleted && session.Payload.CaseID != "" {
			return nil
		}
		return u.sessionService.Delete(ctx, req.SessionID)
	}

	if entry.Status == models.CallQueueAccepted {
		duration, convErr := strconv.Atoi(req.DurationInSeconds)
		if convErr != nil || duration < 0 {
			duration = 0
			if entry.AcceptedAt != nil {
				duration = int(time.Since(*entry.AcceptedAt).Seconds())
			}
		}
		if err := u.callQueueRepo.Complete(ctx, entry.ID, duration); err != nil {
			return err
		}
		if err := u.caseRepo.UpdateStatus(ctx, entry.CaseID, models.CaseCompleted); err != nil {
			return err
		}
		if err := u.subscriberRepo.IncrementConsultationCount(ctx, entry.SubscriberID); err != nil {
			return err
		}
		if subscriber, subErr := u.subscriberRepo.FindByID(ctx, entry.SubscriberID); subErr == nil && subscriber != nil {
			if _, evalErr := u.offerService.EvaluateThresholds(ctx, subscriber.ID, subscriber.ConsultationCount+1); evalErr != nil {
				u.Log.Warn("voiceUsecase.HandleCallCompleted offer evaluation failed",
					zap.String(constvars.LoggingSubscriberIDKey, subscriber.ID),
					zap.Error(evalErr),
				)
			}
			if smsErr := u.smsService.Send(ctx, subscriber.Phone, u.texts.completionSMS(u.langOf(subscriber), entry.CaseID)); smsErr != nil {
				u.Log.Warn("voiceUsecase.HandleCallCompleted follow up sms failed",
					zap.String(constvars.LoggingPhoneKey, subscriber.Phone),
					zap.Error(smsErr),
				)
			}
		}
		u.Log.Info("voiceUsecase.HandleCallCompleted consultation completed",
			zap.String(constvars.LoggingQueueEntryIDKey, entry.ID),
			zap.String(constvars.LoggingCaseIDKey, entry.CaseID),
			zap.Int("duration_seconds", duration),
		)
	}

	return u.sessionService.Delete(ctx, req.SessionID)
}

// HandleTranscription replaces the placeholder symptom text with the
// provider's transcription of the recorded leg.
func (u *voiceUsecase) HandleTranscription(ctx context.Context, req *contracts.TranscriptionWebhook) error {
	if req.Transcription == "" {
		return nil
	}
	entry, err := u.callQueueRepo.FindByCallSessionID(ctx, req.SessionID)
	if err != nil {
		return err
	}
	if entry != nil {
		return u.caseRepo.UpdateSymptoms(ctx, entry.CaseID, req.Transcription)
	}

	// Trial recordings never enter the call queue; the session carries the
	// case id instead.
	session, err := u.sessionService.Get(ctx, req.SessionID)
	if err != nil {
		return err
	}
	if session == nil || session.Payload.CaseID == "" {
		return exceptions.ErrQueueEntryNotFound(nil)
	}
	return u.caseRepo.UpdateSymptoms(ctx, session.Payload.CaseID, req.Transcription)
}

// HandleDoctorCall answers the outbound doctor leg. The signed token names
// the queue entry so a forged request cannot reach somebody else's entry.
func (u *voiceUsecase) HandleDoctorCall(ctx context.Context, req *contracts.DoctorCallRequest) (*contracts.VoiceReply, error) {
	builder, err := u.builderFor(u.cfg.Voice.Provider)
	if err != nil {
		return nil, err
	}

	entryID, err := utils.ParseDoctorLegToken(req.Token, u.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	entry, err := u.callQueueRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, exceptions.ErrQueueEntryNotFound(nil)
	}
	if entry.Status != models.CallQueuePending {
		return reply(builder, builder.Say(u.texts.doctorAlreadyHandled())), nil
	}

	subscriberPhone := "a patient"
	if subscriber, subErr := u.subscriberRepo.FindByID(ctx, entry.SubscriberID); subErr == nil && subscriber != nil {
		subscriberPhone = subscriber.Phone
	}
	return reply(builder, builder.GetDigits(
		u.texts.doctorPrompt(subscriberPhone),
		1, 15,
		u.callbackURL("/voice/doctor-response?token="+req.Token),
	)), nil
}

// HandleDoctorResponse applies the doctor's accept or reject keypress. The
// conditional queue transition means a late or duplicate keypress cannot
// overwrite an earlier decision.
func (u *voiceUsecase) HandleDoctorResponse(ctx context.Context, req *contracts.DoctorCallRequest) (*contracts.VoiceReply, error) {
	builder, err := u.builderFor(u.cfg.Voice.Provider)
	if err != nil {
		return nil, err
	}

	entryID, err := utils.ParseDoctorLegToken(req.Token, u.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	entry, err := u.callQueueRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, exceptions.ErrQueueEntryNotFound(nil)
	}

	switch req.Digits {
	case "1":
		doctor, docErr := u.doctorRepo.FindByID(ctx, entry.DoctorID)
		if docErr != nil {
			return nil, docErr
		}
		doctorPhone := ""
		if doctor != nil {
			doctorPhone = doctor.Phone
		}
		accepted, accErr := u.callQueueRepo.AcceptIfPending(ctx, entryID, doctorPhone)
		if accErr != nil {
			return nil, accErr
		}
		if !accepted {
			return reply(builder, builder.Say(u.texts.doctorAlreadyHandled())), nil
		}
		u.Log.Info("voiceUsecase.HandleDoctorResponse accepted",
			zap.String(constvars.LoggingQueueEntryIDKey, entryID),
			zap.String(constvars.LoggingDoctorIDKey, entry.DoctorID),
		)
		return reply(builder, builder.Say(u.texts.doctorAccepted())), nil

	default:
		rejected, rejErr := u.callQueueRepo.RejectIfPending(ctx, entryID, "declined")
		if rejErr != nil {
			return nil, rejErr
		}
		if !rejected {
			return reply(builder, builder.Say(u.texts.doctorAlreadyHandled())), nil
		}
		u.Log.Info("voiceUsecase.HandleDoctorResponse declined",
			zap.String(constvars.LoggingQueueEntryIDKey, entryID),
			zap.String(constvars.LoggingDoctorIDKey, entry.DoctorID),
		)
		return reply(builder, builder.Say(u.texts.doctorDeclined())), nil
	}
}

func (u *voiceUsecase) loadCallState(ctx context.Context, sessionID string) (*models.Session, *models.Subscriber, error) {
	session, err := u.sessionService.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, nil
	}
	subscriber, err := u.subscriberRepo.FindByID(ctx, session.SubscriberID)
	if err != nil {
		return nil, nil, err
	}
	return session, subscriber, nil
}

func (u *voiceUsecase) findOrCreateSubscriber(ctx context.Context, phone string) (*models.Subscriber, error) {
	subscriber, err := u.subscriberRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if subscriber != nil {
		return subscriber, nil
	}

	now := time.Now()
	subscriber = &models.Subscriber{
		Phone:      phone,
		Language:   u.cfg.App.DefaultLanguage,
		TrialStart: now,
		TrialEnd:   now.AddDate(0, 1, 0),
	}
	if _, err := u.subscriberRepo.Create(ctx, subscriber); err != nil {
		return nil, err
	}
	return subscriber, nil
}

func (u *voiceUsecase) langOf(subscriber *models.Subscriber) string {
	if subscriber.Language != "" {
		return subscriber.Language
	}
	return u.cfg.App.DefaultLanguage
}
