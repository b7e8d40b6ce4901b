package smsinbound

import (
	"context"
	"fmt"
	"smarthealth-service/internal/app/config"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/utils"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	smsInboundInstance contracts.SMSInboundUsecase
	onceSMSInbound     sync.Once
)

type smsInboundUsecase struct {
	subscriberRepo contracts.SubscriberRepository
	doctorRepo     contracts.DoctorRepository
	caseRepo       contracts.CaseRepository
	offerService   contracts.OfferService
	smsService     contracts.SMSService
	cfg            *config.InternalConfig
	Log            *zap.Logger
}

func NewSMSInboundUsecase(
	subscriberRepo contracts.SubscriberRepository,
	doctorRepo contracts.DoctorRepository,
	caseRepo contracts.CaseRepository,
	offerService contracts.OfferService,
	smsService contracts.SMSService,
	cfg *config.InternalConfig,
	logger *zap.Logger,
) contracts.SMSInboundUsecase {
	onceSMSInbound.Do(func() {
		smsInboundInstance = &smsInboundUsecase{
			subscriberRepo: subscriberRepo,
			doctorRepo:     doctorRepo,
			caseRepo:       caseRepo,
			offerService:   offerService,
			smsService:     smsService,
			cfg:            cfg,
			Log:            logger,
		}
	})
	return smsInboundInstance
}

// Handle dispatches a keyword command from an inbound SMS. Unknown senders
// are registered implicitly without a PIN; USSD registration can set one
// later.
func (s *smsInboundUsecase) Handle(ctx context.Context, req *contracts.IncomingSMSRequest) error {
	phone := utils.NormalizePhoneDigits(req.From)
	subscriber, err := s.findOrCreateSubscriber(ctx, phone)
	if err != nil {
		return err
	}
	lang := subscriber.Language
	if lang == "" {
		lang = s.cfg.App.DefaultLanguage
	}

	text := strings.TrimSpace(req.Text)
	command := ""
	rest := ""
	if parts := strings.SplitN(text, " ", 2); len(parts) > 0 {
		command = strings.ToUpper(parts[0])
		if len(parts) > 1 {
			rest = strings.TrimSpace(parts[1])
		}
	}

	s.Log.Info("smsInboundUsecase.Handle called",
		zap.String(constvars.LoggingPhoneKey, phone),
		zap.String("command", command),
	)

	switch command {
	case "CONSULT":
		return s.handleConsult(ctx, subscriber, rest, lang)
	case "DOCTORS":
		return s.handleDoctors(ctx, subscriber, lang)
	case "HISTORY":
		return s.handleHistory(ctx, subscriber, lang)
	default:
		return s.smsService.Send(ctx, subscriber.Phone, helpText(lang, s.cfg.App.USSDShortCode))
	}
}

func (s *smsInboundUsecase) findOrCreateSubscriber(ctx context.Context, phone string) (*models.Subscriber, error) {
	subscriber, err := s.subscriberRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if subscriber != nil {
		return subscriber, nil
	}

	now := time.Now()
	subscriber = &models.Subscriber{
		Phone:      phone,
		Language:   s.cfg.App.DefaultLanguage,
		TrialStart: now,
		TrialEnd:   now.AddDate(0, 1, 0),
	}
	if _, err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		return nil, err
	}
	return subscriber, nil
}

func (s *smsInboundUsecase) handleConsult(ctx context.Context, subscriber *models.Subscriber, symptoms, lang string) error {
	if len(symptoms) < constvars.MinSMSSymptomLength {
		return s.smsService.Send(ctx, subscriber.Phone, symptomsTooShortText(lang))
	}
	if subscriber.TrialRemaining(time.Now(), s.cfg.App.TrialFreeConsultations) <= 0 {
		return s.smsService.Send(ctx, subscriber.Phone, trialExpiredText(lang, s.cfg.App.USSDShortCode))
	}

	trialCase := &models.Case{
		SubscriberID:     subscriber.ID,
		Symptoms:         symptoms,
		ConsultationType: models.ConsultationTrial,
		Status:           models.CasePending,
	}
	caseID, err := s.caseRepo.Create(ctx, trialCase)
	if err != nil {
		return err
	}
	if err := s.assignLeastLoadedDoctor(ctx, caseID); err != nil {
		s.Log.Warn("smsInboundUsecase.handleConsult doctor assignment failed",
			zap.String(constvars.LoggingCaseIDKey, caseID),
			zap.Error(err),
		)
	}

	if err := s.subscriberRepo.IncrementConsultationCount(ctx, subscriber.ID); err != nil {
		return err
	}
	if _, err := s.offerService.EvaluateThresholds(ctx, subscriber.ID, subscriber.ConsultationCount+1); err != nil {
		s.Log.Warn("smsInboundUsecase.handleConsult offer evaluation failed",
			zap.String(constvars.LoggingSubscriberIDKey, subscriber.ID),
			zap.Error(err),
		)
	}

	return s.smsService.Send(ctx, subscriber.Phone, consultReceivedText(lang, caseID))
}

func (s *smsInboundUsecase) assignLeastLoadedDoctor(ctx context.Context, caseID string) error {
	doctors, err := s.doctorRepo.GetAvailable(ctx)
	if err != nil {
		return err
	}
	if len(doctors) == 0 {
		return nil
	}

	bestID := ""
	bestLoad := -1
	for _, doctor := range doctors {
		load, countErr := s.caseRepo.CountActiveByDoctor(ctx, doctor.ID)
		if countErr != nil {
			return countErr
		}
		if bestLoad < 0 || load < bestLoad {
			bestID = doctor.ID
			bestLoad = load
		}
	}
	return s.caseRepo.AssignToDoctor(ctx, caseID, bestID)
}

func (s *smsInboundUsecase) handleDoctors(ctx context.Context, subscriber *models.Subscriber, lang string) error {
	doctors, err := s.doctorRepo.GetOnline(ctx)
	if err != nil {
		return err
	}
	if len(doctors) == 0 {
		return s.smsService.Send(ctx, subscriber.Phone, noDoctorsText(lang))
	}

	var b strings.Builder
	if lang == constvars.LanguageKiswahili {
		b.WriteString("Madaktari waliopo:\n")
	} else {
		b.WriteString("Available doctors:\n")
	}
	for i, doctor := range doctors {
		b.WriteString(fmt.Sprintf("%d. Dr. %s (%s) - KES %.0f\n", i+1, doctor.Name, doctor.Specialization, doctor.Fee))
	}
	return s.smsService.Send(ctx, subscriber.Phone, b.String())
}

func (s *smsInboundUsecase) handleHistory(ctx context.Context, subscriber *models.Subscriber, lang string) error {
	cases, err := s.caseRepo.GetBySubscriber(ctx, subscriber.ID, constvars.HistoryPageSize)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return s.smsService.Send(ctx, subscriber.Phone, noHistoryText(lang))
	}

	var b strings.Builder
	if lang == constvars.LanguageKiswahili {
		b.WriteString("Historia yako:\n")
	} else {
		b.WriteString("Your history:\n")
	}
	for i, c := range cases {
		b.WriteString(fmt.Sprintf("%d. %s - #%s - %s\n", i+1, c.CreatedAt.Format("02 Jan"), c.ID, c.Status))
	}
	return s.smsService.Send(ctx, subscriber.Phone, b.String())
}

func helpText(lang, shortCode string) string {
	if lang == constvars.LanguageKiswahili {
		return fmt.Sprintf("Amri za SmartHealth:\nCONSULT <dalili> - Anza ushauri\nDOCTORS - Madaktari waliopo\nHISTORY - Historia yako\n\nAu piga %s", shortCode)
	}
	return fmt.Sprintf("SmartHealth commands:\nCONSULT <symptoms> - Start consultation\nDOCTORS - Available doctors\nHISTORY - Your history\n\nOr dial %s", shortCode)
}

func symptomsTooShortText(lang string) string {
	if lang == constvars.LanguageKiswahili {
		return "Maelezo mafupi sana. Tuma: CONSULT <dalili zako kwa undani>"
	}
	return "Description too short. Send: CONSULT <your symptoms in detail>"
}

func trialExpiredText(lang, shortCode string) string {
	if lang == constvars.LanguageKiswahili {
		return fmt.Sprintf("Majaribio yako ya bure yamekwisha. Piga %s kwa ushauri wa kulipia.", shortCode)
	}
	return fmt.Sprintf("Your free trial has ended. Dial %s for paid consultations.", shortCode)
}

func consultReceivedText(lang, caseID string) string {
	if lang == constvars.LanguageKiswahili {
		return fmt.Sprintf("Asante! Ushauri wako umepokelewa.\nKesi: #%s\nDaktari atakujibu ndani ya dakika 5-30.\n\nSmartHealth", caseID)
	}
	return fmt.Sprintf("Thank you! Your consultation has been received.\nCase: #%s\nA doctor will respond within 5-30 minutes.\n\nSmartHealth", caseID)
}

func noDoctorsText(lang string) string {
	if lang == constvars.LanguageKiswahili {
		return "Hakuna madaktari wanaopatikana sasa. Jaribu tena baadaye."
	}
	return "No doctors available right now. Please try again later."
}

func noHistoryText(lang string) string {
	if lang == constvars.LanguageKiswahili {
		return "Huna historia ya ushauri bado."
	}
	return "No consultation history yet."
}
