package ussd

import (
	"context"
	"fmt"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"strings"
	"time"

	"go.uber.org/zap"
)

func (u *ussdUsecase) handleTrialFlow(ctx context.Context, subscriber *models.Subscriber, session *models.Session, inputs []string, lang string) (*contracts.USSDReply, error) {
	now := time.Now()
	remaining := subscriber.TrialRemaining(now, u.cfg.App.TrialFreeConsultations)
	if remaining <= 0 {
		return endReply(u.texts.trialExpired(lang)), nil
	}

	if len(inputs) == 0 {
		session.Step = models.StepSymptoms
		if err := u.sessionService.Save(ctx, session); err != nil {
			return nil, err
		}
		return conReply(u.texts.trialAskSymptoms(lang, remaining)), nil
	}

	symptoms := strings.TrimSpace(strings.Join(inputs, " "))
	if len(symptoms) < constvars.MinSymptomLength {
		return endReply(u.texts.symptomsTooShort(lang)), nil
	}

	trialCase := &models.Case{
		SubscriberID:     subscriber.ID,
		Symptoms:         symptoms,
		ConsultationType: models.ConsultationTrial,
		Priority:         0,
		Status:           models.CasePending,
	}
	caseID, err := u.caseRepo.Create(ctx, trialCase)
	if err != nil {
		return nil, err
	}

	if assignErr := u.assignLeastLoadedDoctor(ctx, caseID); assignErr != nil {
		u.Log.Warn("ussdUsecase.handleTrialFlow doctor assignment failed",
			zap.String(constvars.LoggingCaseIDKey, caseID),
			zap.Error(assignErr),
		)
	}

	if err := u.finishConsultation(ctx, subscriber, lang, caseID); err != nil {
		return nil, err
	}

	return endReply(u.texts.trialReceived(lang, caseID)), nil
}

// assignLeastLoadedDoctor assigns the available doctor carrying the fewest
// open cases. A case stays pending when nobody is available.
func (u *ussdUsecase) assignLeastLoadedDoctor(ctx context.Context, caseID string) error {
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

// finishConsultation performs the post-case bookkeeping shared by the trial
// and paid flows: consultation counter, reward evaluation, confirmation SMS.
func (u *ussdUsecase) finishConsultation(ctx context.Context, subscriber *models.Subscriber, lang, caseID string) error {
	if err := u.subscriberRepo.IncrementConsultationCount(ctx, subscriber.ID); err != nil {
		return err
	}

	if _, err := u.offerService.EvaluateThresholds(ctx, subscriber.ID, subscriber.ConsultationCount+1); err != nil {
		u.Log.Warn("ussdUsecase.finishConsultation offer evaluation failed",
			zap.String(constvars.LoggingSubscriberIDKey, subscriber.ID),
			zap.Error(err),
		)
	}

	if err := u.smsService.Send(ctx, subscriber.Phone, u.texts.consultationReceivedSMS(lang, caseID)); err != nil {
		u.Log.Warn("ussdUsecase.finishConsultation confirmation sms failed",
			zap.String(constvars.LoggingPhoneKey, subscriber.Phone),
			zap.Error(err),
		)
	}
	return nil
}

func (u *ussdUsecase) handleHistory(ctx context.Context, subscriber *models.Subscriber, lang string) (*contracts.USSDReply, error) {
	cases, err := u.caseRepo.GetBySubscriber(ctx, subscriber.ID, constvars.HistoryPageSize)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return endReply(u.texts.noHistory(lang)), nil
	}

	var b strings.Builder
	b.WriteString(u.texts.historyHeader(lang))
	for i, c := range cases {
		line := fmt.Sprintf("%d. %s - %s", i+1, c.CreatedAt.Format("02 Jan"), c.Status)
		if c.DoctorID != "" {
			if doctor, docErr := u.doctorRepo.FindByID(ctx, c.DoctorID); docErr == nil && doctor != nil {
				line = fmt.Sprintf("%d. %s - Dr. %s - %s", i+1, c.CreatedAt.Format("02 Jan"), doctor.Name, c.Status)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(u.texts.historyFooter(lang))
	return endReply(b.String()), nil
}

func (u *ussdUsecase) handleLanguageChange(ctx context.Context, subscriber *models.Subscriber, inputs []string) (*contracts.USSDReply, error) {
	if len(inputs) == 0 {
		return conReply(u.texts.languageMenu()), nil
	}

	newLang := constvars.LanguageKiswahili
	if inputs[0] == "1" {
		newLang = constvars.LanguageEnglish
	}
	if err := u.subscriberRepo.UpdateLanguage(ctx, subscriber.ID, newLang); err != nil {
		return nil, err
	}
	return endReply(u.texts.languageChanged(newLang)), nil
}

func (u *ussdUsecase) handleLogout(ctx context.Context, sessionID, lang string) (*contracts.USSDReply, error) {
	if err := u.sessionService.Delete(ctx, sessionID); err != nil {
		return nil, err
	}
	return endReply(u.texts.loggedOut(lang)), nil
}
