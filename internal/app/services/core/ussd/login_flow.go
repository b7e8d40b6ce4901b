package ussd

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/utils"
	"strings"
	"time"
)

// handleLogin authenticates an existing subscriber by PIN. Tokens past the
// PIN are re-dispatched as menu input so a subscriber can chain
// "PIN*menu*..." in one round trip.
func (u *ussdUsecase) handleLogin(ctx context.Context, sessionID string, subscriber *models.Subscriber, tokens []string, lang string) (*contracts.USSDReply, error) {
	if len(tokens) == 0 {
		session := &models.Session{
			SessionID:    sessionID,
			Channel:      constvars.ChannelUSSD,
			Phone:        subscriber.Phone,
			SubscriberID: subscriber.ID,
			Step:         models.StepLoginPin,
			CreatedAt:    time.Now(),
		}
		if err := u.sessionService.Save(ctx, session); err != nil {
			return nil, err
		}
		return conReply(u.texts.loginAskPin(subscriber.Name)), nil
	}

	allowed, err := u.attemptLimiter.Allow(ctx, constvars.LoginAttemptGroupName, subscriber.Phone)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return endReply(u.texts.loginLockedOut()), nil
	}

	pin := strings.TrimSpace(tokens[0])
	if !utils.CheckPinHash(pin, subscriber.PinHash) {
		if recErr := u.attemptLimiter.RecordFailure(ctx, constvars.LoginAttemptGroupName, subscriber.Phone); recErr != nil {
			return nil, recErr
		}
		return endReply(u.texts.loginWrongPin()), nil
	}

	if resetErr := u.attemptLimiter.Reset(ctx, constvars.LoginAttemptGroupName, subscriber.Phone); resetErr != nil {
		return nil, resetErr
	}

	session := &models.Session{
		SessionID:     sessionID,
		Channel:       constvars.ChannelUSSD,
		Phone:         subscriber.Phone,
		SubscriberID:  subscriber.ID,
		Authenticated: true,
		Step:          models.StepAuthenticated,
		CreatedAt:     time.Now(),
	}
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	if len(tokens) == 1 {
		return conReply(u.texts.mainMenu(lang, subscriber.Name, subscriber.TrialRemaining(time.Now(), u.cfg.App.TrialFreeConsultations))), nil
	}

	// PIN plus menu selection in one round trip: the remaining tokens are
	// dispatched as if freshly authenticated.
	session.Step = models.StepMenuNavigation
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}
	return u.routeMenu(ctx, subscriber, session, tokens[1:], lang)
}
