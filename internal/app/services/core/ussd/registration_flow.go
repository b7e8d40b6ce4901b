package ussd

import (
	"context"
	"errors"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"smarthealth-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

// handleRegistration drives the new-subscriber machine. Position is the count
// of tokens supplied so far: zero asks for a name, one asks for a PIN, two
// creates the account.
func (u *ussdUsecase) handleRegistration(ctx context.Context, sessionID, phone string, tokens []string) (*contracts.USSDReply, error) {
	if len(tokens) == 0 {
		session := &models.Session{
			SessionID: sessionID,
			Channel:   constvars.ChannelUSSD,
			Phone:     phone,
			Step:      models.StepRegistrationName,
			CreatedAt: time.Now(),
		}
		if err := u.sessionService.Save(ctx, session); err != nil {
			return nil, err
		}
		return conReply(u.texts.registrationWelcome()), nil
	}

	name := strings.TrimSpace(tokens[0])

	if len(tokens) == 1 {
		if len(name) < constvars.MinNameLength {
			return endReply(u.texts.registrationNameTooShort()), nil
		}
		session := &models.Session{
			SessionID: sessionID,
			Channel:   constvars.ChannelUSSD,
			Phone:     phone,
			Step:      models.StepRegistrationPin,
			Payload:   models.SessionPayload{Name: name},
			CreatedAt: time.Now(),
		}
		if err := u.sessionService.Save(ctx, session); err != nil {
			return nil, err
		}
		return conReply(u.texts.registrationAskPin(name)), nil
	}

	// Two or more tokens: name then PIN. Extra tokens past the PIN are
	// ignored; the terminal response ends the session anyway.
	if len(name) < constvars.MinNameLength {
		return endReply(u.texts.registrationNameTooShort()), nil
	}
	pin := strings.TrimSpace(tokens[1])
	if !pinPattern.MatchString(pin) {
		return endReply(u.texts.registrationInvalidPin()), nil
	}

	pinHash, err := utils.HashPin(pin)
	if err != nil {
		return nil, exceptions.ErrHashPin(err)
	}

	now := time.Now()
	subscriber := &models.Subscriber{
		Phone:      phone,
		Name:       name,
		PinHash:    pinHash,
		Language:   u.cfg.App.DefaultLanguage,
		TrialStart: now,
		TrialEnd:   now.AddDate(0, 1, 0),
	}

	subscriberID, err := u.subscriberRepo.Create(ctx, subscriber)
	if err != nil {
		// A gateway retry can deliver the same two-token payload twice.
		// The unique phone index turns the second insert into a
		// conflict; treat it as already registered and move to login.
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusConflict {
			existing, findErr := u.subscriberRepo.FindByPhone(ctx, phone)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				return u.handleLogin(ctx, sessionID, existing, tokens[1:], existing.Language)
			}
		}
		return nil, err
	}

	session := &models.Session{
		SessionID:     sessionID,
		Channel:       constvars.ChannelUSSD,
		Phone:         phone,
		SubscriberID:  subscriberID,
		Authenticated: true,
		Step:          models.StepAuthenticated,
		CreatedAt:     now,
	}
	if err := u.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	if smsErr := u.smsService.Send(ctx, phone, u.texts.welcomeSMS(subscriber.Language, name)); smsErr != nil {
		u.Log.Warn("ussdUsecase.handleRegistration welcome SMS enqueue failed",
			zap.String(constvars.LoggingPhoneKey, phone),
			zap.Error(smsErr),
		)
	}

	return endReply(u.texts.registrationSuccess(name, phone)), nil
}
