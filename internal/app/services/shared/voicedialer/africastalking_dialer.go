package voicedialer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"smarthealth-service/internal/app/config"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"strings"
	"time"

	"go.uber.org/zap"
)

const africasTalkingVoiceEndpoint = "https://voice.africastalking.com/call"

// africasTalkingDialer places the outbound doctor leg. Call control for the
// placed call arrives on the configured voice callback, carrying the
// callbackURL's token in its query string.
type africasTalkingDialer struct {
	ApiKey     string
	Username   string
	CallerID   string
	HttpClient *http.Client
	Log        *zap.Logger
}

func NewAfricasTalkingDialer(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.VoiceDialer {
	return &africasTalkingDialer{
		ApiKey:   internalConfig.Voice.VoiceAPIKey,
		Username: internalConfig.Voice.VoiceUsername,
		CallerID: internalConfig.Voice.CallerID,
		HttpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		Log: logger,
	}
}

func (d *africasTalkingDialer) Call(ctx context.Context, to string, callbackURL string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	d.Log.Info("africasTalkingDialer.Call called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPhoneKey, to),
	)

	form := url.Values{}
	form.Set("username", d.Username)
	form.Set("from", d.CallerID)
	form.Set("to", to)
	form.Set("callbackUrl", callbackURL)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, africasTalkingVoiceEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return exceptions.ErrVoiceDialFailed(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationForm)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAPIKey, d.ApiKey)

	resp, err := d.HttpClient.Do(req)
	if err != nil {
		return exceptions.ErrVoiceDialFailed(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return exceptions.ErrVoiceDialFailed(fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body)))
	}

	d.Log.Info("africasTalkingDialer.Call succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPhoneKey, to),
	)
	return nil
}
