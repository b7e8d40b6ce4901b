package sms

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

type africasTalkingClient struct {
	BaseUrl    string
	ApiKey     string
	Username   string
	SenderID   string
	HttpClient *http.Client
	Log        *zap.Logger
}

func NewAfricasTalkingClient(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.SMSProviderClient {
	return &africasTalkingClient{
		BaseUrl:  internalConfig.SMSProvider.BaseURL,
		ApiKey:   internalConfig.SMSProvider.APIKey,
		Username: internalConfig.SMSProvider.Username,
		SenderID: internalConfig.SMSProvider.SenderID,
		HttpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		Log: logger,
	}
}

func (c *africasTalkingClient) SendSMS(ctx context.Context, phone, message string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("africasTalkingClient.SendSMS called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPhoneKey, phone),
	)

	form := url.Values{}
	form.Set("username", c.Username)
	form.Set("to", phone)
	form.Set("message", message)
	if c.SenderID != "" {
		form.Set("from", c.SenderID)
	}

	endpoint := fmt.Sprintf("%s/version1/messaging", c.BaseUrl)
	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return exceptions.ErrSMSProviderSend(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationForm)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAPIKey, c.ApiKey)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return exceptions.ErrSMSProviderSend(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return exceptions.ErrSMSProviderSend(fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body)))
	}

	c.Log.Info("africasTalkingClient.SendSMS succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPhoneKey, phone),
	)
	return nil
}
