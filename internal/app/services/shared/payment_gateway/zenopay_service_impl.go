package payment_gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"smarthealth-service/internal/app/config"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	zenopayServiceInstance contracts.PaymentGatewayService
	onceZenopayService     sync.Once
)

type zenopayService struct {
	BaseUrl    string
	ApiKey     string
	SecretKey  string
	AccountID  string
	TestMode   bool
	HttpClient *http.Client
	Log        *zap.Logger
}

func NewZenopayService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	onceZenopayService.Do(func() {
		instance := &zenopayService{
			BaseUrl:   internalConfig.PaymentGateway.BaseURL,
			ApiKey:    internalConfig.PaymentGateway.APIKey,
			SecretKey: internalConfig.PaymentGateway.SecretKey,
			AccountID: internalConfig.PaymentGateway.AccountID,
			TestMode:  internalConfig.PaymentGateway.TestMode,
			HttpClient: &http.Client{
				Timeout: 20 * time.Second,
			},
			Log: logger,
		}
		zenopayServiceInstance = instance
	})
	return zenopayServiceInstance
}

type zenopayPaymentRequest struct {
	AccountID  string  `json:"account_id"`
	APIKey     string  `json:"api_key"`
	SecretKey  string  `json:"secret_key"`
	OrderID    string  `json:"order_id"`
	BuyerPhone string  `json:"buyer_phone"`
	Amount     float64 `json:"amount"`
	Remarks    string  `json:"remarks"`
}

type zenopayPaymentResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	PaymentID string `json:"payment_id"`
}

func (s *zenopayService) InitiatePayment(ctx context.Context, in *contracts.InitiatePaymentInput) (*contracts.InitiatePaymentOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("zenopayService.InitiatePayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionIDKey, in.TransactionID),
		zap.Float64(constvars.LoggingAmountKey, in.Amount),
	)

	if s.TestMode {
		s.Log.Info("zenopayService.InitiatePayment test mode, skipping gateway call",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTransactionIDKey, in.TransactionID),
		)
		return &contracts.InitiatePaymentOutput{
			PaymentID: in.TransactionID,
			Status:    "pending",
			Message:   "test mode payment initiated",
		}, nil
	}

	payload := zenopayPaymentRequest{
		AccountID:  s.AccountID,
		APIKey:     s.ApiKey,
		SecretKey:  s.SecretKey,
		OrderID:    in.TransactionID,
		BuyerPhone: in.Phone,
		Amount:     in.Amount,
		Remarks:    in.Description,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, s.BaseUrl, bytes.NewReader(body))
	if err != nil {
		return nil, exceptions.ErrPaymentInitiation(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrPaymentInitiation(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrPaymentInitiation(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, exceptions.ErrPaymentInitiation(fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBody)))
	}

	var gatewayResp zenopayPaymentResponse
	if err := json.Unmarshal(respBody, &gatewayResp); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}

	s.Log.Info("zenopayService.InitiatePayment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionIDKey, in.TransactionID),
		zap.String(constvars.LoggingPaymentStatusKey, gatewayResp.Status),
	)
	return &contracts.InitiatePaymentOutput{
		PaymentID: gatewayResp.PaymentID,
		Status:    gatewayResp.Status,
		Message:   gatewayResp.Message,
	}, nil
}

// VerifySignature recomputes the HMAC over the callback fields sorted by
// key, joined as key=value pairs with '&', and compares in constant time.
func (s *zenopayService) VerifySignature(fields map[string]string, signature string) bool {
	if signature == "" {
		return false
	}
	expected := s.computeSignature(fields)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (s *zenopayService) computeSignature(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, fields[k]))
	}

	mac := hmac.New(sha256.New, []byte(s.SecretKey))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}
