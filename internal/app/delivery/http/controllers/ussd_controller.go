package controllers

import (
	"context"
	"errors"
	"net/http"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"smarthealth-service/internal/pkg/utils"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var validate = validator.New()

type USSDController struct {
	Log         *zap.Logger
	USSDUsecase contracts.USSDUsecase
}

var (
	ussdControllerInstance *USSDController
	onceUSSDController     sync.Once
)

func NewUSSDController(logger *zap.Logger, ussdUsecase contracts.USSDUsecase) *USSDController {
	onceUSSDController.Do(func() {
		ussdControllerInstance = &USSDController{
			Log:         logger,
			USSDUsecase: ussdUsecase,
		}
	})
	return ussdControllerInstance
}

// Handle answers the gateway webhook. Every outcome, including errors, is a
// 200 with a CON/END body; anything else shows the caller a raw gateway
// failure screen.
func (ctrl *USSDController) Handle(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request, err := parseUSSDRequest(r)
	if err != nil {
		ctrl.Log.Error("Failed to parse USSD webhook",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.WriteUSSDResponse(w, "END "+constvars.ErrClientCannotProcessRequest)
		return
	}
	if err := validate.Struct(request); err != nil {
		ctrl.Log.Error("USSD webhook validation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.WriteUSSDResponse(w, "END "+constvars.ErrClientCannotProcessRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reply, err := ctrl.USSDUsecase.Handle(ctx, request)
	if err != nil {
		clientMessage := constvars.ErrClientServiceUnavailable
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) {
			clientMessage = customErr.ClientMessage
			ctrl.Log.Error(customErr.DevMessage,
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, request.SessionID),
			)
		} else {
			ctrl.Log.Error("USSD handling failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
		utils.WriteUSSDResponse(w, "END "+clientMessage)
		return
	}

	prefix := "END "
	if reply.Continue {
		prefix = "CON "
	}
	utils.WriteUSSDResponse(w, prefix+reply.Text)
}

func parseUSSDRequest(r *http.Request) (*contracts.USSDRequest, error) {
	if strings.Contains(r.Header.Get(constvars.HeaderContentType), constvars.MIMEApplicationJSON) {
		request := new(contracts.USSDRequest)
		if err := json.NewDecoder(r.Body).Decode(request); err != nil {
			return nil, exceptions.ErrCannotParseJSON(err)
		}
		return request, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, exceptions.ErrCannotParseForm(err)
	}
	return &contracts.USSDRequest{
		SessionID:   r.PostFormValue("sessionId"),
		ServiceCode: r.PostFormValue("serviceCode"),
		PhoneNumber: r.PostFormValue("phoneNumber"),
		Text:        r.PostFormValue("text"),
	}, nil
}
