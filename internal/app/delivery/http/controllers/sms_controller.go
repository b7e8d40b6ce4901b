package controllers

import (
	"context"
	"net/http"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"smarthealth-service/internal/pkg/utils"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type SMSController struct {
	Log               *zap.Logger
	SMSInboundUsecase contracts.SMSInboundUsecase
}

var (
	smsControllerInstance *SMSController
	onceSMSController     sync.Once
)

func NewSMSController(logger *zap.Logger, smsInboundUsecase contracts.SMSInboundUsecase) *SMSController {
	onceSMSController.Do(func() {
		smsControllerInstance = &SMSController{
			Log:               logger,
			SMSInboundUsecase: smsInboundUsecase,
		}
	})
	return smsControllerInstance
}

// Incoming receives the gateway's inbound message webhook. Replies go out
// through the SMS queue, so a 200 here only acknowledges receipt.
func (ctrl *SMSController) Incoming(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request, err := parseIncomingSMS(r)
	if err != nil {
		ctrl.Log.Error("Failed to parse inbound SMS webhook",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if err := validate.Struct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.SMSInboundUsecase.Handle(ctx, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessMessageProcessed, nil)
}

func parseIncomingSMS(r *http.Request) (*contracts.IncomingSMSRequest, error) {
	if strings.Contains(r.Header.Get(constvars.HeaderContentType), constvars.MIMEApplicationJSON) {
		request := new(contracts.IncomingSMSRequest)
		if err := json.NewDecoder(r.Body).Decode(request); err != nil {
			return nil, exceptions.ErrCannotParseJSON(err)
		}
		return request, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, exceptions.ErrCannotParseForm(err)
	}
	return &contracts.IncomingSMSRequest{
		From: r.PostFormValue("from"),
		Text: r.PostFormValue("text"),
		Date: r.PostFormValue("date"),
		ID:   r.PostFormValue("id"),
	}, nil
}
