package controllers

import (
	"context"
	"errors"
	"net/http"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"smarthealth-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type VoiceController struct {
	Log          *zap.Logger
	VoiceUsecase contracts.VoiceUsecase
}

var (
	voiceControllerInstance *VoiceController
	onceVoiceController     sync.Once
)

func NewVoiceController(logger *zap.Logger, voiceUsecase contracts.VoiceUsecase) *VoiceController {
	onceVoiceController.Do(func() {
		voiceControllerInstance = &VoiceController{
			Log:          logger,
			VoiceUsecase: voiceUsecase,
		}
	})
	return voiceControllerInstance
}

type voiceHandler func(ctx context.Context, req *contracts.VoiceRequest) (*contracts.VoiceReply, error)

func (ctrl *VoiceController) Incoming(w http.ResponseWriter, r *http.Request) {
	ctrl.serve(w, r, ctrl.VoiceUsecase.HandleIncoming)
}

func (ctrl *VoiceController) Menu(w http.ResponseWriter, r *http.Request) {
	ctrl.serve(w, r, ctrl.VoiceUsecase.HandleMenu)
}

func (ctrl *VoiceController) SelectDoctor(w http.ResponseWriter, r *http.Request) {
	ctrl.serve(w, r, ctrl.VoiceUsecase.HandleDoctorSelection)
}

func (ctrl *VoiceController) ProcessSymptoms(w http.ResponseWriter, r *http.Request) {
	ctrl.serve(w, r, ctrl.VoiceUsecase.HandleSymptomsRecorded)
}

func (ctrl *VoiceController) WaitForDoctor(w http.ResponseWriter, r *http.Request) {
	ctrl.serve(w, r, ctrl.VoiceUsecase.HandleWaitForDoctor)
}

func (ctrl *VoiceController) serve(w http.ResponseWriter, r *http.Request, handler voiceHandler) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request, err := parseVoiceRequest(r)
	if err != nil {
		ctrl.Log.Error("Failed to parse voice webhook",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		ctrl.writeErrorDocument(w)
		return
	}
	if err := validate.Struct(request); err != nil {
		ctrl.Log.Error("Voice webhook validation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		ctrl.writeErrorDocument(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reply, err := handler(ctx, request)
	if err != nil {
		ctrl.logHandlerError(requestID, request.SessionID, err)
		ctrl.writeErrorDocument(w)
		return
	}
	utils.WriteCallControlResponse(w, reply.ContentType, reply.Body)
}

// CallCompleted is the provider's final event for a call leg; there is no
// call control to return.
func (ctrl *VoiceController) CallCompleted(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request, err := parseVoiceRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.VoiceUsecase.HandleCallCompleted(ctx, request); err != nil {
		ctrl.logHandlerError(requestID, request.SessionID, err)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessMessageProcessed, nil)
}

func (ctrl *VoiceController) Transcription(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request, err := parseTranscriptionWebhook(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if err := validate.Struct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.VoiceUsecase.HandleTranscription(ctx, request); err != nil {
		ctrl.logHandlerError(requestID, request.SessionID, err)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessMessageProcessed, nil)
}

func (ctrl *VoiceController) DoctorCall(w http.ResponseWriter, r *http.Request) {
	ctrl.serveDoctorLeg(w, r, ctrl.VoiceUsecase.HandleDoctorCall)
}

func (ctrl *VoiceController) DoctorResponse(w http.ResponseWriter, r *http.Request) {
	ctrl.serveDoctorLeg(w, r, ctrl.VoiceUsecase.HandleDoctorResponse)
}

func (ctrl *VoiceController) serveDoctorLeg(w http.ResponseWriter, r *http.Request, handler func(ctx context.Context, req *contracts.DoctorCallRequest) (*contracts.VoiceReply, error)) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if err := r.ParseForm(); err != nil {
		ctrl.Log.Error("Failed to parse doctor leg webhook",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		ctrl.writeErrorDocument(w)
		return
	}
	request := &contracts.DoctorCallRequest{
		Token:  r.URL.Query().Get("token"),
		Digits: r.PostFormValue("dtmfDigits"),
	}
	if err := validate.Struct(request); err != nil {
		ctrl.Log.Error("Doctor leg webhook validation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		ctrl.writeErrorDocument(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reply, err := handler(ctx, request)
	if err != nil {
		ctrl.logHandlerError(requestID, "", err)
		ctrl.writeErrorDocument(w)
		return
	}
	utils.WriteCallControlResponse(w, reply.ContentType, reply.Body)
}

func (ctrl *VoiceController) logHandlerError(requestID, sessionID string, err error) {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		ctrl.Log.Error(customErr.DevMessage,
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCallSessionIDKey, sessionID),
		)
		return
	}
	ctrl.Log.Error("Voice handling failed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCallSessionIDKey, sessionID),
		zap.Error(err),
	)
}

func (ctrl *VoiceController) writeErrorDocument(w http.ResponseWriter) {
	utils.WriteCallControlResponse(w, constvars.MIMETextXML,
		`<?xml version="1.0" encoding="UTF-8"?><Response><Say>`+constvars.ErrClientServiceUnavailable+`</Say></Response>`)
}

func parseVoiceRequest(r *http.Request) (*contracts.VoiceRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, exceptions.ErrCannotParseForm(err)
	}

	phone := r.PostFormValue("callerNumber")
	if phone == "" {
		phone = r.PostFormValue("phoneNumber")
	}
	return &contracts.VoiceRequest{
		SessionID:         r.PostFormValue("sessionId"),
		PhoneNumber:       phone,
		Digits:            r.PostFormValue("dtmfDigits"),
		RecordingURL:      r.PostFormValue("recordingUrl"),
		IsActive:          r.PostFormValue("isActive"),
		Provider:          r.URL.Query().Get("provider"),
		DurationInSeconds: r.PostFormValue("durationInSeconds"),
	}, nil
}

func parseTranscriptionWebhook(r *http.Request) (*contracts.TranscriptionWebhook, error) {
	if err := r.ParseForm(); err != nil {
		return nil, exceptions.ErrCannotParseForm(err)
	}
	return &contracts.TranscriptionWebhook{
		SessionID:     r.PostFormValue("sessionId"),
		Transcription: r.PostFormValue("transcription"),
		Status:        r.PostFormValue("status"),
	}, nil
}
