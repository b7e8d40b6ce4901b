package contracts

import "context"

type VoiceRequest struct {
	SessionID    string `json:"sessionId" validate:"required"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
	Digits       string `json:"dtmfDigits"`
	RecordingURL string `json:"recordingUrl"`
	IsActive     string `json:"isActive"`
	Provider     string `json:"provider"`
	// Provider-reported call length, present on the final call event.
	DurationInSeconds string `json:"durationInSeconds"`
}

// VoiceReply is the rendered call-control document for the provider.
type VoiceReply struct {
	ContentType string
	Body        string
}

type TranscriptionWebhook struct {
	SessionID     string `json:"sessionId" validate:"required"`
	Transcription string `json:"transcription"`
	Status        string `json:"status"`
}

type DoctorCallRequest struct {
	Token  string `json:"token" validate:"required"`
	Digits string `json:"dtmfDigits"`
}

type VoiceUsecase interface {
	HandleIncoming(ctx context.Context, req *VoiceRequest) (*VoiceReply, error)
	HandleMenu(ctx context.Context, req *VoiceRequest) (*VoiceReply, error)
	HandleDoctorSelection(ctx context.Context, req *VoiceRequest) (*VoiceReply, error)
	HandleSymptomsRecorded(ctx context.Context, req *VoiceRequest) (*VoiceReply, error)
	HandleWaitForDoctor(ctx context.Context, req *VoiceRequest) (*VoiceReply, error)
	HandleCallCompleted(ctx context.Context, req *VoiceRequest) error
	HandleTranscription(ctx context.Context, req *TranscriptionWebhook) error
	HandleDoctorCall(ctx context.Context, req *DoctorCallRequest) (*VoiceReply, error)
	HandleDoctorResponse(ctx context.Context, req *DoctorCallRequest) (*VoiceReply, error)
}
