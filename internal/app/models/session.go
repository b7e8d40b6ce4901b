package models

import "time"

type SessionStep string

// USSD steps.
const (
	StepRegistrationName SessionStep = "registration_name"
	StepRegistrationPin  SessionStep = "registration_pin"
	StepLoginPin         SessionStep = "login_pin"
	StepAuthenticated    SessionStep = "authenticated"
	StepMenuNavigation   SessionStep = "menu_navigation"
	StepDoctorList       SessionStep = "doctor_list"
	StepPaymentOptions   SessionStep = "payment_options"
	StepPaymentPending   SessionStep = "payment_pending"
	StepSymptoms         SessionStep = "symptoms"
)

// Voice steps.
const (
	StepVoiceIncoming         SessionStep = "voice_incoming"
	StepVoiceMenuSelected     SessionStep = "voice_menu_selected"
	StepVoiceTrialRecording   SessionStep = "voice_trial_recording"
	StepVoiceDoctorSelection  SessionStep = "voice_doctor_selection"
	StepVoiceDoctorSelected   SessionStep = "voice_doctor_selected"
	StepVoiceSymptomsRecorded SessionStep = "voice_symptoms_recorded"
	StepVoiceWaiting          SessionStep = "voice_waiting"
	StepVoiceCompleted        SessionStep = "voice_completed"
)

// DoctorOption is a doctor as rendered into a numbered menu. The option list is
// pinned in the session payload so later numeric selections resolve against the
// list the caller saw, not a fresh query.
type DoctorOption struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Fee            float64 `json:"fee"`
	Phone          string  `json:"phone,omitempty"`
}

// SessionPayload is the flow scratch space. Fields are only meaningful for the
// step that wrote them.
type SessionPayload struct {
	Name             string         `json:"name,omitempty"`
	Doctors          []DoctorOption `json:"doctors,omitempty"`
	SelectedDoctor   *DoctorOption  `json:"selectedDoctor,omitempty"`
	FinalAmount      float64        `json:"finalAmount,omitempty"`
	Discount         float64        `json:"discount,omitempty"`
	OfferID          string         `json:"offerId,omitempty"`
	OfferType        OfferType      `json:"offerType,omitempty"`
	PaymentConfirmed bool           `json:"paymentConfirmed,omitempty"`
	PaymentMethod    string         `json:"paymentMethod,omitempty"`
	PaymentPending   bool           `json:"paymentPending,omitempty"`
	TransactionID    string         `json:"transactionId,omitempty"`
	CaseID           string         `json:"caseId,omitempty"`
	MenuChoice       string         `json:"menuChoice,omitempty"`
	RecordingURL     string         `json:"recordingUrl,omitempty"`
	Transcription    string         `json:"transcription,omitempty"`
}

// Session reconstructs conversation position across stateless webhook calls.
// One logical transition per webhook; concurrent deliveries for the same
// SessionID are serialized by the session lock.
type Session struct {
	SessionID     string         `json:"sessionId"`
	Channel       string         `json:"channel"`
	Phone         string         `json:"phone"`
	SubscriberID  string         `json:"subscriberId,omitempty"`
	Authenticated bool           `json:"authenticated"`
	Step          SessionStep    `json:"step"`
	Payload       SessionPayload `json:"payload"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
