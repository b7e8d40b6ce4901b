package contracts

import "context"

// CallControlBuilder renders provider-specific call control documents.
// Each method returns a complete response body ready to be written back
// to the telephony provider.
type CallControlBuilder interface {
	ContentType() string
	GetDigits(prompt string, numDigits int, timeoutSeconds int, callbackURL string) string
	Say(text string) string
	Record(prompt string, maxLengthSeconds int, finishOnKey string, callbackURL string) string
	Dial(phoneNumber string, callerID string) string
	Redirect(url string) string
	Play(audioURL string) string
	// PlayThenRedirect loops hold audio: the provider replays the audio and
	// re-requests the redirect target when it finishes.
	PlayThenRedirect(audioURL string, url string) string
	Reject(text string) string
}

// VoiceDialer places outbound call legs, used to ring the doctor once a
// queue entry is created.
type VoiceDialer interface {
	Call(ctx context.Context, to string, callbackURL string) error
}
