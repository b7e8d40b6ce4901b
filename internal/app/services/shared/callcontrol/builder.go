package callcontrol

import (
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
)

// BuilderFor maps a provider name to its renderer. The provider name
// comes from config for the primary leg and from the webhook payload for
// provider-initiated callbacks.
func BuilderFor(provider string) (contracts.CallControlBuilder, error) {
	switch provider {
	case constvars.VoiceProviderAfricasTalking, "":
		return NewAfricasTalkingBuilder(), nil
	case constvars.VoiceProviderTwilio:
		return NewTwilioBuilder(), nil
	default:
		return nil, exceptions.ErrUnsupportedVoiceProvider(provider)
	}
}
