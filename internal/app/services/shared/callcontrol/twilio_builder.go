package callcontrol

import (
	"fmt"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
)

// twilioBuilder renders TwiML documents.
type twilioBuilder struct{}

func NewTwilioBuilder() contracts.CallControlBuilder {
	return &twilioBuilder{}
}

func (b *twilioBuilder) ContentType() string {
	return constvars.MIMETextXML
}

func (b *twilioBuilder) GetDigits(prompt string, numDigits int, timeoutSeconds int, callbackURL string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Gather numDigits="%d" timeout="%d" action="%s" method="POST"><Say>%s</Say></Gather></Response>`,
		numDigits, timeoutSeconds, escapeXML(callbackURL), escapeXML(prompt),
	)
}

func (b *twilioBuilder) Say(text string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Say>%s</Say></Response>`,
		escapeXML(text),
	)
}

func (b *twilioBuilder) Record(prompt string, maxLengthSeconds int, finishOnKey string, callbackURL string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Say>%s</Say><Record maxLength="%d" finishOnKey="%s" playBeep="true" action="%s" method="POST"/></Response>`,
		escapeXML(prompt), maxLengthSeconds, escapeXML(finishOnKey), escapeXML(callbackURL),
	)
}

func (b *twilioBuilder) Dial(phoneNumber string, callerID string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Dial callerId="%s" record="record-from-answer"><Number>%s</Number></Dial></Response>`,
		escapeXML(callerID), escapeXML(phoneNumber),
	)
}

func (b *twilioBuilder) Redirect(url string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Redirect method="POST">%s</Redirect></Response>`,
		escapeXML(url),
	)
}

func (b *twilioBuilder) Play(audioURL string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Play>%s</Play></Response>`,
		escapeXML(audioURL),
	)
}

func (b *twilioBuilder) PlayThenRedirect(audioURL string, url string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Play>%s</Play><Redirect method="POST">%s</Redirect></Response>`,
		escapeXML(audioURL), escapeXML(url),
	)
}

func (b *twilioBuilder) Reject(text string) string {
	if text == "" {
		return `<?xml version="1.0" encoding="UTF-8"?><Response><Reject/></Response>`
	}
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Say>%s</Say><Hangup/></Response>`,
		escapeXML(text),
	)
}
