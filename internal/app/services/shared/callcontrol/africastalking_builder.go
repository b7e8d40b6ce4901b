package callcontrol

import (
	"fmt"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
	"strings"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// africasTalkingBuilder renders Africa's Talking voice XML documents.
type africasTalkingBuilder struct{}

func NewAfricasTalkingBuilder() contracts.CallControlBuilder {
	return &africasTalkingBuilder{}
}

func (b *africasTalkingBuilder) ContentType() string {
	return constvars.MIMETextXML
}

func (b *africasTalkingBuilder) GetDigits(prompt string, numDigits int, timeoutSeconds int, callbackURL string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><GetDigits timeout="%d" numDigits="%d" callbackUrl="%s"><Say>%s</Say></GetDigits></Response>`,
		timeoutSeconds, numDigits, escapeXML(callbackURL), escapeXML(prompt),
	)
}

func (b *africasTalkingBuilder) Say(text string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Say>%s</Say></Response>`,
		escapeXML(text),
	)
}

func (b *africasTalkingBuilder) Record(prompt string, maxLengthSeconds int, finishOnKey string, callbackURL string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Record finishOnKey="%s" maxLength="%d" trimSilence="true" playBeep="true" callbackUrl="%s"><Say>%s</Say></Record></Response>`,
		escapeXML(finishOnKey), maxLengthSeconds, escapeXML(callbackURL), escapeXML(prompt),
	)
}

func (b *africasTalkingBuilder) Dial(phoneNumber string, callerID string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Dial phoneNumbers="%s" callerId="%s" record="true"/></Response>`,
		escapeXML(phoneNumber), escapeXML(callerID),
	)
}

func (b *africasTalkingBuilder) Redirect(url string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Redirect>%s</Redirect></Response>`,
		escapeXML(url),
	)
}

func (b *africasTalkingBuilder) Play(audioURL string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Play url="%s"/></Response>`,
		escapeXML(audioURL),
	)
}

func (b *africasTalkingBuilder) PlayThenRedirect(audioURL string, url string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Play url="%s"/><Redirect>%s</Redirect></Response>`,
		escapeXML(audioURL), escapeXML(url),
	)
}

func (b *africasTalkingBuilder) Reject(text string) string {
	if text == "" {
		return `<?xml version="1.0" encoding="UTF-8"?><Response><Reject/></Response>`
	}
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Say>%s</Say><Reject/></Response>`,
		escapeXML(text),
	)
}
