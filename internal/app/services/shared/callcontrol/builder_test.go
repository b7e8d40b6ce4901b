package callcontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderFor(t *testing.T) {
	builder, err := BuilderFor("africastalking")
	require.NoError(t, err)
	assert.NotNil(t, builder)

	builder, err = BuilderFor("")
	require.NoError(t, err)
	assert.NotNil(t, builder)

	builder, err = BuilderFor("twilio")
	require.NoError(t, err)
	assert.NotNil(t, builder)

	_, err = BuilderFor("plivo")
	assert.Error(t, err)
}

func TestAfricasTalkingDocuments(t *testing.T) {
	builder := NewAfricasTalkingBuilder()

	assert.Equal(t, "text/xml", builder.ContentType())

	doc := builder.GetDigits("Press 1 for consultation", 1, 10, "https://api.example.com/voice/menu")
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response><GetDigits timeout="10" numDigits="1" callbackUrl="https://api.example.com/voice/menu"><Say>Press 1 for consultation</Say></GetDigits></Response>`, doc)

	doc = builder.Say("Goodbye")
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response><Say>Goodbye</Say></Response>`, doc)

	doc = builder.Record("Describe your symptoms", 120, "#", "https://api.example.com/voice/process-symptoms")
	assert.Contains(t, doc, `maxLength="120"`)
	assert.Contains(t, doc, `finishOnKey="#"`)
	assert.Contains(t, doc, `callbackUrl="https://api.example.com/voice/process-symptoms"`)

	doc = builder.Dial("+255712000001", "+255800000001")
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response><Dial phoneNumbers="+255712000001" callerId="+255800000001" record="true"/></Response>`, doc)

	doc = builder.PlayThenRedirect("https://cdn.example.com/hold.mp3", "https://api.example.com/voice/wait-for-doctor")
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response><Play url="https://cdn.example.com/hold.mp3"/><Redirect>https://api.example.com/voice/wait-for-doctor</Redirect></Response>`, doc)

	doc = builder.Reject("Session expired")
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response><Say>Session expired</Say><Reject/></Response>`, doc)

	doc = builder.Reject("")
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response><Reject/></Response>`, doc)
}

func TestAfricasTalkingEscapesPromptText(t *testing.T) {
	builder := NewAfricasTalkingBuilder()

	doc := builder.Say(`Press 1 for "Dr. O'Brien" & more <options>`)
	assert.Contains(t, doc, "Press 1 for &quot;Dr. O&apos;Brien&quot; &amp; more &lt;options&gt;")
	assert.NotContains(t, doc, `"Dr. O'Brien"`)

	doc = builder.GetDigits("Choose", 1, 5, "https://api.example.com/voice/menu?provider=at&lang=sw")
	assert.Contains(t, doc, "provider=at&amp;lang=sw")
}

func TestTwilioDocuments(t *testing.T) {
	builder := NewTwilioBuilder()

	doc := builder.GetDigits("Press 1", 1, 10, "https://api.example.com/voice/menu")
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response><Gather numDigits="1" timeout="10" action="https://api.example.com/voice/menu" method="POST"><Say>Press 1</Say></Gather></Response>`, doc)

	doc = builder.Dial("+255712000001", "+255800000001")
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response><Dial callerId="+255800000001" record="record-from-answer"><Number>+255712000001</Number></Dial></Response>`, doc)

	doc = builder.PlayThenRedirect("https://cdn.example.com/hold.mp3", "https://api.example.com/voice/wait-for-doctor")
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response><Play>https://cdn.example.com/hold.mp3</Play><Redirect method="POST">https://api.example.com/voice/wait-for-doctor</Redirect></Response>`, doc)

	doc = builder.Reject("Session expired")
	assert.Contains(t, doc, "<Hangup/>")
}
