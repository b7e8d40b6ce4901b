package constvars

const (
	RegexFourDigitPin = `^\d{4}$`
)
