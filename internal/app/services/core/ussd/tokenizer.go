package ussd

import "strings"

// Tokenize splits the accumulated USSD input into the ordered list of inputs
// supplied since session start. The gateway sends the whole history on every
// round trip, '*'-delimited, empty on first dial.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "*")
}
