// Package sign turns hand landmarks into stabilized gesture labels and a transcript.
package sign

import "fmt"

// Label is one entry of the closed gesture vocabulary.
type Label int

const (
	None Label = iota
	Yes
	No
	Hello
	ThankYou
	ILoveYou
	Please
)

var labelCodes = [...]string{
	None:     "none",
	Yes:      "yes",
	No:       "no",
	Hello:    "hello",
	ThankYou: "thank_you",
	ILoveYou: "i_love_you",
	Please:   "please",
}

var labelTexts = [...]string{
	None:     "",
	Yes:      "Yes",
	No:       "No",
	Hello:    "Hello",
	ThankYou: "Thank You",
	ILoveYou: "I Love You",
	Please:   "Please",
}

// Labels returns every gesture label except None, in declaration order.
func Labels() []Label {
	return []Label{Yes, No, Hello, ThankYou, ILoveYou, Please}
}

// Valid reports whether l is part of the vocabulary.
func (l Label) Valid() bool {
	return l >= None && l <= Please
}

// String returns the stable code for the label, e.g. "thank_you".
func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelCodes[l]
}

// Text returns the human-readable form written to the transcript.
func (l Label) Text() string {
	if !l.Valid() {
		return ""
	}
	return labelTexts[l]
}

// ParseLabel converts a label code back into a Label.
func ParseLabel(s string) (Label, error) {
	for i, code := range labelCodes {
		if code == s {
			return Label(i), nil
		}
	}
	return None, fmt.Errorf("unknown gesture label %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid gesture label %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
