package domain

import (
	json "github.com/json-iterator/go"
	"go.uber.org/zap/zapcore"
)

const maskedCVV = "***"

type maskedCard struct {
	Number string `json:"number"`
	CVV    string `json:"cvv"`
}

// CardDetails carries the full card number and CVV between validation and the
// acquirer call. Every text form of it is masked, so passing it to a logger or
// an encoder cannot leak the raw values.
type CardDetails struct {
	Number string
	CVV    string
}

// LastFour returns the final four characters of the card number. Callers must
// have validated the number first.
func (c CardDetails) LastFour() string {
	return LastFour(c.Number)
}

func (c CardDetails) String() string {
	return "card(" + MaskPAN(c.Number) + ")"
}

func (c CardDetails) GoString() string {
	return c.String()
}

func (c CardDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(maskedCard{Number: MaskPAN(c.Number), CVV: maskedCVV})
}

func (c CardDetails) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("number", MaskPAN(c.Number))
	enc.AddString("cvv", maskedCVV)
	return nil
}

// LastFour truncates a card number to its last four characters.
func LastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

// MaskPAN keeps only the last four characters of a card number.
func MaskPAN(number string) string {
	if number == "" {
		return ""
	}
	if len(number) <= 4 {
		return "****"
	}
	return "****" + number[len(number)-4:]
}
