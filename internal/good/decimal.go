package good

import (
	"fmt"
	"regexp"

	json "github.com/goccy/go-json"
)

var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Decimal is a numeric value kept as the exact literal it was received as.
// Two values are equal only when their literals are identical, so no precision
// is lost between the profile document, the identity keys and the file.
type Decimal string

func ParseDecimal(s string) (Decimal, error) {
	if !numberLiteral.MatchString(s) {
		return "", fmt.Errorf("invalid decimal literal %q", s)
	}
	return Decimal(s), nil
}

func (d Decimal) String() string {
	if d == "" {
		return "0"
	}
	return string(d)
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	literal := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &literal); err != nil {
			return err
		}
	}
	parsed, err := ParseDecimal(literal)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
