package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Flag is a boolean that decodes from any JSON scalar using truthiness:
// false, 0, "", and null are false, every other value is true.
// It always encodes as a JSON boolean.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value for flag")
	}

	switch data[0] {
	case 'n':
		*f = false
	case 't':
		*f = true
	case 'f':
		*f = false
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode flag: %w", err)
		}
		*f = s != ""
	case '{', '[':
		*f = true
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("decode flag %q: %w", data, err)
		}
		*f = n != 0
	}
	return nil
}

// Int returns the 0/1 column value.
func (f Flag) Int() int {
	if f {
		return 1
	}
	return 0
}
