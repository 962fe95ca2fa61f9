package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flag is a boolean that also accepts 0/1 numbers and "true"/"1"/"on"
// strings, as sent by the admin panel forms.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = ParseFlag(s)
		return nil
	}
	*f = ParseFlag(string(b))
	return nil
}

// ParseFlag reports whether s is a truthy form value.
func ParseFlag(s string) Flag {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "0", "false", "off", "no":
		return false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n != 0
	}
	return true
}

// FlagOr dereferences f, returning def when it is unset.
func FlagOr(f *Flag, def bool) bool {
	if f == nil {
		return def
	}
	return bool(*f)
}
