package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layouts accepted for timestamps in request bodies and path parameters, tried in order.
// The last two carry no zone and are read as UTC.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDatetime parses value with the first matching layout and returns it in UTC.
func ParseDatetime(value string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime '%s', expected RFC 3339, 2006-01-02T15:04:05 or 2006-01-02", value)
}

// jsonTime decodes a JSON string with ParseDatetime. null leaves the zero time.
type jsonTime struct {
	time.Time
}

func (t *jsonTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := ParseDatetime(value)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
