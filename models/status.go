package models

import (
	"fmt"
	"strings"
)

// Status is derived from dates and completion flags and is never persisted.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusOpens     Status = "OPENS"
	StatusExpired   Status = "EXPIRED"
)

var statuses = []Status{StatusCompleted, StatusOpens, StatusExpired}

// ParseStatus accepts the enumeration names case-insensitively.
func ParseStatus(s string) (Status, error) {
	for _, status := range statuses {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q, expected one of COMPLETED, OPENS, EXPIRED", s)
}

// Statuses lists every status in declaration order.
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}
