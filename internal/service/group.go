package service

import (
	"fmt"

	"github.com/google/uuid"
)

// Grouping decides how recurrence group ids are shared across targets.
type Grouping string

const (
	// GroupPerCall shares one group id across every target of a generation call.
	GroupPerCall Grouping = "per_call"
	// GroupPerTarget gives each target its own group id.
	GroupPerTarget Grouping = "per_target"
)

// ParseGrouping maps a config value to a Grouping. Empty means per call.
func ParseGrouping(raw string) (Grouping, error) {
	switch g := Grouping(raw); g {
	case "":
		return GroupPerCall, nil
	case GroupPerCall, GroupPerTarget:
		return g, nil
	}
	return "", fmt.Errorf("unknown grouping %q", raw)
}

// NewGroupID returns a fresh recurrence group id. UUIDv7 carries a
// millisecond timestamp plus random bits, so concurrent calls need no
// coordination.
func NewGroupID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
