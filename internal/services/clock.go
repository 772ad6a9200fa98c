// internal/services/clock.go
package services

import (
	"time"

	"github.com/javajoker/chemist-backend/internal/models"
)

const timestampLayout = time.RFC3339

// Clock returns the current instant. Services derive "today" from it so
// expiry calculations can be pinned in tests.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

func (c Clock) Today() models.Date {
	if c == nil {
		return models.Today(SystemClock)
	}
	return models.Today(c)
}
