package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newAppointmentID mints a date-prefixed identifier that sorts roughly by
// creation time and stays human-legible, e.g. APT-20260901-143000-a1b2c3d4.
// The random suffix makes collisions within the same second negligible.
func newAppointmentID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("APT-%s-%s", now.UTC().Format("20060102-150405"), suffix)
}
