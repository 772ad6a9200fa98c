// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds a libpq style connection string. Sessions run in UTC so that
// CURRENT_DATE and date columns agree with the service clock.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
