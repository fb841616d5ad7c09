// Package timezone keeps every booking time in one application timezone.
//
// Usage:
//
//	now := timezone.Now()
//	at, err := timezone.Parse(time.RFC3339, "2026-05-04T10:00:00+07:00")
//	label := timezone.Format(at, time.RFC3339)
//
// The timezone is read from APP_TIMEZONE when the package is imported and
// defaults to UTC. Use IANA names such as "Asia/Jakarta" or "Europe/London".
package timezone
