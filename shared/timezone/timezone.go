package timezone

import (
	"time"

	"github.com/rs/zerolog/log"

	"washbay/config"
)

const defaultTimezone = "UTC"

var (
	appLocation *time.Location
)

func init() {
	cfg := config.Get()

	name := cfg.App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		name = defaultTimezone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Please use IANA names like 'Asia/Jakarta' or 'Europe/London'")

		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().Str("location", loc.String()).Msg("Application timezone initialized")
}

func location() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Now returns the current time in the application timezone, truncated to the second.
func Now() time.Time {
	return time.Now().In(location()).Truncate(time.Second)
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	return location()
}

// Parse parses a time string in the application timezone. Layouts carrying an offset keep it.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, location()) // nolint:wrapcheck
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
