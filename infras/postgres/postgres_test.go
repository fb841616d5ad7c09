package postgres_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washbay/config"
	"washbay/infras/postgres"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"

	endpoint := config.PostgresEndpoint{
		Host:     "db.internal",
		Port:     "5432",
		Username: "washbay",
		Password: "p@ss:word",
		Name:     "washbay",
		Timezone: "Asia/Jakarta",
		SSLMode:  "require",
	}

	dsn := postgres.DSN(cfg, endpoint, url.Values{"x-migrations-table": {"schema_migrations"}})

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/test_washbay", parsed.Path)
	assert.Equal(t, "washbay", parsed.User.Username())
	assert.Equal(t, "p@ss:word", password)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
	assert.Equal(t, "Asia/Jakarta", parsed.Query().Get("timezone"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestDSN_NoTimezone(t *testing.T) {
	dsn := postgres.DSN(&config.Config{}, config.PostgresEndpoint{Host: "localhost", Port: "5432", Name: "washbay", SSLMode: "disable"}, nil)

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)

	assert.Equal(t, "/washbay", parsed.Path)
	assert.False(t, parsed.Query().Has("timezone"))
}
