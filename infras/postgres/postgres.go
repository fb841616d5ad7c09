package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"washbay/config"
)

const (
	nameRead  = "read"
	nameWrite = "write"
)

// Connection splits reads from writes. Anything that must observe a commit
// made under a scheduling lock reads from Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	write := connect(nameWrite, config, config.DB.Postgres.Write)

	if config.DB.Postgres.Read.Host == "" {
		log.Info().Msg("No read replica configured, reads use the write connection")

		return &Connection{Read: write, Write: write}
	}

	return &Connection{
		Read:  connect(nameRead, config, config.DB.Postgres.Read),
		Write: write,
	}
}

func (c *Connection) Close() error {
	err := c.Write.Close()

	if c.Read != c.Write {
		err = errors.Join(err, c.Read.Close())
	}

	if err != nil {
		return fmt.Errorf("failed to close database connections: %w", err)
	}

	return nil
}

// DatabaseName applies the configured prefix to an endpoint's database name.
func DatabaseName(config *config.Config, endpoint config.PostgresEndpoint) string {
	return config.DB.Postgres.Prefix + endpoint.Name
}

// DSN builds a lib/pq connection URL. extra is appended to the query, e.g. migrate options.
func DSN(config *config.Config, endpoint config.PostgresEndpoint, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", endpoint.SSLMode)

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     DatabaseName(config, endpoint),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(name string, config *config.Config, endpoint config.PostgresEndpoint) *sqlx.DB {
	pg := config.DB.Postgres
	dsn := DSN(config, endpoint, nil)
	logger := log.With().
		Str("name", name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", DatabaseName(config, endpoint)).
		Logger()

	attempts := max(pg.MaxRetry, 1)

	var err error

	for attempt := range attempts {
		var db *sqlx.DB

		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConnections)
			db.SetMaxIdleConns(pg.MaxIdleConnections)
			db.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifetimeMinutes) * time.Minute)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt+1).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Err(err).Int("attempts", attempts).Msg("Giving up connecting to database")

	return nil
}
