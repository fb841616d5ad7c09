package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Booking struct {
		BufferMinutes           int      `envconfig:"BUFFER_MINUTES"             default:"15"`
		MinBufferMinutes        int      `envconfig:"MIN_BUFFER_MINUTES"         default:"5"`
		GracePeriodMinutes      int      `envconfig:"GRACE_PERIOD_MINUTES"       default:"30"`
		OvertimeRatePerMinute   float64  `envconfig:"OVERTIME_RATE_PER_MINUTE"   default:"1"`
		MinNoticeMinutes        int      `envconfig:"MIN_NOTICE_MINUTES"         default:"120"`
		MaxAdvanceDays          int      `envconfig:"MAX_ADVANCE_DAYS"           default:"90"`
		AllocationOrder         string   `envconfig:"ALLOCATION_ORDER"           default:"id"`
		ResolutionStrategies    []string `envconfig:"RESOLUTION_STRATEGIES"      default:"relocate,time_shift,buffer_compression"`
		TimeShiftHorizonMinutes int      `envconfig:"TIME_SHIFT_HORIZON_MINUTES" default:"120"`
	} `envconfig:"BOOKING"`

	Lock struct {
		TTLMillis   int `envconfig:"TTL_MILLIS"   default:"10000"`
		WaitMillis  int `envconfig:"WAIT_MILLIS"  default:"3000"`
		RetryMillis int `envconfig:"RETRY_MILLIS" default:"50"`
	} `envconfig:"LOCK"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
			PoolSize           int `envconfig:"POOL_SIZE"            default:"10"`
			DialTimeoutSeconds int `envconfig:"DIAL_TIMEOUT_SECONDS" default:"5"`
			MaxRetry           int `envconfig:"MAX_RETRY"            default:"3"`
			RetryWaitTime      int `envconfig:"RETRY_WAIT_TIME"      default:"2"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			BookingEvents string `envconfig:"BOOKING_EVENTS" default:"booking-events"`
		} `envconfig:"TOPICS"`
		Retry struct {
			InitialIntervalMillis int `envconfig:"INITIAL_INTERVAL_MILLIS" default:"200"`
			MaxIntervalMillis     int `envconfig:"MAX_INTERVAL_MILLIS"     default:"30000"`
		} `envconfig:"RETRY"`
	} `envconfig:"KAFKA"`

	DB struct {
		Postgres struct {
			MaxRetry               int              `envconfig:"MAX_RETRY"                 default:"3"`
			RetryWaitTime          int              `envconfig:"RETRY_WAIT_TIME"           default:"2"`
			MaxOpenConnections     int              `envconfig:"MAX_OPEN_CONNECTIONS"      default:"20"`
			MaxIdleConnections     int              `envconfig:"MAX_IDLE_CONNECTIONS"      default:"10"`
			ConnMaxLifetimeMinutes int              `envconfig:"CONN_MAX_LIFETIME_MINUTES" default:"30"`
			MigrationTable         string           `envconfig:"MIGRATION_TABLE"`
			AutoMigrate            bool             `envconfig:"AUTO_MIGRATE"`
			Prefix                 string           `envconfig:"PREFIX"`
			Read                   PostgresEndpoint `envconfig:"READ"`
			Write                  PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	External struct {
		Otel struct {
			Endpoint    string  `envconfig:"ENDPOINT"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
		} `envconfig:"OTEL"`
		S3 struct {
			Region       string `envconfig:"REGION"`
			APIEndpoint  string `envconfig:"API_ENDPOINT"`
			PublicDomain string `envconfig:"PUBLIC_DOMAIN"`
			AccessKey    string `envconfig:"ACCESS_KEY"`
			SecretKey    string `envconfig:"SECRET_KEY"`
			BucketName   string `envconfig:"BUCKET_NAME"`
			ArchiveDir   string `envconfig:"ARCHIVE_DIR" default:"bookings"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

// PostgresEndpoint is one database server. An empty Host on the read
// endpoint sends reads to the write endpoint.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
