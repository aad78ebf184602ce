package tasks

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/captcha-api/internal/config"
)

// ResultBackendDatabase stores task results in the application database.
const ResultBackendDatabase = "database"

const (
	defaultQueue       = "celery"
	defaultConcurrency = 4
)

// Config is the typed view of the CELERY_ namespace. Keys are read with the
// prefix stripped and lower-cased, so CELERY_BROKER_URL becomes broker_url.
type Config struct {
	// BrokerURL is the redis:// URL of the message broker.
	// Key: CELERY_BROKER_URL
	BrokerURL string `validate:"required_unless=TaskAlwaysEager true"`

	// DefaultQueue is the list the client pushes to and workers pop from.
	// Key: CELERY_DEFAULT_QUEUE
	DefaultQueue string `validate:"required"`

	// TaskAlwaysEager runs tasks inline in Enqueue without a broker.
	// Key: CELERY_TASK_ALWAYS_EAGER
	TaskAlwaysEager bool

	// WorkerConcurrency is the number of messages a worker runs at once.
	// Key: CELERY_WORKER_CONCURRENCY
	WorkerConcurrency int `validate:"gte=1"`

	// TaskTimeLimit bounds one task run; zero disables the limit.
	// Key: CELERY_TASK_TIME_LIMIT
	TaskTimeLimit time.Duration `validate:"gte=0"`

	// ResultBackend selects where results go; "" keeps none.
	// Key: CELERY_RESULT_BACKEND
	ResultBackend string `validate:"omitempty,oneof=database"`

	// Raw is the whole namespace as configured, including keys this
	// package does not interpret.
	Raw map[string]any `validate:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ConfigFrom builds the task client configuration from every CELERY_ key of
// cfg and validates it.
func ConfigFrom(cfg *config.Config) (Config, error) {
	raw := cfg.Namespace(config.KeyCeleryPrefix)
	ns := config.New(raw)

	c := Config{
		BrokerURL:         ns.String("broker_url", ""),
		DefaultQueue:      ns.String("default_queue", defaultQueue),
		TaskAlwaysEager:   ns.Bool("task_always_eager", false),
		WorkerConcurrency: ns.Int("worker_concurrency", defaultConcurrency),
		TaskTimeLimit:     ns.Duration("task_time_limit", 0),
		ResultBackend:     ns.String("result_backend", ""),
		Raw:               raw,
	}

	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return c, nil
}
