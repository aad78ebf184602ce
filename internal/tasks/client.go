// Package tasks is the background task client of the service: a registry of
// named task functions, a broker to move invocations to worker processes and
// an optional result store.
//
// Tasks never reach for global application state. Each run receives a
// [TaskContext] carrying the configuration, logger and database of the
// application instance that owns the client.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/captcha-api/internal/config"
	"github.com/MKhiriev/captcha-api/internal/logger"
	"github.com/MKhiriev/captcha-api/internal/metrics"
	"github.com/MKhiriev/captcha-api/internal/store"
	"github.com/MKhiriev/captcha-api/internal/utils"
	"github.com/MKhiriev/captcha-api/internal/workers"
	"github.com/MKhiriev/captcha-api/models"
)

// PingTask is registered on every client and returns "pong".
const PingTask = "ping"

const (
	defaultPopTimeout = time.Second
	brokerRetryDelay  = time.Second
)

// TaskContext is handed to every task run.
type TaskContext struct {
	TaskID   string
	TaskName string

	Config *config.Config
	Logger *logger.Logger
	DB     *store.DB
}

// TaskFunc is the body of a task. The returned value is stored as the
// JSON encoded result when a result backend is configured.
type TaskFunc func(ctx context.Context, tc *TaskContext, args ...any) (any, error)

// ClientOption customizes a [Client].
type ClientOption func(*Client)

// WithBroker replaces the broker built from BrokerURL.
func WithBroker(b Broker) ClientOption {
	return func(c *Client) {
		c.broker = b
	}
}

// WithResultStore replaces the result store built from ResultBackend.
func WithResultStore(r store.TaskResultRepository) ClientOption {
	return func(c *Client) {
		c.results = r
	}
}

// Client enqueues and executes tasks for one application instance.
type Client struct {
	cfg       Config
	appConfig *config.Config
	db        *store.DB
	logger    *logger.Logger

	broker     Broker
	results    store.TaskResultRepository
	popTimeout time.Duration

	mu    sync.RWMutex
	tasks map[string]TaskFunc
}

// NewClient builds a client from cfg. appConfig and db are passed to tasks
// through their [TaskContext]; db may be nil.
//
// In eager mode no broker is created. Otherwise the Redis broker named by
// BrokerURL is bound without dialing.
func NewClient(cfg Config, appConfig *config.Config, db *store.DB, log *logger.Logger, opts ...ClientOption) (*Client, error) {
	c := &Client{
		cfg:        cfg,
		appConfig:  appConfig,
		db:         db,
		logger:     log,
		popTimeout: defaultPopTimeout,
		tasks:      make(map[string]TaskFunc),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.broker == nil && !cfg.TaskAlwaysEager {
		broker, err := NewRedisBroker(cfg.BrokerURL)
		if err != nil {
			return nil, err
		}
		c.broker = broker
	}

	if c.results == nil && cfg.ResultBackend == ResultBackendDatabase && db != nil {
		c.results = store.NewTaskResultRepository(db, log)
	}

	if err := c.Register(PingTask, ping); err != nil {
		return nil, err
	}

	log.Info().
		Bool("eager", cfg.TaskAlwaysEager).
		Str("queue", cfg.DefaultQueue).
		Bool("results", c.results != nil).
		Msg("task client created")

	return c, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// Register adds fn under name.
func (c *Client) Register(name string, fn TaskFunc) error {
	if name == "" || fn == nil {
		return errors.New("task name and function are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tasks[name]; ok {
		return fmt.Errorf("%w: %s", ErrTaskAlreadyRegistered, name)
	}
	c.tasks[name] = fn

	return nil
}

// Tasks returns the names of every registered task.
func (c *Client) Tasks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tasks))
	for name := range c.tasks {
		names = append(names, name)
	}
	return names
}

// Enqueue schedules the task name with args and returns its ID.
//
// In eager mode the task runs before Enqueue returns; a task failure is
// returned wrapped in [ErrTaskFailed] together with the ID. A message the
// broker rejects is recorded as failed and its ID is returned with the error.
func (c *Client) Enqueue(ctx context.Context, name string, args ...any) (string, error) {
	log := logger.FromContext(ctx)

	if _, ok := c.lookup(name); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	msg := Message{
		ID:         utils.NewID(),
		Task:       name,
		Args:       args,
		Queue:      c.cfg.DefaultQueue,
		EnqueuedAt: time.Now().UTC(),
	}

	var data []byte
	if !c.cfg.TaskAlwaysEager {
		var err error
		if data, err = msg.Encode(); err != nil {
			return "", err
		}
	}

	if c.results != nil {
		err := c.results.Create(ctx, models.TaskResult{
			TaskID:    msg.ID,
			TaskName:  msg.Task,
			Status:    models.TaskStatusPending,
			CreatedAt: msg.EnqueuedAt,
		})
		if err != nil {
			return "", fmt.Errorf("error storing pending task result: %w", err)
		}
	}

	if c.cfg.TaskAlwaysEager {
		metrics.TasksEnqueued.WithLabelValues(name).Inc()
		if err := c.execute(ctx, msg); err != nil {
			return msg.ID, fmt.Errorf("%w: %w", ErrTaskFailed, err)
		}
		return msg.ID, nil
	}

	if err := c.broker.Push(ctx, msg.Queue, data); err != nil {
		log.Err(err).Str("func", "*Client.Enqueue").Str("task", name).Msg("error publishing task")
		if c.results != nil {
			c.recordResult(ctx, log, msg, models.TaskStatusFailure, nil, fmt.Errorf("error publishing task: %w", err))
		}
		return msg.ID, err
	}
	metrics.TasksEnqueued.WithLabelValues(name).Inc()

	log.Debug().Str("task_id", msg.ID).Str("task", name).Msg("task enqueued")
	return msg.ID, nil
}

// Result returns the stored result of taskID.
func (c *Client) Result(ctx context.Context, taskID string) (models.TaskResult, error) {
	if c.results == nil {
		return models.TaskResult{}, ErrNoResultBackend
	}
	return c.results.Get(ctx, taskID)
}

// Ping checks that the broker is reachable. Eager clients are always
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	pinger, ok := c.broker.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	return pinger.Ping(ctx)
}

// Worker returns a [workers.Worker] that consumes the default queue with
// WorkerConcurrency parallel consumers until its context is cancelled.
func (c *Client) Worker() (workers.Worker, error) {
	if c.broker == nil {
		return nil, ErrNoBroker
	}

	return workers.WorkerFunc(func(ctx context.Context) error {
		c.logger.Info().
			Str("queue", c.cfg.DefaultQueue).
			Int("concurrency", c.cfg.WorkerConcurrency).
			Msg("task worker started")

		g, gctx := errgroup.WithContext(ctx)
		for range max(c.cfg.WorkerConcurrency, 1) {
			g.Go(func() error {
				c.consume(gctx)
				return nil
			})
		}
		err := g.Wait()

		c.logger.Info().Msg("task worker stopped")
		return err
	}), nil
}

// Close releases the broker.
func (c *Client) Close() error {
	if c.broker == nil {
		return nil
	}
	return c.broker.Close()
}

func (c *Client) consume(ctx context.Context) {
	for ctx.Err() == nil {
		data, err := c.broker.Pop(ctx, c.cfg.DefaultQueue, c.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !errors.Is(err, ErrNoMessage) {
				c.logger.Err(err).Str("func", "*Client.consume").Msg("error receiving task message")
				select {
				case <-ctx.Done():
				case <-time.After(brokerRetryDelay):
				}
			}
			continue
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			c.logger.Err(err).Str("func", "*Client.consume").Msg("dropping malformed task message")
			continue
		}

		// failures are logged and recorded by execute
		_ = c.execute(ctx, msg)
	}
}

func (c *Client) lookup(name string) (TaskFunc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fn, ok := c.tasks[name]
	return fn, ok
}

// execute runs msg and records its outcome.
func (c *Client) execute(ctx context.Context, msg Message) error {
	log := c.logger.GetChildLogger()
	log.UpdateContext(func(zc zerolog.Context) zerolog.Context {
		return zc.Str("task_id", msg.ID).Str("task", msg.Task)
	})

	start := time.Now()
	value, err := c.run(log.WithContext(ctx), log, msg)
	elapsed := time.Since(start)

	status := models.TaskStatusSuccess
	if err != nil {
		status = models.TaskStatusFailure
		log.Err(err).Dur("duration", elapsed).Msg("task failed")
	} else {
		log.Info().Dur("duration", elapsed).Msg("task succeeded")
	}

	metrics.TasksProcessed.WithLabelValues(msg.Task, string(status)).Inc()
	metrics.TaskDuration.WithLabelValues(msg.Task).Observe(elapsed.Seconds())

	if c.results != nil {
		c.recordResult(ctx, log, msg, status, value, err)
	}

	return err
}

func (c *Client) run(ctx context.Context, log *logger.Logger, msg Message) (value any, err error) {
	fn, ok := c.lookup(msg.Task)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, msg.Task)
	}

	if c.cfg.TaskTimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.TaskTimeLimit)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	tc := &TaskContext{
		TaskID:   msg.ID,
		TaskName: msg.Task,
		Config:   c.appConfig,
		Logger:   log,
		DB:       c.db,
	}

	return fn(ctx, tc, msg.Args...)
}

func (c *Client) recordResult(ctx context.Context, log *logger.Logger, msg Message, status models.TaskStatus, value any, taskErr error) {
	res := models.TaskResult{
		TaskID:     msg.ID,
		TaskName:   msg.Task,
		Status:     status,
		FinishedAt: time.Now().UTC(),
	}

	if taskErr != nil {
		res.Error = taskErr.Error()
	} else if value != nil {
		encoded, err := json.Marshal(value)
		if err != nil {
			log.Err(err).Msg("task result is not JSON encodable")
			res.Error = err.Error()
			res.Status = models.TaskStatusFailure
		} else {
			res.Result = string(encoded)
		}
	}

	err := c.results.Finish(ctx, res)
	if errors.Is(err, store.ErrTaskResultNotFound) {
		// published by a process without a result backend
		res.CreatedAt = msg.EnqueuedAt
		err = c.results.Create(ctx, res)
	}
	if err != nil {
		log.Err(err).Msg("error storing task result")
	}
}

func ping(_ context.Context, tc *TaskContext, _ ...any) (any, error) {
	tc.Logger.Debug().Msg("pong")
	return "pong", nil
}
