// Package bootstrap builds the client runtime graph from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"codego/internal/api"
	"codego/internal/config"
	"codego/internal/featureflags"
	"codego/internal/models"
	"codego/internal/notify"
	"codego/internal/observability"
	"codego/internal/quiz"
	"codego/internal/session"
	"codego/internal/storage"
	"codego/internal/store"
	"codego/internal/vote"

	"github.com/redis/go-redis/v9"
)

// Options adjusts what New wires in addition to the configuration.
type Options struct {
	// LogOutput receives log lines. Defaults to stderr.
	LogOutput io.Writer
	// Notifier shows notifications to the user. Without one they are logged.
	Notifier notify.Notifier
	// ServiceName labels traces. Defaults to "codego".
	ServiceName string
}

// Runtime is the set of services one client process works with.
type Runtime struct {
	Config   *config.Config
	Logger   *observability.Logger
	Flags    *featureflags.Manager
	API      *api.Client
	Identity storage.IdentityStore
	Redis    *redis.Client
	Notifier notify.Notifier
	Session  *session.Store
	Store    *store.Store

	// Publisher is set whenever Redis is connected.
	Publisher *notify.RedisPublisher

	closers []func(context.Context) error
}

// New wires config → logger/tracing → redis (when needed) → identity store →
// API client → notifier → session and entity stores.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: nil config")
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	name := opts.ServiceName
	if name == "" {
		name = "codego"
	}

	logger := observability.NewLogger(out, cfg.Env, cfg.LogLevel)
	observability.SetGlobal(logger)

	rt := &Runtime{
		Config: cfg,
		Logger: logger,
		Flags:  featureflags.NewManager(cfg.FeatureFlags),
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  name,
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSamplerRate,
		Output:       out,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	rt.closers = append(rt.closers, shutdownTracing)

	if cfg.SessionBackend == config.SessionBackendRedis || cfg.PublishToasts {
		rdb, err := storage.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			if cfg.SessionBackend == config.SessionBackendRedis {
				_ = rt.Close(ctx)
				return nil, fmt.Errorf("connect redis: %w", err)
			}
			logger.Warn("redis unavailable, notifications will not be published", "error", err)
		} else {
			rt.Redis = rdb
			rt.Publisher = notify.NewRedisPublisher(rdb)
			rt.closers = append(rt.closers, func(context.Context) error { return rdb.Close() })
		}
	}

	identity, err := storage.Open(cfg, rt.Redis)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("open identity store: %w", err)
	}
	rt.Identity = identity

	rt.API = api.New(api.Options{
		APIBaseURL:  cfg.APIBaseURL,
		AuthBaseURL: cfg.AuthBaseURL,
		Timeout:     cfg.RequestTimeout,
		Logger:      logger,
	})

	var fanout notify.Fanout
	if opts.Notifier != nil {
		fanout = append(fanout, opts.Notifier)
	} else {
		fanout = append(fanout, notify.LogNotifier{Logger: logger})
	}
	if cfg.PublishToasts && rt.Publisher != nil {
		fanout = append(fanout, rt.Publisher)
	}
	rt.Notifier = fanout

	rt.Session = session.New(rt.API, identity, rt.Notifier, logger)
	rt.Store = store.New(rt.API, rt.Session, rt.Notifier, logger)

	logger.Debug("runtime ready",
		"session_backend", cfg.SessionBackend,
		"api", cfg.APIBaseURL,
		"publish_notifications", cfg.PublishToasts && rt.Redis != nil)
	return rt, nil
}

// VoteCard returns a vote coordinator for poll backed by the entity store.
// The card adopts later cached versions of the poll until release is called.
func (r *Runtime) VoteCard(poll models.Poll) (card *vote.Card, release func()) {
	card = vote.NewCard(poll, r.Store, r.Session, r.Notifier,
		vote.WithFlags(r.Flags), vote.WithLogger(r.Logger))
	release = r.Store.Subscribe(func(ev store.Event) {
		if ev.Kind != store.KindAll && (ev.Kind != store.KindPoll || ev.ID != poll.ID) {
			return
		}
		if latest, ok := r.Store.Poll(poll.ID); ok {
			card.Refresh(latest)
		}
	})
	return card, release
}

// Quiz starts a new quiz attempt fetched from the API.
func (r *Runtime) Quiz() *quiz.Session {
	return quiz.NewSession(r.API, r.Notifier, r.Logger)
}

// Close releases the runtime's connections in reverse order of creation.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
