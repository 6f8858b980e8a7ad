package cli

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sups/practice-server/internal/api"
	"github.com/sups/practice-server/internal/api/metrics"
	"github.com/sups/practice-server/internal/core/ports"
	"github.com/sups/practice-server/internal/core/rules"
	"github.com/sups/practice-server/internal/core/service"
	"github.com/sups/practice-server/internal/core/store"
	"github.com/sups/practice-server/internal/infrastructure/config"
	"github.com/sups/practice-server/internal/infrastructure/db/memory"
	mongodb "github.com/sups/practice-server/internal/infrastructure/db/mongo"
	redisdb "github.com/sups/practice-server/internal/infrastructure/db/redis"
	"github.com/sups/practice-server/internal/infrastructure/http/handlers"
	"github.com/sups/practice-server/internal/infrastructure/seed"
)

// Server is a fully wired HTTP server plus the connections it owns.
type Server struct {
	Echo    *echo.Echo
	closers []func(context.Context) error
}

// NewServer loads rules and seed data, connects the optional Mongo and Redis
// backends and builds the router.
func NewServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Server, error) {
	srv := &Server{}
	checks := map[string]handlers.Check{}
	hasher := service.BcryptHasher{}

	table, err := loadRules(cfg.Data.RulesFile)
	if err != nil {
		return nil, err
	}

	var generalSeed ports.Seed
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, client.Disconnect)
		checks["mongodb"] = handlers.MongoCheck(db)
		if generalSeed, err = mongodb.NewSeedLoader(db).Load(ctx); err != nil {
			return nil, srv.fail(ctx, err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Int("collections", len(generalSeed)).Msg("seed loaded from mongodb")
	} else if generalSeed, err = seed.General(cfg.Data.SeedDir); err != nil {
		return nil, err
	}

	protectedSeed, err := seed.Protected(cfg.Data.ProtectedSeedFile, hasher)
	if err != nil {
		return nil, srv.fail(ctx, err)
	}
	general := store.New(generalSeed)
	protected := store.New(protectedSeed)

	var sessions ports.SessionRepository = memory.NewSessionRepository(protected)
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, srv.fail(ctx, err)
		}
		srv.closers = append(srv.closers, func(context.Context) error { return client.Close() })
		checks["redis"] = handlers.RedisCheck(client)
		sessions = redisdb.NewSessionRepository(client, cfg.Auth.TokenTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sessions stored in redis")
	}

	tree, err := seed.Tree(cfg.Data.JSONStoreDir)
	if err != nil {
		return nil, srv.fail(ctx, err)
	}

	recorder := metrics.Recorder{}
	authService := service.NewAuthService(protected, sessions, hasher, service.AuthConfig{
		Identity:  cfg.Auth.Identity,
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
	}, recorder, log)
	dataService := service.NewDataService(general, protected, rules.NewEngine(table, general.Get), recorder, log)
	utilService := service.NewUtilService(cfg.Data.Throttle, log)

	srv.Echo = api.NewRouter(api.Deps{
		Auth:      authService,
		Data:      dataService,
		Util:      utilService,
		JSONStore: service.NewJSONStoreService(tree, log),
		Identity:  cfg.Auth.Identity,
		Checks:    checks,
		Log:       log,
	})

	log.Info().
		Strs("collections", general.Collections()).
		Strs("ruled_collections", table.Collections()).
		Msg("server ready")
	return srv, nil
}

// Close releases every backend connection.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Server) fail(ctx context.Context, err error) error {
	return errors.Join(err, s.Close(ctx))
}

func loadRules(path string) (*rules.Table, error) {
	if path == "" {
		return rules.Default()
	}
	return rules.LoadFile(path)
}
