package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/config"
	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/cartstore"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/objectstore"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/persistence/memory"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/persistence/migrations"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/persistence/mysql"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/persistence/postgres"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/ratelimit"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/redisx"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/security"
	apihttp "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/interface/http"
	adminuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/admin"
	authuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/auth"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/catalog"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/checkout"
	useruc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/user"
)

const homePage = "inicio"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("load config")
	}
	logx.Init(cfg.Environment())

	if err := run(cfg); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	accounts := useruc.NewService(st.users, security.IsHash)
	if _, err := accounts.EnsureAdmin(ctx, useruc.AdminAccount{
		Name:         cfg.Auth.AdminName,
		Email:        cfg.Auth.AdminEmail,
		PasswordHash: cfg.Auth.AdminPasswordHash,
	}); err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	storage, err := objectstore.FromConfig(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open image storage: %w", err)
	}
	logx.Info().Str("driver", storage.Driver).Msg("image storage ready")

	handoff := checkout.NewHandoff(cfg.Messaging.BaseURL, cfg.Messaging.Number, cfg.Messaging.Greeting)
	sync, err := catalog.NewSync(st.feed, catalog.NewRenderer(), catalog.NewInjector(handoff, catalog.DefaultAddPath), catalogPages(cfg.Catalog)...)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	handle, err := sync.Start(ctx)
	if err != nil {
		// Pages keep showing the error state; the admin panel still works.
		logx.Error().Err(err).Msg("catalog feed unavailable")
	} else {
		defer handle.Stop()
	}

	hasher := security.NewBcryptService(bcrypt.DefaultCost)
	tokens := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	authSvc := authuc.NewService(st.users, hasher, tokens, st.limiter(cfg.Auth))

	deps := apihttp.Dependencies{
		Catalog:     sync,
		HomePage:    homePage,
		Handoff:     handoff,
		CartStorage: st.cartStorage(cfg.Cart),
		CartCookie:  apihttp.NewCartCookie(cfg.Cart.Secret, cfg.Cart.CookieName, cfg.Auth.SecureCookie, cfg.Cart.TTL),
		AuthService: authSvc,
		Products:    st.products,
		Bucket:      storage.Bucket,
		Sessions:    adminuc.NewRegistry(cfg.Auth.SessionTTL),
		AdminCookie: apihttp.AdminCookie{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.SecureCookie,
			TTL:    cfg.Auth.SessionTTL,
		},
		Context:        ctx,
		Health:         st.health,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
	}
	if storage.Local != nil {
		deps.Uploads = http.FileServer(http.Dir(storage.Local.BaseDir))
		deps.UploadsPrefix = storage.Local.URLPrefix
	}

	srv := apihttp.NewServer(apihttp.NewAPI(deps).Router(), cfg.HTTP)

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("port", cfg.HTTP.Port).Str("store", cfg.Store.Driver).Msg("http server started")
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logx.Error().Err(appErr).Msg("http server failed")
	case sig := <-shutdown:
		logx.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("http server shutdown")
	}
	cancel()
	return appErr
}

// catalogPages registers the home page, with one limited grid per category,
// and one full page per category.
func catalogPages(cfg config.CatalogConfig) []*catalog.Page {
	home := &catalog.Page{Name: homePage}
	pages := []*catalog.Page{home}
	for _, c := range domproduct.Categories {
		home.Grids = append(home.Grids, &catalog.Grid{Category: c, Limit: cfg.HomeLimit})
		pages = append(pages, &catalog.Page{Name: c.String(), Category: c, Grids: []*catalog.Grid{{}}})
	}
	return pages
}

type store struct {
	products domproduct.Repository
	feed     domproduct.Feed
	users    domuser.Repository
	health   apihttp.HealthChecker
	redis    *redis.Client
	closers  []func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	st := &store{}
	if cfg.Redis.Enabled() {
		client, err := redisx.New(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		st.redis = client
		st.closers = append(st.closers, func() { client.Close() })
	}

	switch cfg.Store.Driver {
	case "memory":
		repo := memory.NewProductRepository()
		st.products, st.feed, st.health = repo, repo, repo
		st.users = memory.NewUserRepository()
		logx.Warn().Msg("using the in-memory document store; data is lost on restart")

	case "mysql":
		db, err := mysql.Open(ctx, cfg.Store.MySQLDSN)
		if err != nil {
			st.close()
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		st.closers = append(st.closers, func() { db.Close() })
		if cfg.Store.Migrate {
			if err := migrations.UpMySQL(db); err != nil {
				st.close()
				return nil, fmt.Errorf("migrate mysql: %w", err)
			}
		}
		repo := mysql.NewProductRepository(db)
		st.products = redisx.NewNotifyingRepository(repo, st.redis, cfg.Redis.Channel)
		st.feed = redisx.NewFeed(st.redis, repo, cfg.Redis.Channel)
		st.users = mysql.NewUserRepository(db)
		st.health = repo

	case "postgres":
		if cfg.Store.Migrate {
			if err := migrations.UpPostgres(cfg.Store.PGDSN); err != nil {
				st.close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		pool, err := postgres.Connect(ctx, cfg.Store.PGDSN)
		if err != nil {
			st.close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		st.closers = append(st.closers, pool.Close)
		repo := postgres.NewProductRepository(pool)
		st.products = repo
		st.feed = postgres.NewFeed(pool, repo, migrations.NotifyChannel)
		st.users = postgres.NewUserRepository(pool)
		st.health = repo

	default:
		st.close()
		return nil, fmt.Errorf("unknown DOCUMENT_STORE: %s", cfg.Store.Driver)
	}
	return st, nil
}

func (s *store) limiter(cfg config.AuthConfig) authuc.Limiter {
	if s.redis != nil {
		return ratelimit.NewRedis(s.redis, cfg.MaxAttempts, cfg.Window)
	}
	return ratelimit.NewMemory(cfg.MaxAttempts, cfg.Window)
}

func (s *store) cartStorage(cfg config.CartConfig) domcart.Storage {
	if s.redis != nil {
		return cartstore.NewRedis(s.redis, cfg.TTL)
	}
	return cartstore.NewMemory(cfg.TTL)
}

func (s *store) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
