package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/dangphu2412/handons-design-pattern/internal/auth"
	"github.com/dangphu2412/handons-design-pattern/internal/authz"
	"github.com/dangphu2412/handons-design-pattern/internal/httpapi"
	"github.com/dangphu2412/handons-design-pattern/internal/obs"
	"github.com/dangphu2412/handons-design-pattern/internal/rolecache"
)

var version = "0.3.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version)

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	issuer, err := auth.NewTokenIssuer(secret)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	// User directory: Postgres when a DSN is configured, in-memory otherwise.
	var (
		db        *sql.DB
		directory auth.Directory
		catalog   auth.RoleCatalog
	)
	if dsn := os.Getenv("AUTH_PG_DSN"); dsn != "" {
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		pgdir := auth.NewPGDirectory(db)
		directory, catalog = pgdir, pgdir
	} else {
		mem := auth.NewMemDirectory()
		directory, catalog = mem, mem
		log.Print("AUTH_PG_DSN not set, using in-memory user directory")
	}

	// Role cache: Redis when configured, in-memory otherwise.
	var (
		rdb   *redis.Client
		cache auth.RoleCache
		roles httpapi.RoleSource
	)
	if addr := os.Getenv("AUTH_REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		rc := rolecache.NewRedis(rdb)
		cache, roles = rc, rc
	} else {
		mc := rolecache.NewMem()
		cache, roles = mc, mc
		log.Print("AUTH_REDIS_ADDR not set, using in-memory role cache")
	}

	svc := auth.NewService(directory, auth.BcryptHasher{}, issuer, auth.CatalogResolver{Catalog: catalog}, cache)

	// Strategies are registered once here, before the server accepts traffic.
	registry := authz.NewRegistry()
	registry.Register(authz.StrategyRoleKey, authz.RoleKeyStrategy{Key: auth.RoleKeyVisitor})

	api := httpapi.New(httpapi.ReadyProbe{DB: db, Redis: rdb}, version, svc, issuer, registry, roles)

	addr := os.Getenv("AUTH_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting auth-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Println("Stopped")
}
