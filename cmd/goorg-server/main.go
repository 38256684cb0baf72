// Command goorg-server runs the accounts-and-groups REST API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	goOrg "github.com/MrEthical07/goOrg"
	"github.com/MrEthical07/goOrg/httpapi"
)

type serverEnv struct {
	SigningSecret  string        `envconfig:"ORG_SIGNING_SECRET" required:"true"`
	TokenTTL       time.Duration `envconfig:"ORG_TOKEN_TTL" default:"24h"`
	RedisAddr      string        `envconfig:"ORG_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string        `envconfig:"ORG_REDIS_PASSWORD"`
	RedisPrefix    string        `envconfig:"ORG_REDIS_PREFIX" default:"og"`
	ListenAddr     string        `envconfig:"ORG_LISTEN_ADDR" default:":8080"`
	AllowedOrigins string        `envconfig:"ORG_ALLOWED_ORIGINS"`
	AuditLog       bool          `envconfig:"ORG_AUDIT_LOG" default:"false"`
}

func main() {
	var env serverEnv
	if err := envconfig.Process("org", &env); err != nil {
		log.Fatal("goorg-server: config: ", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
	})
	defer rdb.Close()

	cfg := goOrg.Config{}
	cfg.JWT.SigningSecret = []byte(env.SigningSecret)
	cfg.JWT.TokenTTL = env.TokenTTL
	cfg.Store.RedisPrefix = env.RedisPrefix
	cfg.Password = goOrg.PasswordConfig{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
	cfg.Audit = goOrg.AuditConfig{
		Enabled:    env.AuditLog,
		BufferSize: 256,
		DropIfFull: true,
	}
	cfg.Metrics.Enabled = true

	builder := goOrg.New().WithConfig(cfg).WithRedis(rdb)
	if env.AuditLog {
		builder = builder.WithAuditSink(goOrg.NewJSONWriterSink(os.Stdout))
	}
	engine, err := builder.Build()
	if err != nil {
		log.Fatal("goorg-server: build engine: ", err)
	}
	defer engine.Close()

	var origins []string
	if env.AllowedOrigins != "" {
		origins = strings.Split(env.AllowedOrigins, ",")
	}

	srv := &http.Server{
		Addr:              env.ListenAddr,
		Handler:           httpapi.NewServer(engine, httpapi.Options{AllowedOrigins: origins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Print("goorg-server: listening on ", env.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("goorg-server: serve: ", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Print("goorg-server: shutdown: ", err)
	}
}
