package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	controllers "farmconnect/internal/controllers/http"
	"farmconnect/internal/config"
	"farmconnect/internal/infra"
	"farmconnect/internal/infra/cache"
	"farmconnect/internal/infra/kafka"
	mmysql "farmconnect/internal/infra/mysql"
	"farmconnect/internal/infra/rabbitmq"
	"farmconnect/internal/metrics"
	"farmconnect/internal/ratelimit"
	"farmconnect/internal/repository"
	"farmconnect/internal/repository/memory"
	mysqlrepo "farmconnect/internal/repository/mysql"
	"farmconnect/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	publisher, closePublisher, err := openPublisher(cfg)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer closePublisher()

	orderService := services.NewOrderService(store, publisher)
	handler := controllers.NewHandler(controllers.Services{
		Orders:   orderService,
		Carts:    services.NewCartService(store),
		Products: services.NewProductService(store),
		Users:    services.NewUserService(store),
	}, infra.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience), store.Ping)
	handler.SetMetrics(metrics.NewServerMetrics("api"))

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DB:           0,
			PoolSize:     200,
			MinIdleConns: 20,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()

		orderService.SetCache(cache.NewOrderCache(redisClient, cfg.OrderCacheTTL))
		handler.SetLimiter(ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit, cfg.RateWindow))
	} else {
		log.Println("REDIS_ADDR not set: order cache and rate limiting disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting farmconnect API on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		orderService.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: %v", err)
	}
}

func openStore(cfg config.Config) (repository.Store, func(), error) {
	if cfg.StoreDriver == "memory" {
		log.Println("using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	db, err := mmysql.NewMySQL(mmysql.Options{
		DSN:          cfg.MySQLDSN,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.RunMigrations {
		if err := mmysql.Migrate(db); err != nil {
			return nil, nil, err
		}
		log.Println("migrations applied")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return mysqlrepo.NewStore(db), func() { sqlDB.Close() }, nil
}

func openPublisher(cfg config.Config) (infra.Publisher, func(), error) {
	switch cfg.EventBroker {
	case "rabbitmq":
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitExchange)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case "kafka":
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		return p, func() {
			if err := p.Close(); err != nil {
				log.Printf("kafka writer close: %v", err)
			}
		}, nil
	default:
		return infra.NoopPublisher{}, func() {}, nil
	}
}
