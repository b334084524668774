package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/AVVKavvk/calls-qa/analysis"
	"github.com/AVVKavvk/calls-qa/cache"
	"github.com/AVVKavvk/calls-qa/calls"
	"github.com/AVVKavvk/calls-qa/config"
	"github.com/AVVKavvk/calls-qa/models"
	"github.com/AVVKavvk/calls-qa/rabbitmq"
	"github.com/AVVKavvk/calls-qa/redisClient"
	"github.com/AVVKavvk/calls-qa/store"
	"github.com/go-redis/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.LoadFile(cfg.CallsFile)
	if err != nil {
		log.Fatalf("Error loading calls: %v", err)
	}
	log.Printf("[INFO] loaded %d calls from %s", st.Len(), cfg.CallsFile)

	var rc *redis.Client
	if cfg.CacheBackend == config.CacheBackendRedis || cfg.RabbitMQURL != "" {
		rc, err = redisClient.NewRedisClient(redisClient.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
		defer rc.Close()
	}

	var responseCache cache.Cache
	if cfg.CacheBackend == config.CacheBackendRedis {
		responseCache = redisClient.NewCache(rc)
	} else {
		mem := cache.NewMemory()
		go mem.RunPurger(ctx, cfg.ServerCacheTTL)
		responseCache = mem
	}

	provider := analysis.NewAnthropicProvider(analysis.AnthropicConfig{
		APIKey:     cfg.AnthropicAPIKey,
		Model:      cfg.AnthropicModel,
		BaseURL:    cfg.AnthropicBaseURL,
		Timeout:    cfg.ModelTimeout,
		MaxRetries: cfg.ModelMaxRetries,
	})
	analyst := analysis.NewAnalyst(analysis.NewGateway(provider))

	var opts []calls.Option
	var exchangesRedis *redis.Client
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Dial(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("Error connecting to rabbitmq: %v", err)
		}
		defer conn.Close()

		opts = append(opts, calls.WithPublisher(rabbitmq.NewPublisher(conn)))
		exchangesRedis = rc
		go func() {
			err := rabbitmq.Consume(ctx, conn, func(ctx context.Context, e models.Exchange) error {
				return redisClient.AppendExchange(ctx, rc, e)
			})
			if err != nil && ctx.Err() == nil {
				log.Printf("[ERROR] exchange consumer stopped: %v", err)
			}
		}()
	}

	service := calls.NewService(st, responseCache, analyst, cfg.ServerCacheTTL, opts...)
	e := NewApp(service, cfg.ClientCacheMaxAge, exchangesRedis, st.Len()).Routes()

	go func() {
		<-ctx.Done()
		if err := e.Shutdown(context.Background()); err != nil {
			log.Printf("[ERROR] shutdown: %v", err)
		}
	}()

	if err := e.Start(cfg.Port); err != nil && ctx.Err() == nil {
		e.Logger.Fatal(err)
	}
}
