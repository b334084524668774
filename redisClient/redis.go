package redisClient

import (
	"fmt"
	"log"

	"github.com/go-redis/redis"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and pings it once.
func NewRedisClient(opts Options) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if _, err := rc.Ping().Result(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", opts.Addr, err)
	}

	log.Println("redis client successfully connected")
	return rc, nil
}
