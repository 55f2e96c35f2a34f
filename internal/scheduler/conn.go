package scheduler

import (
	"crypto/tls"
	"fmt"

	"agenda_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultQueue = "default"

// connection holds the Redis settings shared by the enqueue client and
// the worker server so both sides resolve them identically.
type connection struct {
	opt   asynq.RedisClientOpt
	queue string
}

func newConnection(cfg config.SchedulerConfig) (connection, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return connection{}, fmt.Errorf("redis url not configured")
	}

	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return connection{}, err
	}

	var tlsConfig *tls.Config
	if parsed.TLSConfig != nil {
		tlsConfig = parsed.TLSConfig.Clone()
		if cfg.GetRedisTLSInsecure() {
			tlsConfig.InsecureSkipVerify = true
		}
	} else if cfg.GetRedisTLSInsecure() {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = defaultQueue
	}

	return connection{
		opt: asynq.RedisClientOpt{
			Addr:      parsed.Addr,
			Password:  parsed.Password,
			DB:        parsed.DB,
			TLSConfig: tlsConfig,
		},
		queue: queue,
	}, nil
}
