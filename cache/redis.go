package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"polls-service/config"
	"polls-service/models"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisCtx    = context.Background()
	initOnce    sync.Once
	initialized bool

	// Default cache TTL with jitter so entries do not expire in lockstep.
	defaultExpiration = 1 * time.Hour
	jitterFactor      = 0.2
)

// InitRedis connects to Redis. When the server is unreachable (or REDIS_MOCK
// is set) the package falls back to an in-process map so the service keeps
// working without a cache server.
func InitRedis(cfg *config.Config) error {
	initOnce.Do(func() {
		if cfg == nil || cfg.RedisAddr == "mock" {
			log.Println("Using in-memory cache mode")
			mockMode = true
			initialized = true
			return
		}

		client := redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: 3 * time.Second,
			ReadTimeout: 3 * time.Second,
			PoolSize:    10,
		})

		if _, err := client.Ping(redisCtx).Result(); err != nil {
			log.Printf("Redis connection failed: %v, falling back to in-memory cache", err)
			mockMode = true
			initialized = true
			return
		}

		redisClient = client
		initialized = true
		log.Println("Redis connection initialized")
	})
	return nil
}

func pollKey(id uint) string {
	return fmt.Sprintf("poll:%d", id)
}

// jitteredTTL spreads expirations by up to jitterFactor of the base TTL.
func jitteredTTL(base time.Duration) time.Duration {
	jitter := time.Duration(rand.Int63n(int64(float64(base) * jitterFactor)))
	return base + jitter
}

// GetPoll returns a cached poll, or nil on a miss.
func GetPoll(id uint) *models.Poll {
	if !initialized {
		return nil
	}

	var raw string
	if mockMode {
		v, ok := mockGet(pollKey(id))
		if !ok {
			return nil
		}
		raw = v
	} else {
		v, err := redisClient.Get(redisCtx, pollKey(id)).Result()
		if err != nil {
			return nil
		}
		raw = v
	}

	var poll models.Poll
	if err := json.Unmarshal([]byte(raw), &poll); err != nil {
		log.Printf("Failed to decode cached poll %d: %v", id, err)
		return nil
	}
	return &poll
}

// SetPoll stores a poll. Cache errors are logged and ignored; the database
// remains the source of truth.
func SetPoll(poll *models.Poll) {
	if !initialized || poll == nil {
		return
	}

	raw, err := json.Marshal(poll)
	if err != nil {
		log.Printf("Failed to encode poll %d for cache: %v", poll.ID, err)
		return
	}

	ttl := jitteredTTL(defaultExpiration)
	if mockMode {
		mockSet(pollKey(poll.ID), string(raw), ttl)
		return
	}
	if err := redisClient.Set(redisCtx, pollKey(poll.ID), raw, ttl).Err(); err != nil {
		log.Printf("Failed to cache poll %d: %v", poll.ID, err)
	}
}

// InvalidatePoll drops a poll from the cache after a write.
func InvalidatePoll(id uint) {
	if !initialized {
		return
	}
	if mockMode {
		mockDelete(pollKey(id))
		return
	}
	if err := redisClient.Del(redisCtx, pollKey(id)).Err(); err != nil {
		log.Printf("Failed to invalidate poll %d: %v", id, err)
	}
}

// CloseRedis shuts down the Redis connection if one was established.
func CloseRedis() {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Failed to close Redis connection: %v", err)
		}
	}
}
