package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/agendaai/agenda-api/internal/config"
)

// NewRedis abre a conexão usada pelo lock de reserva. Falha de ping não
// derruba o boot: a API sobe e o lock degrada para erro por chamada.
func NewRedis(cfg *config.Config) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable at boot: %v", err)
	}

	return client
}
