package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
)

// ======================================================
// Lock de reserva por (profissional, dia)
// ======================================================

// SlotLocker serializa o check-then-insert de reserva: duas requisições
// concorrentes para o mesmo profissional no mesmo dia nunca avaliam
// disponibilidade ao mesmo tempo. Espera limitada; estourou → Busy
// (seguro de repetir pelo cliente).
type SlotLocker struct {
	client *redis.Client

	ttl     time.Duration // validade do lease
	wait    time.Duration // espera máxima pela aquisição
	backoff time.Duration
}

func NewSlotLocker(client *redis.Client) *SlotLocker {
	return &SlotLocker{
		client:  client,
		ttl:     10 * time.Second,
		wait:    3 * time.Second,
		backoff: 50 * time.Millisecond,
	}
}

// libera somente se o token ainda é nosso (lease pode ter expirado e sido
// readquirido por outro processo)
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Acquire adquire o lease e devolve a função de liberação. Retorna
// *schedule.Rejection{Busy} quando a espera estoura.
func (l *SlotLocker) Acquire(
	ctx context.Context,
	professionalID uint,
	day time.Time,
) (func(), error) {

	key := fmt.Sprintf("agenda:lock:%d:%s", professionalID, day.Format("2006-01-02"))
	token := uuid.NewString()

	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			release := func() {
				rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				releaseScript.Run(rctx, l.client, []string{key}, token)
			}
			return release, nil
		}

		if time.Now().After(deadline) {
			return nil, &domain.Rejection{Reason: domain.ReasonBusy}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.backoff):
		}
	}
}
