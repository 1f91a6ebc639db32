package worker

// retry_cron.go
// Background goroutine that periodically drains the alert DLQ and re-enqueues
// entries that have attempts left. Skips the tick entirely while the SMTP
// circuit breaker is open.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MarcoAguilar2002/perfum/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = time.Minute
	retryBatchSize    = 10
	maxAlertAttempts  = 5
)

// StartRetryCron launches a goroutine that ticks every minute and re-enqueues
// DLQ'd alert jobs. Respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, rdb, cb)
			}
		}
	}()
}

func processRetries(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	// If the breaker is open, the retry would fast-fail anyway — wait it out.
	if cb.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueAlertas
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty or redis unavailable
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: corrupt DLQ entry dropped")
			continue
		}
		if entry.Attempts >= maxAlertAttempts {
			// Exhausted — park it back for manual inspection and stop cycling it.
			log.Warn().
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("retry_cron: job exhausted retries")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: re-enqueue failed")
			return
		}
		log.Info().
			Str("job_type", entry.JobType).
			Int("attempt", entry.Attempts+1).
			Msg("retry_cron: job re-enqueued")
	}
}
