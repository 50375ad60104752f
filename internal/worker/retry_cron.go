package worker

// retry_cron.go
// Background goroutine that periodically drains the email DLQ back onto
// the queue while attempts remain. Uses the Circuit Breaker state to avoid
// hammering a downed SMTP relay.

import (
	"context"
	"encoding/json"
	"time"

	"pudahuelpos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxEmailAttempts bounds redelivery; entries beyond it stay in the DLQ
	// for manual inspection.
	MaxEmailAttempts = 5
)

// RetryCronConfig holds the dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB *redis.Client
	CB  *infra.CircuitBreaker
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// re-enqueues retryable DLQ entries. It respects the context for graceful
// shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
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
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open the relay is still down; re-enqueueing would just
	// bounce the same entries back.
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueEmail
	for i := 0; i < retryBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty DLQ or redis error
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: malformed DLQ entry dropped")
			continue
		}

		if entry.Attempts >= MaxEmailAttempts {
			// Exhausted: park it again, at the head so we do not spin on it.
			_ = cfg.RDB.LPush(ctx, dlqKey, raw).Err()
			log.Warn().
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("retry_cron: entry exhausted retries, left in DLQ")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload}
		encoded, err := json.Marshal(job)
		if err != nil {
			continue
		}
		if err := cfg.RDB.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-enqueue, restoring to DLQ")
			_ = cfg.RDB.LPush(ctx, dlqKey, raw).Err()
			return
		}

		log.Info().
			Str("queue", entry.OriginalQueue).
			Int("attempts", entry.Attempts).
			Msg("retry_cron: job re-enqueued from DLQ")
	}
}
