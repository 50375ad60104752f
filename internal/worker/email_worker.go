package worker

// email_worker.go
// Processes email jobs from QueueEmail. Delivery goes through the SMTP
// circuit breaker: when the relay is down jobs fail fast into the DLQ
// instead of piling up on a dead connection.

import (
	"context"
	"encoding/json"

	"pudahuelpos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	PDFPath  string `json:"pdf_path"`
	Attempts int    `json:"attempts"`
}

// EmailWorker delivers report emails through the circuit breaker.
type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb, rdb: rdb}
}

// Process sends one email with the report attached. Failures land in the
// email DLQ with the attempt count; the retry cron re-enqueues them.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendReporte(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err != nil {
		payload.Attempts++
		data, _ := json.Marshal(payload)
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", data, err.Error(), payload.Attempts)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: reporte sent")
}
