package worker

// alerta_worker.go
// Processes low-stock alert jobs from QueueAlertas: when a sale or adjustment
// leaves a product below its minimum at some branch, an email goes out to the
// configured address. Delivery runs through the SMTP circuit breaker; failures
// land in the DLQ for the retry cron.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MarcoAguilar2002/perfum/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job envelope sent to QueueAlertas.
type AlertaStockPayload struct {
	ProductoID  string `json:"producto_id"`
	Producto    string `json:"producto"`
	SedeID      string `json:"sede_id"`
	Sede        string `json:"sede"`
	StockActual int    `json:"stock_actual"`
	StockMinimo int    `json:"stock_minimo"`
}

// AlertaWorker emails low-stock notifications.
type AlertaWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	to     string
}

func NewAlertaWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, to string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, cb: cb, to: to}
}

// Process sends the alert email. On failure the job is pushed to the DLQ with
// its attempt count so the retry cron can pick it up.
func (w *AlertaWorker) Process(ctx context.Context, rdb *redis.Client, job Job) {
	var payload AlertaStockPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}
	if w.to == "" {
		log.Debug().Msg("alerta_worker: no alert email configured — skipping")
		return
	}

	subject := fmt.Sprintf("Stock bajo: %s en %s", payload.Producto, payload.Sede)
	body := fmt.Sprintf(
		"El producto %q en la sede %q quedó con stock %d (mínimo configurado: %d).\n\nReponer a la brevedad.",
		payload.Producto, payload.Sede, payload.StockActual, payload.StockMinimo,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.Send(w.to, subject, body)
	})
	if err != nil {
		SendToDLQ(ctx, rdb, QueueAlertas, job.Type, job.Payload, err.Error(), job.Attempts+1)
		return
	}
	log.Info().
		Str("producto", payload.Producto).
		Str("sede", payload.Sede).
		Int("stock", payload.StockActual).
		Msg("alerta_worker: alerta enviada")
}
