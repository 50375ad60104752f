package worker

// reporte_worker.go
// Processes shift-close report jobs from QueueReporte: renders the close
// PDF and enqueues an email job addressed to the administrator.

import (
	"context"
	"encoding/json"
	"fmt"

	"pudahuelpos/internal/infra"
	"pudahuelpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReporteJobPayload is the job envelope sent to QueueReporte.
type ReporteJobPayload struct {
	TurnoID string `json:"turno_id"`
}

// ReporteWorker renders and distributes shift-close reports.
type ReporteWorker struct {
	turnoRepo      repository.TurnoRepository
	gastoRepo      repository.GastoRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	adminEmail     string
}

func NewReporteWorker(
	turnoRepo repository.TurnoRepository,
	gastoRepo repository.GastoRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	adminEmail string,
) *ReporteWorker {
	return &ReporteWorker{
		turnoRepo:      turnoRepo,
		gastoRepo:      gastoRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		adminEmail:     adminEmail,
	}
}

// Process handles a single report job:
//  1. Parse ReporteJobPayload
//  2. Fetch the closed Turno and its gastos
//  3. Render the close PDF
//  4. Enqueue the email job for the administrator
func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return
	}

	turnoID, err := uuid.Parse(payload.TurnoID)
	if err != nil {
		log.Error().Str("turno_id", payload.TurnoID).Msg("reporte_worker: invalid turno_id")
		return
	}

	turno, err := w.turnoRepo.FindByID(ctx, turnoID)
	if err != nil {
		log.Error().Err(err).Str("turno_id", payload.TurnoID).Msg("reporte_worker: turno not found")
		return
	}
	if turno.Estado != "cerrado" {
		log.Warn().Str("turno_id", payload.TurnoID).Msg("reporte_worker: turno not closed, skipping")
		return
	}

	gastos, err := w.gastoRepo.ListByTurno(ctx, turnoID)
	if err != nil {
		log.Error().Err(err).Str("turno_id", payload.TurnoID).Msg("reporte_worker: failed to load gastos")
		return
	}

	pdfPath, err := infra.GenerateCierrePDF(turno, gastos, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("turno_id", payload.TurnoID).Msg("reporte_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("turno_id", payload.TurnoID).Msg("reporte_worker: close report generated")

	if w.adminEmail == "" || w.dispatcher == nil {
		return
	}

	diferencia := "0"
	if turno.Diferencia != nil {
		diferencia = turno.Diferencia.StringFixed(0)
	}
	emailJob := EmailJobPayload{
		ToEmail: w.adminEmail,
		Subject: fmt.Sprintf("Cierre de turno %s — %s", turno.Tipo, turno.OpenedAt.Format("02/01/2006")),
		Body:    fmt.Sprintf("Turno cerrado por %s.\nDiferencia de caja: $%s\nAdjunto el reporte completo.", turno.Vendedor, diferencia),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("turno_id", payload.TurnoID).Msg("reporte_worker: failed to enqueue email")
	}
}
