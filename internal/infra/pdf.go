package infra

// pdf.go genera el reporte PDF de cierre de turno:
//   - encabezado con vendedor, tipo de turno y horario
//   - arqueo de caja (esperado, contado, diferencia)
//   - desglose de ventas por metodo de pago
//   - gastos del turno
//
// El archivo se guarda en storagePath/cierre_{fecha}_{tipo}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"pudahuelpos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateCierrePDF renders the close report for a cerrado Turno.
// Returns the absolute path of the written file.
func GenerateCierrePDF(turno *model.Turno, gastos []model.GastoTurno, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%s_%s.pdf", turno.OpenedAt.Format("2006-01-02"), turno.Tipo)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Cierre de Turno", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Vendedor: %s  |  Turno: %s", turno.Vendedor, turno.Tipo), "", 1, "C", false, 0, "")

	horario := turno.OpenedAt.Format("02/01/2006 15:04")
	if turno.ClosedAt != nil {
		horario += " - " + turno.ClosedAt.Format("15:04")
	}
	pdf.CellFormat(contentW, 6, horario, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)

	// ── Arqueo ───────────────────────────────────────────────────────────────
	labelW := contentW * 0.6
	valueW := contentW * 0.4

	row := func(label string, monto decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 7, "$"+monto.StringFixed(0), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Arqueo de caja", "", 1, "L", false, 0, "")

	row("Efectivo inicial", turno.EfectivoInicial, false)
	if turno.EfectivoEsperado != nil {
		row("Efectivo esperado", *turno.EfectivoEsperado, false)
	}
	if turno.EfectivoContado != nil {
		row("Efectivo contado", *turno.EfectivoContado, false)
	}
	if turno.Diferencia != nil {
		row("Diferencia", *turno.Diferencia, true)
	}
	pdf.Ln(3)

	// ── Ventas por metodo ────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Ventas por metodo de pago", "", 1, "L", false, 0, "")

	if turno.DesglosePagos != nil {
		d := turno.DesglosePagos
		row("Efectivo", d.Cash, false)
		row("Tarjeta", d.Card, false)
		row("Transferencia", d.Transfer, false)
		row("Fiado", d.Fiado, false)
		row("Personal", d.Staff, false)
	}
	if turno.TotalVentas != nil {
		tickets := 0
		if turno.Tickets != nil {
			tickets = *turno.Tickets
		}
		row(fmt.Sprintf("Total (%d tickets)", tickets), *turno.TotalVentas, true)
	}
	pdf.Ln(3)

	// ── Gastos ───────────────────────────────────────────────────────────────
	if len(gastos) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(contentW, 8, "Gastos del turno", "", 1, "L", false, 0, "")

		totalGastos := decimal.Zero
		for i := range gastos {
			g := &gastos[i]
			label := g.Tipo
			if g.NombreProveedor != nil {
				label += " (" + *g.NombreProveedor + ")"
			}
			row(label, g.Monto, false)
			totalGastos = totalGastos.Add(g.Monto)
		}
		row("Total gastos", totalGastos, true)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
