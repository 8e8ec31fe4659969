package infra

// pdf.go — cash-close report rendering using go-pdf/fpdf.
// Generates an A4 report with aggregated totals and the per-ticket payment
// breakdown for the requested date range. The output file is saved to
// storagePath/cash-close_{from}_{to}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"restopos/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateCloseoutPDF renders a closeout report to disk and returns the
// absolute path to the generated file. storagePath is created if needed.
func GenerateCloseoutPDF(report *dto.CloseoutReportResponse, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cash-close_%s_%s.pdf", report.From, report.To)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Cash Close Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("%s to %s", report.From, report.To), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Totals", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	totals := []struct {
		label, value string
	}{
		{"Tickets", fmt.Sprintf("%d", report.TicketCount)},
		{"Cash received", "$" + report.TotalCash.StringFixed(2)},
		{"Card payments", "$" + report.TotalCard.StringFixed(2)},
		{"Change given", "$" + report.TotalChange.StringFixed(2)},
		{"Total paid", "$" + report.TotalPaid.StringFixed(2)},
		{"Net cash", "$" + report.NetCash.StringFixed(2)},
	}
	for _, row := range totals {
		pdf.CellFormat(contentW*0.4, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.6, 6, row.value, "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// ── Ticket breakdown ─────────────────────────────────────────────────────
	col := []float64{contentW * 0.16, contentW * 0.24, contentW * 0.15, contentW * 0.15, contentW * 0.15, contentW * 0.15}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col[0], 6, "Ticket", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col[1], 6, "Created", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col[2], 6, "Total", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col[3], 6, "Cash", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col[4], 6, "Card", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col[5], 6, "Change", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, t := range report.Tickets {
		created := t.CreatedAt
		if len(created) > 16 {
			created = created[:16] // trim seconds and zone for the table
		}
		pdf.CellFormat(col[0], 5, fmt.Sprintf("#%d", t.Number), "", 0, "L", false, 0, "")
		pdf.CellFormat(col[1], 5, created, "", 0, "L", false, 0, "")
		pdf.CellFormat(col[2], 5, "$"+t.Total.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[3], 5, "$"+t.Cash.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[4], 5, "$"+t.Card.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[5], 5, "$"+t.Change.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
