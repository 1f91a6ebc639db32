package infra

// pdf.go — receipt generation using go-pdf/fpdf.
// Produces an A7-size thermal-style receipt for a completed sale: shop header,
// sale id and timestamp, line items, payment method, and a bold total.
// The output file is saved to storagePath/recibo_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MarcoAguilar2002/perfum/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboPDF writes a PDF receipt for a Venta (Detalles and their
// Producto must be preloaded). Returns the absolute path of the file.
func GenerateReciboPDF(venta *model.Venta, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", venta.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Perfumeria", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de Venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Sale info ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Venta %s", shortID(venta.ID.String())), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW*0.5, 4, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.15, 4, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.35, 4, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range venta.Detalles {
		nombre := d.ProductoID.String()[:8]
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		if len(nombre) > 24 {
			nombre = nombre[:24]
		}
		pdf.CellFormat(contentW*0.5, 4, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.15, 4, fmt.Sprintf("%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.35, 4, "$ "+d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.5, 6, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 6, "$ "+venta.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Pago: "+venta.MetodoPago, "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.CellFormat(contentW, 4, "Gracias por su compra", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
