package infra

// Sale ticket rendering with go-pdf/fpdf.
// 80mm thermal-receipt layout: company block, sale number and date, operator
// and customer, line table, discount, bold total.

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/diazinho777/Ferreteria-sistema/internal/config"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/go-pdf/fpdf"
)

// Empresa is the letterhead printed on every ticket.
type Empresa struct {
	Nombre    string
	Direccion string
	Telefono  string
	RUC       string
}

func NewEmpresa(cfg *config.Config) Empresa {
	return Empresa{
		Nombre:    cfg.EmpresaNombre,
		Direccion: cfg.EmpresaDireccion,
		Telefono:  cfg.EmpresaTelefono,
		RUC:       cfg.EmpresaRUC,
	}
}

// WriteTicketPDF renders the ticket of venta into w. venta must have Items
// (with Producto), Usuario and Cliente preloaded where available.
func WriteTicketPDF(w io.Writer, venta *model.Venta, empresa Empresa) error {
	const ancho = 80.0
	alto := 95.0 + 5*float64(len(venta.Items))

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: ancho, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	contentW := ancho - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr(empresa.Nombre), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr(empresa.Direccion), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Tel: "+empresa.Telefono+"  RUC: "+empresa.RUC), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Sale info ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Ticket N° %06d", venta.Numero)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.Fecha.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if venta.Usuario != nil {
		pdf.CellFormat(contentW, 4, tr("Atendió: "+venta.Usuario.Nombre), "", 1, "L", false, 0, "")
	}
	cliente := "Consumidor final"
	if venta.Cliente != nil {
		cliente = venta.Cliente.Texto()
	}
	pdf.CellFormat(contentW, 4, tr("Cliente: "+cliente), "", 1, "L", false, 0, "")
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), ancho-4, pdf.GetY())
	pdf.Ln(1)

	// ── Lines ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46
	col2 := contentW * 0.16
	col3 := contentW * 0.18
	col4 := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "P.Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venta.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		if r := []rune(nombre); len(r) > 24 {
			nombre = string(r[:23]) + "."
		}
		pdf.CellFormat(col1, 5, tr(nombre), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, item.Cantidad.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, item.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), ancho-4, pdf.GetY())
	pdf.Ln(1)

	// ── Totals ───────────────────────────────────────────────────────────────
	etiquetaW := col1 + col2 + col3
	if !venta.Descuento.IsZero() {
		pdf.CellFormat(etiquetaW, 5, "Descuento:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 5, "-C$"+venta.Descuento.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(etiquetaW, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, "C$"+venta.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// SaveTicketPDF writes the ticket under storagePath and returns the file path.
func SaveTicketPDF(venta *model.Venta, empresa Empresa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	var buf bytes.Buffer
	if err := WriteTicketPDF(&buf, venta, empresa); err != nil {
		return "", fmt.Errorf("pdf: render: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("ticket_%06d.pdf", venta.Numero))
	if err := os.WriteFile(filePath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
