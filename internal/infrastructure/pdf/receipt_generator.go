// Package pdf implementa la generación del recibo de venta de la clínica.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la clínica  │  N° Recibo + Fecha          │
//	│  Dirección / Teléfono                                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PACIENTE: Nombre + teléfono                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Total                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + método y estado de pago                             │
//	│  FOOTER: leyenda configurable (receipt_footer)               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Clinica-api/internal/application/sales"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 98, Blue: 80}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Etiquetas legibles para método y estado de pago.
var (
	methodLabels = map[string]string{
		entity.PaymentMethodCash:     "Efectivo",
		entity.PaymentMethodTransfer: "Transferencia",
		entity.PaymentMethodCard:     "Tarjeta",
	}
	statusLabels = map[string]string{
		entity.PaymentStatusPending:   "Pendiente",
		entity.PaymentStatusPaid:      "Pagado",
		entity.PaymentStatusCancelled: "Anulado",
	}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa sales.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

var _ sales.ReceiptPDFGenerator = (*MarotoReceiptGenerator)(nil)

// GenerateReceiptPDF genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(
	_ context.Context,
	tx *entity.Transaction,
	patient *entity.Patient,
	lines []sales.ReceiptLine,
	info sales.ReceiptInfo,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de venta", true).
		WithAuthor(info.ClinicName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(tx, info))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(patientRow(patient))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines, info.CurrencySymbol) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(tx, info.CurrencySymbol))

	if info.ReceiptFooter != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(info.ReceiptFooter, props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre y contacto de la clínica (izq), N° de recibo y fecha (der).
func headerRow(tx *entity.Transaction, info sales.ReceiptInfo) core.Row {
	contacto := info.ClinicAddress
	if info.ClinicPhone != "" {
		if contacto != "" {
			contacto += "   |   "
		}
		contacto += "Tel: " + info.ClinicPhone
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(info.ClinicName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(contacto, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("#"+shortID(tx.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+tx.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// patientRow: datos del paciente.
func patientRow(patient *entity.Patient) core.Row {
	contacto := patient.Phone
	if contacto == "" {
		contacto = "—"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PACIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Tel: %s", patient.Name, contacto), props.Text{
				Size: 9, Top: 7,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// tableLineRows: una fila por línea del recibo, a precio congelado de la venta.
func tableLineRows(lines []sales.ReceiptLine, currency string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				l.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				currency+l.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				currency+l.Total.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: total a pagar con método y estado de pago.
func totalRow(tx *entity.Transaction, currency string) core.Row {
	metodo := methodLabels[tx.PaymentMethod]
	estado := statusLabels[tx.PaymentStatus]
	return row.New(14).Add(
		col.New(6).Add(
			text.New(fmt.Sprintf("Método de pago: %s", metodo), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Estado: %s", estado), props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(3).Add(
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 3, Right: 2,
			}),
		),
		col.New(3).Add(
			text.New(currency+tx.TotalAmount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 3, Right: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// shortID devuelve los primeros 8 caracteres del UUID para el número de recibo.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
