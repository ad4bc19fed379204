// Package pdf implementa la nota de traslado en PDF de un movimiento masivo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nota de traslado + ID corto  │  Estado + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN: nombre / área   →   DESTINO: nombre / área          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Enviado | Recibido                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTAS del emisor / receptor                                 │
//	│  FOOTER: QR del enlace público de confirmación (si pending)  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/stockflow-api/internal/application/bulkmovement"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

var _ bulkmovement.TransferNoteGenerator = (*MarotoTransferNoteGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 94, Blue: 74}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoTransferNoteGenerator implementa bulkmovement.TransferNoteGenerator
// usando Maroto v2.
type MarotoTransferNoteGenerator struct{}

// NewMarotoTransferNoteGenerator construye el generador.
func NewMarotoTransferNoteGenerator() *MarotoTransferNoteGenerator {
	return &MarotoTransferNoteGenerator{}
}

// GenerateTransferNote genera el PDF y devuelve sus bytes. publicURL vacío
// omite la sección del QR (movimientos ya terminales).
func (g *MarotoTransferNoteGenerator) GenerateTransferNote(
	_ context.Context,
	movement *entity.BulkMovement,
	from, to *entity.Location,
	publicURL string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de traslado", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(movement))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(locationsRow(from, to))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(movement.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range notesRows(movement) {
		m.AddRows(r)
	}

	if publicURL != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(confirmLinkRows(publicURL)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar nota de traslado: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + ID corto (izq) y estado + fecha (der).
func headerRow(movement *entity.BulkMovement) core.Row {
	shortID := movement.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	fecha := movement.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("NOTA DE TRASLADO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Ref: "+shortID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(statusLabel(movement.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Creado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// locationsRow: origen y destino lado a lado.
func locationsRow(from, to *entity.Location) core.Row {
	block := func(title string, loc *entity.Location) core.Col {
		return col.New(6).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(loc.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(nonEmpty(loc.Area, "—"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		)
	}
	return row.New(16).Add(
		block("ORIGEN", from),
		block("DESTINO", to),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 6, align.Left),
		h("Enviado", 2, align.Right),
		h("Recibido", 2, align.Right),
	)
}

// tableItemRows: una fila por ítem del movimiento.
func tableItemRows(items []*entity.BulkMovementItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		received := "—"
		if it.QuantityReceived != nil {
			received = fmt.Sprintf("%d", *it.QuantityReceived)
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				it.SKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(6).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", it.QuantitySent),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				received,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// notesRows: notas del emisor y del receptor, si existen.
func notesRows(movement *entity.BulkMovement) []core.Row {
	note := func(title, body string) core.Row {
		return row.New(10).Add(
			col.New(12).Add(
				text.New(title, props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(body, props.Text{Size: 8, Top: 6, Color: colorGray}),
			),
		)
	}
	var rows []core.Row
	if movement.SenderNotes != "" {
		rows = append(rows, note("NOTA DEL EMISOR", movement.SenderNotes))
	}
	if movement.RecipientNotes != "" {
		rows = append(rows, note("NOTA DEL RECEPTOR", movement.RecipientNotes))
	}
	return rows
}

// confirmLinkRows: QR + URL del enlace público de confirmación.
func confirmLinkRows(publicURL string) []core.Row {
	return []core.Row{
		row.New(6).Add(
			col.New(12).Add(
				text.New("CONFIRMAR RECEPCIÓN", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary,
				}),
			),
		),
		row.New(28).Add(
			col.New(3).Add(
				code.NewQr(publicURL, props.Rect{Center: true, Percent: 90}),
			),
			col.New(9).Add(
				text.New("Escanee el código o abra el enlace para registrar las cantidades recibidas:", props.Text{
					Size: 8, Top: 6, Color: colorGray,
				}),
				text.New(publicURL, props.Text{Size: 7, Top: 12}),
			),
		),
	}
}

func statusLabel(status string) string {
	switch status {
	case entity.StatusPending:
		return "PENDIENTE DE CONFIRMACIÓN"
	case entity.StatusConfirmed:
		return "CONFIRMADO"
	case entity.StatusExpired:
		return "EXPIRADO"
	case entity.StatusCancelled:
		return "CANCELADO"
	default:
		return status
	}
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
