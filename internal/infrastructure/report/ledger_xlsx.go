// Package report genera planillas de Excel a partir del ledger.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/trolley-api/internal/application/ledger"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

var _ ledger.SpreadsheetRenderer = (*XLSXRenderer)(nil)

const ledgerSheet = "Historial"

var ledgerHeaders = []string{
	"Fecha", "Empleado", "Nombre", "Acción", "Cajón", "Lote", "Cantidad", "Precisión", "Eficiencia", "Notas",
}

// XLSXRenderer implementación de ledger.SpreadsheetRenderer sobre excelize.
type XLSXRenderer struct{}

// NewXLSXRenderer construye el renderer.
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

// Ledger escribe una fila por entrada, con encabezado en negrita.
func (r *XLSXRenderer) Ledger(records []*entity.RestockHistoryRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("estilo encabezado: %w", err)
	}
	for i, h := range ledgerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ledgerSheet, cell, h); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(ledgerHeaders), 1)
	if err := f.SetCellStyle(ledgerSheet, "A1", lastHeader, bold); err != nil {
		return nil, err
	}

	for i, rec := range records {
		row := i + 2
		values := []any{
			rec.CompletionTime.Format("2006-01-02 15:04:05"),
			rec.EmployeeID,
			rec.EmployeeName,
			rec.ActionType,
			deref(rec.DrawerID),
			deref(rec.BatchID),
			quantity(rec.QuantityChanged),
			rec.AccuracyScore,
			rec.EfficiencyScore,
			rec.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(ledgerSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	_ = f.SetColWidth(ledgerSheet, "A", "A", 20)
	_ = f.SetColWidth(ledgerSheet, "J", "J", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func quantity(q *int) any {
	if q == nil {
		return ""
	}
	return *q
}
