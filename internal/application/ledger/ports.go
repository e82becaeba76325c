package ledger

import "github.com/jhoicas/trolley-api/internal/domain/entity"

// SpreadsheetRenderer genera la planilla del ledger para supervisores.
type SpreadsheetRenderer interface {
	Ledger(records []*entity.RestockHistoryRecord) ([]byte, error)
}
