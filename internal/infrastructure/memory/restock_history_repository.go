package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

var _ repository.RestockHistoryRepository = (*RestockHistoryRepo)(nil)

// RestockHistoryRepo implementación en memoria del ledger append-only.
type RestockHistoryRepo struct {
	s *Store
}

// NewRestockHistoryRepository construye el adaptador del ledger en memoria.
func NewRestockHistoryRepository(s *Store) *RestockHistoryRepo {
	return &RestockHistoryRepo{s: s}
}

func copyRecord(rec entity.RestockHistoryRecord) *entity.RestockHistoryRecord {
	rec.DrawerID = clonePtr(rec.DrawerID)
	rec.BatchID = clonePtr(rec.BatchID)
	rec.QuantityChanged = clonePtr(rec.QuantityChanged)
	return &rec
}

// Create agrega una entrada al ledger.
func (r *RestockHistoryRepo) Create(_ context.Context, rec *entity.RestockHistoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.history = append(r.s.history, *copyRecord(*rec))
	return nil
}

// List devuelve el ledger de la entrada más reciente a la más antigua.
func (r *RestockHistoryRepo) List(_ context.Context, limit, offset int) ([]*entity.RestockHistoryRecord, error) {
	return r.newestFirst(func(*entity.RestockHistoryRecord) bool { return true }, limit, offset), nil
}

// ListByEmployee devuelve las entradas de un empleado, más recientes primero.
func (r *RestockHistoryRepo) ListByEmployee(_ context.Context, employeeID string, limit, offset int) ([]*entity.RestockHistoryRecord, error) {
	return r.newestFirst(func(rec *entity.RestockHistoryRecord) bool { return rec.EmployeeID == employeeID }, limit, offset), nil
}

// ListWarnings devuelve las entradas marcadas con apilamiento, más recientes primero.
func (r *RestockHistoryRepo) ListWarnings(_ context.Context, limit, offset int) ([]*entity.RestockHistoryRecord, error) {
	return r.newestFirst(func(rec *entity.RestockHistoryRecord) bool {
		return strings.HasPrefix(rec.Notes, entity.WarningTag)
	}, limit, offset), nil
}

// ListAll devuelve todo el ledger (opcionalmente de un empleado), más recientes primero.
func (r *RestockHistoryRepo) ListAll(_ context.Context, employeeID string) ([]*entity.RestockHistoryRecord, error) {
	return r.newestFirst(func(rec *entity.RestockHistoryRecord) bool {
		return employeeID == "" || rec.EmployeeID == employeeID
	}, 0, 0), nil
}

// AggregateByEmployee calcula promedios y totales por empleado al momento de consultar.
func (r *RestockHistoryRepo) AggregateByEmployee(_ context.Context, employeeID string) ([]repository.EmployeeAggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type acc struct {
		name           string
		n              int
		sumAcc, sumEff int64
	}
	byEmp := make(map[string]*acc)
	for i := range r.s.history {
		rec := &r.s.history[i]
		if employeeID != "" && rec.EmployeeID != employeeID {
			continue
		}
		a, ok := byEmp[rec.EmployeeID]
		if !ok {
			a = &acc{}
			byEmp[rec.EmployeeID] = a
		}
		a.n++
		a.sumAcc += int64(rec.AccuracyScore)
		a.sumEff += int64(rec.EfficiencyScore)
		// el ledger está en orden de inserción: el último nombre no vacío gana
		if rec.EmployeeName != "" {
			a.name = rec.EmployeeName
		}
	}

	out := make([]repository.EmployeeAggregate, 0, len(byEmp))
	for id, a := range byEmp {
		n := decimal.NewFromInt(int64(a.n))
		out = append(out, repository.EmployeeAggregate{
			EmployeeID:    id,
			EmployeeName:  a.name,
			TotalActions:  a.n,
			AvgAccuracy:   decimal.NewFromInt(a.sumAcc).Div(n),
			AvgEfficiency: decimal.NewFromInt(a.sumEff).Div(n),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *RestockHistoryRepo) newestFirst(keep func(*entity.RestockHistoryRecord) bool, limit, offset int) []*entity.RestockHistoryRecord {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := make([]*entity.RestockHistoryRecord, 0)
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if keep(&r.s.history[i]) {
			matched = append(matched, copyRecord(r.s.history[i]))
		}
	}
	from, to := page(len(matched), limit, offset)
	return matched[from:to]
}
