// Package ledger implementa el historial de reposición: entradas inmutables de acciones de operadores
// y las métricas de desempeño calculadas sobre ellas.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

// Métricas del ranking.
const (
	MetricEfficiency = "efficiency"
	MetricAccuracy   = "accuracy"
	MetricComposite  = "composite"
)

const (
	defaultScore            = 100
	defaultLeaderboardLimit = 10
	metricPlaces            = 2
)

// AppendInput datos de una entrada del ledger. Puntajes nil = 100; CompletionTime nil = ahora.
type AppendInput struct {
	EmployeeID      string
	EmployeeName    string
	ActionType      string
	DrawerID        *string
	BatchID         *string
	QuantityChanged *int
	AccuracyScore   *int
	EfficiencyScore *int
	Notes           string
	CompletionTime  *time.Time
}

// Performance promedios de un empleado (2 decimales).
type Performance struct {
	EmployeeID    string
	AvgAccuracy   decimal.Decimal
	AvgEfficiency decimal.Decimal
	TotalActions  int
}

// LeaderboardEntry posición de un empleado.
type LeaderboardEntry struct {
	EmployeeID   string
	EmployeeName string
	Rank         int
	Value        decimal.Decimal
	TotalActions int
}

// UseCase casos de uso del ledger.
type UseCase struct {
	repo   repository.RestockHistoryRepository
	report SpreadsheetRenderer
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.RestockHistoryRepository, report SpreadsheetRenderer) *UseCase {
	return &UseCase{repo: repo, report: report, now: time.Now}
}

// Append valida y agrega una entrada. restock se normaliza a packing.
// La etiqueta de apilamiento la escribe solo el rastreador de asignaciones; aquí se rechaza.
func (uc *UseCase) Append(ctx context.Context, in AppendInput) (*entity.RestockHistoryRecord, error) {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	if in.EmployeeID == "" {
		return nil, fmt.Errorf("%w: employee_id es obligatorio", domain.ErrValidation)
	}
	action := entity.NormalizeActionType(strings.ToLower(strings.TrimSpace(in.ActionType)))
	if action == "" {
		return nil, fmt.Errorf("%w: action_type %q no válido", domain.ErrValidation, in.ActionType)
	}
	if strings.HasPrefix(strings.TrimSpace(in.Notes), entity.WarningTag) {
		return nil, fmt.Errorf("%w: notes no puede empezar con la etiqueta reservada %s", domain.ErrValidation, entity.WarningTag)
	}
	acc, err := score(in.AccuracyScore, "accuracy_score")
	if err != nil {
		return nil, err
	}
	eff, err := score(in.EfficiencyScore, "efficiency_score")
	if err != nil {
		return nil, err
	}
	completion := uc.now()
	if in.CompletionTime != nil && !in.CompletionTime.IsZero() {
		completion = *in.CompletionTime
	}
	rec := &entity.RestockHistoryRecord{
		ID:              uuid.New().String(),
		EmployeeID:      in.EmployeeID,
		EmployeeName:    strings.TrimSpace(in.EmployeeName),
		ActionType:      action,
		DrawerID:        in.DrawerID,
		BatchID:         in.BatchID,
		QuantityChanged: in.QuantityChanged,
		AccuracyScore:   acc,
		EfficiencyScore: eff,
		Notes:           in.Notes,
		CompletionTime:  completion,
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List lista el ledger, más recientes primero.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.RestockHistoryRecord, error) {
	return uc.repo.List(ctx, limit, offset)
}

// ByEmployee lista las entradas de un empleado, más recientes primero.
func (uc *UseCase) ByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]*entity.RestockHistoryRecord, error) {
	return uc.repo.ListByEmployee(ctx, employeeID, limit, offset)
}

// Warnings lista las entradas marcadas con apilamiento, más recientes primero.
func (uc *UseCase) Warnings(ctx context.Context, limit, offset int) ([]*entity.RestockHistoryRecord, error) {
	return uc.repo.ListWarnings(ctx, limit, offset)
}

// Performance calcula los promedios de un empleado. Sin entradas devuelve ceros.
func (uc *UseCase) Performance(ctx context.Context, employeeID string) (*Performance, error) {
	aggs, err := uc.repo.AggregateByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	p := &Performance{EmployeeID: employeeID, AvgAccuracy: decimal.Zero, AvgEfficiency: decimal.Zero}
	for _, a := range aggs {
		if a.EmployeeID != employeeID {
			continue
		}
		p.AvgAccuracy = a.AvgAccuracy.Round(metricPlaces)
		p.AvgEfficiency = a.AvgEfficiency.Round(metricPlaces)
		p.TotalActions = a.TotalActions
	}
	return p, nil
}

// Leaderboard ordena a los empleados por la métrica (descendente; empates por employee_id ascendente).
// Las entradas de entity.SystemEmployeeID quedan fuera.
func (uc *UseCase) Leaderboard(ctx context.Context, limit int, metric string) ([]LeaderboardEntry, error) {
	metric = strings.ToLower(strings.TrimSpace(metric))
	if metric == "" {
		metric = MetricEfficiency
	}
	if metric != MetricEfficiency && metric != MetricAccuracy && metric != MetricComposite {
		return nil, fmt.Errorf("%w: metric debe ser efficiency, accuracy o composite", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	aggs, err := uc.repo.AggregateByEmployee(ctx, "")
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(aggs))
	for _, a := range aggs {
		// las asignaciones sin operador identificado no compiten en el ranking
		if a.EmployeeID == entity.SystemEmployeeID {
			continue
		}
		name := a.EmployeeName
		if name == "" {
			name = a.EmployeeID
		}
		entries = append(entries, LeaderboardEntry{
			EmployeeID:   a.EmployeeID,
			EmployeeName: name,
			Value:        metricValue(a, metric),
			TotalActions: a.TotalActions,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Value.Cmp(entries[j].Value); c != 0 {
			return c > 0
		}
		return entries[i].EmployeeID < entries[j].EmployeeID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// ExportXLSX genera la planilla del ledger (de un empleado si employeeID no es vacío).
func (uc *UseCase) ExportXLSX(ctx context.Context, employeeID string) ([]byte, error) {
	records, err := uc.repo.ListAll(ctx, strings.TrimSpace(employeeID))
	if err != nil {
		return nil, err
	}
	return uc.report.Ledger(records)
}

func metricValue(a repository.EmployeeAggregate, metric string) decimal.Decimal {
	switch metric {
	case MetricAccuracy:
		return a.AvgAccuracy.Round(metricPlaces)
	case MetricComposite:
		return a.AvgAccuracy.Add(a.AvgEfficiency).Div(decimal.NewFromInt(2)).Round(metricPlaces)
	default:
		return a.AvgEfficiency.Round(metricPlaces)
	}
}

func score(s *int, field string) (int, error) {
	if s == nil {
		return defaultScore, nil
	}
	if *s < 0 || *s > 100 {
		return 0, fmt.Errorf("%w: %s debe estar entre 0 y 100", domain.ErrValidation, field)
	}
	return *s, nil
}
