package http

import (
	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/application/catalog"
	"github.com/jhoicas/trolley-api/internal/application/dto"
	"github.com/jhoicas/trolley-api/internal/application/ledger"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:          b.ID,
		ItemType:    b.ItemType,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		ExpiryDate:  b.ExpiryDate,
		QRCode:      b.QRCode,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBatchResponses(list []*entity.Batch) []dto.BatchResponse {
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBatchResponse(b))
	}
	return out
}

func toDrawerResponse(d *entity.Drawer) dto.DrawerResponse {
	return dto.DrawerResponse{
		ID:         d.ID,
		DrawerCode: d.DrawerCode,
		QRCode:     d.QRCode,
		Location:   d.Location,
		Capacity:   d.Capacity,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func toLayoutResponse(l *entity.DrawerLayout) dto.DrawerLayoutResponse {
	return dto.DrawerLayoutResponse{
		ID:           l.ID,
		DrawerID:     l.DrawerID,
		LayoutConfig: l.LayoutConfig,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toDrawerStatusResponse(ds *entity.DrawerStatus) dto.DrawerStatusResponse {
	return dto.DrawerStatusResponse{
		ID:             ds.ID,
		DrawerID:       ds.DrawerID,
		BatchID:        ds.BatchID,
		QuantityLoaded: ds.QuantityLoaded,
		Status:         ds.Status,
		IsDepleted:     ds.IsDepleted,
		EmployeeID:     ds.EmployeeID,
		CreatedAt:      ds.CreatedAt,
		UpdatedAt:      ds.UpdatedAt,
		DepletedAt:     ds.DepletedAt,
	}
}

func toDrawerStatusResponses(list []*entity.DrawerStatus) []dto.DrawerStatusResponse {
	out := make([]dto.DrawerStatusResponse, 0, len(list))
	for _, ds := range list {
		out = append(out, toDrawerStatusResponse(ds))
	}
	return out
}

// toAllocationResponse registro resultante de una asignación; con apilamiento agrega warning.
func toAllocationResponse(res *allocation.AllocationResult) dto.DrawerStatusResponse {
	out := toDrawerStatusResponse(res.Status)
	if !res.HasWarning() {
		return out
	}
	conflicts := make([]dto.ConflictingBatchDTO, 0, len(res.ConflictingBatches))
	for _, cb := range res.ConflictingBatches {
		conflicts = append(conflicts, dto.ConflictingBatchDTO{
			DrawerStatusID: cb.StatusID,
			BatchID:        cb.BatchID,
			BatchNumber:    cb.BatchNumber,
			QuantityLoaded: cb.QuantityLoaded,
			ExpiryDate:     cb.ExpiryDate,
		})
	}
	out.Warning = &dto.StackingWarningDTO{
		Type:               res.Warning,
		Message:            "el cajón ya contenía lotes sin agotar; se registró la carga igualmente",
		ConflictingBatches: conflicts,
	}
	return out
}

func toUtilizationResponse(u *allocation.Utilization) dto.DrawerUtilizationResponse {
	return dto.DrawerUtilizationResponse{
		DrawerID:         u.DrawerID,
		Capacity:         u.Capacity,
		TotalQuantity:    u.TotalQuantity,
		ActiveBatchCount: u.ActiveBatchCount,
		HasStacking:      u.HasStacking,
		FillStatus:       u.FillStatus,
	}
}

func toHistoryResponse(r *entity.RestockHistoryRecord) dto.RestockHistoryResponse {
	return dto.RestockHistoryResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		ActionType:      r.ActionType,
		DrawerID:        r.DrawerID,
		BatchID:         r.BatchID,
		QuantityChanged: r.QuantityChanged,
		AccuracyScore:   r.AccuracyScore,
		EfficiencyScore: r.EfficiencyScore,
		Notes:           r.Notes,
		CompletionTime:  r.CompletionTime,
	}
}

func toHistoryResponses(list []*entity.RestockHistoryRecord) []dto.RestockHistoryResponse {
	out := make([]dto.RestockHistoryResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toHistoryResponse(r))
	}
	return out
}

func toLeaderboardResponse(metric string, entries []ledger.LeaderboardEntry) dto.LeaderboardResponse {
	out := dto.LeaderboardResponse{Metric: metric, Entries: make([]dto.LeaderboardEntry, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.LeaderboardEntry{
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			Rank:         e.Rank,
			MetricValue:  e.Value,
			TotalActions: e.TotalActions,
		})
	}
	return out
}

func toPackingJobResponse(j *entity.PackingJob) dto.PackingJobResponse {
	out := dto.PackingJobResponse{
		JobID:           j.ID,
		Flight:          j.Flight,
		StandardSeconds: j.StandardSeconds,
		Locked:          j.Locked,
		TotalDrawers:    len(j.Drawers),
		Drawers:         make([]dto.PackingDrawerResponse, 0, len(j.Drawers)),
		CreatedAt:       j.CreatedAt,
		LockedAt:        j.LockedAt,
	}
	for _, pd := range j.Drawers {
		if pd.State == entity.JobDrawerCompleted {
			out.CompletedDrawers++
		}
		items := make([]dto.PackingItemResponse, 0, len(pd.Items))
		for _, it := range pd.Items {
			items = append(items, dto.PackingItemResponse{
				BatchID:        it.BatchID,
				Quantity:       it.Quantity,
				Confirmed:      it.Confirmed,
				Warning:        it.Warning,
				DrawerStatusID: it.StatusID,
			})
		}
		out.Drawers = append(out.Drawers, dto.PackingDrawerResponse{
			DrawerID:    pd.DrawerID,
			State:       pd.State,
			Items:       items,
			ScannedAt:   pd.ScannedAt,
			CompletedAt: pd.CompletedAt,
		})
	}
	return out
}

func toExpiryDashboardResponse(d *catalog.ExpiryDashboard) dto.ExpiryDashboardResponse {
	out := dto.ExpiryDashboardResponse{
		CriticalDays:    d.CriticalDays,
		Buckets:         make([]dto.ExpiryBucket, 0, len(d.Buckets)),
		CriticalBatches: toBatchResponses(d.Critical),
		ExpiredBatches:  toBatchResponses(d.Expired),
	}
	for _, b := range d.Buckets {
		out.Buckets = append(out.Buckets, dto.ExpiryBucket{State: b.State, Quantity: b.Quantity, Batches: b.Batches})
	}
	return out
}
