package entity

import "time"

// Estados de un cajón dentro de un trabajo de empaque guiado.
const (
	JobDrawerPending    = "pending"
	JobDrawerInProgress = "in-progress"
	JobDrawerCompleted  = "completed"
)

// PackingItem lote requerido por un cajón del trabajo (un renglón del checklist).
type PackingItem struct {
	BatchID   string
	Quantity  int
	Confirmed bool
	Warning   string
	// StatusID es el DrawerStatus producido al confirmar.
	StatusID string
}

// PackingDrawer estado de un cajón dentro del trabajo.
type PackingDrawer struct {
	DrawerID    string
	State       string
	Items       []PackingItem
	ScannedAt   *time.Time
	CompletedAt *time.Time
}

// PackingJob trabajo de empaque guiado: estado efímero del flujo, no persistido por el núcleo.
// Locked pasa a true solo cuando todos los cajones están completed.
type PackingJob struct {
	ID              string
	Flight          string
	StandardSeconds int
	Drawers         []PackingDrawer
	Locked          bool
	CreatedAt       time.Time
	LockedAt        *time.Time
}

// AllCompleted indica si todos los cajones del trabajo están completed.
func (j *PackingJob) AllCompleted() bool {
	for i := range j.Drawers {
		if j.Drawers[i].State != JobDrawerCompleted {
			return false
		}
	}
	return true
}

// Drawer devuelve el cajón del trabajo o nil.
func (j *PackingJob) Drawer(drawerID string) *PackingDrawer {
	for i := range j.Drawers {
		if j.Drawers[i].DrawerID == drawerID {
			return &j.Drawers[i]
		}
	}
	return nil
}
