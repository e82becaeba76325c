package drawers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// CreateLayout registra la geometría de slots de un cajón (una por cajón).
func (uc *UseCase) CreateLayout(ctx context.Context, drawerID, layoutConfig string) (*entity.DrawerLayout, error) {
	if _, err := uc.GetByID(ctx, drawerID); err != nil {
		return nil, err
	}
	if err := validLayout(layoutConfig); err != nil {
		return nil, err
	}
	existing, err := uc.layoutRepo.GetByDrawer(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el cajón %s ya tiene layout", domain.ErrDuplicate, drawerID)
	}
	now := uc.now()
	l := &entity.DrawerLayout{
		ID:           uuid.New().String(),
		DrawerID:     drawerID,
		LayoutConfig: layoutConfig,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.layoutRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// GetLayout obtiene un layout por ID.
func (uc *UseCase) GetLayout(ctx context.Context, id string) (*entity.DrawerLayout, error) {
	l, err := uc.layoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: layout %s", domain.ErrNotFound, id)
	}
	return l, nil
}

// GetLayoutByDrawer obtiene el layout de un cajón.
func (uc *UseCase) GetLayoutByDrawer(ctx context.Context, drawerID string) (*entity.DrawerLayout, error) {
	l, err := uc.layoutRepo.GetByDrawer(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: el cajón %s no tiene layout", domain.ErrNotFound, drawerID)
	}
	return l, nil
}

// UpdateLayout reemplaza la configuración de un layout.
func (uc *UseCase) UpdateLayout(ctx context.Context, id, layoutConfig string) (*entity.DrawerLayout, error) {
	l, err := uc.GetLayout(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validLayout(layoutConfig); err != nil {
		return nil, err
	}
	l.LayoutConfig = layoutConfig
	l.UpdatedAt = uc.now()
	if err := uc.layoutRepo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListLayouts lista layouts paginados.
func (uc *UseCase) ListLayouts(ctx context.Context, limit, offset int) ([]*entity.DrawerLayout, error) {
	return uc.layoutRepo.List(ctx, limit, offset)
}

// El contenido no se interpreta; solo debe ser JSON.
func validLayout(cfg string) error {
	if strings.TrimSpace(cfg) == "" || !json.Valid([]byte(cfg)) {
		return fmt.Errorf("%w: layout_config debe ser JSON válido", domain.ErrValidation)
	}
	return nil
}
