// Package drawers implementa el registro de cajones, su resolución por QR y sus layouts.
package drawers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

// Tamaños admitidos para la imagen QR.
const (
	DefaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// CreateInput datos para registrar un cajón. QRCode vacío = se genera un UUID.
type CreateInput struct {
	DrawerCode string
	QRCode     string
	Location   string
	Capacity   int
	Status     string
}

// UpdateInput campos editables; nil = sin cambio.
type UpdateInput struct {
	Location *string
	Capacity *int
	Status   *string
}

// UseCase casos de uso del registro de cajones.
type UseCase struct {
	drawerRepo repository.DrawerRepository
	layoutRepo repository.DrawerLayoutRepository
	qr         QRRenderer
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(drawerRepo repository.DrawerRepository, layoutRepo repository.DrawerLayoutRepository, qr QRRenderer) *UseCase {
	return &UseCase{drawerRepo: drawerRepo, layoutRepo: layoutRepo, qr: qr, now: time.Now}
}

// Create registra un cajón activo.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Drawer, error) {
	in.DrawerCode = strings.TrimSpace(in.DrawerCode)
	in.QRCode = strings.TrimSpace(in.QRCode)
	if in.DrawerCode == "" {
		return nil, fmt.Errorf("%w: drawer_code es obligatorio", domain.ErrValidation)
	}
	if in.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity no puede ser negativa", domain.ErrValidation)
	}
	status, err := drawerStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if in.QRCode == "" {
		in.QRCode = uuid.New().String()
	}
	now := uc.now()
	d := &entity.Drawer{
		ID:         uuid.New().String(),
		DrawerCode: in.DrawerCode,
		QRCode:     in.QRCode,
		Location:   strings.TrimSpace(in.Location),
		Capacity:   in.Capacity,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.drawerRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// GetByID obtiene un cajón.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Drawer, error) {
	d, err := uc.drawerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: cajón %s", domain.ErrNotFound, id)
	}
	return d, nil
}

// List lista cajones paginados.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Drawer, error) {
	return uc.drawerRepo.List(ctx, limit, offset)
}

// Update modifica ubicación, capacidad o estado. drawer_code y qr_code son inmutables.
func (uc *UseCase) Update(ctx context.Context, id string, in UpdateInput) (*entity.Drawer, error) {
	d, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Location != nil {
		d.Location = strings.TrimSpace(*in.Location)
	}
	if in.Capacity != nil {
		if *in.Capacity < 0 {
			return nil, fmt.Errorf("%w: capacity no puede ser negativa", domain.ErrValidation)
		}
		d.Capacity = *in.Capacity
	}
	if in.Status != nil {
		s, err := drawerStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		d.Status = s
	}
	d.UpdatedAt = uc.now()
	if err := uc.drawerRepo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// QRCodePNG genera la imagen del token QR del cajón. size 0 = DefaultQRSize.
func (uc *UseCase) QRCodePNG(ctx context.Context, drawerID string, size int) ([]byte, error) {
	d, err := uc.GetByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		size = DefaultQRSize
	}
	if size < minQRSize || size > maxQRSize {
		return nil, fmt.Errorf("%w: size debe estar entre %d y %d", domain.ErrValidation, minQRSize, maxQRSize)
	}
	return uc.qr.PNG(d.QRCode, size)
}

func drawerStatus(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", entity.DrawerStatusActive:
		return entity.DrawerStatusActive, nil
	case entity.DrawerStatusInactive:
		return entity.DrawerStatusInactive, nil
	default:
		return "", fmt.Errorf("%w: status debe ser active o inactive", domain.ErrValidation)
	}
}
