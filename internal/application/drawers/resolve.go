package drawers

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// matchRule compara un campo del cajón con el código escaneado.
type matchRule struct {
	name  string
	match func(field, code string) bool
}

// drawerField campo del cajón contra el que se compara el código, en orden de prioridad.
type drawerField struct {
	name string
	get  func(d *entity.Drawer) string
}

var drawerFields = []drawerField{
	{name: "qr_code", get: func(d *entity.Drawer) string { return d.QRCode }},
	{name: "drawer_code", get: func(d *entity.Drawer) string { return d.DrawerCode }},
	{name: "id", get: func(d *entity.Drawer) string { return d.ID }},
}

// FindByQRCode resuelve el código escaneado a un único cajón.
// Reglas en orden: exacta, sin distinguir mayúsculas (case folding Unicode) y recortada sin distinguir
// mayúsculas. Dentro de cada regla se prueba qr_code, luego drawer_code y luego id; gana el primer
// campo con exactamente un cajón. Si un campo coincide con más de uno devuelve ErrAmbiguous en lugar de elegir.
func (uc *UseCase) FindByQRCode(ctx context.Context, code string) (*entity.Drawer, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: código QR vacío", domain.ErrValidation)
	}

	exact, err := uc.drawerRepo.FindExact(ctx, code)
	if err != nil {
		return nil, err
	}
	exactRule := matchRule{name: "exacta", match: func(field, code string) bool { return field == code }}
	if d, err := resolveRule(exact, exactRule, code); d != nil || err != nil {
		return d, err
	}

	all, err := uc.drawerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rules := []matchRule{
		{name: "sin mayúsculas", match: func(field, code string) bool {
			return fold(field) == fold(code)
		}},
		{name: "recortada sin mayúsculas", match: func(field, code string) bool {
			return fold(strings.TrimSpace(field)) == fold(strings.TrimSpace(code))
		}},
	}
	for _, rule := range rules {
		if d, err := resolveRule(all, rule, code); d != nil || err != nil {
			return d, err
		}
	}
	return nil, fmt.Errorf("%w: ningún cajón coincide con %q", domain.ErrNotFound, code)
}

// resolveRule aplica una regla campo por campo; (nil, nil) si ningún campo coincide.
func resolveRule(candidates []*entity.Drawer, rule matchRule, code string) (*entity.Drawer, error) {
	for _, f := range drawerFields {
		var found []*entity.Drawer
		for _, d := range candidates {
			if rule.match(f.get(d), code) {
				found = append(found, d)
			}
		}
		if d, err := single(found, rule.name+", "+f.name, code); d != nil || err != nil {
			return d, err
		}
	}
	return nil, nil
}

// single devuelve el cajón si hay exactamente uno, ErrAmbiguous si hay varios y (nil, nil) si ninguno.
func single(found []*entity.Drawer, rule, code string) (*entity.Drawer, error) {
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		codes := make([]string, 0, len(found))
		for _, d := range found {
			codes = append(codes, d.DrawerCode)
		}
		return nil, fmt.Errorf("%w: %q coincide con %s (regla %s)", domain.ErrAmbiguous, code, strings.Join(codes, ", "), rule)
	}
}

// fold aplica case folding Unicode; un Caser no es seguro entre goroutines, se crea por llamada.
func fold(s string) string {
	return cases.Fold().String(s)
}
