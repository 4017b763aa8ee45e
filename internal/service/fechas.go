package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const formatoFecha = "2006-01-02"

// parseFecha parses a YYYY-MM-DD date in local time. Empty input yields nil.
func parseFecha(s, campo string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(formatoFecha, s, time.Local)
	if err != nil {
		return nil, apierror.Validation("%s: fecha inválida, use AAAA-MM-DD", campo)
	}
	return &t, nil
}

// rangoFiltro converts inclusive desde/hasta dates into the half-open
// interval [desde, hasta+1d) used by every date query.
func rangoFiltro(desde, hasta string) (*time.Time, *time.Time, error) {
	d, err := parseFecha(desde, "desde")
	if err != nil {
		return nil, nil, err
	}
	h, err := parseFecha(hasta, "hasta")
	if err != nil {
		return nil, nil, err
	}
	if h != nil {
		fin := h.AddDate(0, 0, 1)
		h = &fin
	}
	if d != nil && h != nil && !d.Before(*h) {
		return nil, nil, apierror.Validation("El rango de fechas es inválido")
	}
	return d, h, nil
}

// rangoReporte is rangoFiltro with defaults: the current month up to today.
func rangoReporte(desde, hasta string, ahora time.Time) (time.Time, time.Time, error) {
	d, h, err := rangoFiltro(desde, hasta)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	hoy := inicioDelDia(ahora)
	if h == nil {
		fin := hoy.AddDate(0, 0, 1)
		h = &fin
	}
	if d == nil {
		ini := time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, hoy.Location())
		d = &ini
	}
	if !d.Before(*h) {
		return time.Time{}, time.Time{}, apierror.Validation("El rango de fechas es inválido")
	}
	return *d, *h, nil
}

func inicioDelDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseUUIDOpcional(s, campo string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, apierror.Validation("%s inválido", campo)
	}
	return &id, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// noEncontrado maps gorm.ErrRecordNotFound to a NotFound with msg and passes
// any other error through.
func noEncontrado(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound("%s", msg)
	}
	return err
}

func strPtr(s string) *string { return &s }
