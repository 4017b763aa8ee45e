package service

import (
	"errors"
	"testing"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"
	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportarPerdida(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	p := e.producto(t, "Foco LED", "12", "45", "25")

	mov, err := e.inventario.ReportarPerdida(ctxPrueba(t), e.usuario.ID, p.ID, dto.AjusteStockRequest{
		Cantidad: dec("2"),
		Motivo:   "Llegaron rotos",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MovAjusteNeg, mov.Tipo)
	assert.Equal(t, "Pérdida: Llegaron rotos", mov.Descripcion)
	assert.True(t, mov.StockNuevo.Equal(dec("10")))
	assert.True(t, e.stock(t, p.ID).Equal(dec("10")))
	assert.Len(t, e.movimientos(t, p.ID), 1)
}

func TestReportarPerdida_CantidadNoPositiva(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	p := e.producto(t, "Foco LED", "12", "45", "25")

	for _, cantidad := range []string{"0", "-3"} {
		_, err := e.inventario.ReportarPerdida(ctxPrueba(t), e.usuario.ID, p.ID, dto.AjusteStockRequest{
			Cantidad: dec(cantidad),
			Motivo:   "inventario",
		})
		assert.True(t, errors.Is(err, apierror.ErrValidation), "cantidad %s", cantidad)
	}
	assert.True(t, e.stock(t, p.ID).Equal(dec("12")))
	assert.Empty(t, e.movimientos(t, p.ID))
}

func TestReportarPerdida_ProductoInexistente(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	_, err := e.inventario.ReportarPerdida(ctxPrueba(t), e.usuario.ID, uuid.New(), dto.AjusteStockRequest{
		Cantidad: dec("1"),
		Motivo:   "no existe",
	})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestStockNegativo_Politica(t *testing.T) {
	t.Run("rechazado por defecto", func(t *testing.T) {
		e := nuevoEntorno(t, opcionesEntorno{})
		p := e.producto(t, "Brocha", "3", "40", "20")

		_, err := e.inventario.ReportarPerdida(ctxPrueba(t), e.usuario.ID, p.ID, dto.AjusteStockRequest{
			Cantidad: dec("5"),
			Motivo:   "robo",
		})
		assert.True(t, errors.Is(err, apierror.ErrInsufficientStock))
		assert.True(t, e.stock(t, p.ID).Equal(dec("3")))
		assert.Empty(t, e.movimientos(t, p.ID))
	})

	t.Run("permitido por configuración", func(t *testing.T) {
		e := nuevoEntorno(t, opcionesEntorno{permitirNegativo: true})
		p := e.producto(t, "Brocha", "3", "40", "20")

		mov, err := e.inventario.ReportarPerdida(ctxPrueba(t), e.usuario.ID, p.ID, dto.AjusteStockRequest{
			Cantidad: dec("5"),
			Motivo:   "robo",
		})
		require.NoError(t, err)
		assert.True(t, mov.StockNuevo.Equal(dec("-2")))
		assert.True(t, e.stock(t, p.ID).Equal(dec("-2")))
	})
}

func TestAjustarStock(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	p := e.producto(t, "Silicón", "4", "60", "35")

	mov, err := e.inventario.AjustarStock(ctxPrueba(t), e.usuario.ID, p.ID, model.MovAjustePos, dto.AjusteStockRequest{
		Cantidad: dec("6"),
		Motivo:   "Conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MovAjustePos, mov.Tipo)
	assert.True(t, e.stock(t, p.ID).Equal(dec("10")))

	_, err = e.inventario.AjustarStock(ctxPrueba(t), e.usuario.ID, p.ID, model.MovSalida, dto.AjusteStockRequest{
		Cantidad: dec("1"),
		Motivo:   "tipo incorrecto",
	})
	assert.True(t, errors.Is(err, apierror.ErrValidation))
}

func TestMovimientosSonInmutables(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	p := e.producto(t, "Silicón", "4", "60", "35")
	_, err := e.inventario.AjustarStock(ctxPrueba(t), e.usuario.ID, p.ID, model.MovAjustePos, dto.AjusteStockRequest{
		Cantidad: dec("1"),
		Motivo:   "Conteo físico",
	})
	require.NoError(t, err)

	movs := e.movimientos(t, p.ID)
	require.Len(t, movs, 1)
	mov := movs[0]

	mov.Cantidad = dec("100")
	assert.ErrorIs(t, e.db.Save(&mov).Error, model.ErrMovimientoInmutable)
	assert.ErrorIs(t, e.db.Delete(&mov).Error, model.ErrMovimientoInmutable)
	assert.True(t, e.movimientos(t, p.ID)[0].Cantidad.Equal(dec("1")))
}

func TestKardexYAlertas(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	ctx := ctxPrueba(t)
	bajo := e.producto(t, "Pegamento", "4", "30", "15")
	e.producto(t, "Tubo PVC", "40", "90", "60")

	_, err := e.ventas.RegistrarVenta(ctx, e.usuario.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemCarrito{item(bajo, "1", "30")},
		Total: dec("30"),
	})
	require.NoError(t, err)

	kardex, err := e.inventario.Kardex(ctx, bajo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pegamento", kardex.Producto.Nombre)
	require.Len(t, kardex.Movimientos, 1)
	assert.Equal(t, "Venta #1", kardex.Movimientos[0].Descripcion)

	alertas, err := e.inventario.AlertasStockBajo(ctx)
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, "Pegamento", alertas[0].Nombre)
	assert.True(t, alertas[0].Faltante.Equal(dec("2")), "faltante %s", alertas[0].Faltante)

	lista, err := e.inventario.ListarMovimientos(ctx, dto.MovimientoFilter{Tipo: model.MovSalida})
	require.NoError(t, err)
	assert.Equal(t, int64(1), lista.Total)

	_, err = e.inventario.ListarMovimientos(ctx, dto.MovimientoFilter{ProductoID: "no-es-uuid"})
	assert.True(t, errors.Is(err, apierror.ErrValidation))
}
