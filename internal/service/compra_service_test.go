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

func TestRegistrarCompra_IngresaStockYActualizaCosto(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	ctx := ctxPrueba(t)
	prov := e.proveedor(t, "Distribuidora Central", "J0310000000001")
	cemento := e.producto(t, "Cemento 42.5kg", "3", "320", "4.50")

	resp, err := e.compras.RegistrarCompra(ctx, e.usuario.ID, dto.RegistrarCompraRequest{
		Items:       []dto.ItemCarrito{item(cemento, "20", "5.00")},
		Total:       dec("100"),
		IDProveedor: prov.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)

	var p model.Producto
	require.NoError(t, e.db.First(&p, "id = ?", cemento.ID).Error)
	assert.True(t, p.Stock.Equal(dec("23")))
	assert.True(t, p.PrecioCompra.Equal(dec("5")))
	assert.True(t, p.PrecioVenta.Equal(dec("320")), "sale price is never touched by purchases")

	movs := e.movimientos(t, cemento.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, model.MovEntrada, movs[0].Tipo)
	assert.True(t, movs[0].Cantidad.Equal(dec("20")))
	assert.Equal(t, "Compra #1", movs[0].Descripcion)

	historial, err := e.inventario.HistorialCostos(ctx, cemento.ID)
	require.NoError(t, err)
	require.Len(t, historial, 1)
	assert.True(t, historial[0].CostoAnterior.Equal(dec("4.5")))
	assert.True(t, historial[0].CostoNuevo.Equal(dec("5")))
	assert.Equal(t, resp.IDCompra, historial[0].CompraID)

	compra, err := e.compras.ObtenerCompra(ctx, uuid.MustParse(resp.IDCompra))
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora Central", compra.Proveedor)
	require.Len(t, compra.Items, 1)
	assert.True(t, compra.Items[0].Subtotal.Equal(dec("100")))
}

func TestRegistrarCompra_MismoCostoNoGeneraHistorial(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	prov := e.proveedor(t, "Aceros SA", "J0310000000002")
	varilla := e.producto(t, "Varilla 3/8", "0", "210", "150")

	_, err := e.compras.RegistrarCompra(ctxPrueba(t), e.usuario.ID, dto.RegistrarCompraRequest{
		Items:       []dto.ItemCarrito{item(varilla, "10", "150")},
		Total:       dec("1500"),
		IDProveedor: prov.ID.String(),
	})
	require.NoError(t, err)

	historial, err := e.inventario.HistorialCostos(ctxPrueba(t), varilla.ID)
	require.NoError(t, err)
	assert.Empty(t, historial)
	assert.True(t, e.stock(t, varilla.ID).Equal(dec("10")))
}

func TestRegistrarCompra_Errores(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	prov := e.proveedor(t, "Aceros SA", "J0310000000002")
	p := e.producto(t, "Alambre", "1", "30", "20")

	casos := []struct {
		nombre string
		req    dto.RegistrarCompraRequest
		kind   error
	}{
		{"sin items", dto.RegistrarCompraRequest{IDProveedor: prov.ID.String()}, apierror.ErrValidation},
		{"sin proveedor", dto.RegistrarCompraRequest{Items: []dto.ItemCarrito{item(p, "1", "20")}}, apierror.ErrValidation},
		{"proveedor inexistente", dto.RegistrarCompraRequest{Items: []dto.ItemCarrito{item(p, "1", "20")}, IDProveedor: uuid.NewString()}, apierror.ErrNotFound},
		{"producto inexistente", dto.RegistrarCompraRequest{Items: []dto.ItemCarrito{{ID: uuid.NewString(), Cantidad: dec("1")}}, IDProveedor: prov.ID.String()}, apierror.ErrNotFound},
		{"cantidad negativa", dto.RegistrarCompraRequest{Items: []dto.ItemCarrito{item(p, "-2", "20")}, IDProveedor: prov.ID.String()}, apierror.ErrValidation},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := e.compras.RegistrarCompra(ctxPrueba(t), e.usuario.ID, tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), "got %v", err)
		})
	}
	assert.True(t, e.stock(t, p.ID).Equal(dec("1")))
	assert.Empty(t, e.movimientos(t, p.ID))
}

func TestProveedorConComprasNoSeElimina(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	prov := e.proveedor(t, "Aceros SA", "J0310000000002")
	p := e.producto(t, "Alambre", "1", "30", "20")
	_, err := e.compras.RegistrarCompra(ctxPrueba(t), e.usuario.ID, dto.RegistrarCompraRequest{
		Items:       []dto.ItemCarrito{item(p, "1", "20")},
		Total:       dec("20"),
		IDProveedor: prov.ID.String(),
	})
	require.NoError(t, err)

	err = e.proveedores.Eliminar(ctxPrueba(t), prov.ID)
	assert.True(t, errors.Is(err, apierror.ErrValidation))
}
