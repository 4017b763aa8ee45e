package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"
	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(p model.Producto, cantidad, precio string) dto.ItemCarrito {
	return dto.ItemCarrito{ID: p.ID.String(), Cantidad: dec(cantidad), Precio: dec(precio)}
}

func TestRegistrarVenta_DescuentaStockYRegistraSalida(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	ctx := ctxPrueba(t)
	martillo := e.producto(t, "Martillo", "10", "150", "90")

	resp, err := e.ventas.RegistrarVenta(ctx, e.usuario.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemCarrito{item(martillo, "4", "150")},
		Total: dec("600"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(1), resp.Numero)

	assert.True(t, e.stock(t, martillo.ID).Equal(dec("6")))

	movs := e.movimientos(t, martillo.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, model.MovSalida, movs[0].Tipo)
	assert.True(t, movs[0].Cantidad.Equal(dec("4")))
	assert.True(t, movs[0].StockAnterior.Equal(dec("10")))
	assert.True(t, movs[0].StockNuevo.Equal(dec("6")))
	require.NotNil(t, movs[0].ReferenciaID)
	assert.Equal(t, resp.IDVenta, movs[0].ReferenciaID.String())

	venta, err := e.ventas.ObtenerVenta(ctx, uuid.MustParse(resp.IDVenta))
	require.NoError(t, err)
	require.Len(t, venta.Items, 1)
	assert.True(t, venta.Items[0].Subtotal.Equal(dec("600")))
	assert.Equal(t, "Martillo", venta.Items[0].Producto)
}

func TestRegistrarVenta_StockInsuficienteNoTocaNada(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	ctx := ctxPrueba(t)
	martillo := e.producto(t, "Martillo", "10", "150", "90")
	clavos := e.producto(t, "Clavos 2\"", "100", "2", "1")

	_, err := e.ventas.RegistrarVenta(ctx, e.usuario.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemCarrito{item(martillo, "4", "150")},
		Total: dec("600"),
	})
	require.NoError(t, err)

	// Second sale: clavos fit, martillo does not. Nothing may be applied.
	_, err = e.ventas.RegistrarVenta(ctx, e.usuario.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemCarrito{item(clavos, "10", "2"), item(martillo, "8", "150")},
		Total: dec("1220"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierror.ErrInsufficientStock))
	assert.Contains(t, apierror.Message(err), "Martillo")

	assert.True(t, e.stock(t, martillo.ID).Equal(dec("6")))
	assert.True(t, e.stock(t, clavos.ID).Equal(dec("100")))
	assert.Len(t, e.movimientos(t, martillo.ID), 1)
	assert.Empty(t, e.movimientos(t, clavos.ID))

	var ventas int64
	require.NoError(t, e.db.Model(&model.Venta{}).Count(&ventas).Error)
	assert.Equal(t, int64(1), ventas)
}

func TestRegistrarVenta_LineasRepetidasSeSumanAlReservar(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	cinta := e.producto(t, "Cinta métrica", "5", "80", "50")

	_, err := e.ventas.RegistrarVenta(ctxPrueba(t), e.usuario.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemCarrito{item(cinta, "3", "80"), item(cinta, "3", "80")},
		Total: dec("480"),
	})
	assert.True(t, errors.Is(err, apierror.ErrInsufficientStock))
	assert.True(t, e.stock(t, cinta.ID).Equal(dec("5")))
}

func TestRegistrarVenta_TotalDelClienteSeGuardaTalCual(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	ctx := ctxPrueba(t)
	p := e.producto(t, "Pintura galón", "20", "300", "200")

	resp, err := e.ventas.RegistrarVenta(ctx, e.usuario.ID, dto.RegistrarVentaRequest{
		Items:     []dto.ItemCarrito{item(p, "2", "300")},
		Total:     dec("555.55"),
		Descuento: dec("10"),
	})
	require.NoError(t, err)

	venta, err := e.ventas.ObtenerVenta(ctx, uuid.MustParse(resp.IDVenta))
	require.NoError(t, err)
	assert.True(t, venta.Total.Equal(dec("555.55")), "total %s", venta.Total)
	assert.True(t, venta.Descuento.Equal(dec("10")))
}

func TestRegistrarVenta_ValidarTotalRechazaDiferencias(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{validarTotal: true})
	p := e.producto(t, "Pintura galón", "20", "300", "200")

	_, err := e.ventas.RegistrarVenta(ctxPrueba(t), e.usuario.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemCarrito{item(p, "2", "300")},
		Total: dec("100"),
	})
	assert.True(t, errors.Is(err, apierror.ErrValidation))
	assert.True(t, e.stock(t, p.ID).Equal(dec("20")))

	_, err = e.ventas.RegistrarVenta(ctxPrueba(t), e.usuario.ID, dto.RegistrarVentaRequest{
		Items:     []dto.ItemCarrito{item(p, "2", "300")},
		Total:     dec("590"),
		Descuento: dec("10"),
	})
	assert.NoError(t, err)
}

func TestRegistrarVenta_Validaciones(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	p := e.producto(t, "Tornillo", "50", "1", "0.5")
	inactivo := e.producto(t, "Descontinuado", "50", "1", "0.5")
	require.NoError(t, e.db.Model(&inactivo).Update("activo", false).Error)
	clienteInexistente := uuid.NewString()
	clienteMalformado := "cliente-1"

	casos := []struct {
		nombre string
		req    dto.RegistrarVentaRequest
		kind   error
	}{
		{"carrito vacío", dto.RegistrarVentaRequest{}, apierror.ErrValidation},
		{"cantidad cero", dto.RegistrarVentaRequest{Items: []dto.ItemCarrito{item(p, "0", "1")}}, apierror.ErrValidation},
		{"precio negativo", dto.RegistrarVentaRequest{Items: []dto.ItemCarrito{item(p, "1", "-1")}}, apierror.ErrValidation},
		{"id malformado", dto.RegistrarVentaRequest{Items: []dto.ItemCarrito{{ID: "abc", Cantidad: dec("1")}}}, apierror.ErrNotFound},
		{"producto inexistente", dto.RegistrarVentaRequest{Items: []dto.ItemCarrito{{ID: uuid.NewString(), Cantidad: dec("1")}}}, apierror.ErrNotFound},
		{"producto inactivo", dto.RegistrarVentaRequest{Items: []dto.ItemCarrito{item(inactivo, "1", "1")}, Total: dec("1")}, apierror.ErrValidation},
		{"cliente inexistente", dto.RegistrarVentaRequest{Items: []dto.ItemCarrito{item(p, "1", "1")}, Total: dec("1"), IDCliente: &clienteInexistente}, apierror.ErrNotFound},
		{"cliente inexistente con carrito vacío", dto.RegistrarVentaRequest{IDCliente: &clienteInexistente}, apierror.ErrNotFound},
		{"cliente malformado con carrito vacío", dto.RegistrarVentaRequest{IDCliente: &clienteMalformado}, apierror.ErrNotFound},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := e.ventas.RegistrarVenta(ctxPrueba(t), e.usuario.ID, tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), "got %v", err)
		})
	}
	assert.True(t, e.stock(t, p.ID).Equal(dec("50")))
}

func TestRegistrarVenta_NumeracionCorrelativa(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	p := e.producto(t, "Lija", "100", "5", "2")

	for i := int64(1); i <= 3; i++ {
		resp, err := e.ventas.RegistrarVenta(ctxPrueba(t), e.usuario.ID, dto.RegistrarVentaRequest{
			Items: []dto.ItemCarrito{item(p, "1", "5")},
			Total: dec("5"),
		})
		require.NoError(t, err)
		assert.Equal(t, i, resp.Numero)
	}

	lista, err := e.ventas.ListarVentas(ctxPrueba(t), dto.VentaFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), lista.Total)
	require.Len(t, lista.Data, 3)
}

func TestTicketPDF(t *testing.T) {
	e := nuevoEntorno(t, opcionesEntorno{})
	p := e.producto(t, "Candado", "3", "120", "70")
	resp, err := e.ventas.RegistrarVenta(ctxPrueba(t), e.usuario.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemCarrito{item(p, "1", "120")},
		Total: dec("120"),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.ventas.TicketPDF(ctxPrueba(t), uuid.MustParse(resp.IDVenta), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	err = e.ventas.TicketPDF(ctxPrueba(t), uuid.New(), &buf)
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}
