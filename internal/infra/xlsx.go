package infra

import (
	"fmt"
	"io"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	hojaInventario = "Inventario"
	hojaAlertas    = "Stock bajo"
)

// WriteInventarioXLSX writes a two-sheet workbook: the valued inventory of the
// given products and the subset at or below minimum stock.
func WriteInventarioXLSX(w io.Writer, productos []model.Producto) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaInventario); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(hojaAlertas); err != nil {
		return fmt.Errorf("xlsx: new sheet: %w", err)
	}

	encabezado := []any{"ID", "Producto", "Categoría", "Unidad", "Stock", "Stock mínimo",
		"Costo", "Precio venta", "Valor en stock", "Stock bajo"}
	if err := f.SetSheetRow(hojaInventario, "A1", &encabezado); err != nil {
		return err
	}
	alertasEnc := []any{"ID", "Producto", "Stock", "Stock mínimo", "Faltante"}
	if err := f.SetSheetRow(hojaAlertas, "A1", &alertasEnc); err != nil {
		return err
	}

	estilo, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(hojaInventario, "A1", "J1", estilo)
		_ = f.SetCellStyle(hojaAlertas, "A1", "E1", estilo)
	}

	filaAlerta := 2
	for i, p := range productos {
		categoria := ""
		if p.Categoria != nil {
			categoria = p.Categoria.Nombre
		}
		bajo := "NO"
		if p.StockBajo() {
			bajo = "SI"
		}
		stock, _ := p.Stock.Float64()
		minimo, _ := p.StockMinimo.Float64()
		costo, _ := p.PrecioCompra.Float64()
		precio, _ := p.PrecioVenta.Float64()
		valor, _ := p.Stock.Mul(p.PrecioCompra).Round(2).Float64()

		fila := []any{p.ID.String(), p.Nombre, categoria, p.Unidad, stock, minimo, costo, precio, valor, bajo}
		celda, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(hojaInventario, celda, &fila); err != nil {
			return err
		}

		if p.StockBajo() {
			faltante, _ := p.StockMinimo.Sub(p.Stock).Float64()
			alerta := []any{p.ID.String(), p.Nombre, stock, minimo, faltante}
			celda, _ := excelize.CoordinatesToCellName(1, filaAlerta)
			if err := f.SetSheetRow(hojaAlertas, celda, &alerta); err != nil {
				return err
			}
			filaAlerta++
		}
	}

	_, err = f.WriteTo(w)
	return err
}
