// Package policy maps user roles to capabilities. Capabilities are
// "recurso:accion" strings; a role granted "recurso:*" holds every action on
// that resource and "*:*" holds everything.
package policy

import (
	"strings"

	"github.com/diazinho777/Ferreteria-sistema/internal/model"
)

// Capability is a named permission checked by the router middleware.
type Capability string

const (
	VentasRegistrar    Capability = "ventas:registrar"
	VentasVer          Capability = "ventas:ver"
	ProductosVer       Capability = "productos:ver"
	ProductosGestionar Capability = "productos:gestionar"
	ClientesGestionar  Capability = "clientes:gestionar"
	CatalogoGestionar  Capability = "catalogo:gestionar"
	ComprasRegistrar   Capability = "compras:registrar"
	InventarioAjustar  Capability = "inventario:ajustar"
	InventarioVer      Capability = "inventario:ver"
	ReportesVer        Capability = "reportes:ver"
	UsuariosGestionar  Capability = "usuarios:gestionar"

	todo    Capability = "*:*"
	comodin            = "*"
)

func (c Capability) partes() (string, string) {
	recurso, accion, ok := strings.Cut(string(c), ":")
	if !ok {
		return "", ""
	}
	return recurso, accion
}

// cubre reports whether the granted capability c satisfies requested.
func (c Capability) cubre(requested Capability) bool {
	if c == todo || c == requested {
		return true
	}
	recurso, accion := c.partes()
	reqRecurso, _ := requested.partes()
	return accion == comodin && recurso != "" && recurso == reqRecurso
}

// Gate holds the role → capability table.
type Gate struct {
	roles map[string][]Capability
}

// NewGate returns the gate with the store's two roles.
func NewGate() *Gate {
	return &Gate{roles: map[string][]Capability{
		model.RolAdmin: {todo},
		model.RolEmpleado: {
			VentasRegistrar,
			VentasVer,
			ProductosVer,
			ClientesGestionar,
		},
	}}
}

// Grant adds capabilities to a role, creating it if needed.
func (g *Gate) Grant(rol string, caps ...Capability) {
	g.roles[rol] = append(g.roles[rol], caps...)
}

// Can reports whether rol holds capability. Unknown roles hold nothing.
func (g *Gate) Can(rol string, capability Capability) bool {
	for _, c := range g.roles[rol] {
		if c.cubre(capability) {
			return true
		}
	}
	return false
}
