package dto

type CrearProveedorRequest struct {
	Empresa   string  `json:"empresa"   validate:"required,min=2,max=100"`
	RUC       string  `json:"ruc"       validate:"required,min=3,max=20"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=20"`
	Direccion *string `json:"direccion"`
}

type ProveedorResponse struct {
	ID        string  `json:"id"`
	Empresa   string  `json:"empresa"`
	RUC       string  `json:"ruc"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
}
