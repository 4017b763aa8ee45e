package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gte=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(camposInvalidos(err)))
		return false
	}
	return true
}

// bindCarrito is bindAndValidate for the cart widget endpoints, which always
// answer {status:"error", mensaje} with a 400.
func bindCarrito(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewCarrito("Datos inválidos"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		// validator reports fields in declaration order; the first one is the message.
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			c.JSON(http.StatusBadRequest, apierror.NewCarrito("Dato inválido en "+ve[0].Namespace()+" ("+ve[0].Tag()+")"))
			return false
		}
		c.JSON(http.StatusBadRequest, apierror.NewCarrito("Datos inválidos"))
		return false
	}
	return true
}

func camposInvalidos(err error) map[string]string {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Namespace()] = fe.Tag()
		}
	}
	return fields
}

// responderError writes the {detail} envelope for err. Internal errors are
// attached to the context so ErrorHandler logs them.
func responderError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apierror.Status(err), apierror.New(apierror.Message(err)))
}

// responderCarrito is responderError with the cart widget envelope.
func responderCarrito(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apierror.Status(err), apierror.NewCarrito(apierror.Message(err)))
}

// paramID parses the :id path parameter, answering 400 when malformed.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos: "+err.Error()))
		return false
	}
	return true
}
