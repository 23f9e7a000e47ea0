// Package validate envuelve go-playground/validator para validación de structs
// con inyección de dependencias (sin singleton global).
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator valida structs según sus tags `validate`.
type Validator struct {
	v *validator.Validate
}

// New crea un validador nuevo. Los errores reportan el nombre del campo tal
// como viaja en el cuerpo JSON, no el nombre del struct de Go.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct valida un struct según sus tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var valida un valor individual contra un tag.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// Campos devuelve los nombres de campo que fallaron la validación (en orden).
func Campos(err error) []string {
	var fields []string
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			fields = append(fields, fe.Field())
		}
	}
	return fields
}
