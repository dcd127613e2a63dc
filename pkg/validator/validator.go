package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError describe una regla de validación incumplida.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

var validate = validator.New()

func init() {
	// Los errores usan el nombre JSON del campo.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// decimal.Decimal se valida como número (gte, lte...).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// ValidateStruct valida data según sus tags `validate`. nil significa válido.
func ValidateStruct(data interface{}) []*FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*FieldError{{Field: "", Tag: err.Error()}}
	}
	out := make([]*FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Message resume los errores en una línea legible.
func Message(errs []*FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		rule := e.Tag
		if e.Param != "" {
			rule += "=" + e.Param
		}
		if e.Field == "" {
			parts = append(parts, rule)
			continue
		}
		parts = append(parts, e.Field+": "+rule)
	}
	return strings.Join(parts, "; ")
}
