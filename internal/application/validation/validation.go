// Package validation sanea y valida los formularios del catálogo antes de llegar a los casos de uso.
// Sanear = normalizar Unicode (NFC), recortar espacios y neutralizar marcado HTML.
package validation

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/catalogo/internal/application/dto"
)

// Errors lista ordenada de errores por campo. Vacía = entrada válida.
type Errors []dto.FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validación: " + strings.Join(msgs, "; ")
}

// Has indica si hay error para el campo (nombre del formulario).
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validator combina el saneamiento (bluemonday) con las reglas declaradas en los DTO (validator/v10).
type Validator struct {
	v      *validator.Validate
	policy *bluemonday.Policy
}

// New construye el validador con las reglas propias del catálogo.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("decimalgte0", isNonNegativeDecimal)
	_ = v.RegisterValidation("uintstr", isNonNegativeInt)
	_ = v.RegisterValidation("price", isPrice)

	return &Validator{v: v, policy: bluemonday.StrictPolicy()}
}

// Sanitize normaliza, recorta y neutraliza marcado en texto de usuario.
func (v *Validator) Sanitize(s string) string {
	s = normalize(s)
	if s == "" {
		return ""
	}
	return v.policy.Sanitize(s)
}

// normalize NFC y recorte de espacios; las longitudes se miden sobre este valor.
func normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Category valida la entrada recortada y luego la sanea. Devuelve siempre la entrada saneada
// para poder volver a mostrar el formulario.
func (v *Validator) Category(in dto.CategoryInput) (dto.CategoryInput, Errors) {
	in.Name = normalize(in.Name)
	in.Description = normalize(in.Description)
	errs := v.check(in)

	in.Name = v.policy.Sanitize(in.Name)
	in.Description = v.policy.Sanitize(in.Description)
	return in, emptyAfterSanitize(errs, in, in.Name, "min")
}

// Product igual que Category; la lista de categorías queda sin duplicados.
func (v *Validator) Product(in dto.ProductInput) (dto.ProductInput, Errors) {
	in.Name = normalize(in.Name)
	in.Description = normalize(in.Description)
	in.Price = strings.TrimSpace(in.Price)
	in.Quantity = strings.TrimSpace(in.Quantity)

	ids := make([]string, 0, len(in.CategoryIDs))
	seen := make(map[string]struct{}, len(in.CategoryIDs))
	for _, id := range in.CategoryIDs {
		id = v.Sanitize(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	in.CategoryIDs = ids
	errs := v.check(in)

	in.Name = v.policy.Sanitize(in.Name)
	in.Description = v.policy.Sanitize(in.Description)
	return in, emptyAfterSanitize(errs, in, in.Name, "required")
}

// emptyAfterSanitize marca el nombre cuando solo contenía marcado (queda vacío al sanear).
func emptyAfterSanitize(errs Errors, in any, name, rule string) Errors {
	if name != "" || errs.Has("name") {
		return errs
	}
	return append(errs, dto.FieldError{Field: "name", Message: message(reflect.TypeOf(in), "Name", rule)})
}

func (v *Validator) check(in any) Errors {
	err := v.v.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: "form", Message: err.Error()}}
	}

	t := reflect.TypeOf(in)
	var out Errors
	for _, fe := range verrs {
		field := baseName(fe.Field())
		if out.Has(field) {
			continue // un mensaje por campo
		}
		out = append(out, dto.FieldError{Field: field, Message: message(t, baseName(fe.StructField()), fe.Tag())})
	}
	return out
}

// baseName quita el índice de los errores de elementos ("category[0]" -> "category").
func baseName(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

// message busca en la etiqueta msg del campo el texto asociado a la regla.
func message(t reflect.Type, structField, tag string) string {
	if f, ok := t.FieldByName(structField); ok {
		for _, pair := range strings.Split(f.Tag.Get("msg"), ";") {
			rule, text, found := strings.Cut(pair, "=")
			if found && rule == tag {
				return text
			}
		}
	}
	return "Valor inválido"
}

func isNonNegativeDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

// maxPrice límite exclusivo de NUMERIC(12,2): 10 dígitos enteros.
var maxPrice = decimal.New(1, 10)

// isPrice hasta 10 dígitos enteros y 2 decimales.
func isPrice(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.LessThan(maxPrice) && d.Equal(d.Truncate(2))
}

func isNonNegativeInt(fl validator.FieldLevel) bool {
	_, err := strconv.ParseUint(fl.Field().String(), 10, 31)
	return err == nil
}
