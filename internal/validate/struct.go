package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	validatorv10 "github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validatorv10.Validate
)

// Validator returns the shared struct validator with the custom tags
// registered: "password" and "username" apply the rules above, "sku" the
// SKU pattern.
func Validator() *validatorv10.Validate {
	once.Do(func() {
		v = validatorv10.New()
		_ = v.RegisterValidation("password", func(fl validatorv10.FieldLevel) bool {
			return Password(fl.Field().String())
		})
		_ = v.RegisterValidation("username", func(fl validatorv10.FieldLevel) bool {
			_, ok := Username(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("sku", func(fl validatorv10.FieldLevel) bool {
			_, ok := SKU(fl.Field().String())
			return ok
		})
		// Report JSON field names instead of Go ones.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return v
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return Validator().Struct(s)
}

// Fields flattens validation errors into field -> failed rule, keyed by the
// JSON path of the field.
func Fields(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			ns := fe.Namespace()
			if _, rest, ok := strings.Cut(ns, "."); ok {
				ns = rest
			}
			out[ns] = fe.Tag()
		}
		return out
	}
	if err != nil {
		out["error"] = err.Error()
	}
	return out
}
