package model

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate *govalidator.Validate
	trans    ut.Translator

	dniPattern  = regexp.MustCompile(`^\d{8}$`)
	namePattern = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]{3,100}$`)
)

func init() {
	validate = govalidator.New()

	// Use JSON tag names in error messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("dni", func(fl govalidator.FieldLevel) bool {
		return dniPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("fullname", func(fl govalidator.FieldLevel) bool {
		return namePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = validate.RegisterValidation("area", func(fl govalidator.FieldLevel) bool {
		return Area(fl.Field().String()).Valid()
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)
}

// Validate checks struct tags on v and returns a field → message map on
// failure, nil on success.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Tag() {
			case "dni":
				fields[fe.Field()] = "must be an 8-digit DNI"
			case "fullname":
				fields[fe.Field()] = "must be 3-100 letters and spaces"
			case "area":
				fields[fe.Field()] = "must be a known area"
			default:
				fields[fe.Field()] = fe.Translate(trans)
			}
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}
