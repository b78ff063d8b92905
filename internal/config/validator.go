package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const tagRequiredForBackend = "required_for_backend"

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("file", isFileReadable); err != nil {
		return nil, nil, fmt.Errorf("failed to register file validation: %w", err)
	}
	if err := registerTranslation(validate, trans, "file", "{0} must be an existing and readable file"); err != nil {
		return nil, nil, err
	}

	validate.RegisterStructValidation(validateViewsBackend, ViewsConfig{})
	if err := registerTranslation(validate, trans, tagRequiredForBackend, "{0} is required when views.backend is {1}"); err != nil {
		return nil, nil, err
	}

	return validate, trans, nil
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, text string) error {
	err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, strings.TrimPrefix(fe.Namespace(), "Config."), fe.Param())
		return t
	})
	if err != nil {
		return fmt.Errorf("failed to register %s translation: %w", tag, err)
	}
	return nil
}

// validateViewsBackend requires the GitHub settings only when that store is selected.
func validateViewsBackend(sl validator.StructLevel) {
	views := sl.Current().Interface().(ViewsConfig)
	if views.Backend != "github" {
		return
	}
	required := []struct {
		name  string
		value string
	}{
		{name: "owner", value: views.GitHub.Owner},
		{name: "repo", value: views.GitHub.Repo},
		{name: "token", value: views.GitHub.Token},
	}
	for _, field := range required {
		if field.value == "" {
			sl.ReportError(field.value, "github."+field.name, field.name, tagRequiredForBackend, views.Backend)
		}
	}
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	// owner read bit
	return info.Mode().Perm()&0o400 != 0
}
