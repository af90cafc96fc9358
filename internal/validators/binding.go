package validators

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/binda/internal/timezone"
)

var (
	slugRe     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
	hhmmRe     = regexp.MustCompile(`^(?:[01]\d|2[0-3]):[0-5]\d$|^24:00$`)
)

func IsSlug(s string) bool     { return len(s) <= 63 && slugRe.MatchString(s) }
func IsCurrency(s string) bool { return currencyRe.MatchString(s) }
func IsHHMM(s string) bool     { return hhmmRe.MatchString(s) }

// Register adds the slug, hhmm, timezone and currency tags to v.
func Register(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		"slug":     IsSlug,
		"hhmm":     IsHHMM,
		"timezone": timezone.IsValid,
		"currency": IsCurrency,
	}
	for tag, fn := range rules {
		fn := fn
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RegisterGin installs the custom tags on gin's default validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}
