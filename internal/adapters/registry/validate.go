package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/dropforge/internal/domain/chatcolor"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("chatcolor", validateChatColor)
	return v
}

// validateChatColor accepts color names and codes, but not formats.
func validateChatColor(fl validator.FieldLevel) bool {
	c, ok := chatcolor.Parse(fl.Field().String())
	return ok && c.IsColor() && c != chatcolor.Reset
}

// describe flattens validation errors into "field: rule" pairs.
func describe(name string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, name, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		if e.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, e.Tag(), e.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Tag()))
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidDefinition, name, strings.Join(parts, ", "))
}
