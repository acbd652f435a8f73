package api

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/gauntlet/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type startRunRequest struct {
	DojoType           string   `json:"dojoType" validate:"required"`
	Difficulty         string   `json:"difficulty" validate:"required"`
	GameMode           string   `json:"gameMode" validate:"required"`
	RepetitionsPerChar int      `json:"repetitionsPerChar" validate:"required,min=1,max=100"`
	SelectedSets       []string `json:"selectedSets" validate:"omitempty,dive,required"`
}

type answerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

type pickRequest struct {
	Option string `json:"option" validate:"required"`
}

type tickRequest struct {
	DeltaMs int64 `json:"deltaMs" validate:"required,min=1,max=60000"`
}

// validateRequest turns the first validator failure into a VALIDATION_ERROR.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.NewBadRequestError(err.Error())
	}
	fe := verrs[0]
	return errors.NewValidationError(fe.Field(), describeRule(fe))
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
