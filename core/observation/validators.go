package observation

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/observa/core"
)

var (
	rubricScoreTag  = "rubricscore"
	rubricScoreText = "{0} must be between 1 and 4"

	rubricIndicatorTag  = "rubricindicator"
	rubricIndicatorText = "{0} is not a rubric indicator"
)

func init() {
	_ = core.Validate.RegisterValidation(rubricScoreTag, rubricScoreValidation)
	core.RegisterCustomTranslation(rubricScoreTag, rubricScoreText)

	_ = core.Validate.RegisterValidation(rubricIndicatorTag, rubricIndicatorValidation)
	core.RegisterCustomTranslation(rubricIndicatorTag, rubricIndicatorText)
}

// rubricScoreValidation accepts 0 for an indicator left unscored.
func rubricScoreValidation(fl validator.FieldLevel) bool {
	s := fl.Field().Float()
	return s == 0 || (s >= MinScore && s <= MaxScore)
}

func rubricIndicatorValidation(fl validator.FieldLevel) bool {
	_, ok := DomainOf(fl.Field().String())
	return ok
}
