package teacher

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/observa/core"
)

var (
	tenureTag  = "tenure"
	tenureText = "tenure status must be one of: new, tenured"

	// names at least this similar within a school are considered duplicates
	similarNameRatio = .9
)

func init() {
	_ = core.Validate.RegisterValidation(tenureTag, tenureValidation)
	core.RegisterCustomTranslation(tenureTag, tenureText)
}

// tenureValidation checks that the field holds a known Tenure
func tenureValidation(fl validator.FieldLevel) bool {
	return Tenure(fl.Field().String()).Valid()
}

// nameSimilarity returns the difflib ratio of two names, ignoring case and spacing.
func nameSimilarity(a, b string) float64 {
	a = strings.Join(strings.Fields(strings.ToLower(a)), " ")
	b = strings.Join(strings.Fields(strings.ToLower(b)), " ")
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}
