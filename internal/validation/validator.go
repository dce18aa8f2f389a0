package validation

import (
	"strings"

	"wikiquiz/internal/domain"
)

// wikiArticleSegment must appear in every accepted URL; articles live
// under https://<lang>.wikipedia.org/wiki/<Article>.
const wikiArticleSegment = "wikipedia.org/wiki/"

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateQuizURL checks that the URL is a plausible Wikipedia article URL.
// Validation happens before any network call.
func (v *Validator) ValidateQuizURL(url string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	url = strings.TrimSpace(url)
	if url == "" {
		errs = append(errs, domain.NewMissingFieldError("url"))
		return errs
	}

	if !strings.HasPrefix(url, "http") {
		errs = append(errs, domain.NewInvalidFormatError("url", "must start with http:// or https://"))
	}
	if !strings.Contains(url, wikiArticleSegment) {
		errs = append(errs, domain.NewInvalidFormatError("url",
			"must be a valid Wikipedia article URL (https://<lang>.wikipedia.org/wiki/<Article>)"))
	}

	return errs
}
