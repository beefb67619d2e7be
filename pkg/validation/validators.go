package validation

import (
	"regexp"
	"strings"
	"unicode"

	"go-jobboard-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	// Allow letters, numbers, spaces, and common professional punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// Skills are short tokens such as "go", "c++", "node.js", "ci/cd"
	skillRegex = regexp.MustCompile(`^[\p{L}0-9 .+#/&_-]{1,50}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("skill", Skill)
	_ = v.RegisterValidation("application_status", ApplicationStatus)
	_ = v.RegisterValidation("role", Role)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// Skill validates a single skill entry (use with dive on slices)
func Skill(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true // blanks are dropped during normalization
	}
	return skillRegex.MatchString(val)
}

func ApplicationStatus(fl validator.FieldLevel) bool {
	return domain.IsValidApplicationStatus(fl.Field().String())
}

func Role(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == "" || domain.IsValidRole(val)
}
