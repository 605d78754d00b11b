package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var entityIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func init() {
	MustRegisterGin("entityid", ValidateEntityID)
	MustRegisterGinAlias("userid", "entityid")
	MustRegisterGinAlias("itemid", "entityid")
	MustRegisterGinAlias("notificationid", "entityid")
}

// ValidateEntityID validates row identifiers: 1-64 characters, alphanumeric
// with hyphens and underscores, which covers UUIDs.
func ValidateEntityID(fl validator.FieldLevel) bool {
	return entityIDRegex.MatchString(fl.Field().String())
}
