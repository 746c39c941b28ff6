package translation

import (
	"github.com/leonelquinteros/gotext"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// DefaultLanguage is the language the built-in message ids are written in.
// It needs no catalogue.
const DefaultLanguage = "ru"

// Configure loads the catalogue for lang from localesDir. An unknown or
// malformed tag falls back to DefaultLanguage.
func Configure(localesDir, lang string) string {
	base := NormalizeLanguage(lang)
	gotext.Configure(localesDir, base, "default")
	log.Debugf("translation configured: %s", GetLanguage())
	return base
}

// NormalizeLanguage reduces a language tag such as "en-US" to its base
// ("en").
func NormalizeLanguage(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	if base.String() == "und" {
		return DefaultLanguage
	}
	return base.String()
}

func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return DefaultLanguage
	}

	return lang
}

func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
