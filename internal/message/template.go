// Package message turns a classified failure into the localized, fully
// populated record the admin frontend renders: title, body, remediation
// suggestions, and capture metadata.
package message

import (
	"golang.org/x/text/language"

	"github.com/greenlane/errwatch/internal/classify"
)

// Template holds the localized content for one error category.
type Template struct {
	Title       string
	Message     string
	Suggestions []string
}

// Catalog maps every category to its template for one locale. Catalogs must
// be total over classify.Categories with at least one suggestion each; this
// is asserted by tests.
type Catalog map[classify.ErrorCategory]Template

// catalogs holds the registered per-locale content tables. Dutch is the only
// built-in locale and doubles as the fallback.
var catalogs = map[language.Tag]Catalog{
	language.Dutch: catalogNL,
}

var fallbackTag = language.Dutch

// matcherTags must list the fallback first so unmatched locales resolve to it.
func matcherTags() []language.Tag {
	tags := []language.Tag{fallbackTag}
	for tag := range catalogs {
		if tag != fallbackTag {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ResolveCatalog matches a BCP 47 locale string against the registered
// catalogs and returns the best one. Unparseable or unmatched locales get
// the fallback catalog.
func ResolveCatalog(locale string) (Catalog, language.Tag) {
	matcher := language.NewMatcher(matcherTags())
	tag, err := language.Parse(locale)
	if err != nil {
		return catalogs[fallbackTag], fallbackTag
	}
	_, index, _ := matcher.Match(tag)
	resolved := matcherTags()[index]
	return catalogs[resolved], resolved
}

// RegisterCatalog adds or replaces the catalog for a locale. Intended for
// deployments that ship additional languages.
func RegisterCatalog(tag language.Tag, c Catalog) {
	catalogs[tag] = c
}

var catalogNL = Catalog{
	classify.CategoryNetwork: {
		Title:   "Netwerkfout",
		Message: "Er is een probleem met de netwerkverbinding.",
		Suggestions: []string{
			"Controleer uw internetverbinding",
			"Probeer het over enkele ogenblikken opnieuw",
			"Neem contact op met de beheerder als het probleem aanhoudt",
		},
	},
	classify.CategoryAuthentication: {
		Title:   "Aanmelding vereist",
		Message: "Uw sessie is verlopen of u bent niet aangemeld.",
		Suggestions: []string{
			"Meld u opnieuw aan",
			"Controleer uw gebruikersnaam en wachtwoord",
		},
	},
	classify.CategoryAuthorization: {
		Title:   "Geen toegang",
		Message: "U heeft geen rechten om deze actie uit te voeren.",
		Suggestions: []string{
			"Neem contact op met de beheerder voor toegangsrechten",
			"Controleer of u met het juiste account bent aangemeld",
		},
	},
	classify.CategoryValidation: {
		Title:   "Ongeldige invoer",
		Message: "De ingevoerde gegevens zijn niet geldig.",
		Suggestions: []string{
			"Controleer de gemarkeerde velden",
			"Vul alle verplichte velden in",
		},
	},
	classify.CategoryServer: {
		Title:   "Serverfout",
		Message: "Er is een fout opgetreden op de server.",
		Suggestions: []string{
			"Probeer het later opnieuw",
			"Neem contact op met de beheerder als het probleem aanhoudt",
		},
	},
	classify.CategoryClient: {
		Title:   "Verzoek mislukt",
		Message: "Het verzoek kon niet worden verwerkt.",
		Suggestions: []string{
			"Vernieuw de pagina en probeer het opnieuw",
			"Controleer de ingevoerde gegevens",
		},
	},
	classify.CategoryUnknown: {
		Title:   "Onbekende fout",
		Message: "Er is een onverwachte fout opgetreden.",
		Suggestions: []string{
			"Probeer het opnieuw",
			"Vernieuw de pagina",
			"Neem contact op met de beheerder als het probleem aanhoudt",
		},
	},
}
