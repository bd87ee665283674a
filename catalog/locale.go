package catalog

import (
	"strings"

	"golang.org/x/text/language"
)

// localeParams derives the country and language query values from a BCP-47 tag.
// Unparseable tags fall back to en-GB.
func localeParams(tag string) (country, lang string) {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.BritishEnglish
	}

	base, _ := t.Base()
	region, confidence := t.Region()
	if confidence == language.No {
		region = language.MustParseRegion("GB")
	}

	return strings.ToLower(region.String()), base.String()
}
