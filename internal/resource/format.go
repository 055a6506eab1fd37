package resource

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const Currency = "USD"

// DateTimeLayout renders server-generated timestamps such as health and statistics.
const DateTimeLayout = "2006-01-02 15:04:05"

var (
	pricePrinter = message.NewPrinter(language.English)
	titleCaser   = cases.Title(language.English)
)

// Slug lowercases s, strips diacritics and joins words with dashes.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// FormatPrice renders a monthly rent as "$1,500".
func FormatPrice(amount float64) string {
	return pricePrinter.Sprintf("$%d", int64(math.Round(amount)))
}

// CategoryLabel turns "building" into "Building".
func CategoryLabel(category string) string {
	return titleCaser.String(strings.ReplaceAll(category, "_", " "))
}

// LongDate renders "March 07, 2025".
func LongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 02, 2006")
}

// Relative renders "2 days ago".
func Relative(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func ISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}
