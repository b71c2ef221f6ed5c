package csvimport

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Size is a normalized Brazilian apparel size
type Size = string

const (
	SizePP  Size = "PP"
	SizeP   Size = "P"
	SizeM   Size = "M"
	SizeG   Size = "G"
	SizeGG  Size = "GG"
	SizeGGG Size = "GGG"
	SizeUN  Size = "UN"
)

// sizeRules maps size tokens found in vendor text to the Brazilian size
// table. Order matters: longer and more specific tokens must be tried
// before shorter ones ("GG" before "G", "3XL" before "XL"), and
// international sizes fold into their BR equivalents (XL sells as GG here).
var sizeRules = []struct {
	pattern *regexp.Regexp
	size    Size
}{
	{regexp.MustCompile(`(?i)\b(3xl|gggg?|xxxl)\b`), SizeGGG},
	{regexp.MustCompile(`(?i)\b(2xl|gg|xxl)\b`), SizeGG},
	{regexp.MustCompile(`(?i)\b(xl|eg)\b`), SizeGG},
	{regexp.MustCompile(`(?i)\b(g|l)\b`), SizeG},
	{regexp.MustCompile(`(?i)\b(m|md)\b`), SizeM},
	{regexp.MustCompile(`(?i)\b(pp|xxs)\b`), SizePP},
	{regexp.MustCompile(`(?i)\b(p|s|sm)\b`), SizeP},
	{regexp.MustCompile(`(?i)\b(un(?:ico|ique|i)?|u\.?n\.?|free\s*size|tamanho\s*[uú]nico)\b`), SizeUN},
}

var fragmentSplitter = regexp.MustCompile(`[/\-,;|]`)

// ExtractSize pulls a normalized size out of free text (variant name,
// product attributes or product title). The whole text is matched first;
// when nothing hits, fragments split on common separators are tried so
// "Azul/GG" still resolves.
func ExtractSize(text string) (Size, bool) {
	if text == "" {
		return "", false
	}

	for _, rule := range sizeRules {
		if rule.pattern.MatchString(text) {
			return rule.size, true
		}
	}

	for _, part := range fragmentSplitter.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, rule := range sizeRules {
			if rule.pattern.MatchString(part) {
				return rule.size, true
			}
		}
	}

	return "", false
}

// GenerateStableSKU derives a deterministic SKU from the product and
// variant names, used when the vendor export carries no SKU column. The
// same input always yields the same SKU, so re-imports resolve to the
// existing variant instead of creating duplicates.
func GenerateStableSKU(productName, variantName string) string {
	hash := stableHash(productName + "|" + variantName)
	return slugify(productName) + "-" + slugify(variantName) + "-" + hash
}

// slugify lowercases, strips diacritics and squashes every other run of
// characters into a single dash, capped at 30 characters
func slugify(s string) string {
	s = strings.ToLower(s)
	s = norm.NFD.String(s)

	var sb strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from NFD, drop it
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteRune('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(sb.String(), "-")
	if len(slug) > 30 {
		slug = slug[:30]
	}
	return slug
}

// stableHash is a 32-bit polynomial rolling hash over the string's UTF-16
// code units, rendered in base36 and capped at 6 characters
func stableHash(s string) string {
	var h uint32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + uint32(u)
	}
	out := strconv.FormatUint(uint64(h), 36)
	if len(out) > 6 {
		out = out[:6]
	}
	return out
}
