package template

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

// derivedSuffix names the auto-generated words sibling of a monetary
// column: a record with amount=1200.50 renders with amount_words set to
// the spelled-out value.
const derivedSuffix = "_words"

// moneyRe matches a plain decimal amount with an optional one or two
// digit fraction. Both dot and comma decimal separators are accepted.
var moneyRe = regexp.MustCompile(`^-?\d+(?:[.,]\d{1,2})?$`)

// withDerivedFields copies the record and attaches a <field>_words value
// for every field holding a decimal amount. Existing columns are never
// overwritten.
func withDerivedFields(rec domain.Record) domain.Record {
	data := rec.Clone()
	for field, value := range rec {
		words, ok := AmountInWords(value)
		if !ok {
			continue
		}
		derived := field + derivedSuffix
		if _, exists := data[derived]; !exists {
			data[derived] = words
		}
	}
	return data
}

var (
	ones = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven",
		"eight", "nine", "ten", "eleven", "twelve", "thirteen", "fourteen",
		"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
	}
	tens = []string{
		"", "", "twenty", "thirty", "forty", "fifty",
		"sixty", "seventy", "eighty", "ninety",
	}
	scales = []string{"", " thousand", " million", " billion", " trillion"}
)

// AmountInWords spells out a decimal monetary amount: the integer part in
// words, the fractional part as a two-digit subunit count appended only
// when nonzero ("1234.50" -> "one thousand two hundred thirty-four and
// 50/100"). Returns false when the value is not a plain decimal amount.
func AmountInWords(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if !moneyRe.MatchString(value) {
		return "", false
	}

	negative := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")

	intPart := value
	cents := 0
	if i := strings.IndexAny(value, ".,"); i >= 0 {
		intPart = value[:i]
		frac := value[i+1:]
		if len(frac) == 1 {
			frac += "0"
		}
		cents, _ = strconv.Atoi(frac)
	}

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return "", false
	}

	words := integerInWords(n)
	if negative && (n > 0 || cents > 0) {
		words = "minus " + words
	}
	if cents > 0 {
		words += " and " + twoDigits(cents) + "/100"
	}
	return words, true
}

// integerInWords spells out a non-negative integer in groups of three
// digits with scale names.
func integerInWords(n int64) string {
	if n == 0 {
		return ones[0]
	}

	var groups []string
	for scale := 0; n > 0; scale++ {
		group := int(n % 1000)
		n /= 1000
		if group == 0 {
			continue
		}
		groups = append([]string{threeDigits(group) + scales[scale]}, groups...)
	}
	return strings.Join(groups, " ")
}

func threeDigits(n int) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, ones[n/100]+" hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int) string {
	if n < 20 {
		return ones[n]
	}
	word := tens[n/10]
	if n%10 != 0 {
		word += "-" + ones[n%10]
	}
	return word
}

func twoDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) == 1 {
		s = "0" + s
	}
	return s
}
