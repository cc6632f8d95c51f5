// Package pricing cleans scraped price strings into "Free", "N/A" or a
// canonical price.
package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Normalized sentinel values.
const (
	Free = "Free"
	NA   = "N/A"
)

// Heuristic limits.
const (
	claimTolerance        = 100.0
	tiktokClaimFloor      = 30000.0
	earningsLanguageFloor = 10000.0
	implausiblePrice      = 100000.0
	buyBoxFloor           = 10000.0
	multiMillionFloor     = 1000000.0
)

// OverrideSource supplies manual, exact-name price corrections.
type OverrideSource interface {
	Lookup(name string) (string, bool)
}

// Normalizer applies the price rules in order; the first rule that fires wins.
type Normalizer struct {
	overrides OverrideSource
}

// NewNormalizer returns a Normalizer. overrides may be nil.
func NewNormalizer(overrides OverrideSource) *Normalizer {
	return &Normalizer{overrides: overrides}
}

var (
	// Income claims that scrapers tend to pick up as the price.
	earningsClaimPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$\s?([\d,]+(?:\.\d+)?)\s*(k)?\s+in\s+(?:a\s+)?single\s+month`),
		regexp.MustCompile(`\$\s?([\d,]+(?:\.\d+)?)\s*(k)?\s+in\s+(?:one|1)\s+month`),
		regexp.MustCompile(`\b(?:i|we|students?|members?)\s+(?:have\s+)?(?:made|earned|generated)\s+(?:over\s+)?\$\s?([\d,]+(?:\.\d+)?)\s*(k)?`),
		regexp.MustCompile(`\b(?:made|earned|generated|making)\s+(?:over\s+)?\$\s?([\d,]+(?:\.\d+)?)\s*(k)?`),
	}

	earningsPhrases = []string{
		"in a single month", "in revenue", "in sales", "in profit", "made over",
		"earned over", "generated over", "making over", "students have made",
		"members have made", "income proof", "in payouts",
	}

	freePhrases = []string{
		"free to join", "free community", "join for free", "completely free",
		"100% free", "free discord", "free access", "free membership", "free group",
	}

	multiMillionPattern = regexp.MustCompile(`\$\s?\d+(?:\.\d+)?\s*(?:m|mm|million)\b|\$\s?\d{1,3}(?:,\d{3}){2,}|\bmillions\b`)

	leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)`)
	slashSpacing  = regexp.MustCompile(`\s*/\s*`)
	billingPeriod = regexp.MustCompile(`(?i)/(\d+)?\s*(day|week|month|year)s?\b`)
)

// Normalize maps a raw price plus the item's name and description to
// "Free", "N/A" or a cleaned price string. It never fails.
func (n *Normalizer) Normalize(raw, name, description string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	if trimmed == "" || lower == "null" {
		return NA
	}
	if lower == "free" || lower == "0" || lower == "$0" {
		return Free
	}
	if n.overrides != nil {
		if price, ok := n.overrides.Lookup(name); ok {
			return price
		}
	}

	desc := strings.ToLower(description)
	lname := strings.ToLower(name)
	amount, hasAmount := ExtractAmount(trimmed)

	if hasAmount {
		if verdict, ok := amountVerdict(amount, lname, desc); ok {
			return verdict
		}
	}

	if containsAny(desc, freePhrases) {
		return Free
	}
	if hasAmount && amount > multiMillionFloor &&
		(multiMillionPattern.MatchString(desc) || strings.Contains(desc, "manage creators making")) {
		return Free
	}
	if strings.Contains(lname, "free") && !isPaidName(lname) {
		return Free
	}
	if strings.Contains(lname, " whop") && !isPaidName(lname) &&
		(strings.Contains(desc, "discord") || strings.Contains(desc, "community")) {
		return Free
	}
	if hasAmount {
		return CleanPrice(trimmed)
	}
	return NA
}

// amountVerdict applies the numeric heuristics for an extracted amount.
func amountVerdict(amount float64, lname, desc string) (string, bool) {
	switch {
	case amount == 0:
		return Free, true
	case matchesEarningsClaim(desc, amount):
		return NA, true
	case strings.Contains(desc, "tiktok affiliate") && strings.Contains(desc, "single month") && amount > tiktokClaimFloor:
		return NA, true
	case containsAny(desc, earningsPhrases) && amount > earningsLanguageFloor:
		return NA, true
	case amount > implausiblePrice:
		return NA, true
	case strings.Contains(lname, "buy box") && amount > buyBoxFloor:
		return NA, true
	}
	return "", false
}

// ExtractAmount strips currency symbols and thousands separators and parses
// the leading number. ok is false when the string does not start with one.
func ExtractAmount(raw string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", "€", "", "£", "", ",", "").Replace(raw)
	m := leadingNumber.FindString(strings.TrimSpace(cleaned))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CleanPrice collapses whitespace, removes spaces around slashes and
// canonicalizes billing periods ("/ Month" -> "/month", "/3 Months" -> "/3 months").
func CleanPrice(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	s = slashSpacing.ReplaceAllString(s, "/")
	return billingPeriod.ReplaceAllStringFunc(s, func(m string) string {
		parts := billingPeriod.FindStringSubmatch(m)
		count, unit := parts[1], strings.ToLower(parts[2])
		if count == "" {
			return "/" + unit
		}
		if count != "1" {
			unit += "s"
		}
		return "/" + count + " " + unit
	})
}

func matchesEarningsClaim(desc string, amount float64) bool {
	for _, re := range earningsClaimPatterns {
		for _, m := range re.FindAllStringSubmatch(desc, -1) {
			claim, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil {
				continue
			}
			if m[2] != "" {
				claim *= 1000
			}
			if math.Abs(claim-amount) <= claimTolerance {
				return true
			}
		}
	}
	return false
}

func isPaidName(lname string) bool {
	return strings.Contains(lname, "premium") || strings.Contains(lname, "paid")
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
