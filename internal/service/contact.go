package service

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "US"

// ContactNormalizer cleans the contact fields of incoming company records.
type ContactNormalizer struct {
	DefaultRegion string
}

// NewContactNormalizer builds a normalizer that parses national phone numbers
// in defaultRegion.
func NewContactNormalizer(defaultRegion string) *ContactNormalizer {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactNormalizer{DefaultRegion: region}
}

// Email lower-cases the address and converts its domain to ASCII. Blank input
// yields an empty string; malformed input yields a ValidationError.
func (n *ContactNormalizer) Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || !isDomainValid(domain) {
		return "", ValidationError{Field: "email", Message: "invalid email address"}
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", ValidationError{Field: "email", Message: "invalid email domain"}
	}

	email = local + "@" + asciiDomain
	if !emailPattern.MatchString(email) {
		return "", ValidationError{Field: "email", Message: "invalid email address"}
	}
	return email, nil
}

// Phone formats the number as E.164 when it parses as a valid number and
// keeps the trimmed raw value otherwise.
func (n *ContactNormalizer) Phone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if normalized := normalizePhone(raw, n.DefaultRegion); normalized != "" {
		return normalized
	}
	return raw
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
