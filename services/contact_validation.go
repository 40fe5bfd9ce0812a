package services

import (
	"regexp"
	"strings"

	"sitebook/calc"
)

// Validation regex patterns
var (
	phonePattern   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	aadhaarPattern = regexp.MustCompile(`^[2-9][0-9]{11}$`)
	gstinPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

// NormalizePhone strips spaces, dashes and a leading +91 or 0 from a mobile
// number.
func NormalizePhone(phone string) string {
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	p = strings.TrimPrefix(p, "+91")
	if len(p) == 11 && p[0] == '0' {
		p = p[1:]
	}
	return p
}

// ValidatePhone validates an Indian mobile number (10 digits starting with 6-9).
// Empty is valid.
func ValidatePhone(phone string) bool {
	phone = NormalizePhone(phone)
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// NormalizeAadhaar removes the spaces an Aadhaar number is usually printed with.
func NormalizeAadhaar(aadhaar string) string {
	return strings.ReplaceAll(strings.TrimSpace(aadhaar), " ", "")
}

// ValidateAadhaar checks the 12-digit shape of an Aadhaar number; it does not
// verify the checksum. Empty is valid.
func ValidateAadhaar(aadhaar string) bool {
	aadhaar = NormalizeAadhaar(aadhaar)
	if aadhaar == "" {
		return true
	}
	return aadhaarPattern.MatchString(aadhaar)
}

// NormalizeGSTIN upper-cases a GST number and drops its spaces.
func NormalizeGSTIN(gstin string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(gstin), " ", ""))
}

// ValidateGSTIN checks the 15-character GSTIN layout: state code, PAN,
// entity number, the fixed Z and a check character. Empty is valid.
func ValidateGSTIN(gstin string) bool {
	gstin = NormalizeGSTIN(gstin)
	if gstin == "" {
		return true
	}
	return gstinPattern.MatchString(gstin)
}

// normalizeContact cleans the phone and Aadhaar fields in place and reports
// the first one that is badly formatted.
func (in *WorkerInput) normalizeContact() error {
	in.Phone = NormalizePhone(in.Phone)
	in.AlternatePhone = NormalizePhone(in.AlternatePhone)
	in.Aadhaar = NormalizeAadhaar(in.Aadhaar)
	switch {
	case !ValidatePhone(in.Phone):
		return &calc.ValidationError{Field: "phone_number", Message: "Enter a 10-digit mobile number."}
	case !ValidatePhone(in.AlternatePhone):
		return &calc.ValidationError{Field: "alternate_phone", Message: "Enter a 10-digit mobile number."}
	case !ValidateAadhaar(in.Aadhaar):
		return &calc.ValidationError{Field: "aadhaar_number", Message: "Aadhaar number must be 12 digits."}
	}
	return nil
}
