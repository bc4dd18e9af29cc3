package users

import "regexp"

// Two validators survive from the original product: registration accepts
// anything shaped local@domain.tld, the admin panel is stricter about the
// character set and TLD length. Both reject empty segments and require a
// dot-separated TLD.
var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	adminEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)
)

// ValidEmail is the registration-path check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidEmailStrict is the admin-panel check, used for admin-created accounts
// and email edits.
func ValidEmailStrict(email string) bool {
	return adminEmailPattern.MatchString(email)
}
