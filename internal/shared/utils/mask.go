package utils

import "strings"

// MaskEmail masks an email address for safe logging.
// Example: "user@example.com" -> "u***@example.com"
func MaskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return "***"
	}
	local := parts[0]
	if len(local) <= 1 {
		return local + "***@" + parts[1]
	}
	return string(local[0]) + "***@" + parts[1]
}

// MaskEmails masks every address in addrs.
func MaskEmails(addrs []string) []string {
	masked := make([]string, len(addrs))
	for i, a := range addrs {
		masked[i] = MaskEmail(a)
	}
	return masked
}
