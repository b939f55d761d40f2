package utils

import "strings"

func UniqueEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	unique := make([]string, 0, len(emails))

	for _, email := range emails {
		if _, exists := seen[email]; !exists {
			seen[email] = struct{}{}
			unique = append(unique, email)
		}
	}

	return unique
}

// GuessNameFromAddress derives a first/last name pair from an email display
// name, falling back to the local part of the address. Weak by design; parsed
// resume fields override it.
func GuessNameFromAddress(displayName, address string) (string, string) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		local := address
		if at := strings.Index(address, "@"); at > 0 {
			local = address[:at]
		}
		name = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	}

	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
