package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraint names are provided, the helper also
// requires one of them to appear in the error message.
func IsUniqueViolation(err error, constraintNames ...string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !unique {
		return false
	}
	if len(constraintNames) == 0 {
		return true
	}
	for _, name := range constraintNames {
		if name != "" && strings.Contains(msg, name) {
			return true
		}
	}
	return false
}
