package models

import "strings"

// SanitizeKeySegment escapes the key delimiter so a crafted identifier such
// as "auth:1.2.3.4" cannot address another bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// NewKey builds the storage key for an identifier within a class.
func NewKey(class Class, identifier string) string {
	return "rl:" + string(class) + ":" + SanitizeKeySegment(identifier)
}
