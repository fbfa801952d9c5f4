package logger

import (
	"strconv"
	"strings"
)

// MaskPhone keeps the last four digits of a phone number.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// SanitizeText hides user text but keeps its length for debugging.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}
	return "<" + strconv.Itoa(len([]rune(text))) + " chars>"
}
