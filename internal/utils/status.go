package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/amaumene/showpulse/internal/models"
)

// StatusColorPair is the badge coloring for a status
type StatusColorPair struct {
	Background string `json:"backgroundColor"`
	Text       string `json:"textColor"`
}

var canonicalStatusLabels = map[string]string{
	"returning series": "Returning Series",
	"in production":    "In Production",
	"planned":          "Planned",
	"pilot":            "Pilot",
	"ended":            "Ended",
	"canceled":         "Canceled",
	"cancelled":        "Canceled",
}

// CategorizeStatus maps a raw status to its semantic category.
// Empty or unrecognized input is unclassified.
func CategorizeStatus(raw string) models.StatusCategory {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "returning series", "in production":
		return models.StatusPositive
	case "planned", "pilot":
		return models.StatusPending
	case "ended", "canceled", "cancelled":
		return models.StatusNegative
	default:
		return models.StatusUnclassified
	}
}

// NormalizeStatus returns the display label for a raw status, or "" when empty
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if label, ok := canonicalStatusLabels[s]; ok {
		return label
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// StatusColors returns badge colors for a raw status
func StatusColors(raw string) StatusColorPair {
	switch CategorizeStatus(raw) {
	case models.StatusPositive:
		return StatusColorPair{Background: "#4caf50", Text: "#ffffff"}
	case models.StatusPending:
		return StatusColorPair{Background: "#2196f3", Text: "#ffffff"}
	case models.StatusNegative:
		if NormalizeStatus(raw) == "Ended" {
			return StatusColorPair{Background: "#9e9e9e", Text: "#ffffff"}
		}
		return StatusColorPair{Background: "#f44336", Text: "#ffffff"}
	default:
		return StatusColorPair{Background: "#e0e0e0", Text: "#333333"}
	}
}

// IsUnknownStatus reports whether a status carries no information
func IsUnknownStatus(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || strings.EqualFold(s, models.StatusUnknown)
}
