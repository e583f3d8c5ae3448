package models

// SortKey selects the primary field used to order the show list
type SortKey string

const (
	SortKeyTitle        SortKey = "title"
	SortKeyDateAdded    SortKey = "dateAdded"
	SortKeyFirstAirDate SortKey = "firstAirDate"
	SortKeyNextAirDate  SortKey = "nextAirDate"
	SortKeyLastAirDate  SortKey = "lastAirDate"
	SortKeyRating       SortKey = "rating"
)

// SortKeys lists every supported sort key in display order
var SortKeys = []SortKey{
	SortKeyTitle,
	SortKeyDateAdded,
	SortKeyFirstAirDate,
	SortKeyNextAirDate,
	SortKeyLastAirDate,
	SortKeyRating,
}

// Valid reports whether k is a known sort key
func (k SortKey) Valid() bool {
	for _, known := range SortKeys {
		if k == known {
			return true
		}
	}
	return false
}

// SortDirection is the direction of the primary sort comparison
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Valid reports whether d is asc or desc
func (d SortDirection) Valid() bool {
	return d == SortAscending || d == SortDescending
}

// StatusCategory is the semantic bucket of a raw TMDB status string
type StatusCategory string

const (
	StatusPositive     StatusCategory = "positive"     // Returning series, in production
	StatusPending      StatusCategory = "pending"      // Planned, pilot
	StatusNegative     StatusCategory = "negative"     // Ended, canceled
	StatusUnclassified StatusCategory = "unclassified" // Anything else
)

// StatusUnknown is the placeholder status of a show added from search results
const StatusUnknown = "unknown"
