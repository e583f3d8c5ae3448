package models

import "time"

// ShowSnapshot records the watched fields of a show each time they change
type ShowSnapshot struct {
	ID     uint64 `boltholdKey:"ID"`
	TMDBID int    `boltholdIndex:"TMDBID"`

	PayloadHash string // sha256 of the watched fields
	Payload     string // JSON of the watched fields

	FetchedAt time.Time
}
