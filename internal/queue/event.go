// Package queue defines message payloads exchanged over the message broker.
package queue

// CityActivityEvent is published whenever a traveler adds or removes a
// city. It contains enough information for downstream consumers to log or
// trigger analytics without querying the primary database.
type CityActivityEvent struct {
	Action      string `json:"action"` // "added" or "removed"
	TravelerID  uint64 `json:"traveler_id"`
	CityID      uint64 `json:"city_id"`
	CityName    string `json:"city_name"`
	CountryName string `json:"country_name"`
	OccurredAt  string `json:"occurred_at"`
}

// Actions for CityActivityEvent.
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)
