package model

import "time"

// City represents a row in the `cities` table.  A city belongs to exactly
// one country and is shared between travelers through the traveler_cities
// join table.  City names are unique globally (not per country); a city row
// is deleted once the last traveler referencing it removes it.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – globally unique city name.
//  CountryID – foreign key into the countries table.
//  CreatedAt – timestamp of creation.
type City struct {
	ID        uint64    // cities.id
	Name      string    // cities.name
	CountryID uint64    // cities.country_id
	CreatedAt time.Time // cities.created_at
}

// Assignment links a traveler to a city they have visited.  It is a pure
// join record keyed by (traveler_id, city_id) with no payload; the pair is
// unique so assigning the same city twice is a no-op.
//
// Fields:
//  TravelerID – traveler side of the pair.
//  CityID     – city side of the pair.
//  CreatedAt  – timestamp of creation.
type Assignment struct {
	TravelerID uint64    // traveler_cities.traveler_id
	CityID     uint64    // traveler_cities.city_id
	CreatedAt  time.Time // traveler_cities.created_at
}
