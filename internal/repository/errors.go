// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrEmailExists indicates that a signup or profile update
// collided with another traveler's email, while the per-repository
// not-found errors signal that a lookup matched no row.
package repository

import "errors"

// ErrEmailExists is returned when an insert or update on the travelers
// table violates the unique email constraint. Handlers surface this as a
// form error ("Email already taken") rather than a server failure.
var ErrEmailExists = errors.New("email already exists")

// ErrCountryNotFound is returned when a country cannot be found in the DB.
var ErrCountryNotFound = errors.New("country not found")

// ErrCityNotFound is returned when a city cannot be found in the DB.
var ErrCityNotFound = errors.New("city not found")
