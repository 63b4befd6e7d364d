package model

import "time"

// Country represents a row in the `countries` table.  Countries are created
// lazily the first time a name is referenced (signup, profile update or
// city-add) and are shared between travelers.  The currency code comes from
// the external country directory and stays empty when the lookup yields
// nothing; rows are never re-fetched once created.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – unique country name, exactly as referenced.
//  CurrencyCode – short currency code (e.g. "JPY"), empty if unresolved.
//  CreatedAt    – timestamp of creation.
type Country struct {
	ID           uint64    // countries.id
	Name         string    // countries.name
	CurrencyCode string    // countries.currency_code (nullable in DB)
	CreatedAt    time.Time // countries.created_at
}
