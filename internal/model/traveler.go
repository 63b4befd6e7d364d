package model

import "time"

// Traveler represents a registered account as stored in the `travelers`
// table. Each field corresponds to a column in the database. The json tags
// are omitted because these structs are used internally by the repository
// layer; handlers render HTML views rather than JSON bodies.
//
// Fields:
//  ID            – primary key identifier of the traveler.
//  FirstName     – given name.
//  LastName      – family name.
//  Email         – unique email address (normalized to lower case).
//  PasswordHash  – bcrypt hashed password.
//  HomeCountryID – foreign key into the countries table.  Nil until the
//                  traveler has designated a home country.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type Traveler struct {
	ID            uint64     // travelers.id
	FirstName     string     // travelers.first_name
	LastName      string     // travelers.last_name
	Email         string     // travelers.email
	PasswordHash  string     // travelers.password_hash
	HomeCountryID *uint64    // travelers.home_country_id (nullable)
	CreatedAt     time.Time  // travelers.created_at
	UpdatedAt     time.Time  // travelers.updated_at
}

// Session models an entry in the `sessions` table.  Each login session
// belongs to a traveler and contains metadata for expiry and revocation.
// The plain session token handed to the browser is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID         – primary key identifier.
//  TravelerID – owner of the session.
//  TokenHash  – SHA-256 hex digest of the session token.
//  ExpiresAt  – expiration timestamp of the session.
//  RevokedAt  – when the session was revoked by logout (null if active).
//  CreatedAt  – timestamp of creation.
type Session struct {
	ID         uint64     // sessions.id
	TravelerID uint64     // sessions.traveler_id
	TokenHash  string     // sessions.token_hash
	ExpiresAt  time.Time  // sessions.expires_at
	RevokedAt  *time.Time // sessions.revoked_at (nullable)
	CreatedAt  time.Time  // sessions.created_at
}
