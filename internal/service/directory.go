// Package service composes repositories and external clients into the
// flows the handlers drive: resolving countries, committing verified
// cities and cleaning up after removals.
package service

import (
	"context"
	"errors"
	"log"

	"github.com/avelar/traveler-tracker/internal/model"
	"github.com/avelar/traveler-tracker/internal/repository"
)

// CountryAPI is the slice of the external country directory this service
// needs. *geo.CountryDirectory satisfies it; tests substitute a stub.
type CountryAPI interface {
	ListNames(ctx context.Context) ([]string, error)
	LookupCurrency(ctx context.Context, countryName string) (string, error)
}

// Directory resolves country names to persisted Country rows. Resolution
// is lazy and memoized by name: the first reference to a country name
// consults the external directory for its currency code and creates the
// row; every later reference returns the stored row unchanged, even if the
// external data has moved on.
type Directory struct {
	Countries *repository.CountryRepo
	External  CountryAPI
}

func NewDirectory(countries *repository.CountryRepo, external CountryAPI) *Directory {
	return &Directory{Countries: countries, External: external}
}

// ResolveOrCreate returns the country row for a name, creating it on first
// reference. A failed or empty currency lookup is not an error: the row is
// still created with an empty currency code, per the deliberate
// leave-it-empty policy.
func (d *Directory) ResolveOrCreate(ctx context.Context, name string) (*model.Country, error) {
	country, err := d.Countries.GetByName(ctx, name)
	if err == nil {
		return country, nil
	}
	if !errors.Is(err, repository.ErrCountryNotFound) {
		return nil, err
	}

	code, err := d.External.LookupCurrency(ctx, name)
	if err != nil {
		log.Printf("directory: currency lookup for %q failed: %v", name, err)
		code = ""
	}
	return d.Countries.Create(ctx, name, code)
}

// CountryNames returns the external directory's country names for form
// selects.
func (d *Directory) CountryNames(ctx context.Context) ([]string, error) {
	return d.External.ListNames(ctx)
}
