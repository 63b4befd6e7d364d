package service

import (
	"context"
	"time"

	"github.com/avelar/traveler-tracker/internal/queue"
	"github.com/avelar/traveler-tracker/internal/repository"
)

// Travel drives the commit and removal of visited cities. Verification has
// already happened by the time AddVerifiedCity runs; this service only
// persists the outcome and emits activity events.
type Travel struct {
	Directory   *Directory
	Cities      *repository.CityRepo
	Assignments *repository.AssignmentRepo
}

func NewTravel(directory *Directory, cities *repository.CityRepo, assignments *repository.AssignmentRepo) *Travel {
	return &Travel{Directory: directory, Cities: cities, Assignments: assignments}
}

// AddVerifiedCity resolves/creates the country, finds or creates the city
// under it and links it to the traveler. created is false when the
// traveler already had the city; nothing else changes in that case.
// Event publishing failures are ignored: the broker is not allowed to
// break the request.
func (s *Travel) AddVerifiedCity(ctx context.Context, travelerID uint64, cityName, countryName string) (created bool, err error) {
	country, err := s.Directory.ResolveOrCreate(ctx, countryName)
	if err != nil {
		return false, err
	}
	city, err := s.Cities.FindOrCreate(ctx, cityName, country.ID)
	if err != nil {
		return false, err
	}
	created, err = s.Assignments.Assign(ctx, travelerID, city.ID)
	if err != nil {
		return false, err
	}
	if created {
		_ = queue.PublishCityActivity(ctx, queue.CityActivityEvent{
			Action:      queue.ActionAdded,
			TravelerID:  travelerID,
			CityID:      city.ID,
			CityName:    city.Name,
			CountryName: country.Name,
			OccurredAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	return created, nil
}

// RemoveCity unlinks a city from the traveler and deletes the city row
// when no other traveler still references it. It returns the repository's
// errors unchanged (sql.ErrNoRows when the traveler never had the city,
// repository.ErrCityNotFound for an unknown id) so the handler can answer
// 404.
func (s *Travel) RemoveCity(ctx context.Context, travelerID, cityID uint64) error {
	city, err := s.Cities.GetByID(ctx, cityID)
	if err != nil {
		return err
	}
	if err := s.Assignments.Unassign(ctx, travelerID, cityID); err != nil {
		return err
	}
	if _, err := s.Cities.DeleteIfOrphaned(ctx, cityID); err != nil {
		return err
	}
	country, err := s.Directory.Countries.GetByID(ctx, city.CountryID)
	countryName := ""
	if err == nil {
		countryName = country.Name
	}
	_ = queue.PublishCityActivity(ctx, queue.CityActivityEvent{
		Action:      queue.ActionRemoved,
		TravelerID:  travelerID,
		CityID:      city.ID,
		CityName:    city.Name,
		CountryName: countryName,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}
