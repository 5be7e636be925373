package booking

import (
	"context"

	gardenerRepo "verdea/database/repository/gardener"
	"verdea/models"
	"verdea/services/geo"

	"go.uber.org/zap"
)

// MissingLocationPolicy controls how gardeners whose address is absent or
// unresolvable are treated during the radius test.
type MissingLocationPolicy string

const (
	// MissingLocationEligible keeps such gardeners in the result: incomplete
	// profile data must not silently erase otherwise-qualified gardeners.
	MissingLocationEligible MissingLocationPolicy = "eligible"
	// MissingLocationIneligible drops them instead.
	MissingLocationIneligible MissingLocationPolicy = "ineligible"
)

// DefaultEligibilityResolver implements EligibilityResolver.
//
// The client address is the pivot of the query: if it cannot be geocoded no
// radius test is meaningful, so resolution fails closed with an empty list.
// A gardener's own location is supplementary, so its absence follows the
// configured MissingLocationPolicy instead.
type DefaultEligibilityResolver struct {
	Gardeners gardenerRepo.GardenerRepository
	Geocoder  geo.Geocoder
	Policy    MissingLocationPolicy
	Logger    *zap.Logger
}

// FindEligible returns available gardeners offering all requested services
// within their configured work radius of the client address. When no
// gardeners match, it returns an empty list rather than an error.
func (r *DefaultEligibilityResolver) FindEligible(ctx context.Context, serviceIDs []string, clientAddress string) []models.Gardener {
	clientLoc, err := r.Geocoder.Geocode(ctx, clientAddress)
	if err != nil || clientLoc == nil {
		r.Logger.Warn("client address could not be geocoded, no eligible gardeners",
			zap.String("address", clientAddress), zap.Error(err))
		return []models.Gardener{}
	}

	gardeners, err := r.Gardeners.FindByServices(ctx, serviceIDs)
	if err != nil {
		r.Logger.Warn("service containment query failed", zap.Error(err))
		return []models.Gardener{}
	}
	if len(gardeners) == 0 {
		// Fallback for backends that cannot express the containment
		// predicate: fetch all available gardeners and filter here.
		all, err := r.Gardeners.FindAvailable(ctx)
		if err != nil {
			r.Logger.Warn("fallback gardener fetch failed", zap.Error(err))
			return []models.Gardener{}
		}
		for _, g := range all {
			if g.OffersAll(serviceIDs) {
				gardeners = append(gardeners, g)
			}
		}
	}

	eligible := make([]models.Gardener, 0, len(gardeners))
	for _, g := range gardeners {
		if r.withinRadius(ctx, g, clientLoc) {
			eligible = append(eligible, g)
		}
	}
	return eligible
}

func (r *DefaultEligibilityResolver) withinRadius(ctx context.Context, g models.Gardener, clientLoc *geo.LatLng) bool {
	radius := g.WorkRadiusKm
	if radius <= 0 {
		radius = DefaultWorkRadiusKm
	}

	// A stored geo point takes precedence over geocoding the address.
	if len(g.LocationGeo.Coordinates) == 2 {
		lng, lat := g.LocationGeo.Coordinates[0], g.LocationGeo.Coordinates[1]
		return geo.HaversineKm(clientLoc.Lat, clientLoc.Lng, lat, lng) <= radius
	}

	if g.Address == "" {
		return r.Policy != MissingLocationIneligible
	}
	loc, err := r.Geocoder.Geocode(ctx, g.Address)
	if err != nil || loc == nil {
		r.Logger.Debug("gardener address could not be geocoded, applying missing-location policy",
			zap.String("gardenerId", g.ID), zap.Error(err))
		return r.Policy != MissingLocationIneligible
	}

	return geo.HaversineKm(clientLoc.Lat, clientLoc.Lng, loc.Lat, loc.Lng) <= radius
}
