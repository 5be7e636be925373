package models

import (
	"time"
)

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// Gardener is the provider-side profile consumed by the eligibility resolver.
// Profile data is owned elsewhere; the booking engine only reads it.
type Gardener struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name,omitempty"`
	Email        string    `bson:"email" json:"email,omitempty"`
	Address      string    `bson:"address" json:"address,omitempty"`
	LocationGeo  GeoPoint  `bson:"locationGeo,omitempty" json:"locationGeo,omitzero"`
	WorkRadiusKm float64   `bson:"workRadiusKm" json:"workRadiusKm,omitempty"` // 0 means "use default"
	ServiceIDs   []string  `bson:"serviceIds" json:"serviceIds"`
	IsAvailable  bool      `bson:"isAvailable" json:"isAvailable"`
	Rating       float64   `bson:"rating" json:"rating,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// OffersAll reports whether the gardener's catalogue covers every requested service.
func (g Gardener) OffersAll(serviceIDs []string) bool {
	offered := make(map[string]bool, len(g.ServiceIDs))
	for _, id := range g.ServiceIDs {
		offered[id] = true
	}
	for _, id := range serviceIDs {
		if !offered[id] {
			return false
		}
	}
	return true
}
