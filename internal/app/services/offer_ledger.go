package services

import (
	"github.com/KrithikaHS/The-Student-360/internal/app/models"
)

// RecomputeOfferCount derives the offer count from the category slots
// and writes it back to the record. It is called unconditionally after
// every slot mutation; the count is never adjusted incrementally.
func RecomputeOfferCount(rec *models.PlacementRecord) int {
	rec.OfferCount = len(rec.Product) + len(rec.Service) + len(rec.Dream)
	return rec.OfferCount
}

// ApplyOffer mutates the record's slots according to the category rules:
//
//   - product and dream offers replace their slot outright;
//   - service offers append to the slot, which then collapses to the
//     single highest-CTC offer iff a product offer exists.
//
// The collapse is one-directional: once the service slot has been
// reduced it never re-expands, and replacing the product offer later
// does not restore dropped service offers. The return value is false
// for a category outside the closed set, in which case the record is
// left untouched.
func ApplyOffer(rec *models.PlacementRecord, offer models.Offer, category models.OfferCategory) bool {
	switch category {
	case models.OfferCategoryProduct:
		rec.Product = []models.Offer{offer}
	case models.OfferCategoryDream:
		rec.Dream = []models.Offer{offer}
	case models.OfferCategoryService:
		rec.Service = append(rec.Service, offer)
		if len(rec.Product) > 0 {
			rec.Service = collapseToMax(rec.Service)
		}
	default:
		return false
	}

	RecomputeOfferCount(rec)
	return true
}

// collapseToMax reduces a slot to its single highest-CTC offer.
// On ties the earliest offer wins.
func collapseToMax(offers []models.Offer) []models.Offer {
	if len(offers) <= 1 {
		return offers
	}

	best := 0
	for i := 1; i < len(offers); i++ {
		if offers[i].CTC.GreaterThan(offers[best].CTC) {
			best = i
		}
	}
	return []models.Offer{offers[best]}
}
