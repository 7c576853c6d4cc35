package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
)

func offer(company string, ctc string) models.Offer {
	return models.Offer{Company: company, CTC: decimal.RequireFromString(ctc)}
}

func TestApplyOffer_ProductReplaces(t *testing.T) {
	rec := &models.PlacementRecord{}

	require.True(t, ApplyOffer(rec, offer("Acme", "12"), models.OfferCategoryProduct))
	require.True(t, ApplyOffer(rec, offer("Globex", "18"), models.OfferCategoryProduct))

	require.Len(t, rec.Product, 1)
	assert.Equal(t, "Globex", rec.Product[0].Company)
	assert.Equal(t, 1, rec.OfferCount)
}

func TestApplyOffer_DreamReplaces(t *testing.T) {
	rec := &models.PlacementRecord{}

	require.True(t, ApplyOffer(rec, offer("Initech", "30"), models.OfferCategoryDream))
	require.True(t, ApplyOffer(rec, offer("Hooli", "45"), models.OfferCategoryDream))

	require.Len(t, rec.Dream, 1)
	assert.Equal(t, "Hooli", rec.Dream[0].Company)
}

func TestApplyOffer_ServiceAccumulatesWithoutProduct(t *testing.T) {
	rec := &models.PlacementRecord{}

	require.True(t, ApplyOffer(rec, offer("TCS", "5"), models.OfferCategoryService))
	require.True(t, ApplyOffer(rec, offer("Infosys", "9"), models.OfferCategoryService))
	require.True(t, ApplyOffer(rec, offer("Wipro", "7"), models.OfferCategoryService))

	assert.Len(t, rec.Service, 3)
	assert.Equal(t, 3, rec.OfferCount)
}

func TestApplyOffer_ServiceCollapsesWhenProductExists(t *testing.T) {
	rec := &models.PlacementRecord{}
	require.True(t, ApplyOffer(rec, offer("Acme", "12"), models.OfferCategoryProduct))

	require.True(t, ApplyOffer(rec, offer("TCS", "5"), models.OfferCategoryService))
	require.True(t, ApplyOffer(rec, offer("Infosys", "9"), models.OfferCategoryService))
	require.True(t, ApplyOffer(rec, offer("Wipro", "7"), models.OfferCategoryService))

	require.Len(t, rec.Service, 1)
	assert.Equal(t, "Infosys", rec.Service[0].Company)
	assert.Equal(t, 2, rec.OfferCount)
}

func TestApplyOffer_CollapseIsSticky(t *testing.T) {
	rec := &models.PlacementRecord{}
	require.True(t, ApplyOffer(rec, offer("TCS", "5"), models.OfferCategoryService))
	require.True(t, ApplyOffer(rec, offer("Infosys", "9"), models.OfferCategoryService))
	require.Len(t, rec.Service, 2)

	// The product offer arriving later does not rewrite history, but
	// every subsequent service offer collapses the slot again.
	require.True(t, ApplyOffer(rec, offer("Acme", "12"), models.OfferCategoryProduct))
	assert.Len(t, rec.Service, 2)

	require.True(t, ApplyOffer(rec, offer("Wipro", "7"), models.OfferCategoryService))
	require.Len(t, rec.Service, 1)
	assert.Equal(t, "Infosys", rec.Service[0].Company)
}

func TestApplyOffer_CollapseTieKeepsEarliest(t *testing.T) {
	rec := &models.PlacementRecord{}
	require.True(t, ApplyOffer(rec, offer("Acme", "12"), models.OfferCategoryProduct))

	require.True(t, ApplyOffer(rec, offer("First", "9"), models.OfferCategoryService))
	require.True(t, ApplyOffer(rec, offer("Second", "9"), models.OfferCategoryService))

	require.Len(t, rec.Service, 1)
	assert.Equal(t, "First", rec.Service[0].Company)
}

func TestApplyOffer_UnknownCategoryLeavesRecordUntouched(t *testing.T) {
	rec := &models.PlacementRecord{}
	require.True(t, ApplyOffer(rec, offer("Acme", "12"), models.OfferCategoryProduct))
	before := rec.OfferCount

	applied := ApplyOffer(rec, offer("Mystery", "99"), models.OfferCategory("consulting"))

	assert.False(t, applied)
	assert.Len(t, rec.Product, 1)
	assert.Empty(t, rec.Service)
	assert.Empty(t, rec.Dream)
	assert.Equal(t, before, rec.OfferCount)
}

func TestRecomputeOfferCount(t *testing.T) {
	rec := &models.PlacementRecord{
		Product: []models.Offer{offer("Acme", "12")},
		Service: []models.Offer{offer("TCS", "5"), offer("Wipro", "7")},
		Dream:   []models.Offer{offer("Hooli", "45")},
		// Stale value to prove the count is derived, not trusted
		OfferCount: 99,
	}

	assert.Equal(t, 4, RecomputeOfferCount(rec))
	assert.Equal(t, 4, rec.OfferCount)
}

func TestParseOfferCategory(t *testing.T) {
	for raw, want := range map[string]models.OfferCategory{
		"product":  models.OfferCategoryProduct,
		"Service":  models.OfferCategoryService,
		" DREAM ":  models.OfferCategoryDream,
	} {
		got, ok := models.ParseOfferCategory(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got)
	}

	_, ok := models.ParseOfferCategory("consulting")
	assert.False(t, ok)
}
