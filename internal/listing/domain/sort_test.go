package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortFixture() []*Listing {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*Listing{
		{ID: "a", Price: 20000, Year: 2018, Mileage: 80000, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "b", Price: 9000, Year: 2022, Mileage: 15000, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "c", Price: 15000, Year: 2015, Mileage: 120000, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func ids(listings []*Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestSortRecentOrdersByCreationTime(t *testing.T) {
	listings := sortFixture()
	SortListings(listings, SortRecent)
	assert.Equal(t, []string{"b", "c", "a"}, ids(listings))
}

func TestSortModesAreMirrors(t *testing.T) {
	cases := []struct {
		asc, desc SortMode
	}{
		{SortPriceAsc, SortPriceDesc},
		{SortYearAsc, SortYearDesc},
		{SortKmAsc, SortKmDesc},
	}

	for _, tc := range cases {
		up := sortFixture()
		down := sortFixture()
		SortListings(up, tc.asc)
		SortListings(down, tc.desc)

		require.Len(t, down, len(up))
		for i := range up {
			assert.Equal(t, up[i].ID, down[len(down)-1-i].ID,
				"%s must be the exact reverse of %s", tc.desc, tc.asc)
		}
	}
}

func TestSortPriceAsc(t *testing.T) {
	listings := sortFixture()
	SortListings(listings, SortPriceAsc)
	assert.Equal(t, []string{"b", "c", "a"}, ids(listings))
}

func TestUnknownModeFallsBackToRecent(t *testing.T) {
	unknown := sortFixture()
	recent := sortFixture()
	SortListings(unknown, SortMode("nonsense"))
	SortListings(recent, SortRecent)
	assert.Equal(t, ids(recent), ids(unknown))
	assert.False(t, SortMode("nonsense").IsValid())
}

func TestSortIsStable(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	listings := []*Listing{
		{ID: "x", Price: 10000, CreatedAt: base},
		{ID: "y", Price: 10000, CreatedAt: base},
		{ID: "z", Price: 10000, CreatedAt: base},
	}
	SortListings(listings, SortPriceAsc)
	assert.Equal(t, []string{"x", "y", "z"}, ids(listings), "equal keys keep prior relative order")
}
