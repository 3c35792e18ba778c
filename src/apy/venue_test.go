package apy

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustYield(t *testing.T, w int64) Yield {
	t.Helper()
	y, err := YieldFromWad(big.NewInt(w))
	require.NoError(t, err)
	return y
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name          string
		current       Venue
		compound      int64
		aave          int64
		want          Venue
		wantMoved     bool
		wantRebalance bool
	}{
		{name: "compound higher from none", current: VenueNone, compound: 1000, aave: 900, want: VenueCompound, wantMoved: true},
		{name: "aave higher from none", current: VenueNone, compound: 900, aave: 1000, want: VenueAave, wantMoved: true},
		{name: "tie from none goes to compound", current: VenueNone, compound: 1000, aave: 1000, want: VenueCompound, wantMoved: true},
		{name: "tie holding compound stays", current: VenueCompound, compound: 1000, aave: 1000, want: VenueCompound},
		{name: "tie holding aave stays", current: VenueAave, compound: 1000, aave: 1000, want: VenueAave},
		{name: "rebalance compound to aave", current: VenueCompound, compound: 900, aave: 1000, want: VenueAave, wantMoved: true, wantRebalance: true},
		{name: "rebalance aave to compound", current: VenueAave, compound: 1000, aave: 900, want: VenueCompound, wantMoved: true, wantRebalance: true},
		{name: "already on the better venue", current: VenueAave, compound: 900, aave: 1000, want: VenueAave},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Select(tt.current, mustYield(t, tt.compound), mustYield(t, tt.aave))
			assert.Equal(t, tt.current, d.From)
			assert.Equal(t, tt.want, d.To)
			assert.Equal(t, tt.wantMoved, d.Moved())
			assert.Equal(t, tt.wantRebalance, d.Rebalance())
		})
	}
}

func TestSelect_Symmetric(t *testing.T) {
	hi, lo := mustYield(t, 5), mustYield(t, 4)
	assert.Equal(t, VenueCompound, Select(VenueNone, hi, lo).To)
	assert.Equal(t, VenueAave, Select(VenueNone, lo, hi).To)
}

func TestParseVenue(t *testing.T) {
	for _, v := range []Venue{VenueNone, VenueCompound, VenueAave} {
		assert.Equal(t, v, ParseVenue(v.String()))
	}
	assert.Equal(t, VenueNone, ParseVenue("binance"))
}

func TestParseWad(t *testing.T) {
	y, err := ParseWad("20000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "2.00%", y.String())

	_, err = ParseWad("2%")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseWad("-1")
	require.ErrorIs(t, err, ErrInvalidInput)
}
