package main

import (
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yield_aggregator/src/apy"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testCheck(t *testing.T, at time.Time, from apy.Venue, compoundWad, aaveWad int64) Check {
	t.Helper()
	compound, err := apy.YieldFromWad(big.NewInt(compoundWad))
	require.NoError(t, err)
	aave, err := apy.YieldFromWad(big.NewInt(aaveWad))
	require.NoError(t, err)

	return Check{
		Compound:  RateSnapshot{Venue: apy.VenueCompound, Rate: big.NewInt(100000000000)},
		Aave:      RateSnapshot{Venue: apy.VenueAave, Rate: big.NewInt(20000000000000000)},
		Decision:  apy.Select(from, compound, aave),
		CheckedAt: at,
	}
}

func TestDatabase_Subscribers(t *testing.T) {
	db := newTestDatabase(t)

	require.NoError(t, db.AddSubscriber(1))
	require.NoError(t, db.AddSubscriber(2))
	require.NoError(t, db.AddSubscriber(2))

	subs, err := db.GetAllSubscribers()
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 2: true}, subs)

	require.NoError(t, db.RemoveSubscriber(1))
	subs, err = db.GetAllSubscribers()
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{2: true}, subs)
}

func TestDatabase_LastVenue(t *testing.T) {
	db := newTestDatabase(t)

	venue, err := db.LastVenue()
	require.NoError(t, err)
	assert.Equal(t, apy.VenueNone, venue)

	require.NoError(t, db.SaveCheck(testCheck(t, testTime, apy.VenueNone, 20, 10)))
	venue, err = db.LastVenue()
	require.NoError(t, err)
	assert.Equal(t, apy.VenueCompound, venue)

	require.NoError(t, db.SaveCheck(testCheck(t, testTime.Add(time.Minute), apy.VenueCompound, 10, 20)))
	venue, err = db.LastVenue()
	require.NoError(t, err)
	assert.Equal(t, apy.VenueAave, venue)
}

func TestDatabase_RecentChecks(t *testing.T) {
	db := newTestDatabase(t)

	require.NoError(t, db.SaveCheck(testCheck(t, testTime, apy.VenueNone, 20000000000000000, 10000000000000000)))
	require.NoError(t, db.SaveCheck(testCheck(t, testTime.Add(time.Hour), apy.VenueCompound, 20000000000000000, 20000000000000000)))
	require.NoError(t, db.SaveCheck(testCheck(t, testTime.Add(2*time.Hour), apy.VenueCompound, 10000000000000000, 30000000000000000)))

	records, err := db.RecentChecks(2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	newest := records[0]
	assert.Equal(t, testTime.Add(2*time.Hour), newest.CheckedAt)
	assert.Equal(t, apy.VenueAave, newest.Venue)
	assert.True(t, newest.Moved)
	assert.Equal(t, "1.00%", newest.CompoundYield.String())
	assert.Equal(t, "3.00%", newest.AaveYield.String())
	assert.Equal(t, "100000000000", newest.CompoundRate)

	tie := records[1]
	assert.Equal(t, apy.VenueCompound, tie.Venue)
	assert.False(t, tie.Moved)
}
