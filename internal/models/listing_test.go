// internal/models/listing_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrihedge/agrihedge-backend/internal/apperrors"
)

func newTestListing(total float64) *Listing {
	l := &Listing{
		FarmerID:      uuid.New(),
		CommodityType: CommoditySoybean,
		TotalQty:      total,
		AvailableQty:  total,
		Unit:          UnitKg,
		IsActive:      true,
	}
	l.ID = uuid.New()
	return l
}

func TestNewListingStartsFullyAvailable(t *testing.T) {
	l := newTestListing(1000)

	assert.Equal(t, 1000.0, l.TotalQty)
	assert.Equal(t, 1000.0, l.AvailableQty)
	assert.Equal(t, 0.0, l.ReservedQty)
	assert.Equal(t, 0.0, l.CommittedQty)
	assert.NoError(t, l.CheckInvariants())
}

func TestReserveHoldsStock(t *testing.T) {
	l := newTestListing(1000)

	require.NoError(t, l.Reserve(300))

	assert.Equal(t, 300.0, l.ReservedQty)
	assert.Equal(t, 1000.0, l.AvailableQty, "reservation must not touch available stock")
	assert.Equal(t, 700.0, l.UncontractedQty())
	assert.NoError(t, l.CheckInvariants())
}

func TestReserveBeyondUncontractedFails(t *testing.T) {
	l := newTestListing(1000)

	require.NoError(t, l.Reserve(600))
	err := l.Reserve(600)

	require.Error(t, err)
	var insufficient *apperrors.InsufficientAvailableError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 600.0, insufficient.Requested)
	assert.Equal(t, 400.0, insufficient.Available)

	// The failed call must leave the ledger untouched.
	assert.Equal(t, 600.0, l.ReservedQty)
	assert.Equal(t, 1000.0, l.AvailableQty)
}

func TestReserveReleaseRoundTripIsDriftFree(t *testing.T) {
	l := newTestListing(1000)

	for i := 0; i < 50; i++ {
		require.NoError(t, l.Reserve(250))
		require.NoError(t, l.ReleaseReservation(250))
	}

	assert.Equal(t, 1000.0, l.TotalQty)
	assert.Equal(t, 1000.0, l.AvailableQty)
	assert.Equal(t, 0.0, l.ReservedQty)
	assert.Equal(t, 0.0, l.CommittedQty)
}

func TestReleaseMoreThanReservedFails(t *testing.T) {
	l := newTestListing(1000)
	require.NoError(t, l.Reserve(100))

	err := l.ReleaseReservation(200)

	require.Error(t, err)
	assert.True(t, apperrors.IsInvariantViolation(err))
	assert.Equal(t, 100.0, l.ReservedQty)
}

func TestCommitReservedConvertsHoldToCommitment(t *testing.T) {
	l := newTestListing(1000)
	require.NoError(t, l.Reserve(100))

	require.NoError(t, l.CommitReserved(100))

	assert.Equal(t, 0.0, l.ReservedQty)
	assert.Equal(t, 900.0, l.AvailableQty)
	assert.Equal(t, 100.0, l.CommittedQty)
	assert.Equal(t, 1000.0, l.TotalQty, "acceptance must not move physical stock")
	assert.NoError(t, l.CheckInvariants())
}

func TestCommitReservedWithoutReservationFails(t *testing.T) {
	l := newTestListing(1000)

	err := l.CommitReserved(100)

	require.Error(t, err)
	assert.True(t, apperrors.IsInvariantViolation(err))
}

func TestCommitAvailableLocksUnreservedStock(t *testing.T) {
	l := newTestListing(500)

	require.NoError(t, l.CommitAvailable(200))

	assert.Equal(t, 300.0, l.AvailableQty)
	assert.Equal(t, 200.0, l.CommittedQty)
	assert.Equal(t, 500.0, l.TotalQty)
	assert.NoError(t, l.CheckInvariants())
}

func TestCommitAvailableInsufficientStockFails(t *testing.T) {
	l := newTestListing(500)
	require.NoError(t, l.CommitAvailable(400))

	err := l.CommitAvailable(200)

	require.Error(t, err)
	var insufficient *apperrors.InsufficientAvailableError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 100.0, insufficient.Available)
	assert.Equal(t, 400.0, l.CommittedQty)
	assert.Equal(t, 100.0, l.AvailableQty)
}

func TestFulfillConsumesCommitmentAndStock(t *testing.T) {
	l := newTestListing(1000)
	require.NoError(t, l.Reserve(100))
	require.NoError(t, l.CommitReserved(100))

	require.NoError(t, l.Fulfill(100))

	assert.Equal(t, 900.0, l.TotalQty)
	assert.Equal(t, 900.0, l.AvailableQty)
	assert.Equal(t, 0.0, l.ReservedQty)
	assert.Equal(t, 0.0, l.CommittedQty)
	assert.NoError(t, l.CheckInvariants())
}

func TestFulfillBeyondCommittedFails(t *testing.T) {
	l := newTestListing(1000)
	require.NoError(t, l.CommitAvailable(50))

	err := l.Fulfill(100)

	require.Error(t, err)
	assert.True(t, apperrors.IsInvariantViolation(err))
	assert.Equal(t, 1000.0, l.TotalQty)
	assert.Equal(t, 50.0, l.CommittedQty)
}

// Full lifecycle of a farmer-initiated offer: propose, accept, deliver.
func TestOfferLifecycleLedger(t *testing.T) {
	l := newTestListing(1000)

	// Farmer offers 100 of 1000.
	require.NoError(t, l.Reserve(100))
	// A trader accepts.
	require.NoError(t, l.CommitReserved(100))
	// Delivery.
	require.NoError(t, l.Fulfill(100))

	assert.Equal(t, 900.0, l.TotalQty)
	assert.Equal(t, 900.0, l.AvailableQty)
	assert.Equal(t, 0.0, l.ReservedQty)
	assert.Equal(t, 0.0, l.CommittedQty)
}

func TestCheckInvariantsCatchesCorruptLedger(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Listing)
		counter string
	}{
		{"negative available", func(l *Listing) { l.AvailableQty = -1 }, "available_qty"},
		{"negative reserved", func(l *Listing) { l.ReservedQty = -0.5 }, "reserved_qty"},
		{"negative committed", func(l *Listing) { l.CommittedQty = -10 }, "committed_qty"},
		{"committed exceeds total", func(l *Listing) { l.CommittedQty = l.TotalQty + 1 }, "total_qty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestListing(100)
			tt.mutate(l)

			err := l.CheckInvariants()

			require.Error(t, err)
			var invariant *apperrors.InvariantViolationError
			require.ErrorAs(t, err, &invariant)
			assert.Equal(t, tt.counter, invariant.Counter)
		})
	}
}
