// internal/models/contract_test.go
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrihedge/agrihedge-backend/internal/apperrors"
)

func newTestContract(initiator Initiator) *Contract {
	c := &Contract{
		FarmerID:      uuid.New(),
		ListingID:     uuid.New(),
		CommodityType: CommodityMustard,
		PricePerUnit:  55.0,
		Qty:           200,
		Unit:          UnitKg,
		TotalValue:    11000,
		Status:        ContractStatusPending,
		Initiator:     initiator,
	}
	c.ID = uuid.New()
	if initiator == InitiatorTrader {
		traderID := uuid.New()
		c.TraderID = &traderID
	}
	return c
}

func TestAcceptFarmerOfferBindsTrader(t *testing.T) {
	c := newTestContract(InitiatorFarmer)
	require.Nil(t, c.TraderID)

	traderID := uuid.New()
	now := time.Now()
	require.NoError(t, c.Accept(traderID, now))

	assert.Equal(t, ContractStatusActive, c.Status)
	require.NotNil(t, c.TraderID)
	assert.Equal(t, traderID, *c.TraderID)
	require.NotNil(t, c.AcceptedBy)
	assert.Equal(t, traderID, *c.AcceptedBy)
	assert.Equal(t, now, *c.AcceptedAt)
}

func TestAcceptTraderProposalKeepsTrader(t *testing.T) {
	c := newTestContract(InitiatorTrader)
	originalTrader := *c.TraderID

	require.NoError(t, c.Accept(c.FarmerID, time.Now()))

	assert.Equal(t, ContractStatusActive, c.Status)
	assert.Equal(t, originalTrader, *c.TraderID)
}

func TestSecondAcceptFails(t *testing.T) {
	c := newTestContract(InitiatorFarmer)
	firstTrader := uuid.New()
	require.NoError(t, c.Accept(firstTrader, time.Now()))

	err := c.Accept(uuid.New(), time.Now())

	require.Error(t, err)
	var invalidState *apperrors.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	assert.Equal(t, "ACTIVE", invalidState.Status)
	assert.Equal(t, "accept", invalidState.Action)

	// The losing accept must not rebind the counterparty.
	assert.Equal(t, firstTrader, *c.TraderID)
}

func TestRejectRecordsReason(t *testing.T) {
	c := newTestContract(InitiatorFarmer)
	traderID := uuid.New()

	require.NoError(t, c.Reject(traderID, "price too high", time.Now()))

	assert.Equal(t, ContractStatusRejected, c.Status)
	assert.Equal(t, "price too high", c.RejectionReason)
	assert.Equal(t, traderID, *c.RejectedBy)
	assert.Nil(t, c.TraderID, "a rejected open offer never gains a counterparty")
}

func TestCancelOnlyFromPending(t *testing.T) {
	c := newTestContract(InitiatorFarmer)
	require.NoError(t, c.Accept(uuid.New(), time.Now()))

	err := c.Cancel(c.FarmerID, time.Now())

	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))
	assert.Equal(t, ContractStatusActive, c.Status)
}

func TestCompleteOnlyFromActive(t *testing.T) {
	c := newTestContract(InitiatorTrader)

	err := c.Complete(c.FarmerID, time.Now())

	require.Error(t, err)
	var invalidState *apperrors.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	assert.Equal(t, "PENDING", invalidState.Status)
	assert.Equal(t, "complete", invalidState.Action)
}

func TestTerminalStatesAdmitNoTransition(t *testing.T) {
	terminal := []func(c *Contract){
		func(c *Contract) { _ = c.Reject(uuid.New(), "", time.Now()) },
		func(c *Contract) { _ = c.Cancel(c.FarmerID, time.Now()) },
	}

	for _, enter := range terminal {
		c := newTestContract(InitiatorFarmer)
		enter(c)
		require.True(t, c.Status.IsTerminal())

		assert.True(t, apperrors.IsInvalidState(c.Accept(uuid.New(), time.Now())))
		assert.True(t, apperrors.IsInvalidState(c.Reject(uuid.New(), "", time.Now())))
		assert.True(t, apperrors.IsInvalidState(c.Cancel(c.FarmerID, time.Now())))
		assert.True(t, apperrors.IsInvalidState(c.Complete(c.FarmerID, time.Now())))
	}

	c := newTestContract(InitiatorFarmer)
	require.NoError(t, c.Accept(uuid.New(), time.Now()))
	require.NoError(t, c.Complete(c.FarmerID, time.Now()))
	require.True(t, c.Status.IsTerminal())
	assert.True(t, apperrors.IsInvalidState(c.Accept(uuid.New(), time.Now())))
}

func TestIsParty(t *testing.T) {
	c := newTestContract(InitiatorFarmer)

	assert.True(t, c.IsParty(c.FarmerID))
	assert.False(t, c.IsParty(uuid.New()))

	traderID := uuid.New()
	require.NoError(t, c.Accept(traderID, time.Now()))
	assert.True(t, c.IsParty(traderID))
}
