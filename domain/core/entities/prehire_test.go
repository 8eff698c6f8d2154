package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
	pkgerrors "onboardhq-backend/pkg/errors"
)

func testEmail(t *testing.T) valueobjects.Email {
	t.Helper()
	email, err := valueobjects.NewEmail("casey.lee@example.com")
	require.NoError(t, err)
	return email
}

func testStartDate() time.Time {
	return time.Now().AddDate(0, 1, 0)
}

func TestNewPreHire(t *testing.T) {
	prehire, err := NewPreHire("Casey Lee", testEmail(t), "Engineering", "Backend Engineer", testStartDate())
	require.NoError(t, err)

	assert.False(t, prehire.ID().IsZero())
	assert.Equal(t, "Casey Lee", prehire.Name())
	assert.Equal(t, StageOfferAccepted, prehire.Stage())
	assert.Equal(t, 1, prehire.Version())

	raised := prehire.GetUncommittedEvents()
	require.Len(t, raised, 1)
	assert.Equal(t, "prehire.created", raised[0].GetEventType())
}

func TestNewPreHireValidation(t *testing.T) {
	_, err := NewPreHire("", testEmail(t), "Engineering", "Backend Engineer", testStartDate())
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewPreHire("Casey Lee", valueobjects.Email{}, "Engineering", "Backend Engineer", testStartDate())
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewPreHire("Casey Lee", testEmail(t), "", "Backend Engineer", testStartDate())
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewPreHire("Casey Lee", testEmail(t), "Engineering", "Backend Engineer", time.Now().AddDate(-1, 0, 0))
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPreHireStageTransitions(t *testing.T) {
	prehire, err := NewPreHire("Casey Lee", testEmail(t), "Engineering", "Backend Engineer", testStartDate())
	require.NoError(t, err)
	prehire.MarkEventsAsCommitted()

	// Skipping a stage is rejected
	err = prehire.AdvanceTo(StageReady)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, StageOfferAccepted, prehire.Stage())

	// Walking the pipeline in order succeeds
	require.NoError(t, prehire.AdvanceTo(StagePaperwork))
	require.NoError(t, prehire.AdvanceTo(StageProvisioning))
	require.NoError(t, prehire.AdvanceTo(StageReady))
	require.NoError(t, prehire.AdvanceTo(StageStarted))

	assert.True(t, prehire.IsClosed())
	assert.Len(t, prehire.GetUncommittedEvents(), 4)

	// Terminal stage admits no further moves
	err = prehire.AdvanceTo(StageWithdrawn)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPreHireAdvanceToSameStageIsNoop(t *testing.T) {
	prehire, err := NewPreHire("Casey Lee", testEmail(t), "Engineering", "Backend Engineer", testStartDate())
	require.NoError(t, err)
	prehire.MarkEventsAsCommitted()

	require.NoError(t, prehire.AdvanceTo(StageOfferAccepted))
	assert.Empty(t, prehire.GetUncommittedEvents())
	assert.Equal(t, 1, prehire.Version())
}

func TestPreHireAssignBundle(t *testing.T) {
	prehire, err := NewPreHire("Casey Lee", testEmail(t), "Engineering", "Backend Engineer", testStartDate())
	require.NoError(t, err)
	prehire.MarkEventsAsCommitted()

	bundleID := valueobjects.NewBundleID()
	require.NoError(t, prehire.AssignBundle(bundleID))
	assert.True(t, prehire.BundleID().Equals(bundleID))

	raised := prehire.GetUncommittedEvents()
	require.Len(t, raised, 1)
	assigned, ok := raised[0].(events.BundleAssigned)
	require.True(t, ok)
	assert.True(t, assigned.BundleID.Equals(bundleID))

	// Assigning the same bundle again raises nothing
	prehire.MarkEventsAsCommitted()
	require.NoError(t, prehire.AssignBundle(bundleID))
	assert.Empty(t, prehire.GetUncommittedEvents())
}

func TestPreHireWithdraw(t *testing.T) {
	prehire, err := NewPreHire("Casey Lee", testEmail(t), "Engineering", "Backend Engineer", testStartDate())
	require.NoError(t, err)
	prehire.MarkEventsAsCommitted()

	require.NoError(t, prehire.Withdraw("took another offer"))
	assert.Equal(t, StageWithdrawn, prehire.Stage())

	raised := prehire.GetUncommittedEvents()
	require.Len(t, raised, 2)
	assert.Equal(t, "prehire.stage_changed", raised[0].GetEventType())
	assert.Equal(t, "prehire.withdrawn", raised[1].GetEventType())

	// Withdrawing twice is a no-op
	prehire.MarkEventsAsCommitted()
	require.NoError(t, prehire.Withdraw("again"))
	assert.Empty(t, prehire.GetUncommittedEvents())

	// A withdrawn pre-hire cannot pick up a bundle
	err = prehire.AssignBundle(valueobjects.NewBundleID())
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPreHireWithdrawAfterStart(t *testing.T) {
	prehire, err := NewPreHire("Casey Lee", testEmail(t), "Engineering", "Backend Engineer", testStartDate())
	require.NoError(t, err)
	require.NoError(t, prehire.AdvanceTo(StagePaperwork))
	require.NoError(t, prehire.AdvanceTo(StageProvisioning))
	require.NoError(t, prehire.AdvanceTo(StageReady))
	require.NoError(t, prehire.AdvanceTo(StageStarted))

	err = prehire.Withdraw("too late")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPreHireTrackTicket(t *testing.T) {
	prehire, err := NewPreHire("Casey Lee", testEmail(t), "Engineering", "Backend Engineer", testStartDate())
	require.NoError(t, err)

	ticketID := valueobjects.NewTicketID()
	require.NoError(t, prehire.TrackTicket(ticketID))
	require.NoError(t, prehire.TrackTicket(ticketID)) // duplicate is a no-op
	assert.Len(t, prehire.TicketIDs(), 1)
}

func TestReconstructPreHire(t *testing.T) {
	id := valueobjects.NewPreHireID()
	created := time.Now().Add(-48 * time.Hour)
	updated := time.Now().Add(-time.Hour)

	prehire, err := ReconstructPreHire(
		id, "Casey Lee", testEmail(t), "Engineering", "Backend Engineer", "Alex Kim",
		testStartDate(), StageProvisioning, valueobjects.NewBundleID(), nil,
		created, updated, 4,
	)
	require.NoError(t, err)

	assert.True(t, prehire.ID().Equals(id))
	assert.Equal(t, "Alex Kim", prehire.Manager())
	assert.Equal(t, 4, prehire.Version())
	assert.Equal(t, created, prehire.CreatedAt())
	assert.Empty(t, prehire.GetUncommittedEvents())
}
