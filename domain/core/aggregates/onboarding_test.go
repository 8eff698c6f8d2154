package aggregates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	pkgerrors "onboardhq-backend/pkg/errors"
)

func setupOnboarding(t *testing.T) *Onboarding {
	t.Helper()

	email, err := valueobjects.NewEmail("casey.lee@example.com")
	require.NoError(t, err)

	prehire, err := entities.NewPreHire("Casey Lee", email, "Engineering", "Backend Engineer", time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, prehire.AdvanceTo(entities.StagePaperwork))
	require.NoError(t, prehire.AdvanceTo(entities.StageProvisioning))
	prehire.MarkEventsAsCommitted()

	onboarding, err := NewOnboarding(prehire)
	require.NoError(t, err)
	return onboarding
}

func TestOnboardingOpenTicket(t *testing.T) {
	onboarding := setupOnboarding(t)

	ticket, err := onboarding.OpenTicket("Provision laptop", "EQ-LAPTOP-14", "it-hardware")
	require.NoError(t, err)

	assert.Equal(t, 1, onboarding.OpenTicketCount())
	assert.Contains(t, onboarding.PreHire().TicketIDs(), ticket.ID())
}

func TestOnboardingReadinessOnLastTicket(t *testing.T) {
	onboarding := setupOnboarding(t)

	laptop, err := onboarding.OpenTicket("Provision laptop", "EQ-LAPTOP-14", "it-hardware")
	require.NoError(t, err)
	badge, err := onboarding.OpenTicket("Issue badge", "EQ-BADGE", "facilities")
	require.NoError(t, err)

	require.NoError(t, laptop.Transition(entities.TicketInProgress))
	require.NoError(t, badge.Transition(entities.TicketInProgress))

	require.NoError(t, onboarding.CloseTicket(laptop.ID(), entities.TicketDone))
	assert.Equal(t, entities.StageProvisioning, onboarding.PreHire().Stage())

	require.NoError(t, onboarding.CloseTicket(badge.ID(), entities.TicketDone))
	assert.Equal(t, entities.StageReady, onboarding.PreHire().Stage())
}

func TestOnboardingCloseRequiresTerminalStatus(t *testing.T) {
	onboarding := setupOnboarding(t)

	ticket, err := onboarding.OpenTicket("Provision laptop", "EQ-LAPTOP-14", "it-hardware")
	require.NoError(t, err)

	err = onboarding.CloseTicket(ticket.ID(), entities.TicketInProgress)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestOnboardingRejectsForeignTicket(t *testing.T) {
	onboarding := setupOnboarding(t)

	foreign, err := entities.NewTicket(valueobjects.NewPreHireID(), "Provision laptop", "EQ-LAPTOP-14", "it-hardware")
	require.NoError(t, err)

	err = onboarding.AttachTicket(foreign)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestOnboardingCollectsEvents(t *testing.T) {
	onboarding := setupOnboarding(t)

	ticket, err := onboarding.OpenTicket("Provision laptop", "EQ-LAPTOP-14", "it-hardware")
	require.NoError(t, err)
	require.NoError(t, ticket.Transition(entities.TicketInProgress))
	require.NoError(t, onboarding.CloseTicket(ticket.ID(), entities.TicketDone))

	raised := onboarding.GetUncommittedEvents()
	assert.NotEmpty(t, raised)

	onboarding.MarkEventsAsCommitted()
	assert.Empty(t, onboarding.GetUncommittedEvents())
}
