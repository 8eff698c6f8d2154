package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/application/ports"
	"onboardhq-backend/application/services"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
	pkgerrors "onboardhq-backend/pkg/errors"
)

type stubPreHireRepo struct {
	prehires    map[string]*entities.PreHire
	directSaves int
}

func newStubPreHireRepo() *stubPreHireRepo {
	return &stubPreHireRepo{prehires: make(map[string]*entities.PreHire)}
}

func (r *stubPreHireRepo) Save(ctx context.Context, prehire *entities.PreHire) error {
	r.directSaves++
	r.prehires[prehire.ID().String()] = prehire
	return nil
}

func (r *stubPreHireRepo) GetByID(ctx context.Context, id valueobjects.PreHireID) (*entities.PreHire, error) {
	prehire, ok := r.prehires[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("pre-hire")
	}
	return prehire, nil
}

func (r *stubPreHireRepo) GetByEmail(ctx context.Context, email valueobjects.Email) (*entities.PreHire, error) {
	return nil, pkgerrors.NewNotFoundError("pre-hire")
}

func (r *stubPreHireRepo) List(ctx context.Context, criteria ports.ListCriteria) ([]*entities.PreHire, error) {
	return nil, nil
}

func (r *stubPreHireRepo) Delete(ctx context.Context, id valueobjects.PreHireID) error {
	return nil
}

// txPreHireRepo additionally supports transactional registration
type txPreHireRepo struct {
	*stubPreHireRepo
	registered     *entities.PreHire
	registeredWith interface{}
}

func (r *txPreHireRepo) SaveWithUoW(ctx context.Context, prehire *entities.PreHire, uow interface{}) error {
	r.registered = prehire
	r.registeredWith = uow
	return nil
}

type stubTicketRepo struct {
	tickets         []*entities.Ticket
	directBulkSaves int
}

func (r *stubTicketRepo) Save(ctx context.Context, ticket *entities.Ticket) error { return nil }

func (r *stubTicketRepo) GetByID(ctx context.Context, id valueobjects.TicketID) (*entities.Ticket, error) {
	return nil, pkgerrors.NewNotFoundError("ticket")
}

func (r *stubTicketRepo) GetByPreHireID(ctx context.Context, prehireID valueobjects.PreHireID) ([]*entities.Ticket, error) {
	return r.tickets, nil
}

func (r *stubTicketRepo) ListByStatus(ctx context.Context, status entities.TicketStatus, limit int) ([]*entities.Ticket, error) {
	return nil, nil
}

func (r *stubTicketRepo) BulkSave(ctx context.Context, tickets []*entities.Ticket) error {
	r.directBulkSaves++
	r.tickets = append(r.tickets, tickets...)
	return nil
}

func (r *stubTicketRepo) Delete(ctx context.Context, id valueobjects.TicketID) error { return nil }

type txTicketRepo struct {
	*stubTicketRepo
	registered     []*entities.Ticket
	registeredWith interface{}
	failWith       error
}

func (r *txTicketRepo) BulkSaveWithUoW(ctx context.Context, tickets []*entities.Ticket, uow interface{}) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.registered = tickets
	r.registeredWith = uow
	return nil
}

type stubUnitOfWork struct {
	begun      bool
	committed  bool
	rolledBack bool
}

func (u *stubUnitOfWork) Begin(ctx context.Context) error  { u.begun = true; return nil }
func (u *stubUnitOfWork) Commit(ctx context.Context) error { u.committed = true; return nil }
func (u *stubUnitOfWork) Rollback() error                  { u.rolledBack = true; return nil }
func (u *stubUnitOfWork) PreHireRepository() ports.PreHireRepository {
	return nil
}
func (u *stubUnitOfWork) TicketRepository() ports.TicketRepository {
	return nil
}

type stubPublisher struct {
	published []events.DomainEvent
}

func (p *stubPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.published = append(p.published, event)
	return nil
}

func (p *stubPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	p.published = append(p.published, batch...)
	return nil
}

func seedProvisioningFixture(t *testing.T, prehireRepo ports.PreHireRepository) (*entities.PreHire, *entities.Bundle, ports.BundleRepository) {
	t.Helper()

	email, err := valueobjects.NewEmail("sam.park@example.com")
	require.NoError(t, err)
	prehire, err := entities.NewPreHire("Sam Park", email, "Engineering", "SRE", time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, prehire.AdvanceTo(entities.StagePaperwork))
	require.NoError(t, prehireRepo.Save(context.Background(), prehire))
	prehire.MarkEventsAsCommitted()

	bundle, err := entities.NewBundle("SRE Starter", "Engineering", "", []entities.BundleItem{
		{SKU: "EQ-LAPTOP-16", Name: "Laptop 16\"", Kind: entities.ItemKindEquipment, AssigneeGroup: "it-hardware", Quantity: 1},
		{SKU: "SW-PAGER", Name: "Paging seat", Kind: entities.ItemKindSoftware, AssigneeGroup: "it-software", Quantity: 1},
	})
	require.NoError(t, err)

	bundleRepo := &stubBundleRepo{bundle: bundle}
	return prehire, bundle, bundleRepo
}

type stubBundleRepo struct {
	bundle *entities.Bundle
}

func (r *stubBundleRepo) Save(ctx context.Context, bundle *entities.Bundle) error { return nil }

func (r *stubBundleRepo) GetByID(ctx context.Context, id valueobjects.BundleID) (*entities.Bundle, error) {
	if r.bundle != nil && r.bundle.ID() == id {
		return r.bundle, nil
	}
	return nil, pkgerrors.NewNotFoundError("bundle")
}

func (r *stubBundleRepo) List(ctx context.Context, department string, activeOnly bool) ([]*entities.Bundle, error) {
	return nil, nil
}

func (r *stubBundleRepo) Delete(ctx context.Context, id valueobjects.BundleID) error { return nil }

func TestAssignBundleRoutesWritesThroughUnitOfWork(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	prehireRepo := &txPreHireRepo{stubPreHireRepo: newStubPreHireRepo()}
	ticketRepo := &txTicketRepo{stubTicketRepo: &stubTicketRepo{}}
	prehire, bundle, bundleRepo := seedProvisioningFixture(t, prehireRepo)
	prehireRepo.directSaves = 0

	uow := &stubUnitOfWork{}
	publisher := &stubPublisher{}
	provisionService := services.NewProvisionService(prehireRepo, bundleRepo, ticketRepo, logger)

	orchestrator := NewAssignBundleOrchestrator(
		uow, prehireRepo, bundleRepo, ticketRepo, provisionService, publisher, nil, logger)

	result, err := orchestrator.Handle(ctx, commands.AssignBundleCommand{
		PreHireID: prehire.ID().String(),
		BundleID:  bundle.ID().String(),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StageProvisioning, result.Stage())

	assert.True(t, uow.begun)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)

	// Both writes joined the transaction instead of hitting the store directly
	assert.Same(t, uow, prehireRepo.registeredWith)
	assert.Same(t, uow, ticketRepo.registeredWith)
	assert.Len(t, ticketRepo.registered, 2)
	assert.Zero(t, prehireRepo.directSaves)
	assert.Zero(t, ticketRepo.directBulkSaves)
}

func TestAssignBundleRollsBackWhenTicketWriteFails(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	prehireRepo := &txPreHireRepo{stubPreHireRepo: newStubPreHireRepo()}
	ticketRepo := &txTicketRepo{
		stubTicketRepo: &stubTicketRepo{},
		failWith:       pkgerrors.NewDatabaseError("register ticket", assert.AnError),
	}
	prehire, bundle, bundleRepo := seedProvisioningFixture(t, prehireRepo)
	prehireRepo.directSaves = 0

	uow := &stubUnitOfWork{}
	provisionService := services.NewProvisionService(prehireRepo, bundleRepo, ticketRepo, logger)

	orchestrator := NewAssignBundleOrchestrator(
		uow, prehireRepo, bundleRepo, ticketRepo, provisionService, &stubPublisher{}, nil, logger)

	_, err := orchestrator.Handle(ctx, commands.AssignBundleCommand{
		PreHireID: prehire.ID().String(),
		BundleID:  bundle.ID().String(),
	})
	require.Error(t, err)

	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
	assert.Nil(t, prehireRepo.registered)
	assert.Zero(t, prehireRepo.directSaves)
}

func TestAssignBundleFallsBackToDirectSaves(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	prehireRepo := newStubPreHireRepo()
	ticketRepo := &stubTicketRepo{}
	prehire, bundle, bundleRepo := seedProvisioningFixture(t, prehireRepo)
	prehireRepo.directSaves = 0

	uow := &stubUnitOfWork{}
	provisionService := services.NewProvisionService(prehireRepo, bundleRepo, ticketRepo, logger)

	orchestrator := NewAssignBundleOrchestrator(
		uow, prehireRepo, bundleRepo, ticketRepo, provisionService, &stubPublisher{}, nil, logger)

	_, err := orchestrator.Handle(ctx, commands.AssignBundleCommand{
		PreHireID: prehire.ID().String(),
		BundleID:  bundle.ID().String(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, prehireRepo.directSaves)
	assert.Equal(t, 1, ticketRepo.directBulkSaves)
}
