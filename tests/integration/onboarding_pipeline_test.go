package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/application/commands/handlers"
	"onboardhq-backend/application/ports"
	"onboardhq-backend/application/services"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/validators"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// In-memory ports so the whole pipeline runs without DynamoDB.

type memPreHireRepo struct {
	mu       sync.Mutex
	prehires map[string]*entities.PreHire
}

func newMemPreHireRepo() *memPreHireRepo {
	return &memPreHireRepo{prehires: make(map[string]*entities.PreHire)}
}

func (r *memPreHireRepo) Save(_ context.Context, p *entities.PreHire) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prehires[p.ID().String()] = p
	return nil
}

func (r *memPreHireRepo) GetByID(_ context.Context, id valueobjects.PreHireID) (*entities.PreHire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prehires[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("pre-hire")
	}
	return p, nil
}

func (r *memPreHireRepo) GetByEmail(_ context.Context, email valueobjects.Email) (*entities.PreHire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.prehires {
		if p.Email().Equals(email) {
			return p, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("pre-hire")
}

func (r *memPreHireRepo) List(_ context.Context, _ ports.ListCriteria) ([]*entities.PreHire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.PreHire, 0, len(r.prehires))
	for _, p := range r.prehires {
		out = append(out, p)
	}
	return out, nil
}

func (r *memPreHireRepo) Delete(_ context.Context, id valueobjects.PreHireID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.prehires, id.String())
	return nil
}

type memTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*entities.Ticket
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: make(map[string]*entities.Ticket)}
}

func (r *memTicketRepo) Save(_ context.Context, t *entities.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.ID().String()] = t
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id valueobjects.TicketID) (*entities.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("ticket")
	}
	return t, nil
}

func (r *memTicketRepo) GetByPreHireID(_ context.Context, prehireID valueobjects.PreHireID) ([]*entities.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entities.Ticket{}
	for _, t := range r.tickets {
		if t.PreHireID().Equals(prehireID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTicketRepo) ListByStatus(_ context.Context, status entities.TicketStatus, limit int) ([]*entities.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entities.Ticket{}
	for _, t := range r.tickets {
		if t.Status() == status && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTicketRepo) BulkSave(ctx context.Context, tickets []*entities.Ticket) error {
	for _, t := range tickets {
		if err := r.Save(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *memTicketRepo) Delete(_ context.Context, id valueobjects.TicketID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tickets, id.String())
	return nil
}

type memBundleRepo struct {
	bundles map[string]*entities.Bundle
}

func newMemBundleRepo() *memBundleRepo {
	return &memBundleRepo{bundles: make(map[string]*entities.Bundle)}
}

func (r *memBundleRepo) Save(_ context.Context, b *entities.Bundle) error {
	r.bundles[b.ID().String()] = b
	return nil
}

func (r *memBundleRepo) GetByID(_ context.Context, id valueobjects.BundleID) (*entities.Bundle, error) {
	b, ok := r.bundles[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("bundle")
	}
	return b, nil
}

func (r *memBundleRepo) List(_ context.Context, department string, activeOnly bool) ([]*entities.Bundle, error) {
	out := []*entities.Bundle{}
	for _, b := range r.bundles {
		if department != "" && b.Department() != department {
			continue
		}
		if activeOnly && !b.IsActive() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *memBundleRepo) Delete(_ context.Context, id valueobjects.BundleID) error {
	delete(r.bundles, id.String())
	return nil
}

// memPublisher records every published event for assertions
type memPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *memPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *memPublisher) PublishBatch(_ context.Context, batch []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, batch...)
	return nil
}

func (p *memPublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

// memUnitOfWork satisfies the transactional port without any transaction,
// the in-memory repos apply writes immediately
type memUnitOfWork struct {
	prehireRepo ports.PreHireRepository
	ticketRepo  ports.TicketRepository
}

func (u *memUnitOfWork) Begin(context.Context) error                { return nil }
func (u *memUnitOfWork) Commit(context.Context) error               { return nil }
func (u *memUnitOfWork) Rollback() error                            { return nil }
func (u *memUnitOfWork) PreHireRepository() ports.PreHireRepository { return u.prehireRepo }
func (u *memUnitOfWork) TicketRepository() ports.TicketRepository   { return u.ticketRepo }

type memLock struct{}

func (memLock) AcquireLock(context.Context, string, int) (func() error, error) {
	return func() error { return nil }, nil
}

// memNotifier records progress broadcasts
type memNotifier struct {
	mu        sync.Mutex
	progress  [][2]int
	prehireID string
}

func (n *memNotifier) NotifyProvisioningProgress(_ context.Context, prehireID valueobjects.PreHireID, open, total int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prehireID = prehireID.String()
	n.progress = append(n.progress, [2]int{open, total})
	return nil
}

type pipeline struct {
	prehireRepo *memPreHireRepo
	bundleRepo  *memBundleRepo
	ticketRepo  *memTicketRepo
	publisher   *memPublisher
	notifier    *memNotifier

	create     *handlers.CreatePreHireHandler
	assign     *handlers.AssignBundleOrchestrator
	transition *handlers.TransitionTicketHandler
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	logger := zap.NewNop()
	prehireRepo := newMemPreHireRepo()
	bundleRepo := newMemBundleRepo()
	ticketRepo := newMemTicketRepo()
	publisher := &memPublisher{}
	notifier := &memNotifier{}
	uow := &memUnitOfWork{prehireRepo: prehireRepo, ticketRepo: ticketRepo}
	provisionService := services.NewProvisionService(prehireRepo, bundleRepo, ticketRepo, logger)

	return &pipeline{
		prehireRepo: prehireRepo,
		bundleRepo:  bundleRepo,
		ticketRepo:  ticketRepo,
		publisher:   publisher,
		notifier:    notifier,
		create: handlers.NewCreatePreHireHandler(
			prehireRepo, publisher, validators.NewPreHireValidator(), logger),
		assign: handlers.NewAssignBundleOrchestrator(
			uow, prehireRepo, bundleRepo, ticketRepo, provisionService, publisher, memLock{}, logger),
		transition: handlers.NewTransitionTicketHandler(
			ticketRepo, provisionService, publisher, notifier, logger),
	}
}

func (p *pipeline) seedBundle(t *testing.T) *entities.Bundle {
	t.Helper()
	bundle, err := entities.NewBundle("Engineering Starter", "Engineering", "", []entities.BundleItem{
		{SKU: "EQ-LAPTOP-14", Name: "Laptop 14\"", Kind: entities.ItemKindEquipment, AssigneeGroup: "it-hardware", Quantity: 1},
		{SKU: "SW-IDE", Name: "IDE license", Kind: entities.ItemKindSoftware, AssigneeGroup: "it-software", Quantity: 1},
	})
	require.NoError(t, err)
	require.NoError(t, p.bundleRepo.Save(context.Background(), bundle))
	return bundle
}

func TestOnboardingPipelineEndToEnd(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	bundle := p.seedBundle(t)

	startDate := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	prehire, err := p.create.Handle(ctx, commands.CreatePreHireCommand{
		Name:       "Casey Lee",
		Email:      "casey.lee@example.com",
		Department: "Engineering",
		Role:       "Backend Engineer",
		StartDate:  startDate,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StageOfferAccepted, prehire.Stage())

	// Paperwork completes before equipment can be assigned
	require.NoError(t, prehire.AdvanceTo(entities.StagePaperwork))
	require.NoError(t, p.prehireRepo.Save(ctx, prehire))

	assigned, err := p.assign.Handle(ctx, commands.AssignBundleCommand{
		PreHireID: prehire.ID().String(),
		BundleID:  bundle.ID().String(),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StageProvisioning, assigned.Stage())

	tickets, err := p.ticketRepo.GetByPreHireID(ctx, prehire.ID())
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	for _, ticket := range tickets {
		assert.Equal(t, entities.TicketOpen, ticket.Status())
	}

	// Closing every ticket advances the pre-hire to ready
	for _, ticket := range tickets {
		_, err := p.transition.Handle(ctx, commands.TransitionTicketCommand{
			TicketID: ticket.ID().String(),
			Status:   string(entities.TicketInProgress),
		})
		require.NoError(t, err)
		_, err = p.transition.Handle(ctx, commands.TransitionTicketCommand{
			TicketID: ticket.ID().String(),
			Status:   string(entities.TicketDone),
		})
		require.NoError(t, err)
	}

	final, err := p.prehireRepo.GetByID(ctx, prehire.ID())
	require.NoError(t, err)
	assert.Equal(t, entities.StageReady, final.Stage())

	assert.Contains(t, p.publisher.typesSeen(), "prehire.created")
	assert.Contains(t, p.publisher.typesSeen(), "prehire.bundle_assigned")
	assert.Contains(t, p.publisher.typesSeen(), "ticket.status_changed")

	// The notifier saw the open count drain to zero
	require.NotEmpty(t, p.notifier.progress)
	last := p.notifier.progress[len(p.notifier.progress)-1]
	assert.Equal(t, 0, last[0])
	assert.Equal(t, 2, last[1])
	assert.Equal(t, prehire.ID().String(), p.notifier.prehireID)
}

func TestOnboardingPipelineRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)

	startDate := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	cmd := commands.CreatePreHireCommand{
		Name:       "Casey Lee",
		Email:      "casey.lee@example.com",
		Department: "Engineering",
		StartDate:  startDate,
	}

	_, err := p.create.Handle(ctx, cmd)
	require.NoError(t, err)

	_, err = p.create.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestOnboardingPipelineBundleRefusedAfterWithdrawal(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	bundle := p.seedBundle(t)

	startDate := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	prehire, err := p.create.Handle(ctx, commands.CreatePreHireCommand{
		Name:       "Robin Diaz",
		Email:      "robin.diaz@example.com",
		Department: "Engineering",
		StartDate:  startDate,
	})
	require.NoError(t, err)

	require.NoError(t, prehire.Withdraw("took another offer"))
	require.NoError(t, p.prehireRepo.Save(ctx, prehire))

	_, err = p.assign.Handle(ctx, commands.AssignBundleCommand{
		PreHireID: prehire.ID().String(),
		BundleID:  bundle.ID().String(),
	})
	require.Error(t, err)

	tickets, err := p.ticketRepo.GetByPreHireID(ctx, prehire.ID())
	require.NoError(t, err)
	assert.Empty(t, tickets)
}
