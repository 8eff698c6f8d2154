package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	pkgerrors "onboardhq-backend/pkg/errors"
)

type fakePreHireRepo struct {
	mu       sync.Mutex
	prehires map[string]*entities.PreHire
}

func newFakePreHireRepo() *fakePreHireRepo {
	return &fakePreHireRepo{prehires: make(map[string]*entities.PreHire)}
}

func (r *fakePreHireRepo) Save(_ context.Context, p *entities.PreHire) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prehires[p.ID().String()] = p
	return nil
}

func (r *fakePreHireRepo) GetByID(_ context.Context, id valueobjects.PreHireID) (*entities.PreHire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prehires[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("pre-hire")
	}
	return p, nil
}

func (r *fakePreHireRepo) GetByEmail(_ context.Context, email valueobjects.Email) (*entities.PreHire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.prehires {
		if p.Email().Equals(email) {
			return p, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("pre-hire")
}

func (r *fakePreHireRepo) List(_ context.Context, _ ports.ListCriteria) ([]*entities.PreHire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.PreHire, 0, len(r.prehires))
	for _, p := range r.prehires {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePreHireRepo) Delete(_ context.Context, id valueobjects.PreHireID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.prehires, id.String())
	return nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*entities.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*entities.Ticket)}
}

func (r *fakeTicketRepo) Save(_ context.Context, t *entities.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.ID().String()] = t
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id valueobjects.TicketID) (*entities.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("ticket")
	}
	return t, nil
}

func (r *fakeTicketRepo) GetByPreHireID(_ context.Context, prehireID valueobjects.PreHireID) ([]*entities.Ticket, error) {
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

func (r *fakeTicketRepo) ListByStatus(_ context.Context, status entities.TicketStatus, limit int) ([]*entities.Ticket, error) {
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

func (r *fakeTicketRepo) BulkSave(ctx context.Context, tickets []*entities.Ticket) error {
	for _, t := range tickets {
		if err := r.Save(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id valueobjects.TicketID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tickets, id.String())
	return nil
}

type fakeBundleRepo struct {
	bundles map[string]*entities.Bundle
}

func newFakeBundleRepo() *fakeBundleRepo {
	return &fakeBundleRepo{bundles: make(map[string]*entities.Bundle)}
}

func (r *fakeBundleRepo) Save(_ context.Context, b *entities.Bundle) error {
	r.bundles[b.ID().String()] = b
	return nil
}

func (r *fakeBundleRepo) GetByID(_ context.Context, id valueobjects.BundleID) (*entities.Bundle, error) {
	b, ok := r.bundles[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("bundle")
	}
	return b, nil
}

func (r *fakeBundleRepo) List(_ context.Context, department string, activeOnly bool) ([]*entities.Bundle, error) {
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

func (r *fakeBundleRepo) Delete(_ context.Context, id valueobjects.BundleID) error {
	delete(r.bundles, id.String())
	return nil
}

func setupService(t *testing.T) (*ProvisionService, *fakePreHireRepo, *fakeBundleRepo, *fakeTicketRepo) {
	t.Helper()
	prehireRepo := newFakePreHireRepo()
	bundleRepo := newFakeBundleRepo()
	ticketRepo := newFakeTicketRepo()
	svc := NewProvisionService(prehireRepo, bundleRepo, ticketRepo, zap.NewNop())
	return svc, prehireRepo, bundleRepo, ticketRepo
}

func engineeringBundle(t *testing.T) *entities.Bundle {
	t.Helper()
	bundle, err := entities.NewBundle("Engineering Starter", "Engineering", "", []entities.BundleItem{
		{SKU: "EQ-LAPTOP-14", Name: "Laptop 14\"", Kind: entities.ItemKindEquipment, AssigneeGroup: "it-hardware", Quantity: 1},
		{SKU: "SW-IDE", Name: "IDE license", Kind: entities.ItemKindSoftware, AssigneeGroup: "it-software", Quantity: 1},
		{SKU: "EQ-BADGE", Name: "Office badge", Kind: entities.ItemKindEquipment, AssigneeGroup: "facilities", Quantity: 1},
	})
	require.NoError(t, err)
	return bundle
}

func provisioningPreHire(t *testing.T) *entities.PreHire {
	t.Helper()
	email, err := valueobjects.NewEmail("casey.lee@example.com")
	require.NoError(t, err)
	prehire, err := entities.NewPreHire("Casey Lee", email, "Engineering", "Backend Engineer", time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, prehire.AdvanceTo(entities.StagePaperwork))
	require.NoError(t, prehire.AdvanceTo(entities.StageProvisioning))
	prehire.MarkEventsAsCommitted()
	return prehire
}

func TestExpandBundleOpensTicketPerItem(t *testing.T) {
	svc, prehireRepo, _, ticketRepo := setupService(t)
	ctx := context.Background()

	prehire := provisioningPreHire(t)
	require.NoError(t, prehireRepo.Save(ctx, prehire))
	bundle := engineeringBundle(t)

	opened, err := svc.ExpandBundle(ctx, prehire, bundle)
	require.NoError(t, err)
	assert.Len(t, opened, 3)

	saved, err := ticketRepo.GetByPreHireID(ctx, prehire.ID())
	require.NoError(t, err)
	assert.Len(t, saved, 3)
	assert.Len(t, prehire.TicketIDs(), 3)
}

func TestExpandBundleIsIdempotentPerSKU(t *testing.T) {
	svc, prehireRepo, _, _ := setupService(t)
	ctx := context.Background()

	prehire := provisioningPreHire(t)
	require.NoError(t, prehireRepo.Save(ctx, prehire))
	bundle := engineeringBundle(t)

	first, err := svc.ExpandBundle(ctx, prehire, bundle)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := svc.ExpandBundle(ctx, prehire, bundle)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestExpandBundleRejectsRetiredBundle(t *testing.T) {
	svc, prehireRepo, _, _ := setupService(t)
	ctx := context.Background()

	prehire := provisioningPreHire(t)
	require.NoError(t, prehireRepo.Save(ctx, prehire))
	bundle := engineeringBundle(t)
	bundle.Retire()

	_, err := svc.ExpandBundle(ctx, prehire, bundle)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestRecordTicketProgressAdvancesToReady(t *testing.T) {
	svc, prehireRepo, _, _ := setupService(t)
	ctx := context.Background()

	prehire := provisioningPreHire(t)
	require.NoError(t, prehireRepo.Save(ctx, prehire))
	bundle := engineeringBundle(t)

	opened, err := svc.ExpandBundle(ctx, prehire, bundle)
	require.NoError(t, err)
	require.Len(t, opened, 3)

	for i, ticket := range opened {
		require.NoError(t, ticket.Transition(entities.TicketInProgress))
		open, total, err := svc.RecordTicketProgress(ctx, ticket, entities.TicketDone)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, len(opened)-i-1, open)
	}

	stored, err := prehireRepo.GetByID(ctx, prehire.ID())
	require.NoError(t, err)
	assert.Equal(t, entities.StageReady, stored.Stage())
}
