package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	pkgerrors "onboardhq-backend/pkg/errors"
)

type recordingCache struct {
	clears int
}

func (c *recordingCache) Get(ctx context.Context, key string) (interface{}, bool) {
	return nil, false
}

func (c *recordingCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, key string) error { return nil }

func (c *recordingCache) Clear(ctx context.Context) error {
	c.clears++
	return nil
}

type stubVenueRepo struct{}

func (r *stubVenueRepo) Save(ctx context.Context, venue *entities.Venue) error { return nil }

func (r *stubVenueRepo) GetByID(ctx context.Context, id valueobjects.VenueID) (*entities.Venue, error) {
	return nil, pkgerrors.NewNotFoundError("venue")
}

func (r *stubVenueRepo) List(ctx context.Context, activeOnly bool) ([]*entities.Venue, error) {
	return nil, nil
}

func (r *stubVenueRepo) Delete(ctx context.Context, id valueobjects.VenueID) error { return nil }

func TestBundleMutationsClearQueryCache(t *testing.T) {
	ctx := context.Background()
	cache := &recordingCache{}
	repo := &stubBundleRepo{}
	handler := NewBundleHandler(repo, nil, cache, zap.NewNop())

	bundle, err := handler.HandleCreate(ctx, commands.CreateBundleCommand{
		Name:       "Design Starter",
		Department: "Design",
		Items: []commands.BundleItemInput{
			{SKU: "SW-FIGMA", Name: "Figma seat", Kind: "software", AssigneeGroup: "it-software", Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.clears)

	// Cached bundle lists must not outlive a retirement
	repo.bundle = bundle
	require.NoError(t, handler.HandleRetire(ctx, commands.RetireBundleCommand{
		BundleID: bundle.ID().String(),
	}))
	assert.Equal(t, 2, cache.clears)
}

func TestBundleHandlerWithoutCache(t *testing.T) {
	handler := NewBundleHandler(&stubBundleRepo{}, nil, nil, zap.NewNop())

	_, err := handler.HandleCreate(context.Background(), commands.CreateBundleCommand{
		Name:       "Ops Starter",
		Department: "Operations",
	})
	assert.NoError(t, err)
}

func TestVenueMutationsClearQueryCache(t *testing.T) {
	ctx := context.Background()
	cache := &recordingCache{}
	handler := NewVenueHandler(&stubVenueRepo{}, cache, zap.NewNop())

	_, err := handler.HandleCreate(ctx, commands.CreateVenueCommand{
		Name:     "Summit Hall",
		Address:  "1 Market St",
		Capacity: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.clears)
}
