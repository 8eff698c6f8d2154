package sagas

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSagaExecutesStepsInOrder(t *testing.T) {
	saga := New("test", zap.NewNop())

	var order []string
	saga.AddStep(Step{
		Name: "first",
		Execute: func(ctx context.Context, data interface{}) (interface{}, error) {
			order = append(order, "first")
			return data.(int) + 1, nil
		},
	})
	saga.AddStep(Step{
		Name: "second",
		Execute: func(ctx context.Context, data interface{}) (interface{}, error) {
			order = append(order, "second")
			return data.(int) * 10, nil
		},
	})

	result, err := saga.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 20, result)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, StateCompleted, saga.GetState())
}

func TestSagaCompensatesOnFailure(t *testing.T) {
	saga := New("test", zap.NewNop())

	compensated := []string{}
	saga.AddStep(Step{
		Name: "first",
		Execute: func(ctx context.Context, data interface{}) (interface{}, error) {
			return data, nil
		},
		Compensate: func(ctx context.Context, data interface{}) error {
			compensated = append(compensated, "first")
			return nil
		},
	})
	saga.AddStep(Step{
		Name: "second",
		Execute: func(ctx context.Context, data interface{}) (interface{}, error) {
			return data, nil
		},
		Compensate: func(ctx context.Context, data interface{}) error {
			compensated = append(compensated, "second")
			return nil
		},
	})
	saga.AddStep(Step{
		Name: "third",
		Execute: func(ctx context.Context, data interface{}) (interface{}, error) {
			return nil, errors.New("boom")
		},
	})

	_, err := saga.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, []string{"second", "first"}, compensated)
	assert.Equal(t, StateCompensated, saga.GetState())
}

func TestSagaRetriesStep(t *testing.T) {
	saga := New("test", zap.NewNop())

	attempts := 0
	saga.AddStep(Step{
		Name:       "flaky",
		MaxRetries: 3,
		RetryDelay: 1, // nanosecond, keep the test fast
		Execute: func(ctx context.Context, data interface{}) (interface{}, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("transient")
			}
			return data, nil
		},
	})

	_, err := saga.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestSagaRetriesExhausted(t *testing.T) {
	saga := New("test", zap.NewNop())

	attempts := 0
	saga.AddStep(Step{
		Name:       "broken",
		MaxRetries: 2,
		RetryDelay: 1,
		Execute: func(ctx context.Context, data interface{}) (interface{}, error) {
			attempts++
			return nil, errors.New("permanent")
		},
	})

	_, err := saga.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, StateCompensated, saga.GetState())
}
