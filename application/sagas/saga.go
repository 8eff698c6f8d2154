package sagas

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step represents a single step in a saga. Execute receives the output of
// the previous step and returns the input for the next one. Compensate,
// when set, undoes the step's effects during rollback.
type Step struct {
	Name       string
	Execute    func(ctx context.Context, data interface{}) (interface{}, error)
	Compensate func(ctx context.Context, data interface{}) error
	MaxRetries int
	RetryDelay time.Duration
}

// State represents the current state of a saga execution
type State string

const (
	StatePending      State = "PENDING"
	StateRunning      State = "RUNNING"
	StateCompleted    State = "COMPLETED"
	StateFailed       State = "FAILED"
	StateCompensating State = "COMPENSATING"
	StateCompensated  State = "COMPENSATED"
)

// Saga orchestrates a series of steps with compensation logic
type Saga struct {
	id            string
	name          string
	steps         []Step
	compensations []func(ctx context.Context) error
	state         State
	currentStep   int
	logger        *zap.Logger
}

// New creates a new saga instance
func New(name string, logger *zap.Logger) *Saga {
	return &Saga{
		id:     uuid.NewString(),
		name:   name,
		state:  StatePending,
		logger: logger,
	}
}

// AddStep adds a step to the saga
func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Execute runs the saga. On step failure, completed steps are compensated
// in reverse order before the error is returned.
func (s *Saga) Execute(ctx context.Context, initialData interface{}) (interface{}, error) {
	s.state = StateRunning
	s.logger.Info("starting saga",
		zap.String("sagaId", s.id),
		zap.String("saga", s.name),
		zap.Int("steps", len(s.steps)))

	var data interface{} = initialData
	completed := 0

	for i, step := range s.steps {
		step := step
		s.currentStep = i

		result, err := s.executeWithRetry(ctx, step, data)
		if err != nil {
			s.state = StateFailed
			s.logger.Error("saga step failed",
				zap.String("sagaId", s.id),
				zap.String("step", step.Name),
				zap.Error(err))

			s.compensate(ctx, completed)
			s.state = StateCompensated
			return nil, fmt.Errorf("saga %s failed at step %s: %w", s.name, step.Name, err)
		}

		data = result
		completed = i + 1

		if step.Compensate != nil {
			stepData := data
			s.compensations = append(s.compensations, func(ctx context.Context) error {
				return step.Compensate(ctx, stepData)
			})
		} else {
			s.compensations = append(s.compensations, nil)
		}
	}

	s.state = StateCompleted
	s.logger.Info("saga completed",
		zap.String("sagaId", s.id),
		zap.String("saga", s.name),
		zap.Int("steps", completed))

	return data, nil
}

func (s *Saga) executeWithRetry(ctx context.Context, step Step, data interface{}) (interface{}, error) {
	maxRetries := step.MaxRetries
	if maxRetries == 0 {
		maxRetries = 1
	}
	retryDelay := step.RetryDelay
	if retryDelay == 0 {
		retryDelay = time.Second
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		result, err := step.Execute(ctx, data)
		if err == nil {
			return result, nil
		}

		lastErr = err
		s.logger.Warn("saga step attempt failed",
			zap.String("sagaId", s.id),
			zap.String("step", step.Name),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return nil, fmt.Errorf("step %s failed after %d attempts: %w", step.Name, maxRetries, lastErr)
}

// compensate runs compensation logic in reverse order. A failed
// compensation is logged and the remaining ones still run.
func (s *Saga) compensate(ctx context.Context, completed int) {
	s.state = StateCompensating
	s.logger.Info("compensating saga",
		zap.String("sagaId", s.id),
		zap.Int("steps", completed))

	for i := completed - 1; i >= 0; i-- {
		if i >= len(s.compensations) || s.compensations[i] == nil {
			continue
		}
		if err := s.compensations[i](ctx); err != nil {
			s.logger.Error("compensation failed",
				zap.String("sagaId", s.id),
				zap.Int("step", i+1),
				zap.Error(err))
		}
	}
}

// GetState returns the current state of the saga
func (s *Saga) GetState() State {
	return s.state
}

// GetID returns the saga ID
func (s *Saga) GetID() string {
	return s.id
}

// GetCurrentStep returns the current step index
func (s *Saga) GetCurrentStep() int {
	return s.currentStep
}
