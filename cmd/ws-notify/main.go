// Package main implements the Lambda worker that pushes ticket progress to
// connected WebSocket clients. It consumes ticket status change events from
// the EventBridge bus, recomputes the owning pre-hire's open ticket count and
// broadcasts it through the API Gateway management API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/infrastructure/config"
	"onboardhq-backend/infrastructure/di"
	"onboardhq-backend/infrastructure/messaging/websocket"
)

const ticketStatusChangedType = "ticket.status_changed"

var (
	ticketRepo ports.TicketRepository
	notifier   *websocket.Notifier
	logger     *zap.Logger
)

func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.WebSocketEndpoint == "" {
		log.Fatal("WEBSOCKET_ENDPOINT is required for the notify worker")
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependency container: %v", err)
	}

	ticketRepo = container.TicketRepo
	logger = container.Logger

	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	notifier = websocket.NewNotifier(awsCfg, cfg.WebSocketEndpoint, cfg.ConnectionsTable, logger)

	log.Println("WebSocket notify handler initialized")
}

// ticketStatusChangedDetail is the EventBridge detail payload of a ticket
// status change event
type ticketStatusChangedDetail struct {
	TicketID  string `json:"ticket_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// Handler broadcasts the owning pre-hire's ticket progress after a status
// change. Delivery is best effort, a failed broadcast is logged but not
// retried so the bus does not redeliver stale counts
func Handler(ctx context.Context, event awsevents.CloudWatchEvent) error {
	if event.DetailType != ticketStatusChangedType {
		logger.Warn("Ignoring unexpected event",
			zap.String("detailType", event.DetailType),
			zap.String("source", event.Source),
		)
		return nil
	}

	var detail ticketStatusChangedDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return fmt.Errorf("failed to decode event detail: %w", err)
	}

	ticketID, err := valueobjects.NewTicketIDFromString(detail.TicketID)
	if err != nil {
		return fmt.Errorf("invalid ticket id %q: %w", detail.TicketID, err)
	}

	ticket, err := ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	tickets, err := ticketRepo.GetByPreHireID(ctx, ticket.PreHireID())
	if err != nil {
		return fmt.Errorf("failed to load tickets for pre-hire: %w", err)
	}

	open := 0
	for _, t := range tickets {
		switch t.Status() {
		case entities.TicketDone, entities.TicketCancelled:
		default:
			open++
		}
	}

	if err := notifier.NotifyProvisioningProgress(ctx, ticket.PreHireID(), open, len(tickets)); err != nil {
		logger.Warn("Progress broadcast failed",
			zap.String("prehireId", ticket.PreHireID().String()),
			zap.String("ticketId", detail.TicketID),
			zap.Error(err),
		)
	}

	return nil
}

func main() {
	lambda.Start(Handler)
}
