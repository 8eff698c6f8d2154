// Package main implements the Lambda worker that expands assigned equipment
// bundles into provisioning tickets. It consumes bundle assignment events from
// the EventBridge bus and runs the provisioning saga for each one.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"onboardhq-backend/application/sagas"
	"onboardhq-backend/infrastructure/config"
	"onboardhq-backend/infrastructure/di"
)

const bundleAssignedType = "prehire.bundle_assigned"

var (
	saga   *sagas.ProvisionSaga
	logger *zap.Logger
)

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	container, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependency container: %v", err)
	}

	saga = container.ProvisionSaga
	logger = container.Logger

	log.Println("Provisioner handler initialized successfully")
}

// bundleAssignedDetail is the EventBridge detail payload of a bundle
// assignment event
type bundleAssignedDetail struct {
	PreHireID string `json:"prehire_id"`
	BundleID  string `json:"bundle_id"`
}

// Handler runs the provisioning saga for a single bundle assignment.
// Returning an error lets EventBridge retry and eventually dead-letter
// the event
func Handler(ctx context.Context, event awsevents.CloudWatchEvent) error {
	if event.DetailType != bundleAssignedType {
		logger.Warn("Ignoring unexpected event",
			zap.String("detailType", event.DetailType),
			zap.String("source", event.Source),
		)
		return nil
	}

	var detail bundleAssignedDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return fmt.Errorf("failed to decode event detail: %w", err)
	}

	logger.Info("Provisioning bundle assignment",
		zap.String("prehireId", detail.PreHireID),
		zap.String("bundleId", detail.BundleID),
	)

	if err := saga.Run(ctx, sagas.ProvisionSagaInput{
		PreHireID: detail.PreHireID,
		BundleID:  detail.BundleID,
	}); err != nil {
		logger.Error("Provisioning saga failed",
			zap.String("prehireId", detail.PreHireID),
			zap.String("bundleId", detail.BundleID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func main() {
	lambda.Start(Handler)
}
