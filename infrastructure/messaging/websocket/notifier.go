package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwTypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// progressMessage is the wire format pushed to connected admin dashboards
type progressMessage struct {
	Type         string `json:"type"`
	PreHireID    string `json:"prehire_id"`
	OpenTickets  int    `json:"open_tickets"`
	TotalTickets int    `json:"total_tickets"`
	Timestamp    int64  `json:"timestamp"`
}

// Notifier implements ports.Notifier by pushing provisioning progress over the
// API Gateway WebSocket management API. Connection IDs live in a dedicated
// connections table maintained by the ws-connect Lambda
type Notifier struct {
	dynamoClient     *dynamodb.Client
	apiClient        *apigatewaymanagementapi.Client
	connectionsTable string
	logger           *zap.Logger
}

// NewNotifier creates a notifier bound to the given WebSocket endpoint
func NewNotifier(awsCfg aws.Config, endpoint, connectionsTable string, logger *zap.Logger) *Notifier {
	apiClient := apigatewaymanagementapi.NewFromConfig(awsCfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s", endpoint))
	})

	return &Notifier{
		dynamoClient:     dynamodb.NewFromConfig(awsCfg),
		apiClient:        apiClient,
		connectionsTable: connectionsTable,
		logger:           logger,
	}
}

// NotifyProvisioningProgress broadcasts ticket progress for a pre-hire to all
// connected clients. Stale connections are cleaned up as they are discovered,
// partial delivery is not an error
func (n *Notifier) NotifyProvisioningProgress(ctx context.Context, prehireID valueobjects.PreHireID, openTickets, totalTickets int) error {
	message, err := json.Marshal(progressMessage{
		Type:         "provisioning.progress",
		PreHireID:    prehireID.String(),
		OpenTickets:  openTickets,
		TotalTickets: totalTickets,
		Timestamp:    time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal progress message: %w", err)
	}

	connectionIDs, err := n.allConnections(ctx)
	if err != nil {
		return err
	}

	if len(connectionIDs) == 0 {
		return nil
	}

	successCount := 0
	failCount := 0

	for _, connID := range connectionIDs {
		if err := n.post(ctx, connID, message); err != nil {
			n.logger.Warn("Failed to send to connection",
				zap.String("connectionID", connID),
				zap.Error(err),
			)
			failCount++
		} else {
			successCount++
		}
	}

	n.logger.Debug("Provisioning progress broadcast",
		zap.String("prehireID", prehireID.String()),
		zap.Int("successCount", successCount),
		zap.Int("failCount", failCount),
	)

	if failCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d sends failed", failCount)
	}

	return nil
}

func (n *Notifier) allConnections(ctx context.Context) ([]string, error) {
	var connectionIDs []string

	paginator := dynamodb.NewScanPaginator(n.dynamoClient, &dynamodb.ScanInput{
		TableName:            aws.String(n.connectionsTable),
		ProjectionExpression: aws.String("ConnectionID"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connections: %w", err)
		}

		for _, item := range page.Items {
			if connID, ok := item["ConnectionID"].(*types.AttributeValueMemberS); ok {
				connectionIDs = append(connectionIDs, connID.Value)
			}
		}
	}

	return connectionIDs, nil
}

func (n *Notifier) post(ctx context.Context, connectionID string, message []byte) error {
	_, err := n.apiClient.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connectionID),
		Data:         message,
	})
	if err != nil {
		var gone *apigwTypes.GoneException
		if errors.As(err, &gone) {
			n.removeStaleConnection(ctx, connectionID)
			return nil
		}
		return err
	}

	return nil
}

func (n *Notifier) removeStaleConnection(ctx context.Context, connectionID string) {
	_, err := n.dynamoClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(n.connectionsTable),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CONNECTION#%s", connectionID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		n.logger.Warn("Failed to remove stale connection",
			zap.String("connectionID", connectionID),
			zap.Error(err),
		)
		return
	}

	n.logger.Debug("Removed stale connection", zap.String("connectionID", connectionID))
}

var _ ports.Notifier = (*Notifier)(nil)
