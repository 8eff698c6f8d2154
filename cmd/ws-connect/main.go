// Package main implements the WebSocket connect/disconnect Lambda handler.
// Admin dashboards open a WebSocket to receive live provisioning progress,
// connections are authenticated with the same JWTs the REST API accepts.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	appconfig "onboardhq-backend/infrastructure/config"
	"onboardhq-backend/infrastructure/di"
	"onboardhq-backend/pkg/auth"
)

const connectionTTL = 24 * time.Hour

var (
	dynamoClient     *dynamodb.Client
	jwtValidator     *auth.JWTValidator
	connectionsTable string
	logger           *zap.Logger
)

func init() {
	ctx := context.Background()

	cfg, err := appconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	connectionsTable = cfg.ConnectionsTable

	logger, err = di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	dynamoClient = di.ProvideDynamoDBClient(awsCfg)

	jwtValidator, err = di.ProvideJWTValidator(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT validator: %v", err)
	}

	log.Println("WebSocket connect handler initialized")
}

// storeConnection writes the connection record keyed the same way as every
// other entity in the table. GSI1 lets the notifier look up connections by user
func storeConnection(ctx context.Context, connectionID, userID, endpoint string) error {
	now := time.Now()
	expiry := now.Add(connectionTTL).Unix()

	item := map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: fmt.Sprintf("CONNECTION#%s", connectionID)},
		"SK":           &types.AttributeValueMemberS{Value: "METADATA"},
		"ConnectionID": &types.AttributeValueMemberS{Value: connectionID},
		"UserID":       &types.AttributeValueMemberS{Value: userID},
		"GSI1PK":       &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
		"GSI1SK":       &types.AttributeValueMemberS{Value: fmt.Sprintf("CONNECTION#%s", connectionID)},
		"ConnectedAt":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		"Endpoint":     &types.AttributeValueMemberS{Value: endpoint},
		"TTL":          &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiry)},
	}

	_, err := dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(connectionsTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store connection: %w", err)
	}
	return nil
}

func deleteConnection(ctx context.Context, connectionID string) error {
	_, err := dynamoClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(connectionsTable),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CONNECTION#%s", connectionID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

func handleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID

	// Browsers cannot set headers on WebSocket upgrade, so the token travels
	// as a query parameter
	token := request.QueryStringParameters["token"]
	if token == "" {
		token = request.Headers["Authorization"]
	}

	claims, err := jwtValidator.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket authentication failed",
			zap.String("connectionID", connectionID),
			zap.Error(err),
		)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusUnauthorized,
			Body:       `{"error": "unauthorized"}`,
		}, nil
	}

	endpoint := fmt.Sprintf("%s/%s", request.RequestContext.DomainName, request.RequestContext.Stage)
	if err := storeConnection(ctx, connectionID, claims.UserID, endpoint); err != nil {
		logger.Error("Failed to store connection",
			zap.String("connectionID", connectionID),
			zap.Error(err),
		)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error": "internal server error"}`,
		}, nil
	}

	logger.Info("WebSocket connection established",
		zap.String("connectionID", connectionID),
		zap.String("userID", claims.UserID),
	)

	body, _ := json.Marshal(map[string]interface{}{
		"type":         "connection_established",
		"connectionId": connectionID,
		"timestamp":    time.Now().Unix(),
	})

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
	}, nil
}

func handleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID

	if err := deleteConnection(ctx, connectionID); err != nil {
		logger.Warn("Failed to delete connection",
			zap.String("connectionID", connectionID),
			zap.Error(err),
		)
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func handler(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$disconnect":
		return handleDisconnect(ctx, request)
	default:
		return handleConnect(ctx, request)
	}
}

func main() {
	lambda.Start(handler)
}
