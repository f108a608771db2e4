package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
//
// LAMBDA_EVENT selects the trigger: "http" (API Gateway HTTP API, default) or
// "rest" (API Gateway REST API). The live search websocket is not served here.

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/bootstrap"
	"neeklo-backend/internal/shared/config"
	"neeklo-backend/internal/shared/server/respond"
	"neeklo-backend/internal/shared/telemetry"
)

var (
	initOnce sync.Once
	initErr  error
	router   *gin.Engine
)

func initApp() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		telemetry.Error("lambda_http.bootstrap_failed", map[string]any{"error": err})
		return
	}
	router = app.Router
	telemetry.Info("lambda_http.ready", map[string]any{"env": cfg.Env})
}

func unavailableBody() string {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{
		Code:    respond.CodeInternal,
		Message: "service unavailable",
	}})
	return string(body)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func httpAPIHandler() func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var adapter *ginadapter.GinLambdaV2
	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		initOnce.Do(initApp)
		if initErr != nil {
			return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusServiceUnavailable, Body: unavailableBody(), Headers: jsonHeaders}, nil
		}
		if adapter == nil {
			adapter = ginadapter.NewV2(router)
		}
		return adapter.ProxyWithContext(ctx, req)
	}
}

func restAPIHandler() func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var adapter *ginadapter.GinLambda
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		initOnce.Do(initApp)
		if initErr != nil {
			return events.APIGatewayProxyResponse{StatusCode: http.StatusServiceUnavailable, Body: unavailableBody(), Headers: jsonHeaders}, nil
		}
		if adapter == nil {
			adapter = ginadapter.New(router)
		}
		return adapter.ProxyWithContext(ctx, req)
	}
}

func main() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LAMBDA_EVENT"))) {
	case "rest":
		lambda.Start(restAPIHandler())
	default:
		lambda.Start(httpAPIHandler())
	}
}
