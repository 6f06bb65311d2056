package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameshelf/internal/config"
	"gameshelf/internal/domain"
	"gameshelf/internal/handler"
	"gameshelf/internal/service/dispatch"
)

type blockingExecutor struct {
	release chan struct{}
}

func (e *blockingExecutor) Execute(ctx context.Context, job domain.DispatchJob) domain.DispatchResult {
	<-e.release
	return domain.DispatchResult{Job: job, Outcome: domain.OutcomeDelivered}
}

type healthBody struct {
	Status          string `json:"status"`
	DispatchQueue   int    `json:"dispatch_queue"`
	DispatchRunning bool   `json:"dispatch_running"`
}

func getHealth(t *testing.T, app *fiber.App) healthBody {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body healthBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth_ReportsDispatchQueue(t *testing.T) {
	exec := &blockingExecutor{release: make(chan struct{})}
	queue := dispatch.NewQueue(exec, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	app := fiber.New()
	setupRoutes(app, &handler.Handlers{}, queue, &config.Config{JWTSecret: "test-secret"})

	body := getHealth(t, app)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 0, body.DispatchQueue)
	assert.False(t, body.DispatchRunning)

	queue.Submit(domain.DispatchJob{Channel: domain.ChannelEmail})
	queue.Submit(domain.DispatchJob{Channel: domain.ChannelPush})

	body = getHealth(t, app)
	assert.True(t, body.DispatchRunning)
	assert.LessOrEqual(t, body.DispatchQueue, 2)
	assert.GreaterOrEqual(t, body.DispatchQueue, 1)

	close(exec.release)
	require.NoError(t, queue.Wait(context.Background()))

	body = getHealth(t, app)
	assert.Equal(t, 0, body.DispatchQueue)
	assert.False(t, body.DispatchRunning)
}
