package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/barrio-api/internal/events"
	"github.com/rajivgeraev/barrio-api/internal/middleware"
	"github.com/rajivgeraev/barrio-api/internal/models"
	"github.com/rajivgeraev/barrio-api/internal/utils"
)

func event(recipients ...uuid.UUID) events.RequestEvent {
	return events.RequestEvent{
		Type: events.EventRequestAccepted, RequestID: uuid.New(), State: models.StateAccepted,
		Recipients: recipients, Timestamp: time.Now(),
	}
}

func TestDeliverOnlyToRecipients(t *testing.T) {
	hub := NewHub(10)
	ana, bea := uuid.New(), uuid.New()

	hub.Deliver(event(ana))
	assert.Len(t, hub.Drain(context.Background(), ana, 0), 1)
	assert.Empty(t, hub.Drain(context.Background(), ana, 0))
	assert.Empty(t, hub.Drain(context.Background(), bea, 0))
}

func TestInboxKeepsNewest(t *testing.T) {
	hub := NewHub(2)
	ana := uuid.New()

	var last uuid.UUID
	for range 5 {
		e := event(ana)
		last = e.RequestID
		hub.Deliver(e)
	}

	got := hub.Drain(context.Background(), ana, 0)
	require.Len(t, got, 2)
	assert.Equal(t, last, got[1].RequestID)
}

func TestDrainWaitsForDelivery(t *testing.T) {
	hub := NewHub(10)
	ana := uuid.New()

	go func() {
		time.Sleep(20 * time.Millisecond)
		hub.Deliver(event(ana))
	}()

	got := hub.Drain(context.Background(), ana, time.Second)
	assert.Len(t, got, 1)
}

func TestDrainTimesOutAndShutdownWakes(t *testing.T) {
	hub := NewHub(10)
	ana := uuid.New()

	start := time.Now()
	assert.Empty(t, hub.Drain(context.Background(), ana, 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	done := make(chan struct{})
	go func() {
		hub.Drain(context.Background(), ana, time.Minute)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	hub.Shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter was not released on shutdown")
	}
}

func TestRunConsumesSubscription(t *testing.T) {
	hub := NewHub(10)
	ana := uuid.New()

	in := make(chan events.RequestEvent, 1)
	in <- event(ana)
	close(in)
	hub.Run(in)

	assert.Len(t, hub.Drain(context.Background(), ana, 0), 1)
}

func TestPollRoute(t *testing.T) {
	hub := NewHub(10)
	jwtService := utils.NewJWTService("secret", time.Hour)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	hub.SetupRoutes(app, middleware.AuthMiddleware(jwtService))

	ana := uuid.New()
	require.NoError(t, hub.PublishRequestEvent(context.Background(), event(ana)))

	token, err := jwtService.GenerateToken(ana)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Events []events.RequestEvent `json:"events"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Events, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/notifications?wait=soon", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
