package transaction

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/barrio-api/internal/middleware"
	"github.com/rajivgeraev/barrio-api/internal/models"
	"github.com/rajivgeraev/barrio-api/internal/utils"
)

type routesFixture struct {
	*world
	app *fiber.App
	jwt *utils.JWTService
}

func newRoutesFixture(t *testing.T) *routesFixture {
	t.Helper()
	w := newWorld(t, models.AvailabilityLoan)
	jwtService := utils.NewJWTService("secret", time.Hour)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler, StructValidator: utils.NewStructValidator()})
	w.svc.SetupRoutes(app, middleware.AuthMiddleware(jwtService))
	return &routesFixture{world: w, app: app, jwt: jwtService}
}

func (f *routesFixture) do(t *testing.T, method, path string, userID uuid.UUID, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		token, err := f.jwt.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func TestRequestRoutesLifecycle(t *testing.T) {
	f := newRoutesFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/requests", uuid.Nil, map[string]any{"listing_id": f.listing.ID, "type": "PR"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := f.do(t, http.MethodPost, "/api/requests", f.requester.ID, map[string]any{"listing_id": f.listing.ID, "type": "PR"})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "PE", body["state"])
	id := body["id"].(string)

	status, body = f.do(t, http.MethodPost, "/api/requests/"+id+"/accept", f.requester.ID, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "permission_denied", body["code"])

	status, body = f.do(t, http.MethodPost, "/api/requests/"+id+"/accept", f.owner.ID, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "AC", body["state"])

	status, body = f.do(t, http.MethodPost, "/api/requests/"+id+"/reject", f.owner.ID, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "state_conflict", body["code"])

	status, _ = f.do(t, http.MethodPost, "/api/requests/"+id+"/begin", f.owner.ID, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = f.do(t, http.MethodPost, "/api/requests/"+id+"/complete", f.owner.ID, map[string]any{"confirm_return": true})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "CO", body["state"])
	assert.Equal(t, true, body["return_confirmed"])

	status, body = f.do(t, http.MethodGet, "/api/requests?role=outgoing&state=CO", f.requester.ID, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["requests"], 1)
}

func TestRequestRoutesErrors(t *testing.T) {
	f := newRoutesFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/requests", f.requester.ID, map[string]any{"listing_id": f.listing.ID, "type": "XX"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["code"])

	status, body = f.do(t, http.MethodPost, "/api/requests", f.requester.ID, map[string]any{"listing_id": uuid.New(), "type": "PR"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", body["code"])

	status, _ = f.do(t, http.MethodGet, "/api/requests/not-a-uuid", f.requester.ID, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodGet, "/api/requests/"+uuid.NewString(), f.requester.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRequestRoutesMalformedBody(t *testing.T) {
	f := newRoutesFixture(t)

	bodies := map[string]string{
		"bad uuid":      `{"listing_id":"not-a-uuid","type":"PR"}`,
		"bad timestamp": `{"listing_id":"` + f.listing.ID.String() + `","type":"PR","desired_start":"yesterday"}`,
		"broken json":   `{not json`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			status, out := f.do(t, http.MethodPost, "/api/requests", f.requester.ID, body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, "validation_error", out["code"])
			assert.Equal(t, "Неверный формат данных", out["error"])
		})
	}

	status, body := f.do(t, http.MethodPost, "/api/requests", f.requester.ID, map[string]any{"listing_id": f.listing.ID, "type": "PR", "state": "AC"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["code"])
}
