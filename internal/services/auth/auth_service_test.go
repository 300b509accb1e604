package auth

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/barrio-api/internal/config"
	"github.com/rajivgeraev/barrio-api/internal/db/memory"
	"github.com/rajivgeraev/barrio-api/internal/middleware"
	"github.com/rajivgeraev/barrio-api/internal/models"
	"github.com/rajivgeraev/barrio-api/internal/utils"
)

const botToken = "123456:test-bot-token"

// signInitData подписывает initData так же, как это делает Telegram
func signInitData(t *testing.T, values url.Values) string {
	t.Helper()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	h := hmac.New(sha256.New, secret.Sum(nil))
	h.Write([]byte(strings.Join(pairs, "\n")))

	signed := url.Values{}
	for k := range values {
		signed.Set(k, values.Get(k))
	}
	signed.Set("hash", hex.EncodeToString(h.Sum(nil)))
	return signed.Encode()
}

func telegramInitData(t *testing.T, telegramID int64, authDate time.Time) string {
	t.Helper()
	user, err := json.Marshal(map[string]any{
		"id": telegramID, "first_name": "Lucía", "last_name": "García", "username": "lucia", "language_code": "es",
	})
	require.NoError(t, err)
	return signInitData(t, url.Values{
		"auth_date": {strconv.FormatInt(authDate.Unix(), 10)},
		"query_id":  {"AAH"},
		"user":      {string(user)},
	})
}

func newService(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.New()
	cfg := &config.Config{TelegramBotToken: botToken, TelegramInitTTL: time.Hour}
	return NewAuthService(cfg, store, store, utils.NewJWTService("secret", time.Hour)), store
}

func TestLoginCreatesUserOnce(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	raw := telegramInitData(t, 42, time.Now())

	token, user, err := svc.Login(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "Lucía", user.FirstName)
	assert.Equal(t, "lucia", user.Username)

	id, err := svc.GetJWTService().ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, again, err := svc.Login(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.NotNil(t, again.LastLoginAt)
}

func TestLoginRejectsBadInitData(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "user=%7B%22id%22%3A1%7D&auth_date=1&hash=deadbeef")
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusUnauthorized, fiberErr.Code)

	// подпись верна, но срок действия истёк
	_, _, err = svc.Login(ctx, telegramInitData(t, 42, time.Now().Add(-2*time.Hour)))
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusUnauthorized, fiberErr.Code)
}

func TestUpdateProfile(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	user := store.AddUser(models.User{FirstName: "Lucía"})

	loc := models.Locality{ID: uuid.New(), Name: "Retiro", Country: models.DefaultCountry, Active: true}
	require.NoError(t, store.CreateLocality(ctx, &loc))

	missing := uuid.New()
	_, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{DefaultLocalityID: &missing})
	assert.True(t, models.IsKind(err, models.KindNotFound), "got %v", err)

	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{Phone: " +34 600 000 000 ", DefaultLocalityID: &loc.ID})
	require.NoError(t, err)
	assert.Equal(t, "+34 600 000 000", updated.Phone)
	assert.Equal(t, loc.ID, *updated.DefaultLocalityID)

	profile, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, loc.ID, *profile.DefaultLocalityID)

	_, err = svc.Profile(ctx, uuid.New())
	assert.True(t, models.IsKind(err, models.KindNotFound))
}

func TestAuthRoutes(t *testing.T) {
	svc, _ := newService(t)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler, StructValidator: utils.NewStructValidator()})
	svc.SetupRoutes(app, middleware.AuthMiddleware(svc.GetJWTService()))

	body, _ := json.Marshal(map[string]string{"init_data": telegramInitData(t, 7, time.Now())})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/telegram", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login.Token)

	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body, _ = json.Marshal(map[string]string{"init_data": ""})
	req = httptest.NewRequest(http.MethodPost, "/api/auth/telegram", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
