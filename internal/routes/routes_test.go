package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mfspay/mfs_backend/internal/auth"
	"github.com/mfspay/mfs_backend/internal/config"
	"github.com/mfspay/mfs_backend/internal/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppName:        "MFSPay",
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		LoginRateLimit: 100,
	}
}

func setupApp(t *testing.T) (*fiber.App, config.Config) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	cfg := testConfig()
	app := fiber.New()
	require.NoError(t, Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logging.Discard()}))
	return app, cfg
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && json.Unmarshal(raw, &decoded) != nil {
		decoded = map[string]any{"_raw": string(raw)}
	}
	return resp, decoded
}

func registerAccount(t *testing.T, app *fiber.App, kind, name, pin, mobile, email string) map[string]any {
	t.Helper()
	body := `{"name":"` + name + `","pin":"` + pin + `","mobile_number":"` + mobile + `","email":"` + email + `"}`
	resp, decoded := doJSON(t, app, fiber.MethodPost, "/api/v1/"+kind+"/register", body, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register %s: %v", kind, decoded)
	return decoded
}

func TestLiveness(t *testing.T) {
	app, _ := setupApp(t)
	resp, decoded := doJSON(t, app, fiber.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "MFS backend is running", decoded["_raw"])
}

func TestHealthz(t *testing.T) {
	app, _ := setupApp(t)
	resp, _ := doJSON(t, app, fiber.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterLoginBalanceFlow(t *testing.T) {
	app, _ := setupApp(t)

	created := registerAccount(t, app, "user", "A", "1234", "0170000000", "a@x.com")
	require.NotEmpty(t, created["id"])
	require.Equal(t, "active", created["status"])
	require.EqualValues(t, 0, created["balance"])

	resp, login := doJSON(t, app, fiber.MethodPost, "/api/v1/user/login", `{"identifier":"a@x.com","pin":"1234"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "login: %v", login)
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	resp, balance := doJSON(t, app, fiber.MethodGet, "/api/v1/balance", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 0, balance["balance"])
	require.Equal(t, created["id"], balance["id"])

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/balance", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterDuplicate(t *testing.T) {
	app, _ := setupApp(t)

	registerAccount(t, app, "user", "A", "1234", "0170000000", "a@x.com")

	body := `{"name":"B","pin":"5678","mobile_number":"0170000000","email":"b@x.com"}`
	resp, decoded := doJSON(t, app, fiber.MethodPost, "/api/v1/user/register", body, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, "duplicate register: %v", decoded)
}

func TestRegisterRejectsUnknownKind(t *testing.T) {
	app, _ := setupApp(t)
	body := `{"name":"A","pin":"1234","mobile_number":"0170000000","email":"a@x.com"}`
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/root/register", body, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	app, _ := setupApp(t)

	registerAccount(t, app, "user", "A", "1234", "0170000000", "a@x.com")

	respWrong, bodyWrong := doJSON(t, app, fiber.MethodPost, "/api/v1/user/login", `{"identifier":"a@x.com","pin":"9999"}`, "")
	respUnknown, bodyUnknown := doJSON(t, app, fiber.MethodPost, "/api/v1/user/login", `{"identifier":"nobody@x.com","pin":"1234"}`, "")

	require.Equal(t, http.StatusBadRequest, respWrong.StatusCode)
	require.Equal(t, respWrong.StatusCode, respUnknown.StatusCode)
	require.Equal(t, bodyWrong, bodyUnknown)
}

func TestExpiredTokenRejected(t *testing.T) {
	app, cfg := setupApp(t)

	expired, _, err := auth.Sign("acct-1", "A", "user", cfg.AppName, []byte(cfg.JWTSecret), -time.Minute)
	require.NoError(t, err)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/balance", "", expired)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminListingAndActivation(t *testing.T) {
	app, cfg := setupApp(t)

	registerAccount(t, app, "user", "A", "1234", "0170000000", "a@x.com")
	registerAccount(t, app, "user", "B", "5678", "0170000001", "b@x.com")
	agent := registerAccount(t, app, "agent", "Agent", "4321", "0180000000", "agent@x.com")
	require.Equal(t, "pending", agent["status"])

	adminToken, _, err := auth.Sign("admin-1", "Root", "admin", cfg.AppName, []byte(cfg.JWTSecret), cfg.TokenTTL)
	require.NoError(t, err)
	userToken, _, err := auth.Sign("user-1", "A", "user", cfg.AppName, []byte(cfg.JWTSecret), cfg.TokenTTL)
	require.NoError(t, err)

	// Listing requires the admin kind.
	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/admin/accounts/user", "", userToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, listing := doJSON(t, app, fiber.MethodGet, "/api/v1/admin/accounts/user", "", adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	accounts, ok := listing["accounts"].([]any)
	require.True(t, ok, "listing: %v", listing)
	require.Len(t, accounts, 2)
	for _, entry := range accounts {
		fields, ok := entry.(map[string]any)
		require.True(t, ok)
		require.NotContains(t, fields, "pin_hash")
		require.NotContains(t, fields, "PINHash")
	}

	// Pending agent cannot log in until activated.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/agent/login", `{"identifier":"agent@x.com","pin":"4321"}`, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	agentID, _ := agent["id"].(string)
	resp, activated := doJSON(t, app, fiber.MethodPost, "/api/v1/admin/accounts/agent/"+agentID+"/activate", "", adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, "activate: %v", activated)
	require.Equal(t, "active", activated["status"])

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/agent/login", `{"identifier":"agent@x.com","pin":"4321"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/admin/accounts/agent/unknown-id/activate", "", adminToken)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginRateLimitOnRoute(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	cfg := testConfig()
	cfg.LoginRateLimit = 2
	app := fiber.New()
	require.NoError(t, Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logging.Discard()}))

	body := `{"identifier":"a@x.com","pin":"1234"}`
	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/user/login", body, "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/user/login", body, "")
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
