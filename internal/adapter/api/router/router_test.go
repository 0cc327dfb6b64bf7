package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trifoody/internal/adapter/api"
	"trifoody/internal/adapter/api/handler"
	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/adapter/repository/memory"
	"trifoody/internal/domain/entity"
	"trifoody/internal/infrastructure/launchstate"
	"trifoody/internal/infrastructure/ratelimit"
	ws "trifoody/internal/infrastructure/websocket"
	"trifoody/internal/usecase"
	"trifoody/pkg/errors"
)

// fakeAuth is an in-memory identity provider. Tokens are "token-<uid>".
type fakeAuth struct {
	mu    sync.Mutex
	users map[string][2]string
}

func (a *fakeAuth) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.users[email]; ok {
		return "", errors.Conflict("Email already in use")
	}
	uid := fmt.Sprintf("uid-%d", len(a.users)+1)
	a.users[email] = [2]string{uid, password}
	return uid, nil
}

func (a *fakeAuth) DeleteUser(ctx context.Context, uid string) error { return nil }

func (a *fakeAuth) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.users[email]
	if !ok || u[1] != password {
		return nil, errors.Unauthorized("Invalid email or password", nil)
	}
	return &entity.AuthSession{UserID: u[0], IDToken: "token-" + u[0], RefreshToken: "refresh"}, nil
}

func (a *fakeAuth) VerifyToken(ctx context.Context, token string) (string, error) {
	if !strings.HasPrefix(token, "token-") {
		return "", errors.Unauthorized("bad token", nil)
	}
	return strings.TrimPrefix(token, "token-"), nil
}

func (a *fakeAuth) RevokeSession(ctx context.Context, uid string) error { return nil }
func (a *fakeAuth) SendPasswordReset(ctx context.Context, email string) error { return nil }

type memObjects struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memObjects) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memObjects) Download(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, errors.NotFound("object", nil)
	}
	return b, nil
}

func (m *memObjects) PublicURL(ctx context.Context, key string) (string, error) {
	return "https://storage.example.com/" + key, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	store := memory.NewStore()
	auth := &fakeAuth{users: map[string][2]string{}}

	launches, err := launchstate.NewFileStore(filepath.Join(t.TempDir(), "launch.json"))
	require.NoError(t, err)

	feedUseCase := usecase.NewFeedUseCase(store.Products(), store.Transactions(), store.Users())
	handler.Setup(
		usecase.NewAuthUseCase(store.Users(), auth),
		usecase.NewNavigationUseCase(store.Users(), launches),
		usecase.NewProfileUseCase(store.Users(), &memObjects{data: map[string][]byte{}}, 5),
		usecase.NewListingUseCase(store.Products(), store.Users()),
		usecase.NewTradeUseCase(store.Products(), store.Transactions(), store.Users()),
		feedUseCase,
	)
	handler.SetupHealthHandler(nil, "memory")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	wsManager := ws.NewManager(feedUseCase)
	wsManager.Start(ctx)

	e := echo.New()
	e.Validator = api.NewValidator()
	Setup(e, middleware.NewAuthMiddleware(auth), Limiters{
		Auth:     ratelimit.NewRateLimiter(100, time.Minute, 100),
		Mutation: ratelimit.NewRateLimiter(100, time.Minute, 100),
	}, handler.NewWebSocketHandler(wsManager))
	return e
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func signUp(t *testing.T, e *echo.Echo, email, userType string) string {
	t.Helper()
	code, env := do(t, e, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email": email, "password": "secret1", "username": email, "user_type": userType,
	})
	require.Equal(t, http.StatusCreated, code, string(env.Data))

	var result usecase.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	return result.Session.IDToken
}

func TestHealthCheck(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestSignUpAndSignInRouteBusinessHome(t *testing.T) {
	e := newTestServer(t)
	signUp(t, e, "shop@example.com", "business")

	code, env := do(t, e, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"email": "shop@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, code)

	var result usecase.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, entity.ScreenBusinessHome, result.Screen)

	code, env = do(t, e, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"email": "shop@example.com", "password": "wrong1",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, errors.CodeUnauthorized, env.Error.Code)
}

func TestSignUpValidation(t *testing.T) {
	e := newTestServer(t)

	code, env := do(t, e, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email": "x@example.com", "password": "secret1", "username": "x", "user_type": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestBikeScenarioOverHTTP(t *testing.T) {
	e := newTestServer(t)
	charity := signUp(t, e, "pantry@example.com", "charity")
	business := signUp(t, e, "bakery@example.com", "business")

	code, env := do(t, e, http.MethodPost, "/v1/listings", business, map[string]string{"title": "Bike", "price": "45.00"})
	require.Equal(t, http.StatusCreated, code)
	var bike entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &bike))

	code, _ = do(t, e, http.MethodGet, "/v1/feeds/trading", business, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, e, http.MethodPost, "/v1/listings", charity, map[string]string{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, e, http.MethodPost, "/v1/transactions", charity, map[string]string{"product_id": bike.ID})
	require.Equal(t, http.StatusCreated, code)

	code, env = do(t, e, http.MethodPost, "/v1/transactions", charity, map[string]string{"product_id": bike.ID})
	assert.Equal(t, http.StatusConflict, code)

	var view entity.FeedView
	_, env = do(t, e, http.MethodGet, "/v1/feeds/trading", charity, nil)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Products, 1)
	assert.Equal(t, "Bike", view.Products[0].Title)
	assert.Equal(t, 45.00, view.Products[0].Price)

	_, env = do(t, e, http.MethodGet, "/v1/feeds/trading", business, nil)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Products, 1)
	assert.True(t, view.Products[0].IsTrading)
}

func TestFeedPaging(t *testing.T) {
	e := newTestServer(t)
	charity := signUp(t, e, "pantry@example.com", "charity")
	business := signUp(t, e, "bakery@example.com", "business")

	for _, title := range []string{"Bread", "Soup", "Apples"} {
		code, _ := do(t, e, http.MethodPost, "/v1/listings", business, map[string]string{"title": title})
		require.Equal(t, http.StatusCreated, code)
	}

	var page struct {
		Products []entity.Product `json:"products"`
		Total    int              `json:"total"`
		Page     int              `json:"page"`
		Limit    int              `json:"limit"`
	}
	code, env := do(t, e, http.MethodGet, "/v1/feeds/browse?page=2&limit=2", charity, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Products, 1)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)

	_, env = do(t, e, http.MethodGet, "/v1/feeds/browse", charity, nil)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Products, 3)
}

func TestProfileMergeOverHTTP(t *testing.T) {
	e := newTestServer(t)
	token := signUp(t, e, "pantry@example.com", "charity")

	code, _ := do(t, e, http.MethodPatch, "/v1/me/profile", token, map[string]string{"username": "Pantry"})
	require.Equal(t, http.StatusOK, code)
	code, env := do(t, e, http.MethodPatch, "/v1/me/profile", token, map[string]string{"address": "2 Side St"})
	require.Equal(t, http.StatusOK, code)

	var profile entity.UserProfile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Pantry", profile.Username)
	assert.Equal(t, "2 Side St", profile.Address)

	code, _ = do(t, e, http.MethodGet, "/v1/me/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestProfileImageUpload(t *testing.T) {
	e := newTestServer(t)
	token := signUp(t, e, "solo@example.com", "individual")

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "me.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/v1/me/profile/image", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "profileImages/uid-1.jpg")

	req = httptest.NewRequest(http.MethodGet, "/v1/me/profile/image", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get(echo.HeaderContentType))
}

func TestAppEntry(t *testing.T) {
	e := newTestServer(t)
	token := signUp(t, e, "pantry@example.com", "charity")

	entry := func() usecase.EntryResult {
		req := httptest.NewRequest(http.MethodGet, "/v1/app/entry", nil)
		req.Header.Set(handler.HeaderDeviceID, "0b6e4c1d-8f2a-4c3b-9d5e-7a1f2b3c4d5e")
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		var result usecase.EntryResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		return result
	}

	first := entry()
	assert.True(t, first.FirstLaunch)
	assert.Equal(t, entity.ScreenStart, first.Screen)

	second := entry()
	assert.False(t, second.FirstLaunch)
	assert.Equal(t, entity.ScreenCharityHome, second.Screen)

	code, env := do(t, e, http.MethodGet, "/v1/me/home", token, nil)
	require.Equal(t, http.StatusOK, code)
	var cfg entity.RoleConfig
	require.NoError(t, json.Unmarshal(env.Data, &cfg))
	assert.False(t, cfg.CanList)
}

func TestAppEntryRejectsOversizedDeviceID(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/app/entry", nil)
	req.Header.Set(handler.HeaderDeviceID, strings.Repeat("x", 10000))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppEntryIsRateLimited(t *testing.T) {
	e := newTestServer(t)

	code := http.StatusOK
	for i := 0; i < 150 && code != http.StatusTooManyRequests; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/app/entry", nil)
		req.Header.Set(handler.HeaderDeviceID, uuid.NewString())
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		code = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, code)
}

func TestCreateListingLengthCaps(t *testing.T) {
	e := newTestServer(t)
	business := signUp(t, e, "bakery@example.com", "business")

	code, _ := do(t, e, http.MethodPost, "/v1/listings", business, map[string]string{"title": strings.Repeat("b", 201)})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, e, http.MethodPost, "/v1/listings", business, map[string]string{"title": strings.Repeat("b", 200), "price": "cheap"})
	assert.Equal(t, http.StatusCreated, code)
}
