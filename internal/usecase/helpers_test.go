package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trifoody/internal/adapter/repository/memory"
	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
)

type fixture struct {
	store        *memory.Store
	users        repository.UserRepository
	products     repository.ProductRepository
	transactions repository.TransactionRepository
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		store:        store,
		users:        store.Users(),
		products:     store.Products(),
		transactions: store.Transactions(),
	}
}

func (f *fixture) seedUser(t *testing.T, id string, role entity.Role) {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), &entity.UserProfile{
		UserID:   id,
		Username: id,
		UserType: role,
	}))
}

func (f *fixture) seedProduct(t *testing.T, title, ownerID string, ownerType entity.Role, trading bool) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Title:     title,
		Price:     10,
		OwnerID:   ownerID,
		OwnerType: ownerType,
		IsTrading: trading,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

// viewRecorder collects published feed views.
type viewRecorder struct {
	views chan entity.FeedView
}

func newViewRecorder() *viewRecorder {
	return &viewRecorder{views: make(chan entity.FeedView, 64)}
}

func (r *viewRecorder) publish(v entity.FeedView) {
	r.views <- v
}

// waitFor returns the first view that satisfies match, failing the test after a second.
func (r *viewRecorder) waitFor(t *testing.T, match func(entity.FeedView) bool) entity.FeedView {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case v := <-r.views:
			if match(v) {
				return v
			}
		case <-deadline:
			t.Fatal("expected feed view was never published")
			return entity.FeedView{}
		}
	}
}

func titles(products []*entity.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}

type mockAuthProvider struct {
	mock.Mock
}

func (m *mockAuthProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	args := m.Called(ctx, email, password, displayName)
	return args.String(0), args.Error(1)
}

func (m *mockAuthProvider) DeleteUser(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *mockAuthProvider) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if s, ok := args.Get(0).(*entity.AuthSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *mockAuthProvider) RevokeSession(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *mockAuthProvider) SendPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type fakeObjectStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	uploadErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *fakeObjectStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *fakeObjectStore) Download(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.NotFound("object", nil)
	}
	if int64(len(data)) > maxBytes {
		return nil, errors.BadRequest(fmt.Sprintf("object exceeds %d bytes", maxBytes), nil)
	}
	return bytes.Clone(data), nil
}

func (s *fakeObjectStore) PublicURL(ctx context.Context, key string) (string, error) {
	return "https://storage.example.com/bucket/" + key, nil
}

type fakeLaunchStore struct {
	launched map[string]bool
	err      error
}

func (s *fakeLaunchStore) MarkLaunched(deviceID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.launched == nil {
		s.launched = map[string]bool{}
	}
	first := !s.launched[deviceID]
	s.launched[deviceID] = true
	return first, nil
}
