package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/v3blogs/api-go/models"
	"github.com/v3blogs/api-go/testutil"
)

type mockMailer struct {
	mu     sync.Mutex
	tokens map[uint]string
	err    error
}

func (m *mockMailer) SendPasswordReset(_ context.Context, user *models.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.tokens == nil {
		m.tokens = make(map[uint]string)
	}
	m.tokens[user.ID] = token
	return nil
}

type memoryStore struct {
	mu      sync.Mutex
	objects   map[string]string
	putErr    error
	deleteErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string]string)}
}

func (m *memoryStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = string(data)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) URL(key string) string {
	return "https://cdn.example.com/" + key
}

func (m *memoryStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// fixedClock returns a clock reading t that tests can advance.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newAuthService(t *testing.T, db *gorm.DB) (*AuthService, *mockMailer) {
	t.Helper()
	m := &mockMailer{}
	s := NewAuthService(db, testutil.Config(), m)
	s.hashCost = bcrypt.MinCost
	return s, m
}

func seedUsers(t *testing.T, db *gorm.DB, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(names))
	for _, n := range names {
		users = append(users, testutil.CreateUser(t, db, n))
	}
	return users
}

func postBodies(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Body)
	}
	return out
}

func usernames(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
