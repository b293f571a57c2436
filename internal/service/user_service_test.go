package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/store"
)

// mockUserStore is a map-backed store.UserStore for service tests.
type mockUserStore struct {
	byID      map[uuid.UUID]*domain.User
	byEmail   map[string]*domain.User
	createErr error
}

func newMockUserStore(users ...*domain.User) *mockUserStore {
	m := &mockUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
	for _, u := range users {
		m.byID[u.ID] = u
		m.byEmail[u.Email] = u
	}
	return m
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStore) WithTx(_ *sql.Tx) store.UserStore { return m }

func newUserServiceFixture(t *testing.T, userStore store.UserStore) (UserService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewUserService(userStore, db, nil), mock
}

func TestCreateUser(t *testing.T) {
	userStore := newMockUserStore()
	svc, mock := newUserServiceFixture(t, userStore)

	mock.ExpectBegin()
	mock.ExpectCommit()

	user, err := svc.CreateUser(context.Background(), "student@example.com", "a-long-enough-password")
	require.NoError(t, err)

	assert.Equal(t, "student@example.com", user.Email)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())

	stored, err := userStore.GetByEmail(context.Background(), "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestCreateUserRejectsInvalidData(t *testing.T) {
	svc, _ := newUserServiceFixture(t, newMockUserStore())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"bad email", "not-an-email", "a-long-enough-password"},
		{"short password", "student@example.com", "short"},
		{"empty password", "student@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.email, tt.password)
			assert.Error(t, err)
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	existing, err := domain.NewUser("taken@example.com", "a-long-enough-password")
	require.NoError(t, err)
	existing.HashedPassword = "$2a$10$hash"

	svc, mock := newUserServiceFixture(t, newMockUserStore(existing))

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = svc.CreateUser(context.Background(), "taken@example.com", "a-long-enough-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUser(t *testing.T) {
	existing, err := domain.NewUser("student@example.com", "a-long-enough-password")
	require.NoError(t, err)

	svc, _ := newUserServiceFixture(t, newMockUserStore(existing))

	user, err := svc.GetUser(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.Email, user.Email)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestGetUserByEmail(t *testing.T) {
	existing, err := domain.NewUser("student@example.com", "a-long-enough-password")
	require.NoError(t, err)

	svc, _ := newUserServiceFixture(t, newMockUserStore(existing))

	user, err := svc.GetUserByEmail(context.Background(), "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)

	_, err = svc.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
