// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/constants"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
	"github.com/krishjaiswal09/portal-sub005/internal/users/auth"
)

// # Test Helpers

// flakyStorage wraps a Storage and fails selected operations.
type flakyStorage struct {
	auth.Storage
	failSet    bool
	failGet    bool
	failRemove bool
}

var errStorageDown = errors.New("storage down")

func (storage *flakyStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if storage.failGet {
		return "", false, errStorageDown
	}
	return storage.Storage.GetItem(ctx, key)
}

func (storage *flakyStorage) SetItem(ctx context.Context, key, value string) error {
	if storage.failSet {
		return errStorageDown
	}
	return storage.Storage.SetItem(ctx, key, value)
}

func (storage *flakyStorage) RemoveItem(ctx context.Context, key string) error {
	if storage.failRemove {
		return errStorageDown
	}
	return storage.Storage.RemoveItem(ctx, key)
}

func newMemoryStorage(sessionID string) auth.Storage {
	return auth.NewMemorySessionStore(time.Hour, time.Minute).Scope(sessionID)
}

func mustParse(t *testing.T, payload string) *auth.LoginResponse {
	t.Helper()
	response, err := auth.ParseLoginResponse([]byte(payload))
	require.NoError(t, err)
	return response
}

// # Login

func TestState_LoginDerivesNameAndRole(t *testing.T) {
	state := auth.NewState(newMemoryStorage("s1"))

	ok, err := state.Login(context.Background(), mustParse(t, `{"user":{"email":"jane.doe@x.com","roles":["admin"]}}`))
	require.NoError(t, err)
	require.True(t, ok)

	user := state.User()
	require.NotNil(t, user)
	assert.Equal(t, sec.RoleAdmin, user.Role)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jane.doe@x.com", user.Email)
	assert.True(t, state.IsAuthenticated())
	assert.Equal(t, sec.RoleAdmin, state.Role())
}

func TestState_LoginDefaults(t *testing.T) {
	state := auth.NewState(newMemoryStorage("s1"))

	ok, err := state.Login(context.Background(), mustParse(t, `{"user":{}}`))
	require.NoError(t, err)
	require.True(t, ok)

	user := state.User()
	assert.Equal(t, "", user.Email)
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, sec.RoleStudent, user.Role)
	assert.Equal(t, []string{}, user.Roles)
	assert.Equal(t, []auth.PermissionGrant{}, user.Permissions)
}

func TestState_LoginWithoutUserLeavesStateUntouched(t *testing.T) {
	storage := newMemoryStorage("s1")
	state := auth.NewState(storage)

	for _, response := range []*auth.LoginResponse{nil, {}, mustParse(t, `{"user":null}`)} {
		ok, err := state.Login(context.Background(), response)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	assert.False(t, state.IsAuthenticated())
	assert.Nil(t, state.User())

	_, found, err := storage.GetItem(context.Background(), constants.StorageKeyAuthenticated)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestState_LoginStorageFailure(t *testing.T) {
	state := auth.NewState(&flakyStorage{Storage: newMemoryStorage("s1"), failSet: true})

	ok, err := state.Login(context.Background(), mustParse(t, `{"user":{"email":"a@x.com"}}`))
	assert.False(t, ok)
	assert.ErrorIs(t, err, errStorageDown)
	assert.False(t, state.IsAuthenticated())
}

func TestState_LoginAfterCancellationStoresNothing(t *testing.T) {
	storage := newMemoryStorage("s1")
	state := auth.NewState(storage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := state.Login(ctx, mustParse(t, `{"user":{"email":"a@x.com"}}`))
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)

	_, found, _ := storage.GetItem(context.Background(), constants.StorageKeyUser)
	assert.False(t, found)
}

// # Restore

func TestState_LoginRestoreRoundTrip(t *testing.T) {
	storage := newMemoryStorage("s1")
	payload := `{"user":{
		"id": 9,
		"email": "ada@x.com",
		"first_name": "Ada",
		"last_name": "Lovelace",
		"timezone": "Europe/London",
		"roles": ["support_and_sales", "instructor"],
		"permissions": [{"code":"reports.export","group":"reports","value":"1","description":"Export <csv>"}],
		"credits": {"balance": 3, "note": "a&b"}
	}}`

	loggedIn := auth.NewState(storage)
	ok, err := loggedIn.Login(context.Background(), mustParse(t, payload))
	require.NoError(t, err)
	require.True(t, ok)

	reloaded := auth.NewState(storage)
	restored, err := reloaded.RestoreSession(context.Background())
	require.NoError(t, err)
	require.True(t, restored)

	assert.Equal(t, loggedIn.User(), reloaded.User())
	assert.Equal(t, sec.RoleSupportStaff, reloaded.Role())
}

func TestState_RestoreRequiresFlagAndUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup map[string]string
	}{
		{"empty_storage", nil},
		{"flag_only", map[string]string{constants.StorageKeyAuthenticated: "true"}},
		{"user_only", map[string]string{constants.StorageKeyUser: `{"id":1,"role":"admin"}`}},
		{"flag_false", map[string]string{constants.StorageKeyAuthenticated: "false", constants.StorageKeyUser: `{"id":1,"role":"admin"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newMemoryStorage(tt.name)
			for key, value := range tt.setup {
				require.NoError(t, storage.SetItem(ctx, key, value))
			}

			state := auth.NewState(storage)
			restored, err := state.RestoreSession(ctx)
			require.NoError(t, err)
			assert.False(t, restored)
			assert.False(t, state.IsAuthenticated())
		})
	}
}

func TestState_RestoreCorruptRecord(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage("s1")
	require.NoError(t, storage.SetItem(ctx, constants.StorageKeyAuthenticated, "true"))
	require.NoError(t, storage.SetItem(ctx, constants.StorageKeyUser, `{"role":"emperor"}`))

	state := auth.NewState(storage)
	restored, err := state.RestoreSession(ctx)
	assert.False(t, restored)
	assert.ErrorIs(t, err, auth.ErrCorruptSession)
}

func TestState_RestoreStorageFailure(t *testing.T) {
	state := auth.NewState(&flakyStorage{Storage: newMemoryStorage("s1"), failGet: true})

	restored, err := state.RestoreSession(context.Background())
	assert.False(t, restored)
	assert.ErrorIs(t, err, errStorageDown)
}

// # Logout

func TestState_Logout(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage("s1")
	state := auth.NewState(storage)

	_, err := state.Login(ctx, mustParse(t, `{"user":{"email":"a@x.com","roles":["admin"]}}`))
	require.NoError(t, err)

	require.NoError(t, state.Logout(ctx))
	assert.False(t, state.IsAuthenticated())
	assert.Nil(t, state.User())
	assert.Equal(t, sec.UserRole(""), state.Role())

	restored, err := auth.NewState(storage).RestoreSession(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestState_LogoutClearsMemoryEvenWhenStorageFails(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStorage{Storage: newMemoryStorage("s1")}
	state := auth.NewState(flaky)

	_, err := state.Login(ctx, mustParse(t, `{"user":{"email":"a@x.com"}}`))
	require.NoError(t, err)

	flaky.failRemove = true
	err = state.Logout(ctx)
	assert.ErrorIs(t, err, errStorageDown)
	assert.False(t, state.IsAuthenticated())
	assert.False(t, state.HasAnyPermission("reports"))
}

// # Permissions

func TestState_ReportPermissions(t *testing.T) {
	tests := []struct {
		roles []string
		want  sec.ReportPermissions
	}{
		{[]string{"student"}, sec.ReportPermissions{CanViewReports: true}},
		{[]string{"parent"}, sec.ReportPermissions{CanViewReports: true}},
		{[]string{"instructor"}, sec.ReportPermissions{CanViewReports: true}},
		{[]string{"support_and_sales"}, sec.ReportPermissions{CanViewReports: true, CanViewAllData: true}},
		{[]string{"admin"}, sec.ReportPermissions{CanViewReports: true, CanViewAllData: true}},
		{[]string{"super_admin"}, sec.ReportPermissions{CanViewReports: true, CanExportReports: true, CanViewAllData: true}},
	}

	for _, tt := range tests {
		t.Run(tt.roles[0], func(t *testing.T) {
			state := auth.NewState(newMemoryStorage("s1"))
			_, err := state.Login(context.Background(), &auth.LoginResponse{User: &auth.LoginUser{Roles: tt.roles}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, state.ReportPermissions())
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		assert.Equal(t, sec.ReportPermissions{}, auth.NewState(newMemoryStorage("s1")).ReportPermissions())
	})
}

func TestState_HasPermission(t *testing.T) {
	ctx := context.Background()

	anonymous := auth.NewState(newMemoryStorage("anon"))
	assert.False(t, anonymous.HasPermission("reports.export"))

	empty := auth.NewState(newMemoryStorage("empty"))
	_, err := empty.Login(ctx, mustParse(t, `{"user":{"roles":["super_admin"]}}`))
	require.NoError(t, err)
	for _, code := range []string{"", "reports.export", "anything"} {
		assert.False(t, empty.HasPermission(code), code)
	}

	granted := auth.NewState(newMemoryStorage("granted"))
	_, err = granted.Login(ctx, mustParse(t, `{"user":{"permissions":[{"code":"reports.export","group":"reports"}]}}`))
	require.NoError(t, err)
	assert.True(t, granted.HasPermission("reports.export"))
	assert.False(t, granted.HasPermission("reports.view"))
	assert.True(t, granted.HasAnyPermission("reports"))
	assert.False(t, granted.HasAnyPermission("billing"))
}

func TestState_ConcurrentReaders(t *testing.T) {
	state := auth.NewState(newMemoryStorage("s1"))
	_, err := state.Login(context.Background(), mustParse(t, `{"user":{"roles":["admin"]}}`))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = state.Role()
			_ = state.User()
			_ = state.HasPermission("x")
		}()
	}
	wg.Wait()
}
