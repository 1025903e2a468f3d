package tests

import (
	"testing"

	"green_erp/erp/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitUsersAndLogin(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	logins := []struct {
		username string
		password string
		role     string
	}{
		{adminUsername, adminPassword, schema.RoleAdmin},
		{procUsername, procPassword, schema.RoleProcurement},
		{sustUsername, sustPassword, schema.RoleSustainability},
	}

	for _, login := range logins {
		c := env.loginAs(t, login.username, login.password)
		assert.Equal(t, login.role, c.role)

		var info userInfo
		require.NoError(t, c.Get("/auth/me").Do(&info))
		assert.Equal(t, login.username, info.Username)
		assert.Equal(t, login.role, info.Role)
		assert.NotEqual(t, "", info.Id.String())
	}
}

func TestInitUsersTwice(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	err := newHttpTestRequest(env.api, "POST", "/auth/init-users").Do(nil)
	require.ErrorIs(t, err, ErrBadRequest)

	// The existing accounts are untouched and still usable.
	var users []schema.User
	require.NoError(t, env.db.Find(&users).Error)
	assert.Len(t, users, 3)

	env.admin(t)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	c := client{api: env.api}

	wrongPassword := c.login(adminUsername, "not-the-password")
	require.ErrorIs(t, wrongPassword, ErrUnauthorized)

	unknownUser := c.login("no_such_user", adminPassword)
	require.ErrorIs(t, unknownUser, ErrUnauthorized)
}

func TestMeAfterUserDeleted(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	c := env.procurement(t)

	// The token is still valid but its user row is gone.
	require.NoError(t, env.db.Delete(&schema.User{}, "username = ?", procUsername).Error)

	require.ErrorIs(t, c.Get("/auth/me").Do(nil), ErrNotFound)
}

func TestLoginMissingFields(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	c := client{api: env.api}
	err := c.Post("/auth/login").Json(map[string]string{"username": adminUsername}).Do(nil)
	require.ErrorIs(t, err, ErrBadRequest)
}

func TestRequestsWithoutToken(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	c := client{api: env.api}

	require.ErrorIs(t, c.Get("/auth/me").Do(nil), ErrUnauthorized)
	require.ErrorIs(t, c.Get("/items/").Do(nil), ErrUnauthorized)
	require.ErrorIs(t, c.Get("/purchase-orders/").Do(nil), ErrUnauthorized)

	garbage := client{api: env.api, authToken: "not-a-token"}
	require.ErrorIs(t, garbage.Get("/auth/me").Do(nil), ErrUnauthorized)
}

func TestPing(t *testing.T) {
	env := setupTestEnv(t)

	var res map[string]string
	require.NoError(t, newHttpTestRequest(env.api, "GET", "/ping").Do(&res))
	assert.Equal(t, "pong", res["message"])
}
