package tests

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierCrud(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	proc := env.procurement(t)

	var created supplierInfo
	err := proc.Post("/suppliers/").Json(map[string]interface{}{
		"name":                 "EcoSupply GmbH",
		"contact_email":        "sales@ecosupply.example",
		"phone":                "+49 30 1234567",
		"address":              "Berlin",
		"sustainability_score": 8.5,
		"certifications":       "ISO 14001",
	}).Do(&created)
	require.NoError(t, err)
	assert.Equal(t, "EcoSupply GmbH", created.Name)
	assert.Equal(t, 8.5, created.SustainabilityScore)

	var suppliers []supplierInfo
	require.NoError(t, proc.Get("/suppliers/").Do(&suppliers))
	require.Len(t, suppliers, 1)

	var fetched supplierInfo
	require.NoError(t, proc.Get(fmt.Sprintf("/suppliers/%v", created.Id)).Do(&fetched))
	assert.Equal(t, created.Id, fetched.Id)
}

func TestSupplierPartialUpdate(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	proc := env.procurement(t)

	var created supplierInfo
	err := proc.Post("/suppliers/").Json(map[string]interface{}{
		"name":                 "GreenParts",
		"contact_email":        "info@greenparts.example",
		"sustainability_score": 6.0,
	}).Do(&created)
	require.NoError(t, err)

	var updated supplierInfo
	err = proc.Put(fmt.Sprintf("/suppliers/%v", created.Id)).Json(map[string]interface{}{
		"sustainability_score": 7.5,
	}).Do(&updated)
	require.NoError(t, err)

	assert.Equal(t, 7.5, updated.SustainabilityScore)
	assert.Equal(t, "GreenParts", updated.Name)
	assert.Equal(t, "info@greenparts.example", updated.ContactEmail)
}

func TestSupplierValidationAndRoles(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	proc := env.procurement(t)
	sust := env.sustainability(t)

	err := proc.Post("/suppliers/").Json(map[string]interface{}{"phone": "12345"}).Do(nil)
	require.ErrorIs(t, err, ErrBadRequest)

	err = sust.Post("/suppliers/").Json(map[string]interface{}{"name": "Denied Inc"}).Do(nil)
	require.ErrorIs(t, err, ErrForbidden)

	var created supplierInfo
	require.NoError(t, proc.Post("/suppliers/").Json(map[string]interface{}{"name": "Allowed Inc"}).Do(&created))

	err = proc.Delete(fmt.Sprintf("/suppliers/%v", created.Id)).Do(nil)
	require.ErrorIs(t, err, ErrForbidden)

	admin := env.admin(t)
	require.NoError(t, admin.Delete(fmt.Sprintf("/suppliers/%v", created.Id)).Do(nil))
	require.ErrorIs(t, admin.Get(fmt.Sprintf("/suppliers/%v", created.Id)).Do(nil), ErrNotFound)
}
