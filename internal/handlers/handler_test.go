package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberdir/memberdir-backend/internal/config"
	"github.com/memberdir/memberdir-backend/internal/dto"
	"github.com/memberdir/memberdir-backend/internal/lookup"
)

func TestLookupGet(t *testing.T) {
	cat := lookup.New(map[string][]string{
		"Karnataka": {"Bengaluru", "Mysuru"},
		"Delhi":     {"New Delhi"},
	})

	app := fiber.New()
	app.Get("/api/lookups", NewLookupHandler(cat).Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/lookups", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload dto.LookupResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, lookup.Genders, payload.Genders)
	assert.Equal(t, []string{"Delhi", "Karnataka"}, payload.States)
	assert.Equal(t, []string{"Bengaluru", "Mysuru"}, payload.CitiesByState["Karnataka"])
	assert.Equal(t, lookup.Roles, payload.Roles)
}

func TestMemberGetRejectsBadID(t *testing.T) {
	app := fiber.New()
	app.Get("/api/members/:id", NewMemberHandler(nil).Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/members/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBulkTemplateRejectsUnknownMode(t *testing.T) {
	app := fiber.New()
	app.Get("/api/members/excel-template", NewBulkHandler(nil, &config.Config{}).Template)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/members/excel-template?mode=csv", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBulkUploadRequiresFile(t *testing.T) {
	app := fiber.New()
	app.Post("/api/members/bulk", NewBulkHandler(nil, &config.Config{}).Upload)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/members/bulk", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "No file provided")
}
