package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/rongwang/pokerclub-server/internal/api/testutils"
	"github.com/rongwang/pokerclub-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPlayer(t *testing.T, testCtx *testutils.TestContext, name string) models.Player {
	t.Helper()

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/players",
		models.CreatePlayerRequest{Name: name}, testutils.AuthHeaders(testCtx.AdminJWT))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.PlayerResponse
	testutils.DecodeJSON(t, w, &resp)
	require.NotNil(t, resp.Player)
	return *resp.Player
}

func TestCreatePlayer(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful creation
	player := createPlayer(t, testCtx, "Kovács")
	assert.NotZero(t, player.ID)
	assert.True(t, player.Active)

	// Test case 2: Blank name names the failing field
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/players",
		models.CreatePlayerRequest{Name: "  ", Phone: "123"}, testutils.AuthHeaders(testCtx.AdminJWT))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Message, "name")

	// Test case 3: Malformed JSON
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/players",
		`{"name":`, testutils.AuthHeaders(testCtx.AdminJWT))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "INVALID_REQUEST", errResp.Code)
}

func TestGetAndUpdatePlayer(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	player := createPlayer(t, testCtx, "Szabó")
	path := fmt.Sprintf("/api/admin/players/%d", player.ID)

	inactive := false
	w := testutils.PerformRequest(testCtx.Router, http.MethodPut, path, models.UpdatePlayerRequest{
		Name: "Szabó Anna", Email: "anna@example.com", Active: &inactive,
	}, testutils.AuthHeaders(testCtx.AdminJWT))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, path, nil, testutils.AuthHeaders(testCtx.AdminJWT))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PlayerResponse
	testutils.DecodeJSON(t, w, &resp)
	assert.Equal(t, "Szabó Anna", resp.Player.Name)
	assert.Equal(t, "anna@example.com", resp.Player.Email)
	assert.False(t, resp.Player.Active)

	// Invalid and unknown ids
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/admin/players/abc", nil,
		testutils.AuthHeaders(testCtx.AdminJWT))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/admin/players/9999", nil,
		testutils.AuthHeaders(testCtx.AdminJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPlayersSortedByName(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	createPlayer(t, testCtx, "Zoltan")
	createPlayer(t, testCtx, "Adam")
	createPlayer(t, testCtx, "Bela")

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/admin/players", nil,
		testutils.AuthHeaders(testCtx.AdminJWT))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PlayersResponse
	testutils.DecodeJSON(t, w, &resp)
	require.Len(t, resp.Players, 3)
	assert.Equal(t, "Adam", resp.Players[0].Name)
	assert.Equal(t, "Bela", resp.Players[1].Name)
	assert.Equal(t, "Zoltan", resp.Players[2].Name)
}

func TestDeletePlayer(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	player := createPlayer(t, testCtx, "Molnár")
	recordTransaction(t, testCtx, player.ID, "deposit", "100")
	recordTransaction(t, testCtx, player.ID, "withdrawal", "30")
	path := fmt.Sprintf("/api/admin/players/%d", player.ID)

	w := testutils.PerformRequest(testCtx.Router, http.MethodDelete, path, nil, testutils.AuthHeaders(testCtx.AdminJWT))
	require.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, path+"/transactions", nil,
		testutils.AuthHeaders(testCtx.AdminJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)

	totals := getTotals(t, testCtx, "/api/admin/totals")
	assert.Equal(t, int64(0), totals.TransactionCount)

	// Deleting again is a not-found with no side effects
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, path, nil, testutils.AuthHeaders(testCtx.AdminJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
