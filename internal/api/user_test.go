package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
)

func TestSubscribeFlow(t *testing.T) {
	router, env := SetupTestEnv(t)
	_, followerToken := CreateTestUserAndToken(t, env)
	authorID, authorToken := CreateTestUserAndToken(t, env)

	tag := CreateTestTag(t, env, "Dinner", "dinner")
	ingredient := CreateTestIngredient(t, env, "beetroot", "g")
	w := PerformRequestWithToken(router, "POST", "/api/v1/recipes", RecipePayload(tag, ingredient), authorToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = PerformRequestWithToken(router, "POST", "/api/v1/users/"+authorID.String()+"/subscribe", nil, followerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, authorID.String(), body["id"])
	assert.Equal(t, true, body["is_subscribed"])
	assert.Equal(t, float64(1), body["recipes_count"])
	require.Len(t, body["recipes"].([]interface{}), 1)

	// A repeated subscribe is a conflict, not a second row.
	w = PerformRequestWithToken(router, "POST", "/api/v1/users/"+authorID.String()+"/subscribe", nil, followerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Subscribe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w = PerformRequestWithToken(router, "GET", "/api/v1/users/"+authorID.String(), nil, followerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_subscribed"])

	w = PerformRequestWithToken(router, "DELETE", "/api/v1/users/"+authorID.String()+"/subscribe", nil, followerToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	require.NoError(t, env.DB.Model(&models.Subscribe{}).Count(&count).Error)
	assert.Zero(t, count)

	w = PerformRequestWithToken(router, "DELETE", "/api/v1/users/"+authorID.String()+"/subscribe", nil, followerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeToSelfRejected(t *testing.T) {
	router, env := SetupTestEnv(t)
	userID, token := CreateTestUserAndToken(t, env)

	w := PerformRequestWithToken(router, "POST", "/api/v1/users/"+userID.String()+"/subscribe", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Subscribe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	router, env := SetupTestEnv(t)
	_, token := CreateTestUserAndToken(t, env)

	w := PerformRequestWithToken(router, "POST", "/api/v1/users/00000000-0000-0000-0000-00000000dead/subscribe", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionsListing(t *testing.T) {
	router, env := SetupTestEnv(t)
	_, followerToken := CreateTestUserAndToken(t, env)
	firstAuthor, _ := CreateTestUserAndToken(t, env)
	secondAuthor, _ := CreateTestUserAndToken(t, env)

	for _, id := range []string{firstAuthor.String(), secondAuthor.String()} {
		w := PerformRequestWithToken(router, "POST", "/api/v1/users/"+id+"/subscribe", nil, followerToken)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := PerformRequestWithToken(router, "GET", "/api/v1/users/subscriptions", nil, followerToken)
	require.Equal(t, http.StatusOK, w.Code)
	subscriptions := decodeBody(t, w)["subscriptions"].([]interface{})
	assert.Len(t, subscriptions, 2)

	w = PerformRequestWithToken(router, "GET", "/api/v1/users/subscriptions?page=2&limit=1", nil, followerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["subscriptions"].([]interface{}), 1)

	w = PerformRequest(router, "GET", "/api/v1/users/subscriptions", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	router, env := SetupTestEnv(t)
	userID, token := CreateTestUserAndToken(t, env)

	w := PerformRequestWithToken(router, "GET", "/api/v1/users/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, userID.String(), body["id"])
	assert.NotContains(t, w.Body.String(), "password")

	w = PerformRequest(router, "GET", "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsers(t *testing.T) {
	router, env := SetupTestEnv(t)
	_, followerToken := CreateTestUserAndToken(t, env)
	authorID, _ := CreateTestUserAndToken(t, env)

	w := PerformRequestWithToken(router, "POST", "/api/v1/users/"+authorID.String()+"/subscribe", nil, followerToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = PerformRequestWithToken(router, "GET", "/api/v1/users", nil, followerToken)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	for _, user := range users {
		if user["id"] == authorID.String() {
			assert.Equal(t, true, user["is_subscribed"])
		} else {
			assert.Equal(t, false, user["is_subscribed"])
		}
	}
}
