package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"anoa.com/recipemarket/internal/config"
	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	mail    *testutil.MemoryMailer
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)

	cfg := &config.Config{
		AppEnv:                 "test",
		Port:                   "0",
		AllowedOrigins:         "http://localhost:3000",
		CloudinaryUploadFolder: "test",
		JWTSecret:              "test-secret",
		JWTTTL:                 time.Hour,
	}

	mail := &testutil.MemoryMailer{}
	srv, err := NewServer(cfg, Deps{DB: db, ImageStorage: testutil.NewMemoryStorage(), Mailer: mail})
	require.NoError(t, err)

	return &testServer{t: t, db: db, mail: mail, handler: srv.Handler()}
}

func (s *testServer) do(method, path, token, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(s.t, err)
	}
	return s.do(method, path, token, "application/json", body)
}

type registered struct {
	token string
	id    string
}

func (s *testServer) register(username string) registered {
	w := s.doJSON(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "password123",
		"full_name": strings.ToUpper(username[:1]) + username[1:],
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var res struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res))
	return registered{token: res.AccessToken, id: res.User.ID}
}

type feedEntry struct {
	BakerID          string   `json:"baker_id"`
	BakerDisplayName string   `json:"baker_display_name"`
	NewRecipeCount   int      `json:"new_recipe_count"`
	UnseenRecipeIDs  []string `json:"unseen_recipe_ids"`
}

func (s *testServer) feed(token string) []feedEntry {
	w := s.doJSON(http.MethodGet, "/api/followers/notifications", token, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Data []feedEntry `json:"data"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Data
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
}

func TestFollowAndFeedFlow(t *testing.T) {
	s := newTestServer(t)

	baker := s.register("baker")
	fan := s.register("fan")

	category := &entity.Category{Name: "Bread", Slug: "bread"}
	require.NoError(t, s.db.Create(category).Error)

	w := s.doJSON(http.MethodPost, "/api/followers/follow", fan.token, map[string]string{"baker_id": baker.id})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.doJSON(http.MethodPost, "/api/followers/follow", fan.token, map[string]string{"baker_id": baker.id})
	assert.Equal(t, http.StatusConflict, w.Code)

	entries := s.feed(fan.token)
	require.Len(t, entries, 1)
	assert.Equal(t, baker.id, entries[0].BakerID)
	assert.Equal(t, "Baker", entries[0].BakerDisplayName)
	assert.Equal(t, 0, entries[0].NewRecipeCount)
	assert.NotNil(t, entries[0].UnseenRecipeIDs)

	form := url.Values{
		"category_id": {category.ID.String()},
		"title":       {"Sourdough"},
		"description": {"A tangy loaf"},
		"ingredients": {"flour, water, salt"},
	}
	w = s.do(http.MethodPost, "/api/recipes", baker.token, "application/x-www-form-urlencoded", []byte(form.Encode()))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))

	entries = s.feed(fan.token)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].NewRecipeCount)
	assert.Equal(t, []string{recipe.ID}, entries[0].UnseenRecipeIDs)

	w = s.doJSON(http.MethodPost, "/api/seen-recipes", fan.token, map[string]string{"recipe_id": recipe.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	entries = s.feed(fan.token)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].NewRecipeCount)
	assert.Empty(t, entries[0].UnseenRecipeIDs)

	w = s.doJSON(http.MethodGet, "/api/seen-recipes/"+recipe.ID, fan.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"recipe_id":"`+recipe.ID+`","seen":true}`, w.Body.String())

	w = s.doJSON(http.MethodGet, "/api/seen-recipes/"+recipe.ID, baker.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"seen":false`)

	require.NoError(t, s.db.Create(&entity.Baker{UserID: uuid.MustParse(baker.id)}).Error)
	w = s.doJSON(http.MethodGet, "/api/bakers/"+baker.id+"/display", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"name":"`+entries[0].BakerDisplayName+`","profile_image_url":null}`, w.Body.String())

	w = s.doJSON(http.MethodGet, "/api/followers/count/"+baker.id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"follower_count":1`)

	w = s.doJSON(http.MethodGet, "/api/followers/is-following/"+baker.id+"/"+fan.id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"is_following":true}`, w.Body.String())

	w = s.doJSON(http.MethodPost, "/api/followers/unfollow", fan.token, map[string]string{"baker_id": baker.id})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.feed(fan.token))
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(http.MethodGet, "/api/followers/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(http.MethodPost, "/api/seen-recipes", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQueryTokenOnlyOnWebsocket(t *testing.T) {
	s := newTestServer(t)
	user := s.register("wsuser")

	w := s.doJSON(http.MethodGet, "/api/users/me?token="+user.token, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(http.MethodGet, "/api/notifications/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Auth passes; the test server has no redis to subscribe with.
	w = s.doJSON(http.MethodGet, "/api/notifications/ws?token="+user.token, "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	user := s.register("plainuser")

	w := s.doJSON(http.MethodPost, "/api/admin/categories", user.token, map[string]string{"name": "Cakes"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, s.db.Model(&entity.User{}).Where("username = ?", "plainuser").Update("role", entity.RoleAdmin).Error)

	w = s.doJSON(http.MethodPost, "/api/admin/categories", user.token, map[string]string{"name": "Cakes"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.doJSON(http.MethodPost, "/api/admin/jobs/rankings", user.token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestEmailVerificationFlow(t *testing.T) {
	s := newTestServer(t)
	user := s.register("verifyme")

	w := s.doJSON(http.MethodPost, "/api/auth/otp/generate", "", map[string]string{"email": "verifyme@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	msg, ok := s.mail.Last()
	require.True(t, ok)
	code := regexp.MustCompile(`[1-9][0-9]{5}`).FindString(msg.Body)

	w = s.doJSON(http.MethodPost, "/api/auth/otp/verify", "", map[string]string{"email": "verifyme@example.com", "otp": code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.doJSON(http.MethodGet, "/api/auth/check-verification?email=verifyme@example.com", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"verifyme@example.com","is_verified":true}`, w.Body.String())

	w = s.doJSON(http.MethodGet, "/api/users/me", user.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_verified":true`)
}

func TestAdminVerificationAndCategoryRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.register("boss")
	require.NoError(t, s.db.Model(&entity.User{}).Where("username = ?", "boss").Update("role", entity.RoleAdmin).Error)

	w := s.doJSON(http.MethodPost, "/api/admin/categories", admin.token, map[string]string{"name": "Cakes"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))

	w = s.doJSON(http.MethodPut, "/api/admin/categories/"+category.ID, admin.token, map[string]string{"name": "Layer Cakes"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"slug":"layer-cakes"`)

	w = s.doJSON(http.MethodGet, "/api/admin/verifications", admin.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())

	w = s.doJSON(http.MethodGet, "/api/verifications/me", admin.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.doJSON(http.MethodGet, "/api/verifications/"+admin.id+"/status", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	fan := s.register("fanatic")
	w = s.doJSON(http.MethodPut, "/api/admin/verifications/"+fan.id, fan.token, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
