package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/recipemarket/internal/modules/baker/repository"
	baker "anoa.com/recipemarket/internal/modules/baker/service"
	"anoa.com/recipemarket/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	svc := baker.NewBakerService(repository.NewBakerRepository(db), testutil.NewMemoryStorage(), "test", nil, nil)

	r := gin.New()
	r.GET("/bakers/:user_id/display", NewBakerHandler(svc).GetDisplayInfo)
	return r, db
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetDisplayInfo(t *testing.T) {
	r, db := newRouter(t)
	anna := testutil.CreateBaker(t, db, "anna", "Anna Rossi", "https://img.test/anna.png")
	bob := testutil.CreateBaker(t, db, "bob", "", "")

	w := get(r, "/bakers/"+anna.ID.String()+"/display")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Anna Rossi","profile_image_url":"https://img.test/anna.png"}`, w.Body.String())

	w = get(r, "/bakers/"+bob.ID.String()+"/display")
	require.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "bob", res["name"])
	assert.Nil(t, res["profile_image_url"])
}

func TestGetDisplayInfo_Errors(t *testing.T) {
	r, db := newRouter(t)
	plain := testutil.CreateUser(t, db, "carol")

	w := get(r, "/bakers/"+uuid.NewString()+"/display")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(r, "/bakers/"+plain.ID.String()+"/display")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(r, "/bakers/not-a-uuid/display")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
