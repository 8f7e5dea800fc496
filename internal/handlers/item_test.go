package handlers

import (
	"bytes"
	"fleamarket/internal/middleware"
	"fleamarket/internal/models"
	"fleamarket/internal/services"
	"fleamarket/internal/utils"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// itemRouter wires the item handler behind minimal templates, with the given
// user (nil = anonymous) preloaded into the request context.
func itemRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	tmpl := template.New("")
	template.Must(tmpl.New("item/list.html").Parse(`items:{{ len .Items }}`))
	template.Must(tmpl.New("item/sell.html").Parse(`{{ .TitleError }}`))
	r.SetHTMLTemplate(tmpl)

	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.CheckUserKey, user)
		}
		c.Next()
	})

	h := NewItemHandler()
	r.GET("/", h.Index)
	r.POST("/sell", h.Create)
	return r
}

// The index cache entry is shared across requests, so per-request render
// state must never leak into it: a second visitor would otherwise see the
// first visitor's session, and concurrent requests would race on the map.
func TestIndexCacheStaysCleanOfRequestState(t *testing.T) {
	mock := mockDB(t)
	invalidateIndexCache()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "items"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}))

	alice := &models.User{ID: 1, Email: "alice@example.com"}
	bob := &models.User{ID: 2, Email: "bob@example.com"}

	r := itemRouter(alice)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	cached, ok := utils.GetCache().Get(indexCacheKey(1)).(gin.H)
	if !ok {
		t.Fatal("index page was not cached")
	}
	_, hasUser := cached["CurrentUser"]
	assert.False(t, hasUser, "cached page carries a visitor's user")
	_, hasPath := cached["CurrentPath"]
	assert.False(t, hasPath, "cached page carries request state")

	// Second visitor is served from the cache; no further queries expected.
	r2 := itemRouter(bob)
	w2 := httptest.NewRecorder()
	r2.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w2.Code)

	cached, _ = utils.GetCache().Get(indexCacheKey(1)).(gin.H)
	_, hasUser = cached["CurrentUser"]
	assert.False(t, hasUser, "cache hit mutated the shared entry")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A mutation must make every cached page unreachable, not just page 1.
func TestItemMutationsInvalidateEveryCachedPage(t *testing.T) {
	before := indexCacheKey(3)
	invalidateIndexCache()
	assert.NotEqual(t, before, indexCacheKey(3), "page 3 would be served stale after a mutation")
	assert.NotEqual(t, indexCacheKey(1), indexCacheKey(3))
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func sellRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("image1", "photo.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(pngHeader); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/sell", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// A rejected submission must not leave uploaded files behind in the media
// dir: images are only stored once the whole form has validated.
func TestCreateRejectedFormStoresNoImages(t *testing.T) {
	oldDir := services.MediaDir
	services.MediaDir = t.TempDir()
	t.Cleanup(func() { services.MediaDir = oldDir })

	seller := &models.User{ID: 5, Email: "seller@example.com"}
	r := itemRouter(seller)

	// Valid image, but the title is missing so the form fails.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, sellRequest(t, map[string]string{
		"title":     "",
		"price":     "25",
		"condition": string(models.ConditionGood),
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(services.MediaDir)
	assert.NoError(t, err)
	assert.Empty(t, entries, "rejected form left orphaned files in the media dir")
}
