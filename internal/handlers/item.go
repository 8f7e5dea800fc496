package handlers

import (
	"fleamarket/internal/db"
	"fleamarket/internal/models"
	"fleamarket/internal/services"
	"fleamarket/internal/utils"
	"fmt"
	"math"
	"net/http"
	"mime/multipart"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

const itemsPerPage = 8

// indexCacheGen versions the index cache keys. Bumping it on any item
// mutation orphans every cached page at once, not just page 1; stale
// entries age out of the LRU on their own.
var indexCacheGen atomic.Uint64

func indexCacheKey(page int) string {
	return fmt.Sprintf("item:index:g%d:page:%d", indexCacheGen.Load(), page)
}

func invalidateIndexCache() {
	indexCacheGen.Add(1)
}

// copyH shallow-copies render data so Render's per-request keys
// (CurrentUser, CurrentPath) never land in the cached map, which is shared
// across requests.
func copyH(src gin.H) gin.H {
	dst := make(gin.H, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type ItemHandler struct{}

func NewItemHandler() *ItemHandler {
	return &ItemHandler{}
}

// Index lists items newest first, 8 per page.
func (h *ItemHandler) Index(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}

	cacheKey := indexCacheKey(page)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			Render(c, http.StatusOK, "item/list.html", copyH(hData))
			return
		}
	}

	var total int64
	db.DB.Model(&models.Item{}).Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(itemsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var items []models.Item
	db.DB.Preload("User").
		Order("created_at DESC").
		Limit(itemsPerPage).
		Offset((page - 1) * itemsPerPage).
		Find(&items)

	services.FillItemCounts(items)

	renderData := gin.H{
		"Items":       items,
		"Title":       "For sale",
		"CurrentPage": page,
		"TotalPages":  totalPages,
	}

	utils.GetCache().Set(cacheKey, renderData, 1*time.Minute)

	Render(c, http.StatusOK, "item/list.html", copyH(renderData))
}

func (h *ItemHandler) Detail(c *gin.Context) {
	itemID := utils.StringToUint(c.Param("id"))

	var item models.Item
	if err := db.DB.Preload("User").First(&item, itemID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Item not found")
		return
	}

	comments, err := services.ListComments(item.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load comments")
		return
	}

	renderDetail(c, http.StatusOK, &item, comments, gin.H{})
}

// renderDetail assembles the detail page; extra carries form errors so a
// failed comment submit can re-render the same page with the field message.
func renderDetail(c *gin.Context, code int, item *models.Item, comments []models.Comment, extra gin.H) {
	item.LikeCount = services.LikeCount(models.KindItem, item.ID)

	liked := false
	if user := CurrentUser(c); user != nil {
		liked = services.HasLiked(user.ID, models.KindItem, item.ID)
	}

	data := gin.H{
		"Item":       item,
		"ItemDetail": utils.RenderMarkdown(item.Detail),
		"Comments":   comments,
		"Liked":      liked,
		"Title":      item.Title,
	}
	for k, v := range extra {
		data[k] = v
	}
	Render(c, code, "item/detail.html", data)
}

func (h *ItemHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "item/sell.html", gin.H{
		"Title":      "Sell an item",
		"Conditions": models.Conditions(),
	})
}

// itemForm holds parsed + validated form fields. Errors maps field name to
// message; an empty map means the input is good.
type itemForm struct {
	Title     string
	Price     int
	Condition models.Condition
	Detail    string
	Errors    gin.H
}

func parseItemForm(c *gin.Context) itemForm {
	form := itemForm{
		Title:     strings.TrimSpace(c.PostForm("title")),
		Detail:    c.PostForm("detail"),
		Condition: models.Condition(c.PostForm("condition")),
		Errors:    gin.H{},
	}
	form.Price = utils.StringToInt(c.PostForm("price"))

	if form.Title == "" {
		form.Errors["TitleError"] = "Title is required."
	}
	if form.Price < 1 {
		form.Errors["PriceError"] = "Price must be a positive whole number."
	}
	if !form.Condition.Valid() {
		form.Errors["ConditionError"] = "Pick a condition."
	}
	return form
}

// pickImage validates one optional upload field without touching disk.
// Returns the header (nil when the field was left empty) and a field error
// message. Saving happens only after the whole form has validated, so a
// rejected submission never leaves orphaned files under the media dir.
func pickImage(c *gin.Context, field string, required bool) (*multipart.FileHeader, string) {
	header, err := c.FormFile(field)
	if err != nil {
		if required {
			return nil, "An image is required."
		}
		return nil, ""
	}
	if msg := services.ValidateImage(header); msg != "" {
		return nil, msg
	}
	return header, ""
}

func (h *ItemHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	form := parseItemForm(c)

	var headers [3]*multipart.FileHeader
	imageFields := []struct {
		name     string
		errKey   string
		required bool
	}{
		{"image1", "Image1Error", true},
		{"image2", "Image2Error", false},
		{"image3", "Image3Error", false},
	}
	for i, f := range imageFields {
		header, msg := pickImage(c, f.name, f.required)
		if msg != "" {
			form.Errors[f.errKey] = msg
			continue
		}
		headers[i] = header
	}

	if len(form.Errors) > 0 {
		data := gin.H{
			"Title":      "Sell an item",
			"Conditions": models.Conditions(),
			"Form":       form,
		}
		for k, v := range form.Errors {
			data[k] = v
		}
		Render(c, http.StatusBadRequest, "item/sell.html", data)
		return
	}

	var images [3]string
	for i, header := range headers {
		if header == nil {
			continue
		}
		path, err := services.SaveImage(header)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Failed to store the uploaded image")
			return
		}
		images[i] = path
	}

	item := models.Item{
		UserID:    user.ID,
		Title:     form.Title,
		Price:     form.Price,
		Condition: form.Condition,
		Detail:    form.Detail,
		Image1:    images[0],
		Image2:    images[1],
		Image3:    images[2],
	}
	if err := db.DB.Create(&item).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to create the listing")
		return
	}

	invalidateIndexCache()

	c.Redirect(http.StatusFound, fmt.Sprintf("/items/%d", item.ID))
}

func (h *ItemHandler) ShowEdit(c *gin.Context) {
	user := CurrentUser(c)
	itemID := utils.StringToUint(c.Param("id"))

	var item models.Item
	if err := db.DB.First(&item, itemID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Item not found")
		return
	}
	if !services.CanEditItem(user, &item) {
		RenderError(c, http.StatusForbidden, "You are not the owner of this item")
		return
	}

	Render(c, http.StatusOK, "item/edit.html", gin.H{
		"Title":      "Edit listing",
		"Item":       item,
		"Conditions": models.Conditions(),
	})
}

func (h *ItemHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	itemID := utils.StringToUint(c.Param("id"))

	var item models.Item
	if err := db.DB.First(&item, itemID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Item not found")
		return
	}
	if !services.CanEditItem(user, &item) {
		RenderError(c, http.StatusForbidden, "You are not the owner of this item")
		return
	}

	form := parseItemForm(c)

	// Images are optional on edit, existing ones stay unless replaced
	var headers [3]*multipart.FileHeader
	editFields := []struct {
		name   string
		errKey string
	}{
		{"image1", "Image1Error"},
		{"image2", "Image2Error"},
		{"image3", "Image3Error"},
	}
	for i, f := range editFields {
		header, msg := pickImage(c, f.name, false)
		if msg != "" {
			form.Errors[f.errKey] = msg
			continue
		}
		headers[i] = header
	}

	if len(form.Errors) > 0 {
		data := gin.H{
			"Title":      "Edit listing",
			"Item":       item,
			"Conditions": models.Conditions(),
			"Form":       form,
		}
		for k, v := range form.Errors {
			data[k] = v
		}
		Render(c, http.StatusBadRequest, "item/edit.html", data)
		return
	}

	newImages := [3]string{item.Image1, item.Image2, item.Image3}
	for i, header := range headers {
		if header == nil {
			continue
		}
		path, err := services.SaveImage(header)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Failed to store the uploaded image")
			return
		}
		newImages[i] = path
	}

	item.Title = form.Title
	item.Price = form.Price
	item.Condition = form.Condition
	item.Detail = form.Detail
	item.Image1 = newImages[0]
	item.Image2 = newImages[1]
	item.Image3 = newImages[2]

	if err := db.DB.Save(&item).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to save the listing")
		return
	}

	invalidateIndexCache()

	c.Redirect(http.StatusFound, fmt.Sprintf("/items/%d", item.ID))
}

func (h *ItemHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	itemID := utils.StringToUint(c.Param("id"))

	var item models.Item
	if err := db.DB.First(&item, itemID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Item not found")
		return
	}
	if !services.CanDeleteItem(user, &item) {
		RenderError(c, http.StatusForbidden, "You are not the owner of this item")
		return
	}

	if err := services.DeleteItem(item.ID); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to delete the listing")
		return
	}

	invalidateIndexCache()

	c.Redirect(http.StatusFound, "/")
}

// ToggleSold flips the sold flag, owner only.
func (h *ItemHandler) ToggleSold(c *gin.Context) {
	user := CurrentUser(c)
	itemID := utils.StringToUint(c.Param("id"))

	var item models.Item
	if err := db.DB.First(&item, itemID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Item not found")
		return
	}
	if !services.CanEditItem(user, &item) {
		RenderError(c, http.StatusForbidden, "You are not the owner of this item")
		return
	}

	if err := db.DB.Model(&item).Update("sold", !item.Sold).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to update the listing")
		return
	}

	invalidateIndexCache()

	c.Redirect(http.StatusFound, fmt.Sprintf("/items/%d", item.ID))
}
