package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/services"
)

type WardrobeHandler struct {
	wardrobeService services.WardrobeService
}

func NewWardrobeHandler(wardrobeService services.WardrobeService) *WardrobeHandler {
	return &WardrobeHandler{wardrobeService: wardrobeService}
}

func (wh *WardrobeHandler) Create(c *gin.Context) {
	var req services.WardrobeItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := wh.wardrobeService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (wh *WardrobeHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	item, err := wh.wardrobeService.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (wh *WardrobeHandler) List(c *gin.Context) {
	filter := repos.WardrobeItemFilter{
		Category:     c.Query("category"),
		FavoriteOnly: c.Query("favorite") == "true",
	}
	items, err := wh.wardrobeService.ListItems(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (wh *WardrobeHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.WardrobeItemUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := wh.wardrobeService.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (wh *WardrobeHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := wh.wardrobeService.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}

func (wh *WardrobeHandler) LogWear(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		WornAt *time.Time `json:"worn_at"`
	}
	// body is optional; an empty body means "worn now"
	_ = c.ShouldBindJSON(&req)
	item, err := wh.wardrobeService.LogWear(c.Request.Context(), id, req.WornAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (wh *WardrobeHandler) SetFavorite(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsFavorite *bool `json:"is_favorite"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsFavorite == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_favorite is required"})
		return
	}
	item, err := wh.wardrobeService.SetFavorite(c.Request.Context(), id, *req.IsFavorite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// SetEmbedding receives the indexing pipeline's write-back for an item.
func (wh *WardrobeHandler) SetEmbedding(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Embedding        []float32      `json:"embedding"`
		SegmentationData datatypes.JSON `json:"segmentation_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Embedding) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "embedding is required"})
		return
	}
	if err := wh.wardrobeService.SetEmbedding(c.Request.Context(), id, req.Embedding, req.SegmentationData); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "embedding stored"})
}

func (wh *WardrobeHandler) Similar(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	items, err := wh.wardrobeService.SimilarToItem(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
