package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/services"
)

type OutfitHandler struct {
	outfitService services.OutfitService
}

func NewOutfitHandler(outfitService services.OutfitService) *OutfitHandler {
	return &OutfitHandler{outfitService: outfitService}
}

func (oh *OutfitHandler) Create(c *gin.Context) {
	var req services.SavedOutfitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	outfit, err := oh.outfitService.CreateOutfit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, outfit)
}

func (oh *OutfitHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	outfit, err := oh.outfitService.GetOutfit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outfit)
}

func (oh *OutfitHandler) List(c *gin.Context) {
	filter := repos.SavedOutfitFilter{
		FavoriteOnly: c.Query("favorite") == "true",
		WornOnly:     c.Query("worn") == "true",
	}
	outfits, err := oh.outfitService.ListOutfits(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outfits": outfits, "count": len(outfits)})
}

func (oh *OutfitHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.SavedOutfitUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	outfit, err := oh.outfitService.UpdateOutfit(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outfit)
}

func (oh *OutfitHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := oh.outfitService.DeleteOutfit(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "outfit deleted"})
}

func (oh *OutfitHandler) MarkWorn(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		WornAt *time.Time `json:"worn_at"`
	}
	_ = c.ShouldBindJSON(&req)
	outfit, err := oh.outfitService.MarkWorn(c.Request.Context(), id, req.WornAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outfit)
}
