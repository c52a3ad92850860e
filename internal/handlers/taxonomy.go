package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shadeapp/shade-backend/internal/taxonomy"
)

type TaxonomyHandler struct{}

func NewTaxonomyHandler() *TaxonomyHandler {
	return &TaxonomyHandler{}
}

func (th *TaxonomyHandler) Get(c *gin.Context) {
	vocab, err := taxonomy.Load()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories":     vocab.Categories,
		"tag_categories": vocab.TagCategories,
		"gender_styles":  vocab.GenderStyles,
	})
}
