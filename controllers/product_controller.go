package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-service/models"
	"shop-service/utils"
)

func (h *Handlers) ListProducts(c *gin.Context) {
	page := utils.ParsePagination(c.Query("limit"), c.Query("offset"))
	products, err := h.Products.List(c.Request.Context(), h.DB, page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": products, "limit": page.Limit, "offset": page.Offset})
}

func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}
	product, err := h.Products.Get(c.Request.Context(), h.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handlers) CreateProduct(c *gin.Context) {
	var req models.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categoryID, err := h.resolveCategory(c, req.CategoryName)
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.Products.Create(c.Request.Context(), h.DB, req.Name, req.Price, req.Description, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handlers) PatchProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Products.Get(c.Request.Context(), h.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}

	var categoryID *uuid.UUID
	setCategory := patch.CategoryName != nil
	if setCategory {
		categoryID, err = h.resolveCategory(c, patch.CategoryName)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	if err := h.Products.UpdatePartial(c.Request.Context(), h.DB, product, patch, categoryID, setCategory); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}
	if err := h.Products.Delete(c.Request.Context(), h.DB, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveCategory turns an optional category name into its id. An
// unknown name is a NotFound, matching how product creation has always
// behaved.
func (h *Handlers) resolveCategory(c *gin.Context, name *string) (*uuid.UUID, error) {
	if name == nil {
		return nil, nil
	}
	cat, err := h.Categories.GetByName(c.Request.Context(), h.DB, *name)
	if err != nil {
		return nil, err
	}
	return &cat.ID, nil
}
