package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-service/models"
	"shop-service/utils"
)

func (h *Handlers) ListPosts(c *gin.Context) {
	page := utils.ParsePagination(c.Query("limit"), c.Query("offset"))
	posts, err := h.Posts.List(c.Request.Context(), h.DB, page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": posts, "limit": page.Limit, "offset": page.Offset})
}

func (h *Handlers) GetPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}
	post, err := h.Posts.Get(c.Request.Context(), h.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handlers) CreatePost(c *gin.Context) {
	var req models.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.Posts.Create(c.Request.Context(), h.DB, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handlers) PatchPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.Posts.Get(c.Request.Context(), h.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Posts.UpdatePartial(c.Request.Context(), h.DB, post, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handlers) DeletePost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}
	if err := h.Posts.Delete(c.Request.Context(), h.DB, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
