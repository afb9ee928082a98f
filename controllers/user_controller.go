package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-service/models"
	"shop-service/utils"
)

func (h *Handlers) ListUsers(c *gin.Context) {
	page := utils.ParsePagination(c.Query("limit"), c.Query("offset"))
	users, err := h.Users.List(c.Request.Context(), h.DB, page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users, "limit": page.Limit, "offset": page.Offset})
}

func (h *Handlers) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user *models.User
	if c.Query("with_posts") == "true" {
		user, err = h.Users.GetWithPosts(c.Request.Context(), h.DB, id)
	} else {
		user, err = h.Users.Get(c.Request.Context(), h.DB, id)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := strings.ToLower(req.Username)
	email := strings.ToLower(req.Email)
	patch := models.UserPatch{
		FirstName:  req.FirstName,
		SecondName: req.SecondName,
		Username:   &username,
		Email:      &email,
	}
	h.applyUserPatch(c, id, patch)
}

func (h *Handlers) PatchUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Username != nil {
		lowered := strings.ToLower(*patch.Username)
		patch.Username = &lowered
	}
	if patch.Email != nil {
		lowered := strings.ToLower(*patch.Email)
		patch.Email = &lowered
	}
	h.applyUserPatch(c, id, patch)
}

func (h *Handlers) applyUserPatch(c *gin.Context, id uuid.UUID, patch models.UserPatch) {
	user, err := h.Users.Get(c.Request.Context(), h.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if patch.Password != nil {
		hash, err := utils.HashPassword(*patch.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		patch.Password = &hash
	}

	if err := h.Users.UpdatePartial(c.Request.Context(), h.DB, user, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if err := h.Users.Delete(c.Request.Context(), h.DB, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
