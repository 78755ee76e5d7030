package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alumniconnect/internal/media/sniffer"
	"alumniconnect/internal/models"
	"alumniconnect/internal/service"
)

type listUsersQuery struct {
	Role    models.UserRole `form:"role" binding:"omitempty,role"`
	College string          `form:"college"`
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	users, err := h.profiles.List(c.Request.Context(), models.UserFilter{Role: q.Role, College: q.College})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h HandlerSet) GetUser(c *gin.Context) {
	user, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type alumniQuery struct {
	Company string `form:"company"`
	Field   string `form:"field"`
}

func (h HandlerSet) SearchAlumni(c *gin.Context) {
	var q alumniQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	alumni, err := h.profiles.SearchAlumni(c.Request.Context(), models.AlumniFilter{Company: q.Company, Field: q.Field})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, alumni)
}

type updateProfileRequest struct {
	FullName       *string `json:"fullName" binding:"omitempty,max=128"`
	GraduationYear *int    `json:"graduationYear" binding:"omitempty,min=1900,max=2100"`
	Department     *string `json:"department"`
	Company        *string `json:"company"`
	Position       *string `json:"position"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio" binding:"omitempty,max=2000"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), currentUser(c).ID, models.ProfileUpdate{
		FullName:       req.FullName,
		GraduationYear: req.GraduationYear,
		Department:     req.Department,
		Company:        req.Company,
		Position:       req.Position,
		Location:       req.Location,
		Bio:            req.Bio,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h HandlerSet) UploadAvatar(c *gin.Context) {
	user := currentUser(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file is required"})
		return
	}
	defer file.Close()

	updated, err := h.uploads.UploadAvatar(c.Request.Context(), service.AvatarUploadInput{
		UserID:       user.ID,
		File:         file,
		DeclaredType: sniffer.DeclaredMIME(http.Header(header.Header)),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
