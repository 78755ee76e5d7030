package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alumniconnect/internal/models"
	"alumniconnect/internal/service"
)

type feedQuery struct {
	Company string `form:"company"`
	Field   string `form:"field"`
}

func (h HandlerSet) ListPosts(c *gin.Context) {
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	posts, err := h.content.ListPosts(c.Request.Context(), models.PostFilter{Company: q.Company, Field: q.Field})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

type createPostRequest struct {
	Content string  `json:"content" binding:"required,notblank,max=5000"`
	Company *string `json:"company"`
	Field   *string `json:"field"`
}

func (h HandlerSet) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	post, err := h.content.CreatePost(c.Request.Context(), service.CreatePostInput{
		AuthorID: currentUser(c).ID,
		Content:  req.Content,
		Company:  req.Company,
		Field:    req.Field,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h HandlerSet) ListGuides(c *gin.Context) {
	guides, err := h.content.ListGuides(c.Request.Context(), c.Query("company"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, guides)
}

type createGuideRequest struct {
	Company    string            `json:"company" binding:"required,notblank"`
	Role       string            `json:"role" binding:"required,notblank"`
	Experience string            `json:"experience" binding:"required,notblank"`
	Questions  []string          `json:"questions" binding:"required,min=1"`
	Tips       *string           `json:"tips"`
	Difficulty models.Difficulty `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

func (h HandlerSet) CreateGuide(c *gin.Context) {
	var req createGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	guide, err := h.content.CreateGuide(c.Request.Context(), service.CreateGuideInput{
		AuthorID:   currentUser(c).ID,
		Company:    req.Company,
		Role:       req.Role,
		Experience: req.Experience,
		Questions:  req.Questions,
		Tips:       req.Tips,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, guide)
}

func (h HandlerSet) ListAssessments(c *gin.Context) {
	assessments, err := h.content.ListAssessments(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, assessments)
}

func (h HandlerSet) GetAssessment(c *gin.Context) {
	assessment, err := h.content.GetAssessment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

type assessmentQuestionRequest struct {
	Question      string   `json:"question" binding:"required,notblank"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer int      `json:"correctAnswer" binding:"min=0"`
	Explanation   string   `json:"explanation"`
}

type createAssessmentRequest struct {
	Title          string                      `json:"title" binding:"required,notblank"`
	Description    string                      `json:"description" binding:"required"`
	Category       string                      `json:"category" binding:"required,oneof=aptitude coding general cs ece mba"`
	Questions      []assessmentQuestionRequest `json:"questions" binding:"required,min=1,dive"`
	TimeLimit      int                         `json:"timeLimit" binding:"required,min=1"`
	TotalQuestions int                         `json:"totalQuestions" binding:"omitempty,min=1"`
}

func (h HandlerSet) CreateAssessment(c *gin.Context) {
	var req createAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	questions := make([]models.AssessmentQuestion, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, models.AssessmentQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	assessment, err := h.content.CreateAssessment(c.Request.Context(), service.CreateAssessmentInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Questions:      questions,
		TimeLimit:      req.TimeLimit,
		TotalQuestions: req.TotalQuestions,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// Score and totalQuestions sent by clients are ignored.
type submitResultRequest struct {
	AssessmentID string `json:"assessmentId" binding:"required"`
	Answers      []int  `json:"answers"`
	TimeSpent    int    `json:"timeSpent" binding:"min=0"`
}

func (h HandlerSet) SubmitResult(c *gin.Context) {
	var req submitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := h.content.SubmitResult(c.Request.Context(), service.SubmitResultInput{
		UserID:       currentUser(c).ID,
		AssessmentID: req.AssessmentID,
		Answers:      req.Answers,
		TimeSpent:    req.TimeSpent,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HandlerSet) ListResults(c *gin.Context) {
	results, err := h.content.ListResults(c.Request.Context(), currentUser(c), c.Param("userId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h HandlerSet) ListEvents(c *gin.Context) {
	events, err := h.content.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required,notblank"`
	Description string    `json:"description" binding:"required"`
	Category    string    `json:"category" binding:"required,notblank"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required,notblank"`
	Images      []string  `json:"images" binding:"omitempty,dive,url"`
	ChiefGuest  *string   `json:"chiefGuest"`
}

func (h HandlerSet) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	event, err := h.content.CreateEvent(c.Request.Context(), service.CreateEventInput{
		OrganizerID: currentUser(c).ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		Location:    req.Location,
		Images:      req.Images,
		ChiefGuest:  req.ChiefGuest,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h HandlerSet) ListPlacements(c *gin.Context) {
	placements, err := h.content.ListPlacements(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, placements)
}

func (h HandlerSet) PlacementStats(c *gin.Context) {
	stats, err := h.content.PlacementStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type placementRequest struct {
	StudentID     string               `json:"studentId"`
	Company       string               `json:"company" binding:"required,notblank"`
	Role          string               `json:"role" binding:"required,notblank"`
	Package       int                  `json:"package" binding:"min=0"`
	PlacementType models.PlacementType `json:"placementType" binding:"required,oneof=full_time internship"`
	Year          int                  `json:"year" binding:"required,min=1900,max=2100"`
}

func (h HandlerSet) CreatePlacement(c *gin.Context) {
	var req placementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.StudentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "studentId is required"})
		return
	}
	h.createPlacement(c, req.StudentID, req)
}

// CreateOwnPlacement records a placement for the caller; any studentId in
// the body is overridden.
func (h HandlerSet) CreateOwnPlacement(c *gin.Context) {
	var req placementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.createPlacement(c, currentUser(c).ID, req)
}

func (h HandlerSet) createPlacement(c *gin.Context, studentID string, req placementRequest) {
	placement, err := h.content.CreatePlacement(c.Request.Context(), service.CreatePlacementInput{
		StudentID:     studentID,
		Company:       req.Company,
		Role:          req.Role,
		Package:       req.Package,
		PlacementType: req.PlacementType,
		Year:          req.Year,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, placement)
}
