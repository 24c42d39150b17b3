package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"testline/services"
	"testline/storage"

	"github.com/gin-gonic/gin"
)

type RandomHandler struct {
	catalogService *services.CatalogService
	randomService  *services.RandomService
	attemptService *services.AttemptService
}

func NewRandomHandler(
	catalogService *services.CatalogService,
	randomService *services.RandomService,
	attemptService *services.AttemptService,
) *RandomHandler {
	return &RandomHandler{
		catalogService: catalogService,
		randomService:  randomService,
		attemptService: attemptService,
	}
}

type SubmitRandomRequest struct {
	QuestionIDs []uint        `json:"question_ids" binding:"required,min=1"`
	Answers     map[uint]uint `json:"answers"`
}

// BuildRandom samples a fresh random quiz from the user's unlocked tests.
// The sampled order is the presentation order.
func (h *RandomHandler) BuildRandom(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subjectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID"})
		return
	}

	subject, err := h.catalogService.GetSubject(uint(subjectID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		return
	}

	questions, err := h.randomService.BuildRandomQuiz(userID.(uint), subject.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoUnlockedTests):
			c.JSON(http.StatusForbidden, gin.H{"error": "No unlocked tests in this subject yet"})
		case errors.Is(err, services.ErrInsufficientQuestions):
			c.JSON(http.StatusConflict, gin.H{"error": "Not enough questions for a random test"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subject":        subject,
		"questions":      toTakeQuestions(questions),
		"question_count": len(questions),
		"min_score":      subject.RandomMinScorePercent,
	})
}

// GetPendingRandom re-serves a parked quiz so a reloaded page keeps its
// question set instead of resampling.
func (h *RandomHandler) GetPendingRandom(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subjectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID"})
		return
	}

	questions, err := h.randomService.PendingRandomQuiz(userID.(uint), uint(subjectID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending random test"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions":      toTakeQuestions(questions),
		"question_count": len(questions),
	})
}

// SubmitRandom grades the echoed question set and clears the parked quiz.
func (h *RandomHandler) SubmitRandom(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subjectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID"})
		return
	}

	var req SubmitRandomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.attemptService.SubmitRandom(userID.(uint), uint(subjectID), req.QuestionIDs, req.Answers)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.randomService.ClearPending(userID.(uint), uint(subjectID))

	c.JSON(http.StatusCreated, result)
}
