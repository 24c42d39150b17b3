package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"testline/models"
	"testline/services"
	"testline/storage"

	"github.com/gin-gonic/gin"
)

type TestHandler struct {
	catalogService     *services.CatalogService
	progressionService *services.ProgressionService
	attemptService     *services.AttemptService
	resultService      *services.ResultService
}

func NewTestHandler(
	catalogService *services.CatalogService,
	progressionService *services.ProgressionService,
	attemptService *services.AttemptService,
	resultService *services.ResultService,
) *TestHandler {
	return &TestHandler{
		catalogService:     catalogService,
		progressionService: progressionService,
		attemptService:     attemptService,
		resultService:      resultService,
	}
}

// TakeQuestion mirrors a question for an active test page.
type TakeQuestion struct {
	ID      uint         `json:"id"`
	Text    string       `json:"text"`
	Order   int          `json:"order"`
	Answers []TakeAnswer `json:"answers"`
}

// TakeAnswer deliberately omits IsCorrect while the test is being taken.
type TakeAnswer struct {
	ID     uint   `json:"id"`
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

func toTakeQuestions(questions []models.Question) []TakeQuestion {
	out := make([]TakeQuestion, 0, len(questions))
	for i := range questions {
		q := TakeQuestion{
			ID:      questions[i].ID,
			Text:    questions[i].Text,
			Order:   questions[i].Order,
			Answers: make([]TakeAnswer, 0, len(questions[i].Answers)),
		}
		for _, a := range questions[i].Answers {
			q.Answers = append(q.Answers, TakeAnswer{ID: a.ID, Letter: a.Letter, Text: a.Text})
		}
		out = append(out, q)
	}
	return out
}

type SubmitTestRequest struct {
	Answers map[uint]uint `json:"answers"` // question id -> selected answer id
}

// GetTest serves the take-test page data: the questions without correct
// flags and the user's previous selections when a completed attempt exists.
func (h *TestHandler) GetTest(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	testID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid test ID"})
		return
	}

	test, err := h.catalogService.GetTest(uint(testID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
		return
	}

	unlocked, err := h.progressionService.IsUnlocked(userID.(uint), test)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !unlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Test is not unlocked yet"})
		return
	}

	questions, err := h.catalogService.QuestionsWithAnswers(test.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	previous, hasPrevious, err := h.resultService.PreviousSelections(userID.(uint), test.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"test":                test,
		"questions":           toTakeQuestions(questions),
		"previous_answers":    previous,
		"has_previous":        hasPrevious,
		"min_score_to_unlock": test.MinScoreToUnlock,
	})
}

func (h *TestHandler) SubmitTest(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	testID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid test ID"})
		return
	}

	var req SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.attemptService.SubmitFixed(userID.(uint), uint(testID), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLockedTest):
			c.JSON(http.StatusForbidden, gin.H{"error": "Test is not unlocked yet"})
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *TestHandler) RetakeTest(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	testID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid test ID"})
		return
	}

	if err := h.attemptService.Retake(userID.(uint), uint(testID)); err != nil {
		switch {
		case errors.Is(err, services.ErrCannotRetake):
			c.JSON(http.StatusForbidden, gin.H{"error": "Test cannot be retaken"})
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test ready for a fresh attempt"})
}
