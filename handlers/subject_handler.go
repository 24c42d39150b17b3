package handlers

import (
	"net/http"
	"strconv"

	"testline/services"

	"github.com/gin-gonic/gin"
)

type SubjectHandler struct {
	catalogService     *services.CatalogService
	progressionService *services.ProgressionService
}

func NewSubjectHandler(catalogService *services.CatalogService, progressionService *services.ProgressionService) *SubjectHandler {
	return &SubjectHandler{
		catalogService:     catalogService,
		progressionService: progressionService,
	}
}

func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.catalogService.ListSubjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// GetSubjectTests renders the subject page: every test with its unlock and
// attempt status for the calling user, plus whether a random test can start.
func (h *SubjectHandler) GetSubjectTests(c *gin.Context) {
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

	statuses, canTakeRandom, err := h.progressionService.SubjectOverview(userID.(uint), subject.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subject":         subject,
		"tests":           statuses,
		"can_take_random": canTakeRandom,
	})
}
