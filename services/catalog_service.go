package services

import (
	"testline/models"
	"testline/storage"
)

// CatalogService is the read-only content surface for the UI layer.
type CatalogService struct {
	store storage.Store
}

func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) ListSubjects() ([]models.Subject, error) {
	return s.store.Subjects()
}

func (s *CatalogService) GetSubject(id uint) (*models.Subject, error) {
	return s.store.SubjectByID(id)
}

func (s *CatalogService) ListTests(subjectID uint) ([]models.Test, error) {
	return s.store.TestsBySubject(subjectID)
}

func (s *CatalogService) GetTest(id uint) (*models.Test, error) {
	return s.store.TestByID(id)
}

// QuestionsWithAnswers returns a test's questions in order, each with its
// four answers in letter order.
func (s *CatalogService) QuestionsWithAnswers(testID uint) ([]models.Question, error) {
	return s.store.QuestionsByTest(testID)
}
