package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"testline/models"
	"testline/storage"

	"github.com/redis/go-redis/v9"
)

const pendingQuizTTL = 2 * time.Hour

// RandomService assembles cross-test random quizzes. The sampled question
// ids are parked in Redis so the quiz page survives a reload between build
// and submit; grading itself never reads the parked copy back.
type RandomService struct {
	store       storage.Store
	progression *ProgressionService
	redis       *redis.Client
}

func NewRandomService(store storage.Store, progression *ProgressionService, redisClient *redis.Client) *RandomService {
	return &RandomService{
		store:       store,
		progression: progression,
		redis:       redisClient,
	}
}

type pendingQuiz struct {
	SubjectID   uint      `json:"subject_id"`
	QuestionIDs []uint    `json:"question_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// BuildRandomQuiz pools every question of the user's unlocked tests and
// draws the subject's configured count uniformly without replacement. The
// shuffled order is the presentation order. A quiz below five questions is
// refused.
func (s *RandomService) BuildRandomQuiz(userID, subjectID uint) ([]models.Question, error) {
	subject, err := s.store.SubjectByID(subjectID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.progression.UnlockedTests(userID, subject.ID)
	if err != nil {
		return nil, err
	}
	if len(unlocked) == 0 {
		return nil, ErrNoUnlockedTests
	}

	var pool []models.Question
	for i := range unlocked {
		questions, err := s.store.QuestionsByTest(unlocked[i].ID)
		if err != nil {
			return nil, err
		}
		pool = append(pool, questions...)
	}

	target := subject.RandomQuestionCount
	if len(pool) < target {
		target = len(pool)
	}
	if target < 5 {
		return nil, ErrInsufficientQuestions
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	sampled := pool[:target]

	s.parkQuiz(userID, subject.ID, sampled)

	return sampled, nil
}

// PendingRandomQuiz rehydrates a parked quiz in its original order.
// storage.ErrNotFound means nothing is parked or it expired.
func (s *RandomService) PendingRandomQuiz(userID, subjectID uint) ([]models.Question, error) {
	if s.redis == nil {
		return nil, storage.ErrNotFound
	}

	data, err := s.redis.Get(context.Background(), quizKey(userID, subjectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var pending pendingQuiz
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending quiz: %w", err)
	}

	questions := make([]models.Question, 0, len(pending.QuestionIDs))
	for _, id := range pending.QuestionIDs {
		question, err := s.store.QuestionByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		questions = append(questions, *question)
	}
	return questions, nil
}

// ClearPending drops the parked quiz after a submission.
func (s *RandomService) ClearPending(userID, subjectID uint) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(context.Background(), quizKey(userID, subjectID)).Err(); err != nil {
		log.Printf("Failed to clear pending random quiz for user %d: %v", userID, err)
	}
}

func (s *RandomService) parkQuiz(userID, subjectID uint, questions []models.Question) {
	if s.redis == nil {
		return
	}

	pending := pendingQuiz{
		SubjectID:   subjectID,
		QuestionIDs: make([]uint, len(questions)),
		CreatedAt:   time.Now(),
	}
	for i := range questions {
		pending.QuestionIDs[i] = questions[i].ID
	}

	data, err := json.Marshal(pending)
	if err != nil {
		log.Printf("Failed to marshal pending quiz: %v", err)
		return
	}
	if err := s.redis.Set(context.Background(), quizKey(userID, subjectID), data, pendingQuizTTL).Err(); err != nil {
		log.Printf("Failed to park random quiz in Redis: %v", err)
	}
}

func quizKey(userID, subjectID uint) string {
	return fmt.Sprintf("random_quiz:%d:%d", userID, subjectID)
}
