package storage

import (
	"sort"
	"sync"

	"testline/models"
)

// Memory is a map-backed Store guarded by a RWMutex. It backs the service
// tests and doubles as a fixture store; the Add helpers assign ids when the
// caller leaves them zero.
type Memory struct {
	mu        sync.RWMutex
	subjects  map[uint]models.Subject
	tests     map[uint]models.Test
	questions map[uint]models.Question
	answers   map[uint]models.Answer
	users     map[uint]models.User
	attempts  map[uint]models.Attempt
	uanswers  map[uint][]models.UserAnswer // keyed by attempt id
	nextID    uint
}

func NewMemory() *Memory {
	return &Memory{
		subjects:  map[uint]models.Subject{},
		tests:     map[uint]models.Test{},
		questions: map[uint]models.Question{},
		answers:   map[uint]models.Answer{},
		users:     map[uint]models.User{},
		attempts:  map[uint]models.Attempt{},
		uanswers:  map[uint][]models.UserAnswer{},
	}
}

func (m *Memory) id(given uint) uint {
	if given != 0 {
		if given > m.nextID {
			m.nextID = given
		}
		return given
	}
	m.nextID++
	return m.nextID
}

func (m *Memory) AddSubject(s models.Subject) models.Subject {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id(s.ID)
	s.Tests = nil
	m.subjects[s.ID] = s
	return s
}

func (m *Memory) AddTest(t models.Test) models.Test {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id(t.ID)
	t.Questions = nil
	m.tests[t.ID] = t
	return t
}

// AddQuestion stores the question together with its answers.
func (m *Memory) AddQuestion(q models.Question) models.Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = m.id(q.ID)
	for i := range q.Answers {
		q.Answers[i].ID = m.id(q.Answers[i].ID)
		q.Answers[i].QuestionID = q.ID
		m.answers[q.Answers[i].ID] = q.Answers[i]
	}
	m.questions[q.ID] = q
	return q
}

func (m *Memory) Subjects() ([]models.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) SubjectByID(id uint) (*models.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subjects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) TestsBySubject(subjectID uint) ([]models.Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Test
	for _, t := range m.tests {
		if t.SubjectID == subjectID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *Memory) TestByID(id uint) (*models.Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *Memory) TestByOrder(subjectID uint, order int) (*models.Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tests {
		if t.SubjectID == subjectID && t.Order == order {
			t := t
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) QuestionsByTest(testID uint) ([]models.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Question
	for _, q := range m.questions {
		if q.TestID == testID {
			out = append(out, m.withAnswers(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *Memory) QuestionByID(id uint) (*models.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	q = m.withAnswers(q)
	return &q, nil
}

func (m *Memory) withAnswers(q models.Question) models.Question {
	var answers []models.Answer
	for _, a := range m.answers {
		if a.QuestionID == q.ID {
			answers = append(answers, a)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].Letter < answers[j].Letter })
	q.Answers = answers
	return q
}

func (m *Memory) AnswerByID(id uint) (*models.Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.answers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *Memory) CreateAttempt(attempt *models.Attempt, answers []models.UserAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	attempt.ID = m.id(attempt.ID)
	stored := make([]models.UserAnswer, len(answers))
	for i, ua := range answers {
		ua.ID = m.id(ua.ID)
		ua.AttemptID = attempt.ID
		stored[i] = ua
	}
	m.attempts[attempt.ID] = *attempt
	m.uanswers[attempt.ID] = stored
	return nil
}

func (m *Memory) AttemptByID(id uint) (*models.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	a = m.withTest(a)
	return &a, nil
}

func (m *Memory) withTest(a models.Attempt) models.Attempt {
	if a.TestID != nil {
		if t, ok := m.tests[*a.TestID]; ok {
			t := t
			a.Test = &t
		}
	}
	return a
}

func (m *Memory) LatestCompleted(userID, testID uint) (*models.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *models.Attempt
	for _, a := range m.attempts {
		a := a
		if a.UserID != userID || !a.Completed || a.TestID == nil || *a.TestID != testID {
			continue
		}
		if latest == nil || (a.CompletedAt != nil && latest.CompletedAt != nil &&
			a.CompletedAt.After(*latest.CompletedAt)) {
			latest = &a
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	out := m.withTest(*latest)
	return &out, nil
}

func (m *Memory) CompletedByUser(userID uint) ([]models.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Attempt
	for _, a := range m.attempts {
		if a.UserID == userID && a.Completed {
			out = append(out, m.withTest(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletedAt == nil || out[j].CompletedAt == nil {
			return out[i].ID > out[j].ID
		}
		return out[i].CompletedAt.After(*out[j].CompletedAt)
	})
	return out, nil
}

func (m *Memory) AnswersByAttempt(attemptID uint) ([]models.UserAnswer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.uanswers[attemptID]
	if !ok {
		return nil, nil
	}
	out := make([]models.UserAnswer, len(stored))
	copy(out, stored)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *Memory) DeleteForUserTest(userID, testID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.attempts {
		if a.UserID == userID && a.TestID != nil && *a.TestID == testID {
			delete(m.attempts, id)
			delete(m.uanswers, id)
		}
	}
	return nil
}

func (m *Memory) UserByID(id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) UserByUsername(username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.id(user.ID)
	m.users[user.ID] = *user
	return nil
}
