package acceptance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/licenseprep/curricula/pkg/models"
)

// MemoryStore is an in-memory stand-in for the persistence layer with the
// same contracts: slug-idempotent Ensure calls, whole-set replacement for
// chunks and checkpoints, hash-deduplicated flashcards.
type MemoryStore struct {
	mu sync.Mutex

	Tracks      map[string]*models.Track  // by slug
	Modules     map[string]*models.Module // by trackID|slug
	Lessons     map[uuid.UUID]*models.Lesson
	lessonSlugs map[string]uuid.UUID

	Chunks      map[uuid.UUID][]models.ContentChunk
	Checkpoints map[uuid.UUID][]models.Checkpoint
	Banks       map[string]*models.QuestionBank
	Questions   map[uuid.UUID][]models.Question
	Exams       map[string]*models.ExamConfig
	Flashcards  map[string]*models.Flashcard // by hash
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Tracks:      make(map[string]*models.Track),
		Modules:     make(map[string]*models.Module),
		Lessons:     make(map[uuid.UUID]*models.Lesson),
		lessonSlugs: make(map[string]uuid.UUID),
		Chunks:      make(map[uuid.UUID][]models.ContentChunk),
		Checkpoints: make(map[uuid.UUID][]models.Checkpoint),
		Banks:       make(map[string]*models.QuestionBank),
		Questions:   make(map[uuid.UUID][]models.Question),
		Exams:       make(map[string]*models.ExamConfig),
		Flashcards:  make(map[string]*models.Flashcard),
	}
}

func (s *MemoryStore) EnsureTrack(_ context.Context, t *models.Track) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.Tracks[t.Slug]; ok {
		*t = *existing
		return false, nil
	}
	stored := *t
	s.Tracks[t.Slug] = &stored
	return true, nil
}

func (s *MemoryStore) EnsureModule(_ context.Context, m *models.Module) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := m.TrackID.String() + "|" + m.Slug
	if existing, ok := s.Modules[key]; ok {
		*m = *existing
		return false, nil
	}
	stored := *m
	s.Modules[key] = &stored
	return true, nil
}

func (s *MemoryStore) EnsureLesson(_ context.Context, l *models.Lesson) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.lessonSlugs[l.Slug]; ok {
		*l = *s.Lessons[id]
		return false, nil
	}
	stored := *l
	s.Lessons[l.ID] = &stored
	s.lessonSlugs[l.Slug] = l.ID
	return true, nil
}

func (s *MemoryStore) GetLesson(_ context.Context, id uuid.UUID) (*models.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lesson, ok := s.Lessons[id]
	if !ok {
		return nil, fmt.Errorf("lesson %s not found", id)
	}
	copied := *lesson
	return &copied, nil
}

func (s *MemoryStore) ReplaceChunks(_ context.Context, lessonID uuid.UUID, chunks []models.ContentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Chunks[lessonID] = append([]models.ContentChunk(nil), chunks...)
	return nil
}

func (s *MemoryStore) ReplaceCheckpoints(_ context.Context, lessonID uuid.UUID, cps []models.Checkpoint) error {
	if err := models.ValidateCheckpointSequence(cps); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Checkpoints[lessonID] = append([]models.Checkpoint(nil), cps...)
	return nil
}

func (s *MemoryStore) UpdateMicroquiz(_ context.Context, lessonID uuid.UUID, quiz models.QuizPayload, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cps := s.Checkpoints[lessonID]
	for i := range cps {
		if cps[i].Type == models.CheckpointMicroquiz {
			cps[i].Quiz = datatypes.NewJSONType(quiz)
			cps[i].BodyMarkdown = body
			return nil
		}
	}
	return fmt.Errorf("lesson %s has no microquiz checkpoint", lessonID)
}

func (s *MemoryStore) EnsureBank(_ context.Context, key, title string) (*models.QuestionBank, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.Banks[key]; ok {
		copied := *existing
		return &copied, false, nil
	}
	bank := &models.QuestionBank{ID: uuid.New(), Key: key, Title: title}
	s.Banks[key] = bank
	copied := *bank
	return &copied, true, nil
}

func (s *MemoryStore) AddQuestions(_ context.Context, bankID uuid.UUID, qs []models.ExtractedQuestion) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			continue
		}
		s.Questions[bankID] = append(s.Questions[bankID], models.Question{
			ID:          uuid.New(),
			BankID:      bankID,
			Type:        q.Type,
			Stem:        q.Stem,
			Options:     q.Options,
			AnswerKey:   q.AnswerKey,
			Difficulty:  q.Difficulty,
			Topic:       q.Topic,
			Explanation: q.Explanation,
		})
		added++
	}
	return added, nil
}

func (s *MemoryStore) EnsureExamConfig(_ context.Context, cfg *models.ExamConfig) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.Exams[cfg.Slug]; ok {
		*cfg = *existing
		return false, nil
	}
	stored := *cfg
	s.Exams[cfg.Slug] = &stored
	return true, nil
}

func (s *MemoryStore) CreateFlashcardIfAbsent(_ context.Context, card *models.Flashcard) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Flashcards[card.Hash]; ok {
		return false, nil
	}
	stored := *card
	s.Flashcards[card.Hash] = &stored
	return true, nil
}

func (s *MemoryStore) ClearCurriculum(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Tracks = make(map[string]*models.Track)
	s.Modules = make(map[string]*models.Module)
	s.Lessons = make(map[uuid.UUID]*models.Lesson)
	s.lessonSlugs = make(map[string]uuid.UUID)
	s.Chunks = make(map[uuid.UUID][]models.ContentChunk)
	s.Checkpoints = make(map[uuid.UUID][]models.Checkpoint)
	s.Banks = make(map[string]*models.QuestionBank)
	s.Questions = make(map[uuid.UUID][]models.Question)
	s.Exams = make(map[string]*models.ExamConfig)
	// Flashcards survive a clear, like the real store.
	return nil
}

// SortedLessons returns stored lessons ordered by slug, for deterministic
// assertions.
func (s *MemoryStore) SortedLessons() []models.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	lessons := make([]models.Lesson, 0, len(s.Lessons))
	for _, l := range s.Lessons {
		lessons = append(lessons, *l)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Slug < lessons[j].Slug })
	return lessons
}

// WriteFixture writes an HTML course document into dir and returns its
// path.
func WriteFixture(dir, name, html string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", err
	}
	return path, nil
}
