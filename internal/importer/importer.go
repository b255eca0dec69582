package importer

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/licenseprep/curricula/internal/checkpoint"
	"github.com/licenseprep/curricula/internal/chunker"
	"github.com/licenseprep/curricula/internal/docparse"
	"github.com/licenseprep/curricula/internal/microquiz"
	"github.com/licenseprep/curricula/internal/outline"
	"github.com/licenseprep/curricula/internal/questions"
	"github.com/licenseprep/curricula/internal/srs"
	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

// SystemUserID owns curriculum-generated flashcards; user-requested
// generation runs under the real user's ID instead.
var SystemUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

const (
	examQuestionCap          = 20
	examPassingScore         = 70
	comprehensiveQuestionCap = 100
)

// Store aggregates every persistence call the import pipeline makes. The
// concrete store satisfies it; tests substitute an in-memory fake.
type Store interface {
	outline.CurriculumStore
	microquiz.CheckpointStore
	srs.FlashcardStore

	ReplaceChunks(ctx context.Context, lessonID uuid.UUID, chunks []models.ContentChunk) error
	ReplaceCheckpoints(ctx context.Context, lessonID uuid.UUID, cps []models.Checkpoint) error
	EnsureBank(ctx context.Context, key, title string) (*models.QuestionBank, bool, error)
	AddQuestions(ctx context.Context, bankID uuid.UUID, qs []models.ExtractedQuestion) (int, error)
	EnsureExamConfig(ctx context.Context, cfg *models.ExamConfig) (bool, error)
	ClearCurriculum(ctx context.Context) error
}

// Options tune the pipeline; zero values take the package defaults.
type Options struct {
	ChunkTargetTokens int
	Embedder          chunker.Embedder
	ClearFirst        bool
}

// Importer runs the full document-to-curriculum pipeline. Parse and
// outline failures abort the run; per-lesson phase failures are recorded
// and skipped so one bad lesson never sinks the rest.
type Importer struct {
	store     Store
	parser    *docparse.Parser
	mapper    *outline.Mapper
	chunker   *chunker.Chunker
	builder   *checkpoint.Builder
	microquiz *microquiz.Extractor
	questions *questions.Extractor
	generator *srs.Generator
	clear     bool
	log       *logger.Logger
}

func New(store Store, opts Options, log *logger.Logger) *Importer {
	return &Importer{
		store:     store,
		parser:    docparse.New(log),
		mapper:    outline.New(store, log),
		chunker:   chunker.New(opts.ChunkTargetTokens, opts.Embedder, log),
		builder:   checkpoint.New(log),
		microquiz: microquiz.New(store, log),
		questions: questions.New(log),
		generator: srs.NewGenerator(store, nil, log),
		clear:     opts.ClearFirst,
		log:       log.With("component", "importer"),
	}
}

// Run imports one curriculum document. Re-running over the same document
// is idempotent: slugs dedupe the outline, replacement keeps chunks and
// checkpoints single-set, and the content hash suppresses repeat
// flashcards. Question banks are additive.
func (imp *Importer) Run(ctx context.Context, path string) (*models.ImportResult, error) {
	result := &models.ImportResult{}

	if imp.clear {
		if err := imp.store.ClearCurriculum(ctx); err != nil {
			return result, fmt.Errorf("clear existing curriculum: %w", err)
		}
		imp.clear = false // once per importer, not per document
		imp.log.Info("existing curriculum cleared")
	}

	nodes, err := imp.parser.Parse(path)
	if err != nil {
		return result, err
	}

	tree, err := imp.mapper.MapToOutline(nodes)
	if err != nil {
		return result, err
	}

	stats, lessons, err := imp.mapper.Persist(ctx, tree)
	result.Tracks = stats.TracksCreated
	result.Modules = stats.ModulesCreated
	result.Lessons = stats.LessonsCreated
	if err != nil {
		return result, err
	}

	for _, pl := range lessons {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		imp.processLesson(ctx, pl, result)
	}

	if err := imp.importQuestions(ctx, nodes, result); err != nil {
		return result, err
	}

	imp.log.Info("import complete",
		"path", path,
		"tracks", result.Tracks,
		"modules", result.Modules,
		"lessons", result.Lessons,
		"chunks", result.Chunks,
		"questions", result.Questions,
		"flashcards", result.Flashcards,
		"lesson_errors", len(result.Errors),
	)
	return result, nil
}

// RunDirectory imports the given documents sequentially in the order
// provided. Results accumulate into one ImportResult.
func (imp *Importer) RunDirectory(ctx context.Context, paths []string) (*models.ImportResult, error) {
	total := &models.ImportResult{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		res, err := imp.Run(ctx, path)
		merge(total, res)
		if err != nil {
			return total, fmt.Errorf("import %s: %w", path, err)
		}
	}
	return total, nil
}

// processLesson runs the per-lesson phases. Each failure becomes a
// LessonError; later phases for the same lesson still run.
func (imp *Importer) processLesson(ctx context.Context, pl outline.PersistedLesson, result *models.ImportResult) {
	lesson := pl.Lesson
	record := func(phase string, err error) {
		imp.log.Warn("lesson phase failed",
			"lesson", lesson.Title, "phase", phase, "error", err)
		result.Errors = append(result.Errors, models.LessonError{
			LessonID:    lesson.ID,
			LessonTitle: lesson.Title,
			Phase:       phase,
			Err:         err.Error(),
		})
	}

	chunks := imp.chunker.Chunk(ctx, lesson.ID, lesson.Content)
	if err := imp.store.ReplaceChunks(ctx, lesson.ID, chunks); err != nil {
		record("chunking", err)
	} else {
		result.Chunks += len(chunks)
	}

	headingIndex := checkpoint.BuildHeadingIndex(lesson.Content)
	var ceMeta *models.CERequirements
	if pl.TrackCEHours > 0 {
		ceMeta = &models.CERequirements{Hours: pl.TrackCEHours}
	}
	cps := imp.builder.Build(lesson, headingIndex, ceMeta)
	if err := imp.store.ReplaceCheckpoints(ctx, lesson.ID, cps); err != nil {
		record("checkpoints", err)
		// The microquiz update needs a checkpoint row to land on.
		return
	}

	if err := imp.microquiz.ApplyTo(ctx, lesson.ID); err != nil {
		record("microquiz", err)
	}

	cards := srs.ExtractDefinitionCards(lesson.Content)
	if len(cards) > 0 {
		res, err := imp.generator.PersistTermCards(ctx, SystemUserID, lesson.ID, cards)
		if err != nil {
			record("flashcards", err)
		} else {
			result.Flashcards += res.Created
		}
	}
}

// importQuestions persists extracted banks and derives exam configs from
// them. Bank persistence failures are fatal: questions are document-level,
// not lesson-level, so there is no smaller unit to isolate.
func (imp *Importer) importQuestions(ctx context.Context, nodes []models.ParsedNode, result *models.ImportResult) error {
	banks := imp.questions.Extract(nodes)

	var keys []string
	total := 0
	for key := range banks {
		if key != "" && len(banks[key]) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var examKeys []string
	for _, key := range keys {
		qs := banks[key]
		bank, created, err := imp.store.EnsureBank(ctx, key, bankTitle(key, qs))
		if err != nil {
			return fmt.Errorf("ensure bank %q: %w", key, err)
		}
		if created {
			result.Banks++
		}
		added, err := imp.store.AddQuestions(ctx, bank.ID, qs)
		if err != nil {
			return fmt.Errorf("add questions to bank %q: %w", key, err)
		}
		result.Questions += added
		if added > 0 || created {
			examKeys = append(examKeys, key)
			total += added
		}
	}

	return imp.deriveExams(ctx, examKeys, banks, total, result)
}

// deriveExams writes one practice exam per bank plus a comprehensive exam
// spanning all banks once at least two exist.
func (imp *Importer) deriveExams(ctx context.Context, keys []string, banks map[string][]models.ExtractedQuestion, total int, result *models.ImportResult) error {
	for _, key := range keys {
		count := len(banks[key])
		if count > examQuestionCap {
			count = examQuestionCap
		}
		cfg := &models.ExamConfig{
			ID:               uuid.New(),
			Slug:             examSlug(key),
			Title:            bankTitle(key, banks[key]) + " Practice Exam",
			BankKeys:         []string{key},
			QuestionCount:    count,
			PassingScore:     examPassingScore,
			TimeLimitMinutes: 2 * count,
		}
		created, err := imp.store.EnsureExamConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("ensure exam config %q: %w", cfg.Slug, err)
		}
		if created {
			result.Exams++
		}
	}

	if len(keys) >= 2 {
		count := total
		if count > comprehensiveQuestionCap {
			count = comprehensiveQuestionCap
		}
		cfg := &models.ExamConfig{
			ID:               uuid.New(),
			Slug:             "comprehensive-practice",
			Title:            "Comprehensive Practice Exam",
			BankKeys:         keys,
			QuestionCount:    count,
			PassingScore:     examPassingScore,
			TimeLimitMinutes: 2 * count,
		}
		created, err := imp.store.EnsureExamConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("ensure comprehensive exam config: %w", err)
		}
		if created {
			result.Exams++
		}
	}
	return nil
}

// examSlug keeps the derived slug inside the column width.
func examSlug(key string) string {
	slug := key + "-exam"
	if len(slug) > 50 {
		slug = slug[:45] + "-exam"
	}
	return slug
}

// bankTitle prefers the topic heading the questions came from, falling
// back to the key itself.
func bankTitle(key string, qs []models.ExtractedQuestion) string {
	for _, q := range qs {
		if q.Topic != "" {
			return q.Topic
		}
	}
	return key
}

func merge(total, part *models.ImportResult) {
	total.Tracks += part.Tracks
	total.Modules += part.Modules
	total.Lessons += part.Lessons
	total.Chunks += part.Chunks
	total.Banks += part.Banks
	total.Questions += part.Questions
	total.Exams += part.Exams
	total.Flashcards += part.Flashcards
	total.Errors = append(total.Errors, part.Errors...)
}
