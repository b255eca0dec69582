package outline

// Tree is the in-memory curriculum recovered from a parsed document,
// before persistence assigns IDs.
type Tree struct {
	Tracks []TrackNode
}

type TrackNode struct {
	Title       string
	Description string
	CEHours     float64
	Modules     []ModuleNode
}

type ModuleNode struct {
	Title       string
	Description string
	Lessons     []LessonNode
}

type LessonNode struct {
	Title           string
	Description     string
	Content         string
	Objectives      []string
	DurationMinutes int
}

// PersistStats counts entities newly created by Persist; pre-existing
// slugs are not counted.
type PersistStats struct {
	TracksCreated  int
	ModulesCreated int
	LessonsCreated int
}
