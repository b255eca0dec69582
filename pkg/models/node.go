package models

// NodeKind classifies a parsed document node.
type NodeKind string

const (
	NodeHeading  NodeKind = "heading"
	NodeContent  NodeKind = "content"
	NodeQuestion NodeKind = "question"
	NodeAnswer   NodeKind = "answer"
)

// ParsedNode is one structural unit of a source document, ordered by
// document position. Level is only meaningful for heading nodes (1-5 after
// normalization). PageNumber is 0 when the source format carries no pages.
type ParsedNode struct {
	Level      int
	Text       string
	RawMarkup  string
	Kind       NodeKind
	PageNumber int
}
