package models

// ChunkMetadata describes the provenance of a single retrieved passage.
// LessonNumber is nil for course-level content that is not tied to a lesson.
type ChunkMetadata struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
}

// SearchResults is the unified result envelope returned by vector store
// searches. Documents, Metadata and Distances are parallel slices. When Error
// is set the result carries no documents and the error string is intended to
// be surfaced to the model verbatim.
type SearchResults struct {
	Documents []string        `json:"documents"`
	Metadata  []ChunkMetadata `json:"metadata"`
	Distances []float64       `json:"distances"`
	Error     string          `json:"error,omitempty"`
}

// NewErrorResults creates a SearchResults carrying only an error message.
func NewErrorResults(message string) *SearchResults {
	return &SearchResults{Error: message}
}

// IsEmpty reports whether the search completed without error but matched
// nothing.
func (r *SearchResults) IsEmpty() bool {
	return len(r.Documents) == 0 && r.Error == ""
}
