package interfaces

import (
	"context"

	"github.com/lecternlabs/lectern/internal/models"
)

// VectorStore provides search and catalog access over ingested course
// materials. Implementations own course name resolution: a course name that
// cannot be resolved during Search surfaces as SearchResults.Error, not as a
// Go error. Go errors are reserved for store-level failures.
type VectorStore interface {
	// Search retrieves course content matching the query. courseName and
	// lessonNumber are optional filters; pass "" and nil to search the whole
	// catalog. courseName is resolved fuzzily against known course titles.
	Search(ctx context.Context, query string, courseName string, lessonNumber *int) (*models.SearchResults, error)

	// ResolveCourseName maps a partial or fuzzy course name to the canonical
	// course title. Returns "" when no course matches.
	ResolveCourseName(ctx context.Context, name string) (string, error)

	// GetLessonLink returns the link for a lesson, or "" when unknown.
	GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error)

	// GetCourseLink returns the course-level link, or "" when unknown.
	GetCourseLink(ctx context.Context, courseTitle string) (string, error)

	// GetCourseMetadata returns the full catalog entry for a course title.
	GetCourseMetadata(ctx context.Context, courseTitle string) (*models.Course, error)

	// CourseCount returns the number of courses in the catalog.
	CourseCount(ctx context.Context) (int, error)

	// CourseTitles returns all course titles in the catalog.
	CourseTitles(ctx context.Context) ([]string, error)
}
