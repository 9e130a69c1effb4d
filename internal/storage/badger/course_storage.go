package badger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// CourseStore implements the VectorStore interface on top of Badger using
// keyword-overlap ranking over stored course chunks. It carries the catalog
// metadata (courses, lessons, links) and the searchable content.
type CourseStore struct {
	db         *BadgerDB
	logger     arbor.ILogger
	maxResults int
}

var _ interfaces.VectorStore = (*CourseStore)(nil)

// NewCourseStore creates a new CourseStore instance
func NewCourseStore(db *BadgerDB, maxResults int, logger arbor.ILogger) *CourseStore {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &CourseStore{
		db:         db,
		logger:     logger,
		maxResults: maxResults,
	}
}

// AddCourse stores a course's catalog entry and its content chunks.
func (s *CourseStore) AddCourse(ctx context.Context, course *models.Course, chunks []models.CourseChunk) error {
	if course == nil || course.Title == "" {
		return fmt.Errorf("course title is required")
	}

	if err := s.db.Store().Upsert(course.Title, course); err != nil {
		return fmt.Errorf("failed to save course %s: %w", course.Title, err)
	}

	for i := range chunks {
		chunk := chunks[i]
		if chunk.ID == "" {
			chunk.ID = fmt.Sprintf("%s_%d", course.Title, i)
		}
		chunk.CourseTitle = course.Title
		if err := s.db.Store().Upsert(chunk.ID, &chunk); err != nil {
			return fmt.Errorf("failed to save chunk %s: %w", chunk.ID, err)
		}
	}

	s.logger.Debug().
		Str("course", course.Title).
		Int("chunks", len(chunks)).
		Msg("Course added to content store")

	return nil
}

// Search retrieves course content matching the query, optionally filtered by
// course name and lesson number. An unresolvable course name is reported via
// SearchResults.Error so the caller can surface it to the model.
func (s *CourseStore) Search(ctx context.Context, query string, courseName string, lessonNumber *int) (*models.SearchResults, error) {
	resolvedTitle := ""
	if courseName != "" {
		title, err := s.ResolveCourseName(ctx, courseName)
		if err != nil {
			return nil, err
		}
		if title == "" {
			return models.NewErrorResults(fmt.Sprintf("No course found matching '%s'", courseName)), nil
		}
		resolvedTitle = title
	}

	var chunks []models.CourseChunk
	var err error
	if resolvedTitle != "" {
		err = s.db.Store().Find(&chunks, badgerhold.Where("CourseTitle").Eq(resolvedTitle))
	} else {
		err = s.db.Store().Find(&chunks, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search course content: %w", err)
	}

	terms := queryTerms(query)
	type scored struct {
		chunk models.CourseChunk
		score float64
	}

	matches := make([]scored, 0, len(chunks))
	for _, chunk := range chunks {
		if lessonNumber != nil {
			if chunk.LessonNumber == nil || *chunk.LessonNumber != *lessonNumber {
				continue
			}
		}
		score := overlapScore(terms, chunk.Content)
		if score <= 0 {
			continue
		}
		matches = append(matches, scored{chunk: chunk, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > s.maxResults {
		matches = matches[:s.maxResults]
	}

	results := &models.SearchResults{
		Documents: make([]string, 0, len(matches)),
		Metadata:  make([]models.ChunkMetadata, 0, len(matches)),
		Distances: make([]float64, 0, len(matches)),
	}
	for _, m := range matches {
		results.Documents = append(results.Documents, m.chunk.Content)
		results.Metadata = append(results.Metadata, models.ChunkMetadata{
			CourseTitle:  m.chunk.CourseTitle,
			LessonNumber: m.chunk.LessonNumber,
		})
		results.Distances = append(results.Distances, 1.0-m.score)
	}

	return results, nil
}

// ResolveCourseName maps a partial course name to the canonical course title.
// Matching order: exact (case-insensitive), substring, then best term overlap.
func (s *CourseStore) ResolveCourseName(ctx context.Context, name string) (string, error) {
	titles, err := s.CourseTitles(ctx)
	if err != nil {
		return "", err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", nil
	}

	for _, title := range titles {
		if strings.ToLower(title) == needle {
			return title, nil
		}
	}

	for _, title := range titles {
		lower := strings.ToLower(title)
		if strings.Contains(lower, needle) || strings.Contains(needle, lower) {
			return title, nil
		}
	}

	terms := queryTerms(name)
	best := ""
	bestScore := 0.0
	for _, title := range titles {
		score := overlapScore(terms, title)
		if score > bestScore {
			best = title
			bestScore = score
		}
	}

	return best, nil
}

// GetLessonLink returns the link for a lesson, or "" when unknown
func (s *CourseStore) GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error) {
	course, err := s.GetCourseMetadata(ctx, courseTitle)
	if err != nil {
		return "", err
	}
	if course == nil {
		return "", nil
	}
	return course.LessonLink(lessonNumber), nil
}

// GetCourseLink returns the course-level link, or "" when unknown
func (s *CourseStore) GetCourseLink(ctx context.Context, courseTitle string) (string, error) {
	course, err := s.GetCourseMetadata(ctx, courseTitle)
	if err != nil {
		return "", err
	}
	if course == nil {
		return "", nil
	}
	return course.Link, nil
}

// GetCourseMetadata returns the catalog entry for a course title, or nil
// when the course is unknown
func (s *CourseStore) GetCourseMetadata(ctx context.Context, courseTitle string) (*models.Course, error) {
	var course models.Course
	err := s.db.Store().Get(courseTitle, &course)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course metadata: %w", err)
	}
	return &course, nil
}

// CourseCount returns the number of courses in the catalog
func (s *CourseStore) CourseCount(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Course{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return int(count), nil
}

// CourseTitles returns all course titles in the catalog
func (s *CourseStore) CourseTitles(ctx context.Context) ([]string, error) {
	var courses []models.Course
	if err := s.db.Store().Find(&courses, nil); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	titles := make([]string, 0, len(courses))
	for _, course := range courses {
		titles = append(titles, course.Title)
	}
	sort.Strings(titles)
	return titles, nil
}

// queryTerms splits a query into lowercase terms for overlap scoring
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()")
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}

// overlapScore returns the fraction of query terms present in the text
func overlapScore(terms []string, text string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
