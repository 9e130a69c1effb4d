package badger

import (
	"context"
	"os"
	"testing"

	"github.com/lecternlabs/lectern/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

func intPtr(n int) *int {
	return &n
}

func setupCourseStore(t *testing.T) (*CourseStore, func()) {
	tmpDir, err := os.MkdirTemp("", "badger-test")
	if err != nil {
		t.Fatal(err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	db := &BadgerDB{store: store}
	logger := arbor.NewLogger()
	courseStore := NewCourseStore(db, 5, logger)

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}
	return courseStore, cleanup
}

func seedCatalog(t *testing.T, store *CourseStore) {
	ctx := context.Background()

	course := &models.Course{
		Title: "AI Fundamentals",
		Link:  "https://example.com/ai",
		Lessons: []models.Lesson{
			{Number: 1, Title: "Introduction", Link: "https://example.com/ai/l1"},
			{Number: 2, Title: "Neural Networks", Link: "https://example.com/ai/l2"},
		},
	}
	chunks := []models.CourseChunk{
		{ID: "ai_1", LessonNumber: intPtr(1), Content: "An introduction to artificial intelligence and machine learning"},
		{ID: "ai_2", LessonNumber: intPtr(2), Content: "Neural networks learn representations from data"},
	}
	if err := store.AddCourse(ctx, course, chunks); err != nil {
		t.Fatalf("Failed to add course: %v", err)
	}

	other := &models.Course{
		Title: "MCP Course",
		Link:  "https://example.com/mcp",
		Lessons: []models.Lesson{
			{Number: 1, Title: "Servers", Link: "https://example.com/mcp/l1"},
		},
	}
	otherChunks := []models.CourseChunk{
		{ID: "mcp_1", LessonNumber: intPtr(1), Content: "MCP servers expose tools over a protocol"},
	}
	if err := store.AddCourse(ctx, other, otherChunks); err != nil {
		t.Fatalf("Failed to add course: %v", err)
	}
}

func TestResolveCourseName(t *testing.T) {
	store, cleanup := setupCourseStore(t)
	defer cleanup()
	seedCatalog(t, store)

	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exact match", "AI Fundamentals", "AI Fundamentals"},
		{"case insensitive", "ai fundamentals", "AI Fundamentals"},
		{"partial match", "MCP", "MCP Course"},
		{"term overlap", "Fundamentals", "AI Fundamentals"},
		{"no match", "Underwater Basket Weaving", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ResolveCourseName(ctx, tt.input)
			if err != nil {
				t.Fatalf("ResolveCourseName failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSearchFiltersAndRanking(t *testing.T) {
	store, cleanup := setupCourseStore(t)
	defer cleanup()
	seedCatalog(t, store)

	ctx := context.Background()

	// Unfiltered search matches the relevant chunk
	results, err := store.Search(ctx, "neural networks", "", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results.IsEmpty() {
		t.Fatal("Expected results, got none")
	}
	if results.Metadata[0].CourseTitle != "AI Fundamentals" {
		t.Errorf("Expected AI Fundamentals, got %s", results.Metadata[0].CourseTitle)
	}
	if len(results.Documents) != len(results.Metadata) || len(results.Documents) != len(results.Distances) {
		t.Error("Result slices are not parallel")
	}

	// Course filter restricts results
	results, err = store.Search(ctx, "servers protocol", "mcp", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for _, meta := range results.Metadata {
		if meta.CourseTitle != "MCP Course" {
			t.Errorf("Course filter leaked result from %s", meta.CourseTitle)
		}
	}

	// Lesson filter restricts results
	results, err = store.Search(ctx, "introduction artificial intelligence", "AI Fundamentals", intPtr(2))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for _, meta := range results.Metadata {
		if meta.LessonNumber == nil || *meta.LessonNumber != 2 {
			t.Error("Lesson filter leaked result from another lesson")
		}
	}
}

func TestSearchUnresolvableCourse(t *testing.T) {
	store, cleanup := setupCourseStore(t)
	defer cleanup()
	seedCatalog(t, store)

	results, err := store.Search(context.Background(), "anything", "Nonexistent Course XYZ", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results.Error != "No course found matching 'Nonexistent Course XYZ'" {
		t.Errorf("Unexpected error message: %q", results.Error)
	}
	if len(results.Documents) != 0 {
		t.Error("Error results should carry no documents")
	}
}

func TestCatalogLookups(t *testing.T) {
	store, cleanup := setupCourseStore(t)
	defer cleanup()
	seedCatalog(t, store)

	ctx := context.Background()

	count, err := store.CourseCount(ctx)
	if err != nil {
		t.Fatalf("CourseCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 courses, got %d", count)
	}

	titles, err := store.CourseTitles(ctx)
	if err != nil {
		t.Fatalf("CourseTitles failed: %v", err)
	}
	if len(titles) != 2 || titles[0] != "AI Fundamentals" || titles[1] != "MCP Course" {
		t.Errorf("Unexpected titles: %v", titles)
	}

	link, err := store.GetLessonLink(ctx, "AI Fundamentals", 2)
	if err != nil {
		t.Fatalf("GetLessonLink failed: %v", err)
	}
	if link != "https://example.com/ai/l2" {
		t.Errorf("Unexpected lesson link: %s", link)
	}

	link, err = store.GetCourseLink(ctx, "MCP Course")
	if err != nil {
		t.Fatalf("GetCourseLink failed: %v", err)
	}
	if link != "https://example.com/mcp" {
		t.Errorf("Unexpected course link: %s", link)
	}

	course, err := store.GetCourseMetadata(ctx, "AI Fundamentals")
	if err != nil {
		t.Fatalf("GetCourseMetadata failed: %v", err)
	}
	if course == nil || len(course.Lessons) != 2 {
		t.Fatalf("Unexpected course metadata: %+v", course)
	}

	course, err = store.GetCourseMetadata(ctx, "Unknown")
	if err != nil {
		t.Fatalf("GetCourseMetadata failed: %v", err)
	}
	if course != nil {
		t.Error("Expected nil metadata for unknown course")
	}
}
