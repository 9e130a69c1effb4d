package models

// Lesson is a single lesson within a course.
type Lesson struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
}

// Course is the catalog metadata for one course.
type Course struct {
	Title   string   `json:"title" badgerhold:"key"`
	Link    string   `json:"link,omitempty"`
	Lessons []Lesson `json:"lessons"`
}

// LessonLink returns the link for the given lesson number, or empty string
// when the lesson is unknown or has no link.
func (c *Course) LessonLink(number int) string {
	for _, lesson := range c.Lessons {
		if lesson.Number == number {
			return lesson.Link
		}
	}
	return ""
}

// CourseChunk is a unit of searchable course content stored in the content
// store. LessonNumber is nil for course-level material.
type CourseChunk struct {
	ID           string `json:"id" badgerhold:"key"`
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	Content      string `json:"content"`
}

// CourseAnalytics summarizes the catalog for the courses API.
type CourseAnalytics struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}
