package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionStatus tracks a user's progress through a course.
type CompletionStatus string

const (
	StatusInProgress CompletionStatus = "in_progress"
	StatusCompleted  CompletionStatus = "completed"
	StatusDropped    CompletionStatus = "dropped"
)

// CompletionStatuses lists every status in a fixed order.
var CompletionStatuses = []CompletionStatus{StatusInProgress, StatusCompleted, StatusDropped}

func (s CompletionStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

type Video struct {
	Title           string `bson:"title" json:"title"`
	ContentURL      string `bson:"contentUrl" json:"contentUrl"`
	DurationSeconds *int   `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
}

type Task struct {
	Title         string  `bson:"title" json:"title"`
	Description   string  `bson:"description,omitempty" json:"description,omitempty"`
	OrderInLesson int     `bson:"orderInLesson" json:"orderInLesson"`
	Videos        []Video `bson:"videos" json:"videos"`
}

// Lesson is an ordered unit of a course.
type Lesson struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	OrderInCourse int                `bson:"orderInCourse" json:"orderInCourse"`
	Tasks         []Task             `bson:"tasks" json:"tasks"`
}

// TotalVideos counts the videos across all tasks of the lesson.
func (l Lesson) TotalVideos() int {
	n := 0
	for _, t := range l.Tasks {
		n += len(t.Videos)
	}
	return n
}

type Enrollment struct {
	UserID           primitive.ObjectID `bson:"user" json:"user"`
	EnrollmentDate   time.Time          `bson:"enrollmentDate" json:"enrollmentDate"`
	CompletionStatus CompletionStatus   `bson:"completionStatus" json:"completionStatus"`
}

type Review struct {
	UserID     primitive.ObjectID `bson:"user" json:"user"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	ReviewDate time.Time          `bson:"reviewDate" json:"reviewDate"`
}

type Like struct {
	UserID  primitive.ObjectID `bson:"user" json:"user"`
	LikedAt time.Time          `bson:"likedAt" json:"likedAt"`
}

// Course is authored by a trainer. Users interact with it only through the
// enrollments, reviews and likes sub-collections.
type Course struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID     primitive.ObjectID `bson:"trainer" json:"trainer"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	CoverImageURL string             `bson:"coverImageUrl,omitempty" json:"coverImageUrl,omitempty"`
	IsPublished   bool               `bson:"isPublished" json:"isPublished"`
	Lessons       []Lesson           `bson:"lessons" json:"lessons"`
	Enrollments   []Enrollment       `bson:"enrollments" json:"enrollments"`
	Reviews       []Review           `bson:"reviews" json:"reviews"`
	Likes         []Like             `bson:"likes" json:"likes"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (c *Course) IsOwnedBy(userID primitive.ObjectID) bool {
	return c.TrainerID == userID
}

func (c *Course) HasEnrollment(userID primitive.ObjectID) bool {
	return c.enrollmentIndex(userID) >= 0
}

// Enrollment returns the user's enrollment, if any.
func (c *Course) Enrollment(userID primitive.ObjectID) (Enrollment, bool) {
	if i := c.enrollmentIndex(userID); i >= 0 {
		return c.Enrollments[i], true
	}
	return Enrollment{}, false
}

func (c *Course) enrollmentIndex(userID primitive.ObjectID) int {
	for i, e := range c.Enrollments {
		if e.UserID == userID {
			return i
		}
	}
	return -1
}

func (c *Course) HasReview(userID primitive.ObjectID) bool {
	for _, r := range c.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

func (c *Course) HasLike(userID primitive.ObjectID) bool {
	for _, l := range c.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// Revenue is price times the number of enrollments, whatever their status.
func (c *Course) Revenue() float64 {
	return c.Price * float64(len(c.Enrollments))
}

// AverageRating is the mean review rating, 0 when there are no reviews.
func (c *Course) AverageRating() float64 {
	if len(c.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range c.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(c.Reviews))
}

// AssignLessonIDs gives every lesson without an id a fresh one.
func (c *Course) AssignLessonIDs() {
	for i := range c.Lessons {
		if c.Lessons[i].ID.IsZero() {
			c.Lessons[i].ID = primitive.NewObjectID()
		}
	}
}

// ValidateOrdering checks that lesson order indexes are unique within the
// course and task order indexes are unique within each lesson.
func ValidateOrdering(lessons []Lesson) error {
	seenLessons := make(map[int]bool, len(lessons))
	for _, l := range lessons {
		if l.OrderInCourse < 1 {
			return fmt.Errorf("lesson %q: orderInCourse must be at least 1", l.Title)
		}
		if seenLessons[l.OrderInCourse] {
			return fmt.Errorf("duplicate orderInCourse %d", l.OrderInCourse)
		}
		seenLessons[l.OrderInCourse] = true

		seenTasks := make(map[int]bool, len(l.Tasks))
		for _, t := range l.Tasks {
			if t.OrderInLesson < 1 {
				return fmt.Errorf("lesson %q, task %q: orderInLesson must be at least 1", l.Title, t.Title)
			}
			if seenTasks[t.OrderInLesson] {
				return fmt.Errorf("lesson %q: duplicate orderInLesson %d", l.Title, t.OrderInLesson)
			}
			seenTasks[t.OrderInLesson] = true
		}
	}
	return nil
}
