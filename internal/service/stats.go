package service

import (
	"slices"
	"time"

	"alcyxob/fit-platform/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// StatsWindowMonths is the length of the monthly time series.
	StatsWindowMonths = 6
	// TopCoursesLimit caps the trainer's top-course ranking.
	TopCoursesLimit = 5

	monthKeyLayout = "2006-01"
)

// CompletionRates counts enrollments per completion status. Every status is present.
type CompletionRates map[domain.CompletionStatus]int

func newCompletionRates() CompletionRates {
	rates := make(CompletionRates, len(domain.CompletionStatuses))
	for _, s := range domain.CompletionStatuses {
		rates[s] = 0
	}
	return rates
}

type TrainerGeneralStats struct {
	TotalCourses     int             `json:"totalCourses"`
	PublishedCourses int             `json:"publishedCourses"`
	TotalEnrollments int             `json:"totalEnrollments"`
	TotalRevenue     float64         `json:"totalRevenue"`
	AverageRating    float64         `json:"averageRating"`
	TotalReviews     int             `json:"totalReviews"`
	TotalLikes       int             `json:"totalLikes"`
	CompletionRates  CompletionRates `json:"completionRates"`
}

type TrainerMonthlyStat struct {
	Month       string  `json:"month"`
	Enrollments int     `json:"enrollments"`
	Revenue     float64 `json:"revenue"`
	Reviews     int     `json:"reviews"`
}

type TopCourse struct {
	ID              primitive.ObjectID `json:"id"`
	Title           string             `json:"title"`
	EnrollmentCount int                `json:"enrollmentCount"`
	Revenue         float64            `json:"revenue"`
	AverageRating   float64            `json:"averageRating"`
	LikeCount       int                `json:"likeCount"`
}

type TrainerStats struct {
	GeneralStats TrainerGeneralStats  `json:"generalStats"`
	MonthlyStats []TrainerMonthlyStat `json:"monthlyStats"`
	TopCourses   []TopCourse          `json:"topCourses"`
}

type LessonStat struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	TotalTasks  int                `json:"totalTasks"`
	TotalVideos int                `json:"totalVideos"`
}

type CourseGeneralStats struct {
	TotalEnrollments int             `json:"totalEnrollments"`
	Revenue          float64         `json:"revenue"`
	AverageRating    float64         `json:"averageRating"`
	TotalReviews     int             `json:"totalReviews"`
	TotalLikes       int             `json:"totalLikes"`
	CompletionRates  CompletionRates `json:"completionRates"`
	LessonStats      []LessonStat    `json:"lessonStats"`
}

type CourseMonthlyStat struct {
	Month       string `json:"month"`
	Enrollments int    `json:"enrollments"`
	Reviews     int    `json:"reviews"`
}

type CourseStats struct {
	GeneralStats CourseGeneralStats  `json:"generalStats"`
	MonthlyStats []CourseMonthlyStat `json:"monthlyStats"`
}

// MonthKeys returns the "YYYY-MM" keys of the stats window ending at now's
// UTC month, oldest first.
func MonthKeys(now time.Time) []string {
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	keys := make([]string, StatsWindowMonths)
	for i := 0; i < StatsWindowMonths; i++ {
		keys[StatsWindowMonths-1-i] = current.AddDate(0, -i, 0).Format(monthKeyLayout)
	}
	return keys
}

// monthIndex maps each window key to its position in the series.
func monthIndex(keys []string) map[string]int {
	idx := make(map[string]int, len(keys))
	for i, k := range keys {
		idx[k] = i
	}
	return idx
}

func monthKey(t time.Time) string {
	return t.UTC().Format(monthKeyLayout)
}

// ComputeTrainerStats folds every course of one trainer into the dashboard figures.
func ComputeTrainerStats(courses []domain.Course, now time.Time) TrainerStats {
	keys := MonthKeys(now)
	idx := monthIndex(keys)
	monthly := make([]TrainerMonthlyStat, len(keys))
	for i, k := range keys {
		monthly[i].Month = k
	}

	general := TrainerGeneralStats{
		TotalCourses:    len(courses),
		CompletionRates: newCompletionRates(),
	}
	ratingSum := 0
	top := make([]TopCourse, 0, len(courses))

	for i := range courses {
		c := &courses[i]
		if c.IsPublished {
			general.PublishedCourses++
		}
		general.TotalEnrollments += len(c.Enrollments)
		general.TotalRevenue += c.Revenue()
		general.TotalLikes += len(c.Likes)
		general.TotalReviews += len(c.Reviews)

		for _, e := range c.Enrollments {
			general.CompletionRates[e.CompletionStatus]++
			if m, ok := idx[monthKey(e.EnrollmentDate)]; ok {
				monthly[m].Enrollments++
				monthly[m].Revenue += c.Price
			}
		}
		for _, r := range c.Reviews {
			ratingSum += r.Rating
			if m, ok := idx[monthKey(r.ReviewDate)]; ok {
				monthly[m].Reviews++
			}
		}

		top = append(top, TopCourse{
			ID:              c.ID,
			Title:           c.Title,
			EnrollmentCount: len(c.Enrollments),
			Revenue:         c.Revenue(),
			AverageRating:   c.AverageRating(),
			LikeCount:       len(c.Likes),
		})
	}

	if general.TotalReviews > 0 {
		general.AverageRating = float64(ratingSum) / float64(general.TotalReviews)
	}

	slices.SortStableFunc(top, func(a, b TopCourse) int {
		return b.EnrollmentCount - a.EnrollmentCount
	})
	if len(top) > TopCoursesLimit {
		top = top[:TopCoursesLimit]
	}

	return TrainerStats{
		GeneralStats: general,
		MonthlyStats: monthly,
		TopCourses:   top,
	}
}

// ComputeCourseStats reports the figures of a single course.
func ComputeCourseStats(course *domain.Course, now time.Time) CourseStats {
	keys := MonthKeys(now)
	idx := monthIndex(keys)
	monthly := make([]CourseMonthlyStat, len(keys))
	for i, k := range keys {
		monthly[i].Month = k
	}

	general := CourseGeneralStats{
		TotalEnrollments: len(course.Enrollments),
		Revenue:          course.Revenue(),
		AverageRating:    course.AverageRating(),
		TotalReviews:     len(course.Reviews),
		TotalLikes:       len(course.Likes),
		CompletionRates:  newCompletionRates(),
		LessonStats:      make([]LessonStat, 0, len(course.Lessons)),
	}

	for _, e := range course.Enrollments {
		general.CompletionRates[e.CompletionStatus]++
		if m, ok := idx[monthKey(e.EnrollmentDate)]; ok {
			monthly[m].Enrollments++
		}
	}
	for _, r := range course.Reviews {
		if m, ok := idx[monthKey(r.ReviewDate)]; ok {
			monthly[m].Reviews++
		}
	}
	for _, l := range course.Lessons {
		general.LessonStats = append(general.LessonStats, LessonStat{
			ID:          l.ID,
			Title:       l.Title,
			TotalTasks:  len(l.Tasks),
			TotalVideos: l.TotalVideos(),
		})
	}

	return CourseStats{GeneralStats: general, MonthlyStats: monthly}
}
