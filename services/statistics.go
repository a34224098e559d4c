package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"coursehub/cache"
	"coursehub/logger"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"

	"github.com/jinzhu/now"
)

const (
	statsTTL           = 60 * time.Second
	statsListLimit     = 5
	topBadgeStudentCap = 10
)

// StatisticsService builds the dashboards. Mentors see figures for their own courses only;
// results are cached briefly per scope.
type StatisticsService struct {
	stats *repositories.StatisticsRepository
	cache cache.Cache
	log   *logger.Logger
	now   func() time.Time
}

func NewStatisticsService(stats *repositories.StatisticsRepository, c cache.Cache, log *logger.Logger) *StatisticsService {
	if c == nil {
		c = cache.Noop{}
	}
	return &StatisticsService{stats: stats, cache: c, log: log.With("service", "StatisticsService"), now: time.Now}
}

type UserStats struct {
	Total           int64                   `json:"total"`
	ByRole          []repositories.KeyCount `json:"by_role"`
	NewThisMonth    int64                   `json:"new_this_month"`
	ActiveThisMonth int64                   `json:"active_this_month"`
}

type CourseStats struct {
	Total    int64                   `json:"total"`
	ByStatus []repositories.KeyCount `json:"by_status"`
}

type EnrollmentStats struct {
	Total          int64                   `json:"total"`
	ByStatus       []repositories.KeyCount `json:"by_status"`
	Completed      int64                   `json:"completed"`
	CompletionRate float64                 `json:"completion_rate"`
}

type RevenueStats struct {
	Total                 float64                      `json:"total"`
	Transactions          int64                        `json:"transactions"`
	ThisMonth             float64                      `json:"this_month"`
	ThisMonthTransactions int64                        `json:"this_month_transactions"`
	ByCourse              []repositories.CourseRevenue `json:"by_course,omitempty"`
}

type BadgeStats struct {
	ByType        []repositories.KeyCount          `json:"by_type"`
	StudentAwards int64                            `json:"student_awards"`
	MentorAwards  int64                            `json:"mentor_awards"`
	TopStudents   []repositories.StudentBadgeCount `json:"top_students"`
}

type Dashboard struct {
	Users             *UserStats                      `json:"users,omitempty"`
	Courses           CourseStats                     `json:"courses"`
	Enrollments       EnrollmentStats                 `json:"enrollments"`
	Revenue           RevenueStats                    `json:"revenue"`
	RecentEnrollments []models.Enrollment             `json:"recent_enrollments"`
	PopularCourses    []repositories.CoursePopularity `json:"popular_courses"`
}

// scope returns the mentor filter for the actor: 0 for admins.
func (s *StatisticsService) scope(actor policy.Actor) (uint, error) {
	if err := actor.Authorize(policy.StatsView, policy.Resource{}); err != nil {
		return 0, err
	}
	if actor.IsAdmin() {
		return 0, nil
	}
	return actor.MentorID, nil
}

func (s *StatisticsService) Dashboard(ctx context.Context, actor policy.Actor) (*Dashboard, error) {
	mentorID, err := s.scope(actor)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("stats:dashboard:%d", mentorID)
	return cache.Remember(ctx, s.cache, s.log, key, statsTTL, func() (*Dashboard, error) {
		d := &Dashboard{}
		if mentorID == 0 {
			users, err := s.userStats(ctx)
			if err != nil {
				return nil, err
			}
			d.Users = users
		}

		byStatus, err := s.stats.CoursesByStatus(ctx, mentorID)
		if err != nil {
			return nil, err
		}
		d.Courses = CourseStats{Total: sumCounts(byStatus), ByStatus: byStatus}

		enrollments, err := s.enrollmentStats(ctx, mentorID)
		if err != nil {
			return nil, err
		}
		d.Enrollments = *enrollments

		revenue, err := s.revenueStats(ctx, mentorID, false)
		if err != nil {
			return nil, err
		}
		d.Revenue = *revenue

		if d.RecentEnrollments, err = s.stats.RecentEnrollments(ctx, mentorID, statsListLimit); err != nil {
			return nil, err
		}
		if d.PopularCourses, err = s.stats.PopularCourses(ctx, mentorID, statsListLimit); err != nil {
			return nil, err
		}
		return d, nil
	})
}

func (s *StatisticsService) Enrollments(ctx context.Context, actor policy.Actor) (*EnrollmentStats, error) {
	mentorID, err := s.scope(actor)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("stats:enrollments:%d", mentorID)
	return cache.Remember(ctx, s.cache, s.log, key, statsTTL, func() (*EnrollmentStats, error) {
		return s.enrollmentStats(ctx, mentorID)
	})
}

func (s *StatisticsService) Revenue(ctx context.Context, actor policy.Actor) (*RevenueStats, error) {
	mentorID, err := s.scope(actor)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("stats:revenue:%d", mentorID)
	return cache.Remember(ctx, s.cache, s.log, key, statsTTL, func() (*RevenueStats, error) {
		return s.revenueStats(ctx, mentorID, true)
	})
}

func (s *StatisticsService) Users(ctx context.Context, actor policy.Actor) (*UserStats, error) {
	if err := actor.Authorize(policy.StatsAdminView, policy.Resource{}); err != nil {
		return nil, err
	}
	return cache.Remember(ctx, s.cache, s.log, "stats:users", statsTTL, func() (*UserStats, error) {
		return s.userStats(ctx)
	})
}

func (s *StatisticsService) Badges(ctx context.Context, actor policy.Actor) (*BadgeStats, error) {
	if err := actor.Authorize(policy.StatsAdminView, policy.Resource{}); err != nil {
		return nil, err
	}
	return cache.Remember(ctx, s.cache, s.log, "stats:badges", statsTTL, func() (*BadgeStats, error) {
		byType, err := s.stats.BadgesByType(ctx)
		if err != nil {
			return nil, err
		}
		students, mentors, err := s.stats.CountAwards(ctx)
		if err != nil {
			return nil, err
		}
		top, err := s.stats.TopBadgeStudents(ctx, topBadgeStudentCap)
		if err != nil {
			return nil, err
		}
		return &BadgeStats{ByType: byType, StudentAwards: students, MentorAwards: mentors, TopStudents: top}, nil
	})
}

func (s *StatisticsService) userStats(ctx context.Context) (*UserStats, error) {
	monthStart := now.With(s.now()).BeginningOfMonth()

	total, err := s.stats.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.stats.UsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	fresh, err := s.stats.NewUsersSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	active, err := s.stats.ActiveUsersSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	return &UserStats{Total: total, ByRole: byRole, NewThisMonth: fresh, ActiveThisMonth: active}, nil
}

func (s *StatisticsService) enrollmentStats(ctx context.Context, mentorID uint) (*EnrollmentStats, error) {
	byStatus, err := s.stats.EnrollmentsByStatus(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	completed, err := s.stats.CompletedEnrollments(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	total := sumCounts(byStatus)
	return &EnrollmentStats{
		Total:          total,
		ByStatus:       byStatus,
		Completed:      completed,
		CompletionRate: percentage(completed, total),
	}, nil
}

func (s *StatisticsService) revenueStats(ctx context.Context, mentorID uint, withCourses bool) (*RevenueStats, error) {
	total, txns, err := s.stats.Revenue(ctx, mentorID, nil)
	if err != nil {
		return nil, err
	}
	monthStart := now.With(s.now()).BeginningOfMonth()
	month, monthTxns, err := s.stats.Revenue(ctx, mentorID, &monthStart)
	if err != nil {
		return nil, err
	}
	out := &RevenueStats{Total: total, Transactions: txns, ThisMonth: month, ThisMonthTransactions: monthTxns}
	if withCourses {
		if out.ByCourse, err = s.stats.RevenueByCourse(ctx, mentorID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func sumCounts(counts []repositories.KeyCount) int64 {
	var total int64
	for _, c := range counts {
		total += c.Total
	}
	return total
}

// percentage is part/whole*100 rounded to two decimals, 0 when whole is 0.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}
