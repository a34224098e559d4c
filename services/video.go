package services

import (
	"context"
	"strings"

	"coursehub/apperr"
	"coursehub/logger"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"
)

type VideoService struct {
	videos      *repositories.VideoRepository
	courses     *repositories.CourseRepository
	enrollments *repositories.EnrollmentRepository
	log         *logger.Logger
}

func NewVideoService(
	videos *repositories.VideoRepository,
	courses *repositories.CourseRepository,
	enrollments *repositories.EnrollmentRepository,
	log *logger.Logger,
) *VideoService {
	return &VideoService{videos: videos, courses: courses, enrollments: enrollments, log: log.With("service", "VideoService")}
}

type VideoInput struct {
	CourseID      *uint
	Title         *string
	Description   *string
	URL           *string
	Duration      *int
	Order         *int
	IsFreePreview *bool
}

func (s *VideoService) Create(ctx context.Context, actor policy.Actor, in VideoInput) (*models.Video, error) {
	if in.CourseID == nil {
		return nil, apperr.Field("course_id", "The course id field is required.")
	}
	course, err := s.courseOf(ctx, *in.CourseID)
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.VideoManage, policy.Resource{MentorID: course.MentorID}); err != nil {
		return nil, err
	}

	video := &models.Video{CourseID: course.ID}
	applyVideo(video, in)
	if video.Title == "" {
		return nil, apperr.Field("title", "The title field is required.")
	}
	if video.URL == "" {
		return nil, apperr.Field("url", "The url field is required.")
	}
	if in.Order == nil {
		if video.Order, err = s.videos.NextOrder(ctx, course.ID); err != nil {
			return nil, err
		}
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}
	s.log.Info("video created", "video_id", video.ID, "course_id", course.ID, "order", video.Order)
	return s.videos.FindByID(ctx, video.ID)
}

func (s *VideoService) Update(ctx context.Context, actor policy.Actor, id uint, in VideoInput) (*models.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(ctx, actor, video.CourseID); err != nil {
		return nil, err
	}
	if in.CourseID != nil && *in.CourseID != video.CourseID {
		// Moving a video needs the same rights on the target course.
		if err := s.authorizeManage(ctx, actor, *in.CourseID); err != nil {
			return nil, err
		}
		video.CourseID = *in.CourseID
	}
	applyVideo(video, in)
	video.Course = nil
	if err := s.videos.Save(ctx, video); err != nil {
		return nil, err
	}
	return s.videos.FindByID(ctx, id)
}

func applyVideo(v *models.Video, in VideoInput) {
	if in.Title != nil {
		v.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		v.Description = *in.Description
	}
	if in.URL != nil {
		v.URL = strings.TrimSpace(*in.URL)
	}
	if in.Duration != nil {
		v.Duration = *in.Duration
	}
	if in.Order != nil {
		v.Order = *in.Order
	}
	if in.IsFreePreview != nil {
		v.IsFreePreview = *in.IsFreePreview
	}
}

func (s *VideoService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(ctx, actor, video.CourseID); err != nil {
		return err
	}
	return s.videos.Delete(ctx, id)
}

// Reorder assigns new positions to videos of a course in one transaction.
func (s *VideoService) Reorder(ctx context.Context, actor policy.Actor, courseID uint, orders map[uint]int) ([]models.Video, error) {
	if err := s.authorizeManage(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if err := s.videos.Reorder(ctx, courseID, orders); err != nil {
		return nil, err
	}
	return s.videos.ByCourse(ctx, courseID)
}

// Get returns a video. Free previews are open to everyone, other videos need course access.
func (s *VideoService) Get(ctx context.Context, actor policy.Actor, id uint) (*models.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video.IsFreePreview {
		return video, nil
	}

	res := policy.Resource{}
	if video.Course != nil {
		res.MentorID = video.Course.MentorID
	}
	if actor.StudentID != 0 {
		approved, err := s.enrollments.HasApproved(ctx, actor.StudentID, video.CourseID)
		if err != nil {
			return nil, err
		}
		if approved {
			res.StudentID = actor.StudentID
		}
	}
	if err := actor.Authorize(policy.VideoWatch, res); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *VideoService) List(ctx context.Context) ([]models.Video, error) {
	return s.videos.All(ctx)
}

func (s *VideoService) ByCourse(ctx context.Context, courseID uint) ([]models.Video, error) {
	if _, err := s.courseOf(ctx, courseID); err != nil {
		return nil, err
	}
	return s.videos.ByCourse(ctx, courseID)
}

func (s *VideoService) FreePreviews(ctx context.Context, courseID uint) ([]models.Video, error) {
	if _, err := s.courseOf(ctx, courseID); err != nil {
		return nil, err
	}
	return s.videos.FreePreviews(ctx, courseID)
}

func (s *VideoService) authorizeManage(ctx context.Context, actor policy.Actor, courseID uint) error {
	course, err := s.courseOf(ctx, courseID)
	if err != nil {
		return err
	}
	return actor.Authorize(policy.VideoManage, policy.Resource{MentorID: course.MentorID})
}

func (s *VideoService) courseOf(ctx context.Context, courseID uint) (*models.Course, error) {
	return s.courses.FindByID(ctx, courseID, "Mentor")
}
