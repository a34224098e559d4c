package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"coursehub/apperr"
	"coursehub/models"

	"gorm.io/gorm"
)

type VideoRepository struct {
	*Store[models.Video]
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{Store: NewStore[models.Video](db, "Video", "Course")}
}

func (r *VideoRepository) ByCourse(ctx context.Context, courseID uint) ([]models.Video, error) {
	var out []models.Video
	err := r.Query(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

func (r *VideoRepository) FreePreviews(ctx context.Context, courseID uint) ([]models.Video, error) {
	var out []models.Video
	err := r.Query(ctx).
		Where("course_id = ? AND is_free_preview = ?", courseID, true).
		Order("sort_order asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

// BelongsToCourse reports whether videoID is a live video of courseID.
func (r *VideoRepository) BelongsToCourse(ctx context.Context, videoID, courseID uint) (bool, error) {
	var count int64
	err := r.Query(ctx).
		Where("id = ? AND course_id = ?", videoID, courseID).
		Count(&count).Error
	if err != nil {
		return false, r.wrap(err, "fetch")
	}
	return count > 0, nil
}

// NextOrder is one past the highest order among the course's live videos, 0 for an empty course.
func (r *VideoRepository) NextOrder(ctx context.Context, courseID uint) (int, error) {
	var max sql.NullInt64
	err := r.Query(ctx).
		Select("MAX(sort_order)").
		Where("course_id = ?", courseID).
		Row().
		Scan(&max)
	if err != nil {
		return 0, r.wrap(err, "fetch")
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// Reorder applies orders (video id -> position) in one transaction. Every id must be a live
// video of the course and positions must be distinct. If the new positions collide with videos
// left out of the mapping, the whole course is renumbered 0..n-1 keeping the resulting order,
// with mapped videos winning ties.
func (r *VideoRepository) Reorder(ctx context.Context, courseID uint, orders map[uint]int) error {
	if len(orders) == 0 {
		return apperr.Field("orders", "The orders field is required.")
	}

	ids := make([]uint, 0, len(orders))
	seen := make(map[int]uint, len(orders))
	for id, pos := range orders {
		ids = append(ids, id)
		if pos < 0 {
			return apperr.Field("orders", fmt.Sprintf("Order of video %d must be at least 0.", id))
		}
		if other, dup := seen[pos]; dup {
			lo, hi := other, id
			if lo > hi {
				lo, hi = hi, lo
			}
			return apperr.Field("orders", fmt.Sprintf("Videos %d and %d cannot share order %d.", lo, hi, pos))
		}
		seen[pos] = id
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var videos []models.Video
		err := tx.Where("course_id = ? AND is_deleted = ?", courseID, false).
			Order("sort_order asc, id asc").
			Find(&videos).Error
		if err != nil {
			return r.wrap(err, "fetch")
		}

		owned := make(map[uint]bool, len(videos))
		for _, v := range videos {
			owned[v.ID] = true
		}
		for _, id := range ids {
			if !owned[id] {
				return apperr.Field("orders", fmt.Sprintf("Video %d does not belong to this course.", id))
			}
		}

		for i := range videos {
			if pos, ok := orders[videos[i].ID]; ok {
				videos[i].Order = pos
			}
		}
		sort.SliceStable(videos, func(i, j int) bool {
			if videos[i].Order != videos[j].Order {
				return videos[i].Order < videos[j].Order
			}
			_, mi := orders[videos[i].ID]
			_, mj := orders[videos[j].ID]
			if mi != mj {
				return mi
			}
			return videos[i].ID < videos[j].ID
		})

		renumber := false
		for i := 1; i < len(videos); i++ {
			if videos[i].Order == videos[i-1].Order {
				renumber = true
				break
			}
		}
		if renumber {
			for i := range videos {
				videos[i].Order = i
			}
		}

		for _, v := range videos {
			if _, mapped := orders[v.ID]; !mapped && !renumber {
				continue
			}
			err := tx.Model(&models.Video{}).
				Where("id = ?", v.ID).
				UpdateColumn("sort_order", v.Order).Error
			if err != nil {
				return r.wrap(err, "update")
			}
		}
		return nil
	})
}
