package services

import (
	"errors"

	"github.com/devfolio/devfolio/internal/models"
	"github.com/devfolio/devfolio/pkg/response"
	"gorm.io/gorm"
)

type LikeService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		db:            db,
		notifications: NewNotificationService(db),
	}
}

type ToggleLikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// Toggle flips the like state for (user, project) and returns the new state
// with the fresh count. Only published projects can be liked. The whole
// check-and-mutate runs in one transaction; if two toggles race, the unique
// (user_id, project_id) index rejects the loser, which surfaces as a 409 the
// client can simply retry.
func (s *LikeService) Toggle(userID uint, projectID uint) (*ToggleLikeResult, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if !project.IsPublished {
		return nil, response.NewForbidden("this project is not published")
	}

	var actor models.User
	if err := s.db.First(&actor, userID).Error; err != nil {
		return nil, err
	}

	result := ToggleLikeResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND project_id = ?", userID, projectID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			result.Liked = false
		} else {
			like := models.Like{UserID: userID, ProjectID: projectID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			result.Liked = true

			if err := s.notifications.NotifyLike(tx, &actor, &project); err != nil {
				return err
			}
		}

		return tx.Model(&models.Like{}).
			Where("project_id = ?", projectID).
			Count(&result.LikeCount).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("like state changed concurrently, retry")
		}
		return nil, err
	}

	return &result, nil
}

// IsLikedBy reports whether the user has liked the project.
func (s *LikeService) IsLikedBy(userID uint, projectID uint) bool {
	if userID == 0 {
		return false
	}
	var count int64
	s.db.Model(&models.Like{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count)
	return count > 0
}
