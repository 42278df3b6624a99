package services

import (
	"fmt"

	"github.com/devfolio/devfolio/internal/models"
	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create inserts a notification. The actor must not be the recipient; events
// a user triggers on their own content never notify.
func (s *NotificationService) Create(tx *gorm.DB, recipientID uint, ntype, message string, actorID *uint, projectID *uint) error {
	if actorID != nil && *actorID == recipientID {
		return nil
	}

	n := models.Notification{
		Type:          ntype,
		Message:       message,
		UserID:        recipientID,
		RelatedUserID: actorID,
		ProjectID:     projectID,
	}
	return tx.Create(&n).Error
}

// NotifyLike records that actor liked project for the project's author.
func (s *NotificationService) NotifyLike(tx *gorm.DB, actor *models.User, project *models.Project) error {
	message := fmt.Sprintf("%s liked your project '%s'", actor.Username, project.Title)
	return s.Create(tx, project.UserID, models.NotificationLike, message, &actor.ID, &project.ID)
}

// NotifyComment records that actor commented on project for the author.
func (s *NotificationService) NotifyComment(tx *gorm.DB, actor *models.User, project *models.Project) error {
	message := fmt.Sprintf("%s commented on your project '%s'", actor.Username, project.Title)
	return s.Create(tx, project.UserID, models.NotificationComment, message, &actor.ID, &project.ID)
}

// NotifyFollow records that actor started following target.
func (s *NotificationService) NotifyFollow(tx *gorm.DB, actor *models.User, targetID uint) error {
	message := fmt.Sprintf("%s started following you", actor.Username)
	return s.Create(tx, targetID, models.NotificationFollow, message, &actor.ID, nil)
}

type NotificationListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type NotificationListResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.Notification `json:"items"`
}

// List returns the recipient's notifications newest-first and marks every
// unread one as read. Fetch and flag update run in one transaction so the
// returned page and the cleared unread counter cannot diverge.
func (s *NotificationService) List(userID uint, req *NotificationListRequest) (*NotificationListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var notifications []models.Notification
	var total int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Notification{}).Where("user_id = ?", userID)
		query.Count(&total)

		offset := (req.Page - 1) * req.PageSize
		if err := query.Preload("RelatedUser").
			Offset(offset).Limit(req.PageSize).
			Order("created_at DESC").
			Find(&notifications).Error; err != nil {
			return err
		}

		return tx.Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", userID, false).
			Update("read", true).Error
	})
	if err != nil {
		return nil, err
	}

	return &NotificationListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    notifications,
	}, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
