package services

import (
	"errors"
	"strings"

	"github.com/devfolio/devfolio/internal/models"
	"github.com/devfolio/devfolio/pkg/response"
	"gorm.io/gorm"
)

type CommentService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		db:            db,
		notifications: NewNotificationService(db),
	}
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// Add posts a comment on a published project and notifies the author unless
// the commenter is the author.
func (s *CommentService) Add(userID uint, projectID uint, req *AddCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, response.NewValidation("comment cannot be empty")
	}

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

	comment := models.Comment{
		Content:   content,
		UserID:    userID,
		ProjectID: projectID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return s.notifications.NotifyComment(tx, &actor, &project)
	})
	if err != nil {
		return nil, err
	}

	comment.User = &actor
	return &comment, nil
}

// ListByProject returns a project's comments newest-first. Visibility follows
// the project: drafts expose comments to the owner only.
func (s *CommentService) ListByProject(projectID uint, viewerID uint) ([]models.Comment, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if !project.IsPublished && project.UserID != viewerID {
		return nil, response.NewForbidden("this project is not published")
	}

	var comments []models.Comment
	err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}
