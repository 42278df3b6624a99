package services

import (
	"errors"
	"time"

	"github.com/devfolio/devfolio/internal/models"
	"github.com/devfolio/devfolio/pkg/response"
	"gorm.io/gorm"
)

type UserService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:            db,
		notifications: NewNotificationService(db),
	}
}

// GetByUsername looks up a user by username.
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

type ProfileResponse struct {
	User           *models.User `json:"user"`
	ProjectCount   int64        `json:"project_count"`
	FollowerCount  int64        `json:"follower_count"`
	FollowingCount int64        `json:"following_count"`
	IsFollowing    bool         `json:"is_following"`
}

// Profile returns a user's public profile with follow and project counts.
// viewerID is 0 for anonymous viewers.
func (s *UserService) Profile(username string, viewerID uint) (*ProfileResponse, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{User: user}

	s.db.Model(&models.Project{}).
		Where("user_id = ? AND is_published = ?", user.ID, true).
		Count(&resp.ProjectCount)
	resp.FollowerCount = s.FollowerCount(user.ID)
	resp.FollowingCount = s.FollowingCount(user.ID)

	if viewerID != 0 && viewerID != user.ID {
		resp.IsFollowing = s.isFollowing(viewerID, user.ID)
	}

	return resp, nil
}

type UpdateProfileRequest struct {
	Username        string `form:"username" binding:"required,min=3,max=64"`
	Email           string `form:"email" binding:"required,email,max=120"`
	FirstName       string `form:"first_name" binding:"omitempty,max=64"`
	LastName        string `form:"last_name" binding:"omitempty,max=64"`
	Bio             string `form:"bio" binding:"omitempty,max=500"`
	Location        string `form:"location" binding:"omitempty,max=100"`
	Website         string `form:"website" binding:"omitempty,url,max=255"`
	GithubUsername  string `form:"github_username" binding:"omitempty,max=100"`
	LinkedinProfile string `form:"linkedin_profile" binding:"omitempty,url,max=255"`

	// ProfileImage is the ingested media path, set by the handler after a
	// successful upload. Empty means keep the current image.
	ProfileImage string `form:"-"`
}

// UpdateProfile edits the acting user's profile. Username and email must not
// collide with any account other than the one being edited.
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	var count int64
	s.db.Model(&models.User{}).
		Where("username = ? AND id <> ?", req.Username, userID).
		Count(&count)
	if count > 0 {
		return nil, response.NewConflict("username already taken")
	}

	s.db.Model(&models.User{}).
		Where("email = ? AND id <> ?", req.Email, userID).
		Count(&count)
	if count > 0 {
		return nil, response.NewConflict("email already registered")
	}

	updates := map[string]interface{}{
		"username":         req.Username,
		"email":            req.Email,
		"first_name":       req.FirstName,
		"last_name":        req.LastName,
		"bio":              req.Bio,
		"location":         req.Location,
		"website":          req.Website,
		"github_username":  req.GithubUsername,
		"linkedin_profile": req.LinkedinProfile,
	}
	if req.ProfileImage != "" {
		updates["profile_image"] = req.ProfileImage
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("username or email already taken")
		}
		return nil, err
	}

	return &user, nil
}

// Follow creates a follow edge from actor to the named user and notifies the
// target. Following yourself or someone you already follow is a no-op.
func (s *UserService) Follow(actorID uint, username string) (*models.User, error) {
	target, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if target.ID == actorID {
		return target, nil
	}
	if s.isFollowing(actorID, target.ID) {
		return target, nil
	}

	var actor models.User
	if err := s.db.First(&actor, actorID).Error; err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		edge := models.Follow{FollowerID: actorID, FollowedID: target.ID}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}
		return s.notifications.NotifyFollow(tx, &actor, target.ID)
	})
	if err != nil {
		// Concurrent follow of the same pair; the edge exists, which is
		// what the caller asked for.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return target, nil
		}
		return nil, err
	}

	return target, nil
}

// Unfollow removes the follow edge if present, else no-op.
func (s *UserService) Unfollow(actorID uint, username string) (*models.User, error) {
	target, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if target.ID == actorID {
		return target, nil
	}

	err = s.db.Where("follower_id = ? AND followed_id = ?", actorID, target.ID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *UserService) isFollowing(followerID, followedID uint) bool {
	var count int64
	s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count)
	return count > 0
}

// FollowerCount returns how many users follow userID.
func (s *UserService) FollowerCount(userID uint) int64 {
	var count int64
	s.db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count)
	return count
}

// FollowingCount returns how many users userID follows.
func (s *UserService) FollowingCount(userID uint) int64 {
	var count int64
	s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count)
	return count
}

type UserListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type UserListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.User `json:"items"`
}

// Followers lists the users following the named user.
func (s *UserService) Followers(username string, req *UserListRequest) (*UserListResponse, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.listFollowSide(user.ID, "follows.followed_id", "follows.follower_id", req)
}

// Following lists the users the named user follows.
func (s *UserService) Following(username string, req *UserListRequest) (*UserListResponse, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.listFollowSide(user.ID, "follows.follower_id", "follows.followed_id", req)
}

func (s *UserService) listFollowSide(userID uint, whereCol, joinCol string, req *UserListRequest) (*UserListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.User{}).
		Joins("JOIN follows ON "+joinCol+" = users.id").
		Where(whereCol+" = ?", userID)

	var total int64
	query.Count(&total)

	var users []models.User
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("follows.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return &UserListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    users,
	}, nil
}

// SearchUsers finds users whose username or name contains q, case-insensitive.
func (s *UserService) SearchUsers(q string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}

	pattern := "%" + q + "%"
	var users []models.User
	err := s.db.
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// TouchLastSeen refreshes the user's last-seen timestamp.
func (s *UserService) TouchLastSeen(userID uint) {
	s.db.Model(&models.User{}).Where("id = ?", userID).Update("last_seen", time.Now())
}

// DeleteAccount removes a user and everything it owns: projects (with their
// likes, comments and notifications), own likes and comments, notifications
// sent and received, and follow edges on both sides. Children are deleted
// before parents in one transaction.
func (s *UserService) DeleteAccount(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint
		if err := tx.Model(&models.Project{}).
			Where("user_id = ?", userID).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR related_user_id = ?", userID, userID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", userID, userID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}
