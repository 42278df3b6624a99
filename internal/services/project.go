package services

import (
	"errors"

	"github.com/devfolio/devfolio/internal/models"
	"github.com/devfolio/devfolio/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// ProjectItem decorates a project with its aggregate counts.
type ProjectItem struct {
	models.Project
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
}

type ProjectListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type ProjectListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []ProjectItem `json:"items"`
}

type CreateProjectRequest struct {
	Title       string `form:"title" binding:"required,min=3,max=200"`
	Description string `form:"description" binding:"required,min=10,max=1000"`
	Content     string `form:"content"`
	Category    string `form:"category" binding:"omitempty,oneof=web mobile desktop ai data game other"`
	Tags        string `form:"tags" binding:"omitempty,max=500"`
	GithubLink  string `form:"github_link" binding:"omitempty,url,max=255"`
	DemoLink    string `form:"demo_link" binding:"omitempty,url,max=255"`
	IsPublished bool   `form:"is_published"`

	// Media paths set by the handler after ingestion.
	Image string `form:"-"`
	Video string `form:"-"`
}

type UpdateProjectRequest struct {
	Title       string `form:"title" binding:"required,min=3,max=200"`
	Description string `form:"description" binding:"required,min=10,max=1000"`
	Content     string `form:"content"`
	Category    string `form:"category" binding:"omitempty,oneof=web mobile desktop ai data game other"`
	Tags        string `form:"tags" binding:"omitempty,max=500"`
	GithubLink  string `form:"github_link" binding:"omitempty,url,max=255"`
	DemoLink    string `form:"demo_link" binding:"omitempty,url,max=255"`
	IsPublished bool   `form:"is_published"`

	Image string `form:"-"`
	Video string `form:"-"`
}

// Create creates a new project owned by userID.
func (s *ProjectService) Create(req *CreateProjectRequest, userID uint) (*models.Project, error) {
	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Tags:        req.Tags,
		GithubLink:  req.GithubLink,
		DemoLink:    req.DemoLink,
		Image:       req.Image,
		Video:       req.Video,
		IsPublished: req.IsPublished,
		UserID:      userID,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// GetByID returns a project with its author and counts. Unpublished projects
// are visible to their owner only; everyone else gets 403.
func (s *ProjectService) GetByID(id uint, viewerID uint) (*ProjectItem, error) {
	var project models.Project
	if err := s.db.Preload("User").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if !project.IsPublished && project.UserID != viewerID {
		return nil, response.NewForbidden("this project is not published")
	}

	item := ProjectItem{Project: project}
	s.db.Model(&models.Like{}).Where("project_id = ?", id).Count(&item.LikeCount)
	s.db.Model(&models.Comment{}).Where("project_id = ?", id).Count(&item.CommentCount)

	return &item, nil
}

// Update edits a project. Only the owner may edit.
func (s *ProjectService) Update(id uint, userID uint, req *UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if project.UserID != userID {
		return nil, response.NewForbidden("you do not own this project")
	}

	updates := map[string]interface{}{
		"title":        req.Title,
		"description":  req.Description,
		"content":      req.Content,
		"category":     req.Category,
		"tags":         req.Tags,
		"github_link":  req.GithubLink,
		"demo_link":    req.DemoLink,
		"is_published": req.IsPublished,
	}
	if req.Image != "" {
		updates["image"] = req.Image
	}
	if req.Video != "" {
		updates["video"] = req.Video
	}

	if err := s.db.Model(&project).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// Delete removes a project and its likes, comments and notifications.
// Children go first, in one transaction; ORM-level cascades are not relied on.
func (s *ProjectService) Delete(id uint, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("project not found")
		}
		return err
	}

	if project.UserID != userID {
		return response.NewForbidden("you do not own this project")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

// Home returns recent published projects, paginated, 12 per page.
func (s *ProjectService) Home(req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 12
	}

	query := s.db.Model(&models.Project{}).Where("is_published = ?", true)

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("User").
		Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	items, err := s.withCounts(projects)
	if err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// Popular returns the most-liked published projects, up to limit.
func (s *ProjectService) Popular(limit int) ([]ProjectItem, error) {
	if limit <= 0 {
		limit = 6
	}

	var projects []models.Project
	err := s.db.Model(&models.Project{}).
		Joins("JOIN likes ON likes.project_id = projects.id").
		Where("projects.is_published = ?", true).
		Group("projects.id").
		Order("COUNT(likes.id) DESC").
		Limit(limit).
		Preload("User").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return s.withCounts(projects)
}

// Feed returns published projects authored by the viewer and everyone the
// viewer follows, newest first, 10 per page.
func (s *ProjectService) Feed(viewerID uint, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var followedIDs []uint
	if err := s.db.Model(&models.Follow{}).
		Where("follower_id = ?", viewerID).
		Pluck("followed_id", &followedIDs).Error; err != nil {
		return nil, err
	}
	authorIDs := append(followedIDs, viewerID)

	query := s.db.Model(&models.Project{}).
		Where("user_id IN ? AND is_published = ?", authorIDs, true)

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("User").
		Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	items, err := s.withCounts(projects)
	if err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// ListByUser returns a user's projects, newest first. Drafts are included
// only when the viewer is the owner.
func (s *ProjectService) ListByUser(userID uint, viewerID uint, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 9
	}

	query := s.db.Model(&models.Project{}).Where("user_id = ?", userID)
	if viewerID != userID {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("User").
		Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	items, err := s.withCounts(projects)
	if err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// SearchProjects finds published projects whose title, description or tags
// contain q, case-insensitive, newest first.
func (s *ProjectService) SearchProjects(q string, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 12
	}

	pattern := "%" + q + "%"
	query := s.db.Model(&models.Project{}).
		Where("is_published = ?", true).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(tags) LIKE LOWER(?)",
			pattern, pattern, pattern)

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("User").
		Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	items, err := s.withCounts(projects)
	if err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

type projectCount struct {
	ProjectID uint
	N         int64
}

// withCounts attaches like and comment counts to a page of projects with one
// grouped query per aggregate.
func (s *ProjectService) withCounts(projects []models.Project) ([]ProjectItem, error) {
	items := make([]ProjectItem, len(projects))
	if len(projects) == 0 {
		return items, nil
	}

	ids := make([]uint, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
		items[i] = ProjectItem{Project: p}
	}

	var likeCounts []projectCount
	if err := s.db.Model(&models.Like{}).
		Select("project_id, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&likeCounts).Error; err != nil {
		return nil, err
	}

	var commentCounts []projectCount
	if err := s.db.Model(&models.Comment{}).
		Select("project_id, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&commentCounts).Error; err != nil {
		return nil, err
	}

	likeByID := make(map[uint]int64, len(likeCounts))
	for _, c := range likeCounts {
		likeByID[c.ProjectID] = c.N
	}
	commentByID := make(map[uint]int64, len(commentCounts))
	for _, c := range commentCounts {
		commentByID[c.ProjectID] = c.N
	}

	for i := range items {
		items[i].LikeCount = likeByID[items[i].ID]
		items[i].CommentCount = commentByID[items[i].ID]
	}

	return items, nil
}
