package handlers

import (
	"strconv"

	"github.com/devfolio/devfolio/internal/middleware"
	"github.com/devfolio/devfolio/internal/services"
	"github.com/devfolio/devfolio/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	likeService    *services.LikeService
	commentService *services.CommentService
	mediaService   *services.MediaService
}

func NewProjectHandler(db *gorm.DB, media *services.MediaService) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
		likeService:    services.NewLikeService(db),
		commentService: services.NewCommentService(db),
		mediaService:   media,
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return 0, false
	}
	return uint(id), true
}

// List returns the home page data: recent published projects plus the most
// liked ones.
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	recent, err := h.projectService.Home(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	popular, err := h.projectService.Popular(6)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"recent":  recent,
		"popular": popular,
	})
}

// GetByID returns a project with counts and the viewer's liked state.
// Drafts are owner-only.
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	viewerID := middleware.GetUserID(c)
	item, err := h.projectService.GetByID(id, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"project": item,
		"liked":   h.likeService.IsLikedBy(viewerID, id),
	})
}

// ingestMedia pulls optional image and video files out of a multipart form.
// Returned paths are empty when the field is absent.
func (h *ProjectHandler) ingestMedia(c *gin.Context) (image, video string, ok bool) {
	if file, err := c.FormFile("image"); err == nil {
		if !services.IsAllowedImage(file.Filename) {
			response.BadRequest(c, "project image must be jpg, jpeg, png or gif")
			return "", "", false
		}
		path, err := h.mediaService.Save(file, "project_images", 800, 600)
		if err != nil {
			response.Error(c, err)
			return "", "", false
		}
		image = path
	}

	if file, err := c.FormFile("video"); err == nil {
		if !services.IsAllowedVideo(file.Filename) {
			response.BadRequest(c, "project video must be mp4, avi or mov")
			return "", "", false
		}
		path, err := h.mediaService.Save(file, "project_videos", 0, 0)
		if err != nil {
			response.Error(c, err)
			return "", "", false
		}
		video = path
	}

	return image, video, true
}

// Create creates a new project from multipart form data with optional image
// and video uploads. A bad media file blocks the creation.
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	image, video, ok := h.ingestMedia(c)
	if !ok {
		return
	}
	req.Image = image
	req.Video = video

	project, err := h.projectService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// Update edits a project (owner only)
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	image, video, ok := h.ingestMedia(c)
	if !ok {
		return
	}
	req.Image = image
	req.Video = video

	project, err := h.projectService.Update(id, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Delete removes a project and its likes and comments (owner only)
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project deleted successfully"})
}

// ToggleLike flips the like state for the acting user
// POST /api/projects/:id/like
func (h *ProjectHandler) ToggleLike(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.likeService.Toggle(middleware.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListComments returns a project's comments newest-first
// GET /api/projects/:id/comments
func (h *ProjectHandler) ListComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	comments, err := h.commentService.ListByProject(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, comments)
}

// AddComment posts a comment on a published project
// POST /api/projects/:id/comments
func (h *ProjectHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Add(middleware.GetUserID(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, comment)
}

// Feed returns published projects from the viewer and followed users
// GET /api/feed
func (h *ProjectHandler) Feed(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.Feed(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}
