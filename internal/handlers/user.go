package handlers

import (
	"github.com/devfolio/devfolio/internal/middleware"
	"github.com/devfolio/devfolio/internal/services"
	"github.com/devfolio/devfolio/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService    *services.UserService
	projectService *services.ProjectService
	mediaService   *services.MediaService
}

func NewUserHandler(db *gorm.DB, media *services.MediaService) *UserHandler {
	return &UserHandler{
		userService:    services.NewUserService(db),
		projectService: services.NewProjectService(db),
		mediaService:   media,
	}
}

// GetProfile returns a user's profile with counts and their projects.
// Owners see drafts; everyone else sees published only.
// GET /api/users/:username
func (h *UserHandler) GetProfile(c *gin.Context) {
	viewerID := middleware.GetUserID(c)

	profile, err := h.userService.Profile(c.Param("username"), viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	projects, err := h.projectService.ListByUser(profile.User.ID, viewerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"profile":  profile,
		"projects": projects,
	})
}

// UpdateProfile edits the acting user's profile. Accepts multipart form data
// with an optional profile_image file, ingested at a 300x300 bounding box.
// PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if file, err := c.FormFile("profile_image"); err == nil {
		if !services.IsAllowedImage(file.Filename) {
			response.BadRequest(c, "profile image must be jpg, jpeg, png or gif")
			return
		}
		path, err := h.mediaService.Save(file, "profile_pics", 300, 300)
		if err != nil {
			response.Error(c, err)
			return
		}
		req.ProfileImage = path
	}

	user, err := h.userService.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// Follow makes the acting user follow :username. Self-follow and an already
// existing edge are no-ops.
// POST /api/users/:username/follow
func (h *UserHandler) Follow(c *gin.Context) {
	target, err := h.userService.Follow(middleware.GetUserID(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"following": true,
		"username":  target.Username,
	})
}

// Unfollow removes the follow edge if present.
// DELETE /api/users/:username/follow
func (h *UserHandler) Unfollow(c *gin.Context) {
	target, err := h.userService.Unfollow(middleware.GetUserID(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"following": false,
		"username":  target.Username,
	})
}

// Followers lists users following :username
// GET /api/users/:username/followers
func (h *UserHandler) Followers(c *gin.Context) {
	var req services.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.Followers(c.Param("username"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Following lists users :username follows
// GET /api/users/:username/following
func (h *UserHandler) Following(c *gin.Context) {
	var req services.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.Following(c.Param("username"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}
