package handlers

import (
	"github.com/devfolio/devfolio/internal/services"
	"github.com/devfolio/devfolio/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SearchHandler provides search across projects and users.
type SearchHandler struct {
	projectService *services.ProjectService
	userService    *services.UserService
}

func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{
		projectService: services.NewProjectService(db),
		userService:    services.NewUserService(db),
	}
}

type SearchResult struct {
	Query    string                        `json:"query"`
	Projects *services.ProjectListResponse `json:"projects"`
	Users    []SearchUserItem              `json:"users"`
}

type SearchUserItem struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	ProfileImage string `json:"profile_image"`
}

// Search matches projects on title/description/tags and users on
// username/first/last name. Both sets are independent; projects are ordered
// by recency.
// GET /api/search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "search query required")
		return
	}

	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	projects, err := h.projectService.SearchProjects(q, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	users, err := h.userService.SearchUsers(q, 10)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := SearchResult{
		Query:    q,
		Projects: projects,
		Users:    make([]SearchUserItem, len(users)),
	}
	for i, u := range users {
		result.Users[i] = SearchUserItem{
			ID:           u.ID,
			Username:     u.Username,
			DisplayName:  u.DisplayName(),
			ProfileImage: services.FileURL(u.ProfileImage),
		}
	}

	response.Success(c, result)
}
