package models

import (
	"strings"
	"time"
)

// User represents a registered account with its public profile fields.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Username        string     `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email           string     `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Password        string     `gorm:"size:255" json:"-"` // bcrypt hash
	FirstName       string     `gorm:"size:64" json:"first_name"`
	LastName        string     `gorm:"size:64" json:"last_name"`
	Bio             string     `gorm:"type:text" json:"bio"`
	ProfileImage    string     `gorm:"size:255" json:"profile_image"`
	Location        string     `gorm:"size:100" json:"location"`
	Website         string     `gorm:"size:255" json:"website"`
	GithubUsername  string     `gorm:"size:100" json:"github_username"`
	LinkedinProfile string     `gorm:"size:255" json:"linkedin_profile"`
	LastSeen        *time.Time `json:"last_seen"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DisplayName returns "First Last" when both names are set, else the username.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// Project represents a portfolio entry, published or draft.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Content     string    `gorm:"type:text" json:"content"`
	Image       string    `gorm:"size:255" json:"image"`
	Video       string    `gorm:"size:255" json:"video"`
	GithubLink  string    `gorm:"size:255" json:"github_link"`
	DemoLink    string    `gorm:"size:255" json:"demo_link"`
	Tags        string    `gorm:"size:500" json:"tags"` // comma-separated
	Category    string    `gorm:"size:100" json:"category"`
	// No default tag: gorm drops zero-value fields that carry one from the
	// INSERT, which would force drafts to the column default.
	IsPublished bool      `gorm:"not null" json:"is_published"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TagList splits the comma-separated Tags field into trimmed, non-empty tags.
func (p *Project) TagList() []string {
	tags := []string{}
	for _, tag := range strings.Split(p.Tags, ",") {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Like marks that a user liked a project. The (user, project) pair is unique;
// the constraint is what makes concurrent toggles safe.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_project_like" json:"user_id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_user_project_like" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a user's comment on a project.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification records a like/comment/follow event for its recipient.
// RelatedUserID is the acting user; ProjectID is set for project events.
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Type          string    `gorm:"size:50;not null" json:"type"`
	Message       string    `gorm:"size:255;not null" json:"message"`
	Read          bool      `gorm:"default:false;not null" json:"read"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	RelatedUserID *uint     `json:"related_user_id"`
	RelatedUser   *User     `gorm:"foreignKey:RelatedUserID" json:"related_user,omitempty"`
	ProjectID     *uint     `json:"project_id"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// Follow is a directed edge: follower receives followed's projects in their
// feed. The pair is unique and self-edges are never created.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"index;not null;uniqueIndex:idx_follower_followed" json:"follower_id"`
	FollowedID uint      `gorm:"index;not null;uniqueIndex:idx_follower_followed" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides
func (User) TableName() string         { return "users" }
func (Project) TableName() string      { return "projects" }
func (Like) TableName() string         { return "likes" }
func (Comment) TableName() string      { return "comments" }
func (Notification) TableName() string { return "notifications" }
func (Follow) TableName() string       { return "follows" }
