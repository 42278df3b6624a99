package services

import (
	"errors"
	"testing"

	"github.com/devfolio/devfolio/internal/models"
	"github.com/devfolio/devfolio/pkg/response"
)

func TestToggle_Alternates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLikeService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	project := createTestProject(t, db, alice, "Project", true)

	for i, wantLiked := range []bool{true, false, true} {
		result, err := svc.Toggle(bob.ID, project.ID)
		if err != nil {
			t.Fatalf("Toggle() #%d error = %v", i, err)
		}
		if result.Liked != wantLiked {
			t.Errorf("Toggle() #%d liked = %v, expected %v", i, result.Liked, wantLiked)
		}

		var rows int64
		db.Model(&models.Like{}).Where("project_id = ?", project.ID).Count(&rows)
		if result.LikeCount != rows {
			t.Errorf("Toggle() #%d like_count = %d, table has %d rows", i, result.LikeCount, rows)
		}
	}

	if !svc.IsLikedBy(bob.ID, project.ID) {
		t.Error("after an odd number of toggles bob should like the project")
	}
	if svc.IsLikedBy(0, project.ID) {
		t.Error("anonymous viewer never likes anything")
	}
}

func TestToggle_Draft(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLikeService(db)
	alice := createTestUser(t, db, "alice")
	draft := createTestProject(t, db, alice, "Draft", false)

	_, err := svc.Toggle(alice.ID, draft.ID)
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Code != 403 {
		t.Errorf("liking a draft should be a 403 even for the owner, got %v", err)
	}
}

func TestToggle_UnknownProject(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLikeService(db)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Toggle(alice.ID, 9999)
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Errorf("liking a missing project should be a 404, got %v", err)
	}
}

func TestToggle_NotifiesAuthorOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLikeService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	project := createTestProject(t, db, alice, "Project", true)

	// Like, unlike, like again: only the likes notify, the unlike does not.
	for i := 0; i < 3; i++ {
		if _, err := svc.Toggle(bob.ID, project.ID); err != nil {
			t.Fatalf("Toggle() #%d error = %v", i, err)
		}
	}

	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", alice.ID, models.NotificationLike).
		Count(&count)
	if count != 2 {
		t.Errorf("two likes should produce two notifications, got %d", count)
	}
}

func TestToggle_SelfLikeDoesNotNotify(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLikeService(db)
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice, "Project", true)

	result, err := svc.Toggle(alice.ID, project.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !result.Liked || result.LikeCount != 1 {
		t.Errorf("self-like counts like any other, got %+v", result)
	}

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("liking your own project must not notify, got %d notifications", count)
	}
}
