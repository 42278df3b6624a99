package services

import (
	"errors"
	"testing"

	"github.com/devfolio/devfolio/internal/models"
	"github.com/devfolio/devfolio/pkg/response"
)

func TestAddComment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	project := createTestProject(t, db, alice, "Project", true)

	comment, err := svc.Add(bob.ID, project.ID, &AddCommentRequest{Content: "  looks great  "})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if comment.Content != "looks great" {
		t.Errorf("content should be trimmed, got %q", comment.Content)
	}
	if comment.User == nil || comment.User.Username != "bob" {
		t.Error("returned comment should carry its author")
	}

	var notifications []models.Notification
	db.Where("user_id = ?", alice.ID).Find(&notifications)
	if len(notifications) != 1 || notifications[0].Type != models.NotificationComment {
		t.Errorf("author should get one comment notification, got %+v", notifications)
	}
}

func TestAddComment_SelfDoesNotNotify(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice, "Project", true)

	if _, err := svc.Add(alice.ID, project.ID, &AddCommentRequest{Content: "note to self"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("commenting on your own project must not notify, got %d", count)
	}
}

func TestAddComment_Whitespace(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice, "Project", true)

	_, err := svc.Add(alice.ID, project.ID, &AddCommentRequest{Content: "   \n\t "})
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Code != 400 {
		t.Errorf("whitespace-only comment should fail validation, got %v", err)
	}

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected comment must not be stored, got %d rows", count)
	}
}

func TestAddComment_Draft(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	draft := createTestProject(t, db, alice, "Draft", false)

	_, err := svc.Add(bob.ID, draft.ID, &AddCommentRequest{Content: "sneaky"})
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Code != 403 {
		t.Errorf("commenting on a draft should be a 403, got %v", err)
	}
}

func TestListByProject(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	project := createTestProject(t, db, alice, "Project", true)

	if _, err := svc.Add(bob.ID, project.ID, &AddCommentRequest{Content: "first"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(alice.ID, project.ID, &AddCommentRequest{Content: "second"}); err != nil {
		t.Fatal(err)
	}

	comments, err := svc.ListByProject(project.ID, 0)
	if err != nil {
		t.Fatalf("ListByProject() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	for _, c := range comments {
		if c.User == nil {
			t.Error("comments should be returned with their authors preloaded")
		}
	}
}

func TestListByProject_DraftVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	draft := createTestProject(t, db, alice, "Draft", false)

	if _, err := svc.ListByProject(draft.ID, alice.ID); err != nil {
		t.Errorf("owner can read draft comments, got %v", err)
	}

	_, err := svc.ListByProject(draft.ID, bob.ID)
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Code != 403 {
		t.Errorf("non-owner reading draft comments should be a 403, got %v", err)
	}
}
