package services

import (
	"testing"

	"github.com/devfolio/devfolio/internal/models"
)

func TestNotificationList_MarksRead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	likeSvc := NewLikeService(db)
	commentSvc := NewCommentService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	project := createTestProject(t, db, alice, "Project", true)

	if _, err := likeSvc.Toggle(bob.ID, project.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := commentSvc.Add(bob.ID, project.ID, &AddCommentRequest{Content: "neat"}); err != nil {
		t.Fatal(err)
	}

	unread, err := svc.UnreadCount(alice.ID)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if unread != 2 {
		t.Fatalf("unread = %d, expected 2", unread)
	}

	resp, err := svc.List(alice.ID, &NotificationListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 2 || len(resp.Items) != 2 {
		t.Fatalf("total = %d items = %d, expected 2/2", resp.Total, len(resp.Items))
	}
	for _, n := range resp.Items {
		if n.RelatedUser == nil || n.RelatedUser.Username != "bob" {
			t.Error("notifications should carry their actor preloaded")
		}
	}

	// Listing clears the unread flag for everything, including rows beyond
	// the returned page.
	unread, err = svc.UnreadCount(alice.ID)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if unread != 0 {
		t.Errorf("unread after listing = %d, expected 0", unread)
	}
}

func TestNotificationList_OwnOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	likeSvc := NewLikeService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	aliceProject := createTestProject(t, db, alice, "A", true)
	bobProject := createTestProject(t, db, bob, "B", true)

	if _, err := likeSvc.Toggle(carol.ID, aliceProject.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := likeSvc.Toggle(carol.ID, bobProject.ID); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.List(alice.ID, &NotificationListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("alice should see only her own notification, got %d", resp.Total)
	}

	// Alice's listing must not touch bob's unread flag.
	unread, err := svc.UnreadCount(bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if unread != 1 {
		t.Errorf("bob's unread should stay 1, got %d", unread)
	}
}

func TestNotificationList_Paging(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < 5; i++ {
		if err := svc.Create(db, alice.ID, models.NotificationFollow, "hi", &bob.ID, nil); err != nil {
			t.Fatal(err)
		}
	}

	resp, err := svc.List(alice.ID, &NotificationListRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 5 || len(resp.Items) != 2 {
		t.Errorf("total = %d items = %d, expected 5/2", resp.Total, len(resp.Items))
	}
}
