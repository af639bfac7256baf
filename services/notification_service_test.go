package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
)

var (
	insertPattern       = regexp.MustCompile(`INSERT INTO notifications \(user_id, message, read_status\) VALUES \(\?, \?, \?\)`)
	fetchRowPattern     = regexp.MustCompile(`SELECT notification_id, user_id, read_status FROM notifications WHERE notification_id = \?`)
	updateReadPattern   = regexp.MustCompile(`UPDATE notifications SET read_status = \? WHERE notification_id = \?`)
	resolveUsersPattern = regexp.MustCompile(`SELECT user_id FROM users WHERE user_id IN \(.*\) AND delete_at IS NULL`)
)

func TestNotifyUsersDeduplicatesRecipients(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: resolveUsersPattern,
			args:    []driver.Value{int64(7), int64(8), int64(9)},
			columns: []string{"user_id"},
			rows:    [][]driver.Value{{int64(7)}, {int64(8)}, {int64(9)}},
		},
		{
			kind:    kindExec,
			pattern: insertPattern,
			args:    []driver.Value{int64(7), "Exam tomorrow", false},
		},
		{
			kind:    kindExec,
			pattern: insertPattern,
			args:    []driver.Value{int64(8), "Exam tomorrow", false},
		},
		{
			kind:    kindExec,
			pattern: insertPattern,
			args:    []driver.Value{int64(9), "Exam tomorrow", false},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	if err := svc.NotifyUsers([]int{7, 8, 7, 9, 8}, "Exam tomorrow"); err != nil {
		t.Fatalf("NotifyUsers returned error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyUsersEmptyInputIsNoOp(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewNotificationService(db)

	if err := svc.NotifyUsers(nil, "unseen"); err != nil {
		t.Fatalf("expected no-op, got error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyUsersReportsMissingRecipientsButKeepsInserting(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: resolveUsersPattern,
			args:    []driver.Value{int64(1), int64(2)},
			columns: []string{"user_id"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		{
			kind:    kindExec,
			pattern: insertPattern,
			args:    []driver.Value{int64(2), "partial", false},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	err := svc.NotifyUsers([]int{1, 2}, "partial")
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyUserRejectsUnknownRecipient(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT COUNT\(\*\) FROM users WHERE user_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{int64(42)},
			columns: []string{"COUNT(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	err := svc.NotifyUser(42, "hello")
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyGroupFansOutToAllMembers(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT group_id FROM groups WHERE name = \?`),
			args:    []driver.Value{"student"},
			columns: []string{"group_id"},
			rows:    [][]driver.Value{{int64(3)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT u\.user_id FROM users u JOIN user_groups ug ON ug\.user_id = u\.user_id WHERE ug\.group_id = \? AND u\.delete_at IS NULL`),
			args:    []driver.Value{int64(3)},
			columns: []string{"user_id"},
			rows:    [][]driver.Value{{int64(11)}, {int64(12)}, {int64(13)}},
		},
		{
			kind:    kindExec,
			pattern: insertPattern,
			args:    []driver.Value{int64(11), "Exam tomorrow", false},
		},
		{
			kind:    kindExec,
			pattern: insertPattern,
			args:    []driver.Value{int64(12), "Exam tomorrow", false},
		},
		{
			kind:    kindExec,
			pattern: insertPattern,
			args:    []driver.Value{int64(13), "Exam tomorrow", false},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	if err := svc.NotifyGroup("student", "Exam tomorrow"); err != nil {
		t.Fatalf("NotifyGroup returned error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyGroupUnknownGroup(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT group_id FROM groups WHERE name = \?`),
			args:    []driver.Value{"alumni"},
			columns: []string{"group_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	err := svc.NotifyGroup("alumni", "reunion")
	if !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyDepartmentEmptyMembershipIsNoOp(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT department_id FROM departments WHERE department_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{int64(5)},
			columns: []string{"department_id"},
			rows:    [][]driver.Value{{int64(5)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT user_id FROM users WHERE department_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{int64(5)},
			columns: []string{"user_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	if err := svc.NotifyDepartment(5, "semester dates"); err != nil {
		t.Fatalf("expected no-op, got error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyDepartmentUnknownDepartment(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT department_id FROM departments WHERE department_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{int64(99)},
			columns: []string{"department_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	err := svc.NotifyDepartment(99, "semester dates")
	if !errors.Is(err, ErrUnknownDepartment) {
		t.Fatalf("expected ErrUnknownDepartment, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: fetchRowPattern,
			args:    []driver.Value{int64(10)},
			columns: []string{"notification_id", "user_id", "read_status"},
			rows:    [][]driver.Value{{int64(10), int64(1), false}},
		},
		{
			kind:    kindExec,
			pattern: updateReadPattern,
			args:    []driver.Value{true, int64(10)},
			result:  scriptedResult{rowsAffected: 1},
		},
		// Second call: row is already read, no UPDATE issued.
		{
			kind:    kindQuery,
			pattern: fetchRowPattern,
			args:    []driver.Value{int64(10)},
			columns: []string{"notification_id", "user_id", "read_status"},
			rows:    [][]driver.Value{{int64(10), int64(1), true}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	if err := svc.MarkRead(10, 1); err != nil {
		t.Fatalf("first MarkRead returned error: %v", err)
	}
	if err := svc.MarkRead(10, 1); err != nil {
		t.Fatalf("second MarkRead returned error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkUnreadForbiddenForNonOwner(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: fetchRowPattern,
			args:    []driver.Value{int64(10)},
			columns: []string{"notification_id", "user_id", "read_status"},
			rows:    [][]driver.Value{{int64(10), int64(99), true}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	err := svc.MarkUnread(10, 1)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkReadNotFound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: fetchRowPattern,
			args:    []driver.Value{int64(404)},
			columns: []string{"notification_id", "user_id", "read_status"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	err := svc.MarkRead(404, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkAllReadThenUnreadCountIsZero(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE notifications SET read_status = \? WHERE user_id = \? AND read_status = \?`),
			args:    []driver.Value{true, int64(1), false},
			result:  scriptedResult{rowsAffected: 5},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `notifications` WHERE user_id = \\? AND read_status = \\?"),
			args:    []driver.Value{int64(1), false},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	updated, err := svc.MarkAllRead(1)
	if err != nil {
		t.Fatalf("MarkAllRead returned error: %v", err)
	}
	if updated != 5 {
		t.Fatalf("expected 5 rows updated, got %d", updated)
	}

	count, err := svc.UnreadCount(1)
	if err != nil {
		t.Fatalf("UnreadCount returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread after MarkAllRead, got %d", count)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDeleteAllReadOnlyTargetsReadRows(t *testing.T) {
	// Actor holds 5 unread and 2 read rows: unread_count reports 5, the bulk
	// delete removes the 2 read rows and the delete predicate never touches
	// read_status = false.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `notifications` WHERE user_id = \\? AND read_status = \\?"),
			args:    []driver.Value{int64(1), false},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(5)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`DELETE FROM notifications WHERE user_id = \? AND read_status = \?`),
			args:    []driver.Value{int64(1), true},
			result:  scriptedResult{rowsAffected: 2},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	count, err := svc.UnreadCount(1)
	if err != nil {
		t.Fatalf("UnreadCount returned error: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 unread, got %d", count)
	}

	deleted, err := svc.DeleteAllRead(1)
	if err != nil {
		t.Fatalf("DeleteAllRead returned error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 rows deleted, got %d", deleted)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT notification_id, user_id FROM notifications WHERE notification_id = \?`),
			args:    []driver.Value{int64(7)},
			columns: []string{"notification_id", "user_id"},
			rows:    [][]driver.Value{{int64(7), int64(2)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db)

	err := svc.Delete(7, 1)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
