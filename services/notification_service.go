package services

import (
	"errors"
	"fmt"
	"strings"

	"campus-management-api/models"

	"gorm.io/gorm"
)

// Notification error kinds. All are recoverable conditions surfaced to the
// caller; none are fatal.
var (
	ErrInvalidRecipient  = errors.New("recipient user does not exist")
	ErrUnknownGroup      = errors.New("role group does not exist")
	ErrUnknownDepartment = errors.New("department does not exist")
	ErrNotFound          = errors.New("notification not found")
	ErrForbidden         = errors.New("notification belongs to another user")
)

// NotificationService fans events out into per-recipient notification rows
// and manages their read state. Fan-out is synchronous and performs no
// deduplication against previously sent notifications: repeated calls with
// identical content create repeated records.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// WithTx returns a service bound to the given transaction handle. Fan-out is
// non-transactional by default; producers that need atomicity with their own
// writes pass their transaction here.
func (s *NotificationService) WithTx(tx *gorm.DB) *NotificationService {
	return &NotificationService{db: tx}
}

// created_at is assigned by the database (DEFAULT CURRENT_TIMESTAMP), so the
// insert carries only the immutable payload columns.
func (s *NotificationService) insert(userID int, message string) error {
	return s.db.Exec(
		`INSERT INTO notifications (user_id, message, read_status) VALUES (?, ?, ?)`,
		userID, message, false,
	).Error
}

// NotifyUser inserts one notification record for the given user.
func (s *NotificationService) NotifyUser(userID int, message string) error {
	exists, err := s.userExists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, ErrInvalidRecipient)
	}
	return s.insert(userID, message)
}

// NotifyUsers inserts one record per distinct resolved recipient. Duplicate
// ids in the input collapse to a single record. Empty input is a no-op.
// Recipients that cannot be resolved or inserted do not stop the remaining
// inserts; they are reported together in the returned error.
func (s *NotificationService) NotifyUsers(userIDs []int, message string) error {
	distinct := dedupeIDs(userIDs)
	if len(distinct) == 0 {
		return nil
	}

	existing, err := s.resolveUsers(distinct)
	if err != nil {
		return err
	}

	var failed []string
	for _, id := range distinct {
		if !existing[id] {
			failed = append(failed, fmt.Sprintf("user %d: invalid recipient", id))
			continue
		}
		if err := s.insert(id, message); err != nil {
			failed = append(failed, fmt.Sprintf("user %d: %v", id, err))
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRecipient, strings.Join(failed, "; "))
	}
	return nil
}

// NotifyGroup inserts one record for every current member of the named role
// group. A group with no members is a no-op.
func (s *NotificationService) NotifyGroup(groupName string, message string) error {
	var group struct{ GroupID int }
	err := s.db.Raw(`SELECT group_id FROM groups WHERE name = ?`, groupName).Take(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("group %q: %w", groupName, ErrUnknownGroup)
	}
	if err != nil {
		return err
	}

	var memberIDs []int
	if err := s.db.Raw(
		`SELECT u.user_id FROM users u JOIN user_groups ug ON ug.user_id = u.user_id WHERE ug.group_id = ? AND u.delete_at IS NULL`,
		group.GroupID,
	).Scan(&memberIDs).Error; err != nil {
		return err
	}

	return s.fanOut(memberIDs, message)
}

// NotifyDepartment inserts one record for every user currently attached to
// the department. A department with no users is a no-op.
func (s *NotificationService) NotifyDepartment(departmentID int, message string) error {
	var dept struct{ DepartmentID int }
	err := s.db.Raw(
		`SELECT department_id FROM departments WHERE department_id = ? AND delete_at IS NULL`,
		departmentID,
	).Take(&dept).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("department %d: %w", departmentID, ErrUnknownDepartment)
	}
	if err != nil {
		return err
	}

	var memberIDs []int
	if err := s.db.Raw(
		`SELECT user_id FROM users WHERE department_id = ? AND delete_at IS NULL`,
		departmentID,
	).Scan(&memberIDs).Error; err != nil {
		return err
	}

	return s.fanOut(memberIDs, message)
}

// fanOut inserts one row per recipient. Inserts are independent: a failure
// for one recipient does not roll back the rows already written.
func (s *NotificationService) fanOut(userIDs []int, message string) error {
	var failed []string
	for _, id := range userIDs {
		if err := s.insert(id, message); err != nil {
			failed = append(failed, fmt.Sprintf("user %d: %v", id, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("fan-out partially failed: %s", strings.Join(failed, "; "))
	}
	return nil
}

// MarkRead sets read_status = true. Marking an already-read notification is
// a no-op, not an error.
func (s *NotificationService) MarkRead(notificationID uint, actorID int) error {
	return s.setReadStatus(notificationID, actorID, true)
}

// MarkUnread mirrors MarkRead and sets read_status = false.
func (s *NotificationService) MarkUnread(notificationID uint, actorID int) error {
	return s.setReadStatus(notificationID, actorID, false)
}

func (s *NotificationService) setReadStatus(notificationID uint, actorID int, read bool) error {
	var row struct {
		NotificationID uint
		UserID         int
		ReadStatus     bool
	}
	err := s.db.Raw(
		`SELECT notification_id, user_id, read_status FROM notifications WHERE notification_id = ?`,
		notificationID,
	).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("notification %d: %w", notificationID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if row.UserID != actorID {
		return fmt.Errorf("notification %d: %w", notificationID, ErrForbidden)
	}
	if row.ReadStatus == read {
		return nil
	}
	return s.db.Exec(
		`UPDATE notifications SET read_status = ? WHERE notification_id = ?`,
		read, notificationID,
	).Error
}

// MarkAllRead sets read_status = true for every record owned by the actor
// and returns the number of rows updated. Zero matches is still success.
func (s *NotificationService) MarkAllRead(actorID int) (int64, error) {
	res := s.db.Exec(
		`UPDATE notifications SET read_status = ? WHERE user_id = ? AND read_status = ?`,
		true, actorID, false,
	)
	return res.RowsAffected, res.Error
}

// UnreadCount recomputes the actor's unread count from storage on every call.
func (s *NotificationService) UnreadCount(actorID int) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_status = ?", actorID, false).
		Count(&count).Error
	return count, err
}

// DeleteAllRead permanently removes every record owned by the actor with
// read_status = true and returns the number of rows deleted. Unread records
// are never touched.
func (s *NotificationService) DeleteAllRead(actorID int) (int64, error) {
	res := s.db.Exec(
		`DELETE FROM notifications WHERE user_id = ? AND read_status = ?`,
		actorID, true,
	)
	return res.RowsAffected, res.Error
}

// Delete permanently removes a single record owned by the actor.
func (s *NotificationService) Delete(notificationID uint, actorID int) error {
	var row struct {
		NotificationID uint
		UserID         int
	}
	err := s.db.Raw(
		`SELECT notification_id, user_id FROM notifications WHERE notification_id = ?`,
		notificationID,
	).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("notification %d: %w", notificationID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if row.UserID != actorID {
		return fmt.Errorf("notification %d: %w", notificationID, ErrForbidden)
	}
	return s.db.Exec(
		`DELETE FROM notifications WHERE notification_id = ?`,
		notificationID,
	).Error
}

func (s *NotificationService) userExists(userID int) (bool, error) {
	var count int64
	err := s.db.Raw(
		`SELECT COUNT(*) FROM users WHERE user_id = ? AND delete_at IS NULL`,
		userID,
	).Scan(&count).Error
	return count > 0, err
}

func (s *NotificationService) resolveUsers(userIDs []int) (map[int]bool, error) {
	var found []int
	if err := s.db.Raw(
		`SELECT user_id FROM users WHERE user_id IN ? AND delete_at IS NULL`,
		userIDs,
	).Scan(&found).Error; err != nil {
		return nil, err
	}
	existing := make(map[int]bool, len(found))
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

func dedupeIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
