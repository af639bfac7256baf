package controllers

import (
	"campus-management-api/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func getDB() *gorm.DB { return config.DB }

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		}
	}
	return 0, false
}

func getCurrentGroups(c *gin.Context) []string {
	if v, ok := c.Get("groups"); ok {
		if groups, ok := v.([]string); ok {
			return groups
		}
	}
	return nil
}

func hasGroup(c *gin.Context, name string) bool {
	for _, g := range getCurrentGroups(c) {
		if g == name {
			return true
		}
	}
	return false
}

func isAdmin(c *gin.Context) bool { return hasGroup(c, "admin") }

func isTeacherOrAdmin(c *gin.Context) bool {
	return hasGroup(c, "teacher") || hasGroup(c, "admin")
}

func isStudent(c *gin.Context) bool { return hasGroup(c, "student") }

// loadGroupNames returns the role group names the user belongs to.
func loadGroupNames(db *gorm.DB, userID int) ([]string, error) {
	var names []string
	err := db.Raw(
		`SELECT g.name FROM groups g JOIN user_groups ug ON ug.group_id = g.group_id WHERE ug.user_id = ?`,
		userID,
	).Scan(&names).Error
	return names, err
}
