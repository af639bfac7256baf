package routes

import (
	"campus-management-api/controllers"
	"campus-management-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Campus Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth management
			protected.POST("/logout", controllers.Logout)
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Users (admin manages; users can read themselves)
			users := protected.Group("/users")
			{
				users.GET("", middleware.RequireGroup(middleware.GroupAdmin), controllers.GetUsers)
				users.GET("/:id", controllers.GetUser)
				users.POST("", middleware.RequireGroup(middleware.GroupAdmin), controllers.CreateUser)
				users.PUT("/:id", middleware.RequireGroup(middleware.GroupAdmin), controllers.UpdateUser)
				users.DELETE("/:id", middleware.RequireGroup(middleware.GroupAdmin), controllers.DeleteUser)
			}

			// Role groups (admin only for writes)
			groups := protected.Group("/groups")
			{
				groups.GET("", controllers.GetGroups)
				groups.POST("", middleware.RequireGroup(middleware.GroupAdmin), controllers.CreateGroup)
				groups.PUT("/:id", middleware.RequireGroup(middleware.GroupAdmin), controllers.UpdateGroup)
				groups.DELETE("/:id", middleware.RequireGroup(middleware.GroupAdmin), controllers.DeleteGroup)
				groups.GET("/:id/members", middleware.RequireGroup(middleware.GroupAdmin), controllers.GetGroupMembers)
				groups.POST("/:id/members", middleware.RequireGroup(middleware.GroupAdmin), controllers.AddGroupMember)
				groups.DELETE("/:id/members/:userId", middleware.RequireGroup(middleware.GroupAdmin), controllers.RemoveGroupMember)
			}

			// Departments (read for everyone, writes admin only)
			departments := protected.Group("/departments")
			{
				departments.GET("", controllers.GetDepartments)
				departments.GET("/:id", controllers.GetDepartment)
				departments.POST("", middleware.RequireGroup(middleware.GroupAdmin), controllers.CreateDepartment)
				departments.PUT("/:id", middleware.RequireGroup(middleware.GroupAdmin), controllers.UpdateDepartment)
				departments.DELETE("/:id", middleware.RequireGroup(middleware.GroupAdmin), controllers.DeleteDepartment)
			}

			// Courses (students see their enrolled courses, writes teacher/admin)
			courses := protected.Group("/courses")
			{
				courses.GET("", controllers.GetCourses)
				courses.GET("/:id", controllers.GetCourse)
				courses.POST("", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.CreateCourse)
				courses.PUT("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.UpdateCourse)
				courses.DELETE("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.DeleteCourse)

				courses.GET("/:id/enrollments", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.GetCourseEnrollments)
				courses.GET("/:id/attendance", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.GetCourseAttendance)
				courses.GET("/:id/grades", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.GetCourseGrades)
			}

			// Enrollments (students self-enroll, teacher/admin manage)
			enrollments := protected.Group("/enrollments")
			{
				enrollments.GET("", controllers.GetEnrollments)
				enrollments.POST("", controllers.CreateEnrollment)
				enrollments.PUT("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.UpdateEnrollment)
				enrollments.DELETE("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.DeleteEnrollment)
			}

			// Attendance (teacher/admin record, students read their own)
			attendance := protected.Group("/attendance")
			{
				attendance.GET("", controllers.GetAttendance)
				attendance.POST("", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.CreateAttendance)
				attendance.PUT("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.UpdateAttendance)
				attendance.DELETE("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.DeleteAttendance)
			}

			// Grades (teacher/admin manage, students read their own)
			grades := protected.Group("/grades")
			{
				grades.GET("", controllers.GetGrades)
				grades.POST("", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.CreateGrade)
				grades.PUT("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.UpdateGrade)
				grades.DELETE("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.DeleteGrade)
			}

			// Events (everyone reads and registers, writes teacher/admin)
			events := protected.Group("/events")
			{
				events.GET("", controllers.GetEvents)
				events.GET("/:id", controllers.GetEvent)
				events.POST("", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.CreateEvent)
				events.PUT("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.UpdateEvent)
				events.DELETE("/:id", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.DeleteEvent)

				events.POST("/:id/register", controllers.RegisterForEvent)
				events.DELETE("/:id/register", controllers.UnregisterFromEvent)
				events.GET("/:id/participants", middleware.RequireGroup(middleware.GroupTeacher, middleware.GroupAdmin), controllers.GetEventParticipants)
			}

			// Notifications (every user manages their own inbox)
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread_count", controllers.GetUnreadCount)
				notifications.GET("/:id", controllers.GetNotification)
				notifications.POST("", controllers.CreateNotification)
				notifications.POST("/:id/mark_read", controllers.MarkNotificationRead)
				notifications.POST("/:id/mark_unread", controllers.MarkNotificationUnread)
				notifications.POST("/mark_all_read", controllers.MarkAllNotificationsRead)
				notifications.DELETE("/:id", controllers.DeleteNotification)
				notifications.DELETE("/delete_all_read", controllers.DeleteAllReadNotifications)
			}
		}
	}
}
