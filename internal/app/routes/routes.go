package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KrithikaHS/The-Student-360/internal/app/controllers"
	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	mentorController *controllers.MentorController,
	placementController *controllers.PlacementController,
	documentController *controllers.DocumentController,
	companyController *controllers.CompanyController,
	contactController *controllers.ContactController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh-token", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
		auth.POST("/set-password", authController.SetPassword)
	}

	v1.POST("/contact", contactController.Send)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		adminRoles := []string{string(models.RoleAdmin), string(models.RolePlacement)}
		staffRoles := []string{string(models.RoleAdmin), string(models.RolePlacement), string(models.RoleMentor)}

		// Student routes
		students := authenticated.Group("/students")
		{
			studentOnly := students.Group("")
			studentOnly.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
			{
				studentOnly.GET("/me", studentController.GetMyProfile)
				studentOnly.PUT("/me", studentController.UpdateMyProfile)
			}

			staffOnly := students.Group("")
			staffOnly.Use(authMiddleware.RolesRequired(staffRoles...))
			{
				staffOnly.GET("", studentController.ListStudents)
				staffOnly.GET("/search", studentController.SearchStudents)
				staffOnly.GET("/:id", studentController.GetStudent)
				staffOnly.POST("/report", studentController.FilteredReport)
			}
		}

		// Mentor routes
		mentors := authenticated.Group("/mentors")
		{
			mentorOnly := mentors.Group("")
			mentorOnly.Use(authMiddleware.RoleRequired(string(models.RoleMentor)))
			{
				mentorOnly.GET("/my-students", mentorController.MyStudents)
			}

			adminOnly := mentors.Group("")
			adminOnly.Use(authMiddleware.RolesRequired(adminRoles...))
			{
				adminOnly.GET("", mentorController.List)
				adminOnly.POST("", mentorController.Register)
				adminOnly.POST("/bulk", mentorController.BulkImport)
				adminOnly.POST("/auto-assign", mentorController.AutoAssign)
				adminOnly.POST("/:id/resend-activation", mentorController.ResendActivation)
			}
		}

		// Placement record routes
		placements := authenticated.Group("/placements")
		{
			placements.GET("/batches", placementController.Batches)
			placements.GET("/branches", placementController.Branches)

			staffOnly := placements.Group("")
			staffOnly.Use(authMiddleware.RolesRequired(staffRoles...))
			{
				staffOnly.GET("/placed", placementController.PlacedStudents)
				staffOnly.GET("/:id", placementController.GetRecord)
			}

			adminOnly := placements.Group("")
			adminOnly.Use(authMiddleware.RolesRequired(adminRoles...))
			{
				adminOnly.POST("/:id/offers", placementController.RecordOffer)
				adminOnly.POST("/offers/assign", placementController.ManualAssign)
				adminOnly.POST("/offers/bulk", placementController.BulkOfferUpload)
				adminOnly.POST("/students/bulk", placementController.BulkStudentImport)
			}
		}

		// Document routes
		documents := authenticated.Group("/documents")
		{
			studentOnly := documents.Group("")
			studentOnly.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
			{
				studentOnly.POST("", documentController.Upload)
				studentOnly.GET("", documentController.ListOwn)
				studentOnly.DELETE("/:id", documentController.Delete)
			}

			mentorOnly := documents.Group("")
			mentorOnly.Use(authMiddleware.RoleRequired(string(models.RoleMentor)))
			{
				mentorOnly.GET("/pending", documentController.ListPending)
				mentorOnly.PUT("/:id/approve", documentController.Approve)
				mentorOnly.PUT("/:id/reject", documentController.Reject)
			}
		}

		// Company routes
		companies := authenticated.Group("/companies")
		{
			companies.GET("", companyController.List)

			studentOnly := companies.Group("")
			studentOnly.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
			{
				studentOnly.POST("/:id/apply", companyController.Apply)
			}

			adminOnly := companies.Group("")
			adminOnly.Use(authMiddleware.RolesRequired(adminRoles...))
			{
				adminOnly.POST("", companyController.Register)
				adminOnly.GET("/:id/registrations", companyController.ExportRegistrations)
			}
		}
	}
}
