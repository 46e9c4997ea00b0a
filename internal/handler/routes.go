package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/mbriand/comptoir-backend/internal/middleware"
)

// Handlers bundles everything RegisterRoutes wires up
type Handlers struct {
	Auth        *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter

	Organization *OrganizationHandler
	Accounting   *AccountingHandler
	Category     *CategoryHandler
	Report       *ReportHandler
	Note         *NoteHandler
	Task         *TaskHandler
	Event        *EventHandler
	Preference   *PreferenceHandler
	WebSocket    *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(h.Auth.Authenticate())
	if h.RateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(h.RateLimiter))
	}

	// Organization routes
	api.POST("/organizations", h.Organization.CreateOrganization)
	api.GET("/organizations", h.Organization.GetOrganizations)
	api.GET("/organizations/:orgId", h.Organization.GetOrganization)
	api.PUT("/organizations/:orgId", h.Organization.UpdateOrganization)
	api.DELETE("/organizations/:orgId", h.Organization.DeleteOrganization)

	// Everything below is scoped to one organization
	org := api.Group("/organizations/:orgId")

	// Member routes
	org.GET("/members", h.Organization.GetMembers)
	org.POST("/members", h.Organization.InviteMember)
	org.PUT("/members/:userId", h.Organization.UpdateMemberRole)
	org.DELETE("/members/:userId", h.Organization.RemoveMember)

	// Transaction and refund routes
	org.POST("/transactions", h.Accounting.CreateTransaction)
	org.GET("/transactions", h.Accounting.GetTransactions)
	org.GET("/transactions/:id", h.Accounting.GetTransaction)
	org.PUT("/transactions/:id", h.Accounting.UpdateTransaction)
	org.DELETE("/transactions/:id", h.Accounting.DeleteTransaction)
	org.POST("/transactions/:id/refunds", h.Accounting.CreateRefund)
	org.GET("/transactions/:id/refunds", h.Accounting.GetRefunds)
	org.DELETE("/refunds/:refundId", h.Accounting.DeleteRefund)

	// Category routes
	org.POST("/categories", h.Category.CreateCategory)
	org.GET("/categories", h.Category.GetCategories)
	org.PUT("/categories/:id", h.Category.UpdateCategory)
	org.DELETE("/categories/:id", h.Category.DeleteCategory)
	org.GET("/categories/:id/can-delete", h.Category.CanDeleteCategory)
	org.POST("/categories/:id/subcategories", h.Category.CreateSubCategory)
	org.GET("/categories/:id/subcategories", h.Category.GetSubCategories)
	org.PUT("/subcategories/:subId", h.Category.UpdateSubCategory)
	org.DELETE("/subcategories/:subId", h.Category.DeleteSubCategory)

	// Report routes
	org.GET("/reports/rollups", h.Report.GetRollups)
	org.GET("/reports/distribution", h.Report.GetDistribution)
	org.GET("/reports/comparison", h.Report.GetComparison)
	org.GET("/reports/evolution", h.Report.GetEvolution)
	org.GET("/reports/summary", h.Report.GetMonthSummary)

	// Note routes
	org.POST("/notes", h.Note.CreateNote)
	org.GET("/notes", h.Note.GetNotes)
	org.GET("/notes/:id", h.Note.GetNote)
	org.PUT("/notes/:id", h.Note.UpdateNote)
	org.DELETE("/notes/:id", h.Note.DeleteNote)
	org.POST("/notes/:id/collaborators", h.Note.AddCollaborator)
	org.GET("/notes/:id/collaborators", h.Note.GetCollaborators)
	org.DELETE("/notes/:id/collaborators/:userId", h.Note.RemoveCollaborator)
	org.POST("/notes/:id/attachments", h.Note.UploadAttachment)
	org.GET("/notes/:id/attachments", h.Note.GetAttachments)
	org.DELETE("/attachments/:attachmentId", h.Note.DeleteAttachment)

	// Task routes
	org.POST("/tasks", h.Task.CreateTask)
	org.GET("/tasks", h.Task.GetTasks)
	org.PUT("/tasks/reorder", h.Task.ReorderTasks)
	org.PUT("/tasks/:id", h.Task.UpdateTask)
	org.PATCH("/tasks/:id/toggle", h.Task.ToggleTask)
	org.DELETE("/tasks/:id", h.Task.DeleteTask)

	// Calendar routes
	org.POST("/events", h.Event.CreateEvent)
	org.GET("/events", h.Event.GetEvents)
	org.GET("/events/:id", h.Event.GetEvent)
	org.PUT("/events/:id", h.Event.UpdateEvent)
	org.DELETE("/events/:id", h.Event.DeleteEvent)

	// Preference routes
	org.GET("/preferences/accounting-filter", h.Preference.GetFilter)
	org.PUT("/preferences/accounting-filter", h.Preference.SetFilter)

	// WebSocket endpoint authenticates via query token, outside the JWT group
	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}
}
