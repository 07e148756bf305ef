package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
	"github.com/hostelhub/backend/internal/interfaces/http/handler"
	"github.com/hostelhub/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers of every module. A nil handler leaves
// its module unregistered.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Room         *handler.RoomHandler
	Booking      *handler.BookingHandler
	Roommate     *handler.RoommateHandler
	Payment      *handler.PaymentHandler
	Notice       *handler.NoticeHandler
	Event        *handler.EventHandler
	Complaint    *handler.ComplaintHandler
	Leave        *handler.LeaveHandler
	Notification *handler.NotificationHandler
	Analytics    *handler.AnalyticsHandler
	Report       *handler.ReportHandler
	Bulk         *handler.BulkHandler
	File         *handler.FileHandler
	System       *handler.SystemHandler
}

// APIOptions carries middleware attached to individual route groups
type APIOptions struct {
	// AuthLimit throttles the credential endpoints. Nil disables it.
	AuthLimit gin.HandlerFunc
	// UploadLimit replaces the global body limit on multipart routes
	UploadLimit gin.HandlerFunc
}

// RegisterAPI adds the route groups of every module to r
func RegisterAPI(r *Router, h Handlers, opts APIOptions) {
	admin := middleware.RequireRole(shared.RoleAdmin)
	adminGroup := func(dg *DomainGroup) *DomainGroup {
		return dg.Group(dg.Name()+"-admin", "").Use(admin).Access(AccessAdmin)
	}
	student := middleware.RequireRole(shared.RoleStudent)
	studentGroup := func(dg *DomainGroup) *DomainGroup {
		return dg.Group(dg.Name()+"-student", "").Use(student).Access(AccessStudent)
	}
	upload := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		if opts.UploadLimit == nil {
			return handlers
		}
		return append([]gin.HandlerFunc{opts.UploadLimit}, handlers...)
	}

	if h.Auth != nil {
		public := NewDomainGroup("auth", "/auth").Access(AccessPublic)
		if opts.AuthLimit != nil {
			public.Use(opts.AuthLimit)
		}
		public.POST("/register", h.Auth.Register).Doc("Register a student account")
		public.POST("/login", h.Auth.Login).Doc("Log in with email, password and optional 2FA code")
		public.POST("/refresh", h.Auth.RefreshToken).Doc("Exchange a refresh token for a new pair")

		session := NewDomainGroup("auth-session", "/auth")
		session.POST("/logout", h.Auth.Logout).Doc("Revoke the current access token")
		session.GET("/me", h.Auth.GetCurrentUser).Doc("Current user")
		session.PUT("/password", h.Auth.ChangePassword).Doc("Change password")
		session.POST("/2fa/setup", h.Auth.SetupTwoFactor).Doc("Generate a TOTP secret")
		session.POST("/2fa/enable", h.Auth.EnableTwoFactor).Doc("Confirm a TOTP code and enable 2FA")
		session.POST("/2fa/disable", h.Auth.DisableTwoFactor).Doc("Disable 2FA")
		r.Register(public).Register(session)
	}

	if h.User != nil {
		users := NewDomainGroup("users", "/users")
		users.GET("/me", h.User.GetProfile).Doc("Own profile")
		users.PUT("/me", h.User.UpdateProfile).Doc("Update own profile")
		users.GET("/:id", h.User.Get).Doc("Get a user (self or admin)")
		a := adminGroup(users)
		a.GET("", h.User.List).Doc("List users")
		a.POST("", h.User.Create).Doc("Create a user")
		a.PUT("/:id", h.User.Update).Doc("Update a user")
		a.DELETE("/:id", h.User.Delete).Doc("Delete a user")
		a.POST("/:id/activate", h.User.Activate).Doc("Activate a user")
		a.POST("/:id/deactivate", h.User.Deactivate).Doc("Deactivate a user")
		r.Register(users)
	}

	if h.Room != nil {
		rooms := NewDomainGroup("rooms", "/rooms")
		rooms.GET("", h.Room.List).Doc("List rooms")
		rooms.GET("/available", h.Room.ListAvailable).Doc("Rooms with free beds")
		rooms.GET("/:id", h.Room.Get).Doc("Get a room")
		a := adminGroup(rooms)
		a.POST("", h.Room.Create).Doc("Create a room")
		a.PUT("/:id", h.Room.Update).Doc("Update a room")
		a.PUT("/:id/maintenance", h.Room.SetMaintenance).Doc("Toggle maintenance mode")
		a.DELETE("/:id", h.Room.Delete).Doc("Delete a room without open bookings")
		a.GET("/:id/bookings", h.Room.Bookings).Doc("Bookings of a room")
		r.Register(rooms)
	}

	if h.Booking != nil {
		bookings := NewDomainGroup("bookings", "/bookings")
		bookings.POST("", h.Booking.Create).Doc("Request a bed")
		bookings.GET("", h.Booking.List).Doc("List bookings")
		bookings.GET("/current", h.Booking.Current).Doc("Open booking of a student")
		bookings.GET("/:id", h.Booking.Get).Doc("Get a booking")
		bookings.POST("/:id/cancel", h.Booking.Cancel).Doc("Cancel a booking")
		a := adminGroup(bookings)
		a.POST("/:id/confirm", h.Booking.Confirm).Doc("Confirm a pending booking")
		a.POST("/:id/check-in", h.Booking.CheckIn).Doc("Check a student in")
		a.POST("/:id/complete", h.Booking.Complete).Doc("Complete a stay")
		r.Register(bookings)
	}

	if h.Roommate != nil {
		roommates := NewDomainGroup("roommates", "/roommate-requests")
		studentGroup(roommates).POST("", h.Roommate.Send).Doc("Ask a student to share a room")
		roommates.GET("", h.Roommate.List).Doc("Sent or received requests")
		roommates.GET("/:id", h.Roommate.Get).Doc("Get a request")
		roommates.POST("/:id/accept", h.Roommate.Accept).Doc("Accept a request")
		roommates.POST("/:id/reject", h.Roommate.Reject).Doc("Reject a request")
		roommates.POST("/:id/cancel", h.Roommate.Cancel).Doc("Withdraw a request")
		r.Register(roommates)
	}

	if h.Payment != nil {
		payments := NewDomainGroup("payments", "/payments")
		payments.GET("", h.Payment.List).Doc("List payments")
		payments.GET("/summary", h.Payment.Summary).Doc("Totals per status")
		payments.GET("/monthly", h.Payment.MonthlyTotals).Doc("Paid revenue per month")
		payments.GET("/:id", h.Payment.Get).Doc("Get a payment")
		payments.POST("/:id/pay", h.Payment.Pay).Doc("Settle a payment")
		payments.GET("/:id/receipt", h.Payment.Receipt).Doc("PDF receipt of a paid payment")
		a := adminGroup(payments)
		a.POST("", h.Payment.Create).Doc("Raise a charge")
		a.POST("/:id/refund", h.Payment.Refund).Doc("Refund a paid payment")
		a.POST("/:id/cancel", h.Payment.Cancel).Doc("Void an outstanding payment")
		r.Register(payments)
	}

	if h.Notice != nil {
		notices := NewDomainGroup("notices", "/notices")
		notices.GET("", h.Notice.List).Doc("Notices visible to the caller")
		notices.GET("/:id", h.Notice.Get).Doc("Get a notice")
		a := adminGroup(notices)
		a.POST("", h.Notice.Create).Doc("Publish a notice")
		a.PUT("/:id", h.Notice.Update).Doc("Edit a notice")
		a.DELETE("/:id", h.Notice.Delete).Doc("Delete a notice")
		r.Register(notices)
	}

	if h.Event != nil {
		events := NewDomainGroup("events", "/events")
		events.GET("", h.Event.List).Doc("List events")
		events.GET("/:id", h.Event.Get).Doc("Get an event")
		st := studentGroup(events)
		st.POST("/:id/register", h.Event.Register).Doc("Register for an event")
		st.DELETE("/:id/register", h.Event.Unregister).Doc("Withdraw a registration")
		a := adminGroup(events)
		a.POST("", h.Event.Create).Doc("Schedule an event")
		a.PUT("/:id", h.Event.Update).Doc("Edit an event")
		a.POST("/:id/cancel", h.Event.Cancel).Doc("Cancel an event")
		a.DELETE("/:id", h.Event.Delete).Doc("Delete an event")
		a.GET("/:id/attendees", h.Event.Attendees).Doc("Registered students")
		r.Register(events)
	}

	if h.Complaint != nil {
		complaints := NewDomainGroup("complaints", "/complaints")
		complaints.GET("", h.Complaint.List).Doc("List complaints")
		studentGroup(complaints).POST("", h.Complaint.Create).Doc("File a complaint")
		complaints.GET("/:id", h.Complaint.Get).Doc("Get a complaint")
		complaints.PUT("/:id", h.Complaint.Update).Doc("Edit an open complaint")
		complaints.DELETE("/:id", h.Complaint.Delete).Doc("Delete a complaint")
		complaints.POST("/:id/reopen", h.Complaint.Reopen).Doc("Reopen a resolved complaint")
		complaints.POST("/:id/attachments", upload(h.Complaint.UploadAttachment)...).Doc("Attach a file")
		complaints.GET("/:id/attachments/url", h.Complaint.AttachmentURL).Doc("Signed link to an attachment")
		a := adminGroup(complaints)
		a.PUT("/:id/status", h.Complaint.ChangeStatus).Doc("Move a complaint through its workflow")
		a.PUT("/:id/assign", h.Complaint.Assign).Doc("Assign a complaint to staff")
		r.Register(complaints)
	}

	if h.Leave != nil {
		leaves := NewDomainGroup("leaves", "/leaves")
		leaves.POST("", h.Leave.Apply).Doc("Apply for leave")
		leaves.GET("", h.Leave.List).Doc("List leave applications")
		leaves.GET("/:id", h.Leave.Get).Doc("Get a leave application")
		leaves.POST("/:id/cancel", h.Leave.Cancel).Doc("Cancel a pending application")
		a := adminGroup(leaves)
		a.POST("/:id/approve", h.Leave.Approve).Doc("Approve an application")
		a.POST("/:id/reject", h.Leave.Reject).Doc("Reject an application")
		r.Register(leaves)
	}

	if h.Notification != nil {
		notifications := NewDomainGroup("notifications", "/notifications")
		notifications.GET("", h.Notification.List).Doc("Own notifications")
		notifications.GET("/unread-count", h.Notification.UnreadCount).Doc("Number of unread notifications")
		notifications.PUT("/read-all", h.Notification.MarkAllRead).Doc("Mark everything read")
		notifications.PUT("/:id/read", h.Notification.MarkRead).Doc("Mark one notification read")
		notifications.DELETE("/:id", h.Notification.Delete).Doc("Delete a notification")
		adminGroup(notifications).POST("/send", h.Notification.Send).Doc("Send to a user, a role or everyone")
		r.Register(notifications)
	}

	if h.Analytics != nil {
		analytics := NewDomainGroup("analytics", "/analytics")
		analytics.GET("/me", h.Analytics.StudentDashboard).Doc("Student dashboard")
		a := adminGroup(analytics)
		a.GET("/dashboard", h.Analytics.AdminDashboard).Doc("Administrator dashboard")
		a.GET("/occupancy", h.Analytics.Occupancy).Doc("Occupancy totals")
		a.GET("/occupancy/:dimension", h.Analytics.OccupancyBy).Doc("Occupancy by block, floor or type")
		a.GET("/revenue", h.Analytics.Revenue).Doc("Revenue per month")
		a.GET("/complaints", h.Analytics.Complaints).Doc("Complaint statistics")
		r.Register(analytics)
	}

	if h.Report != nil {
		reports := NewDomainGroup("reports", "/reports").Use(admin).Access(AccessAdmin)
		reports.GET("/:kind", h.Report.Generate).Doc("Render a report as json, csv, xlsx or pdf")
		reports.POST("/:kind/archive", h.Report.Archive).Doc("Store a rendered report")
		r.Register(reports)
	}

	if h.Bulk != nil {
		bulk := NewDomainGroup("bulk", "/bulk").Use(admin).Access(AccessAdmin)
		bulk.POST("/students/import", upload(h.Bulk.ImportStudents)...).Doc("Import students from CSV or XLSX")
		bulk.POST("/rooms/import", upload(h.Bulk.ImportRooms)...).Doc("Import rooms from CSV or XLSX")
		bulk.POST("/payments/generate-rent", h.Bulk.GenerateRent).Doc("Raise monthly rent for active bookings")
		bulk.POST("/payments/status", h.Bulk.UpdatePaymentStatus).Doc("Change the status of many payments")
		bulk.POST("/leaves/review", h.Bulk.ReviewLeaves).Doc("Approve or reject many leave applications")
		bulk.POST("/bookings/cancel", h.Bulk.CancelBookings).Doc("Cancel many bookings")
		bulk.POST("/users/status", h.Bulk.SetUserStatus).Doc("Activate or deactivate many users")
		bulk.POST("/notifications", h.Bulk.Notify).Doc("Notify many users")
		bulk.GET("/operations", h.Bulk.History).Doc("Bulk operation history")
		bulk.GET("/operations/:id", h.Bulk.Operation).Doc("Get a bulk operation")
		r.Register(bulk)
	}

	if h.File != nil {
		files := NewDomainGroup("files", "/files").Access(AccessPublic)
		files.GET("/*key", h.File.Download).Doc("Download a file through a signed link")
		r.Register(files)
	}

	if h.System != nil {
		system := NewDomainGroup("system", "/system")
		system.GET("/info", h.System.GetSystemInfo).Doc("Build and uptime information")
		system.Group("system-public", "").Access(AccessPublic).
			GET("/ping", h.System.Ping).Doc("Liveness check")
		r.Register(system)
	}
}

// DocsHandler serves the route listing
func (r *Router) DocsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(r.Routes()))
	}
}

// NoRoute answers unknown paths with the standard error envelope
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeRouteNotFound, "Route not found", middleware.GetRequestID(c)))
}
