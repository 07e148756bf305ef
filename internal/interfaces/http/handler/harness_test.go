package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/application/community"
	"github.com/hostelhub/backend/internal/application/finance"
	"github.com/hostelhub/backend/internal/application/housing"
	"github.com/hostelhub/backend/internal/application/identity"
	notificationapp "github.com/hostelhub/backend/internal/application/notification"
	"github.com/hostelhub/backend/internal/application/welfare"
	domainCommunity "github.com/hostelhub/backend/internal/domain/community"
	domainHousing "github.com/hostelhub/backend/internal/domain/housing"
	domainIdentity "github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/auth"
	"github.com/hostelhub/backend/internal/infrastructure/config"
	"github.com/hostelhub/backend/internal/infrastructure/event"
	"github.com/hostelhub/backend/internal/infrastructure/persistence"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
	"github.com/hostelhub/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

const testPassword = "Passw0rd!23"

// testEnv is an API over an in-memory database with real services
type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	jwt    *auth.JWTService

	users    domainIdentity.UserRepository
	rooms    domainHousing.RoomRepository
	events   domainCommunity.EventRepository
	bookings domainHousing.BookingRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"),
		persistence.GormConfig(gormlogger.Default.LogMode(gormlogger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	// not started, so published events are dropped
	bus := event.NewInMemoryEventBus(log)

	userRepo := persistence.NewGormUserRepository(db)
	roomRepo := persistence.NewGormRoomRepository(db)
	bookingRepo := persistence.NewGormBookingRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	authService := identity.NewAuthService(userRepo, jwtService, blacklist, bus, identity.DefaultAuthServiceConfig(), log)
	twoFactorService := identity.NewTwoFactorService(userRepo, "HostelHub Test", log)
	userService := identity.NewUserService(userRepo, bookingRepo, blacklist, bus, log)
	roomService := housing.NewRoomService(roomRepo, bookingRepo, bus, log)
	bookingService := housing.NewBookingService(bookingRepo, roomRepo, userRepo, txScope, bus, housing.BookingServiceConfig{}, log)
	paymentService := finance.NewPaymentService(paymentRepo, userRepo, bookingRepo, roomRepo, bus, nil, nil,
		finance.PaymentServiceConfig{HostelName: "Test Hostel"}, log)
	noticeService := community.NewNoticeService(persistence.NewGormNoticeRepository(db), bus, log)
	leaveService := welfare.NewLeaveService(persistence.NewGormLeaveRepository(db), txScope, bus, log)
	notificationService := notificationapp.NewService(persistence.NewGormNotificationRepository(db), userRepo, log)
	complaintService := welfare.NewComplaintService(persistence.NewGormComplaintRepository(db), roomRepo, nil, bus,
		welfare.ComplaintServiceConfig{}, log)
	eventService := community.NewEventService(persistence.NewGormEventRepository(db), userRepo, txScope, bus, log)
	roommateService := housing.NewRoommateService(persistence.NewGormRoommateRequestRepository(db), userRepo, roomRepo, bus, log)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	admin := middleware.RequireRole(shared.RoleAdmin)
	student := middleware.RequireRole(shared.RoleStudent)
	api := engine.Group("/api/v1")

	authH := NewAuthHandler(authService, twoFactorService)
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.RefreshToken)
	api.POST("/auth/logout", authH.Logout)
	api.GET("/auth/me", authH.GetCurrentUser)
	api.PUT("/auth/password", authH.ChangePassword)
	api.POST("/auth/2fa/setup", authH.SetupTwoFactor)

	userH := NewUserHandler(userService)
	api.GET("/users", admin, userH.List)
	api.POST("/users", admin, userH.Create)
	api.GET("/users/me", userH.GetProfile)
	api.PUT("/users/me", userH.UpdateProfile)
	api.GET("/users/:id", userH.Get)
	api.POST("/users/:id/deactivate", admin, userH.Deactivate)

	roomH := NewRoomHandler(roomService)
	api.GET("/rooms", roomH.List)
	api.GET("/rooms/available", roomH.ListAvailable)
	api.GET("/rooms/:id", roomH.Get)
	api.POST("/rooms", admin, roomH.Create)
	api.PUT("/rooms/:id", admin, roomH.Update)
	api.PUT("/rooms/:id/maintenance", admin, roomH.SetMaintenance)
	api.DELETE("/rooms/:id", admin, roomH.Delete)

	bookingH := NewBookingHandler(bookingService)
	api.POST("/bookings", bookingH.Create)
	api.GET("/bookings", bookingH.List)
	api.GET("/bookings/current", bookingH.Current)
	api.GET("/bookings/:id", bookingH.Get)
	api.POST("/bookings/:id/confirm", admin, bookingH.Confirm)
	api.POST("/bookings/:id/cancel", bookingH.Cancel)

	paymentH := NewPaymentHandler(paymentService)
	api.GET("/payments", paymentH.List)
	api.POST("/payments", admin, paymentH.Create)
	api.GET("/payments/summary", paymentH.Summary)
	api.POST("/payments/:id/pay", paymentH.Pay)

	noticeH := NewNoticeHandler(noticeService)
	api.GET("/notices", noticeH.List)
	api.POST("/notices", admin, noticeH.Create)

	leaveH := NewLeaveHandler(leaveService)
	api.POST("/leaves", leaveH.Apply)
	api.GET("/leaves", leaveH.List)
	api.POST("/leaves/:id/approve", admin, leaveH.Approve)

	complaintH := NewComplaintHandler(complaintService)
	api.POST("/complaints", student, complaintH.Create)

	eventH := NewEventHandler(eventService)
	api.POST("/events/:id/register", student, eventH.Register)

	roommateH := NewRoommateHandler(roommateService)
	api.POST("/roommate-requests", student, roommateH.Send)

	notificationH := NewNotificationHandler(notificationService)
	api.GET("/notifications", notificationH.List)
	api.GET("/notifications/unread-count", notificationH.UnreadCount)
	api.POST("/notifications/send", admin, notificationH.Send)

	systemH := NewSystemHandler("HostelHub Test", "test")
	systemH.AddCheck("database", func(ctx context.Context) error { return sqlDB.PingContext(ctx) })
	engine.GET("/health", systemH.Health)
	api.GET("/system/ping", systemH.Ping)
	api.GET("/system/info", systemH.GetSystemInfo)

	return &testEnv{
		t:        t,
		db:       db,
		engine:   engine,
		jwt:      jwtService,
		users:    userRepo,
		rooms:    roomRepo,
		events:   persistence.NewGormEventRepository(db),
		bookings: bookingRepo,
	}
}

func (e *testEnv) seedUser(email string, role shared.Role) *domainIdentity.User {
	e.t.Helper()
	u, err := domainIdentity.NewUser(email, "User "+email, testPassword, role)
	require.NoError(e.t, err)
	require.NoError(e.t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedRoom(number string, capacity int) *domainHousing.Room {
	e.t.Helper()
	r, err := domainHousing.NewRoom(number, "A", 1, domainHousing.RoomTypeDouble, capacity, decimal.NewFromInt(450))
	require.NoError(e.t, err)
	require.NoError(e.t, e.rooms.Create(context.Background(), r))
	return r
}

// token issues an access token for u
func (e *testEnv) token(u *domainIdentity.User) string {
	e.t.Helper()
	pair, err := e.jwt.GenerateTokenPair(auth.Subject{UserID: u.ID, Email: u.Email, Role: u.Role})
	require.NoError(e.t, err)
	return pair.AccessToken
}

// do sends a request with an optional JSON body and bearer token
func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(e.t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// envelope is dto.Response with the data left undecoded
type envelope struct {
	Success   bool                   `json:"success"`
	Data      json.RawMessage        `json:"data"`
	Meta      *dto.Meta              `json:"meta"`
	Error     string                 `json:"error"`
	Code      string                 `json:"code"`
	RequestID string                 `json:"request_id"`
	Details   []dto.ValidationDetail `json:"details"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// data decodes the data field of a success response into T
func data[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
