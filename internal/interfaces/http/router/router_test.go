package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	rooms := NewDomainGroup("rooms", "/rooms")
	rooms.GET("", ok("rooms")).
		GET("/:id", ok("room")).
		POST("", ok("created")).
		PUT("/:id", ok("updated")).
		PATCH("/:id", ok("patched")).
		DELETE("/:id", ok("deleted"))
	r.Register(rooms).Setup()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/rooms", "rooms"},
		{http.MethodGet, "/api/v1/rooms/42", "room"},
		{http.MethodPost, "/api/v1/rooms", "created"},
		{http.MethodPut, "/api/v1/rooms/42", "updated"},
		{http.MethodPatch, "/api/v1/rooms/42", "patched"},
		{http.MethodDelete, "/api/v1/rooms/42", "deleted"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("bookings", "/bookings")
	g.Use(func(c *gin.Context) {
		c.Header("X-Group", "bookings")
		c.Next()
	})
	g.GET("", ok("list"))

	admin := g.Group("bookings-admin", "")
	admin.Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusForbidden)
	})
	admin.POST("/:id/confirm", ok("confirmed"))

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/bookings")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bookings", w.Header().Get("X-Group"))

	w = serve(engine, http.MethodPost, "/api/v1/bookings/1/confirm")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "bookings", w.Header().Get("X-Group"), "parent middleware runs first")
}

func TestDomainGroup_NameAndPrefix(t *testing.T) {
	g := NewDomainGroup("housing", "/rooms")
	assert.Equal(t, "housing", g.Name())
	assert.Equal(t, "/rooms", g.Prefix())
}

func TestRoutes_Describe(t *testing.T) {
	r := NewRouter(gin.New())

	rooms := NewDomainGroup("rooms", "/rooms")
	rooms.GET("", ok("")).Doc("List rooms")
	admin := rooms.Group("rooms-admin", "").Access(AccessAdmin)
	admin.POST("", ok("")).DELETE("/:id", ok(""))

	auth := NewDomainGroup("auth", "/auth").Access(AccessPublic)
	auth.POST("/login", ok(""))

	r.Register(rooms).Register(auth)
	r.Document(http.MethodGet, "/health", AccessPublic, "Liveness")
	r.Setup()

	docs := r.Routes()
	require.Len(t, docs, 5)
	assert.Equal(t, []RouteDoc{
		{Method: http.MethodPost, Path: "/api/v1/auth/login", Access: AccessPublic},
		{Method: http.MethodGet, Path: "/api/v1/rooms", Access: AccessAuthenticated, Description: "List rooms"},
		{Method: http.MethodPost, Path: "/api/v1/rooms", Access: AccessAdmin},
		{Method: http.MethodDelete, Path: "/api/v1/rooms/:id", Access: AccessAdmin},
		{Method: http.MethodGet, Path: "/health", Access: AccessPublic, Description: "Liveness"},
	}, docs)
}

func TestGroup_InheritsAccess(t *testing.T) {
	parent := NewDomainGroup("bulk", "/bulk").Access(AccessAdmin)
	child := parent.Group("imports", "/imports")
	child.POST("/students", ok(""))

	docs := parent.Describe("/api/v1")
	require.Len(t, docs, 1)
	assert.Equal(t, AccessAdmin, docs[0].Access)
	assert.Equal(t, "/api/v1/bulk/imports/students", docs[0].Path)
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		base, rel, want string
	}{
		{"/api/v1", "", "/api/v1"},
		{"/api/v1", "/rooms", "/api/v1/rooms"},
		{"/api/v1/rooms", "/:id", "/api/v1/rooms/:id"},
		{"/api/v1/files", "/*key", "/api/v1/files/*key"},
		{"", "/", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, joinPath(tt.base, tt.rel))
	}
}
