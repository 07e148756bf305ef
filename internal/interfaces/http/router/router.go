package router

import (
	"net/http"
	"path"
	"sort"

	"github.com/gin-gonic/gin"
)

// Access describes who may call a route. It is documentation only; the
// enforcing middleware is attached with Use.
type Access string

const (
	AccessPublic        Access = "PUBLIC"
	AccessAuthenticated Access = "AUTHENTICATED"
	AccessAdmin         Access = "ADMIN"
	AccessStudent       Access = "STUDENT"
)

// RouteDoc is one entry of the informal API listing
type RouteDoc struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Access      Access `json:"access"`
	Description string `json:"description,omitempty"`
}

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouteDescriber is implemented by registrars that can list their routes
type RouteDescriber interface {
	Describe(basePath string) []RouteDoc
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	middleware []gin.HandlerFunc
	extra      []RouteDoc
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// BasePath is the prefix of every versioned route
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Use adds middleware to the versioned API group
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Document lists a route registered outside the versioned API, such as /health
func (r *Router) Document(method, path string, access Access, description string) *Router {
	r.extra = append(r.extra, RouteDoc{Method: method, Path: path, Access: access, Description: description})
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath())
	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Routes lists every documented route sorted by path and method
func (r *Router) Routes() []RouteDoc {
	docs := append([]RouteDoc{}, r.extra...)
	for _, registrar := range r.registrars {
		if d, ok := registrar.(RouteDescriber); ok {
			docs = append(docs, d.Describe(r.BasePath())...)
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Path != docs[j].Path {
			return docs[i].Path < docs[j].Path
		}
		return docs[i].Method < docs[j].Method
	})
	return docs
}

// DomainGroup creates a route group for a specific domain
type DomainGroup struct {
	name       string
	prefix     string
	access     Access
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method      string
	path        string
	handlers    []gin.HandlerFunc
	description string
}

// NewDomainGroup creates a new domain-specific route group. Routes are
// documented as AccessAuthenticated unless Access says otherwise.
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:       name,
		prefix:     prefix,
		access:     AccessAuthenticated,
		routes:     make([]routeDefinition, 0),
		subgroups:  make([]*DomainGroup, 0),
		middleware: make([]gin.HandlerFunc, 0),
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Access sets the documented access level of the group's routes
func (dg *DomainGroup) Access(access Access) *DomainGroup {
	dg.access = access
	return dg
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   method,
		path:     path,
		handlers: handlers,
	})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPatch, path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers)
}

// Doc sets the description of the most recently added route
func (dg *DomainGroup) Doc(description string) *DomainGroup {
	if n := len(dg.routes); n > 0 {
		dg.routes[n-1].description = description
	}
	return dg
}

// Group creates a sub-group within this domain. The sub-group inherits the
// documented access level; its middleware runs after the parent's.
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	subgroup.access = dg.access
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)

	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Describe implements RouteDescriber
func (dg *DomainGroup) Describe(basePath string) []RouteDoc {
	base := joinPath(basePath, dg.prefix)
	docs := make([]RouteDoc, 0, len(dg.routes))
	for _, route := range dg.routes {
		docs = append(docs, RouteDoc{
			Method:      route.method,
			Path:        joinPath(base, route.path),
			Access:      dg.access,
			Description: route.description,
		})
	}
	for _, subgroup := range dg.subgroups {
		docs = append(docs, subgroup.Describe(base)...)
	}
	return docs
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

func joinPath(base, rel string) string {
	if rel == "" || rel == "/" {
		if base == "" {
			return "/"
		}
		return base
	}
	joined := path.Join(base, rel)
	if rel[len(rel)-1] == '/' && joined[len(joined)-1] != '/' {
		joined += "/"
	}
	return joined
}
