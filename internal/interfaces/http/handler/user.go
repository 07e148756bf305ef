package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/identity"
	domainIdentity "github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// UserHandler handles user management HTTP requests
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Name, email or student number"
// @Param        role query string false "ADMIN or STUDENT"
// @Param        status query string false "ACTIVE, INACTIVE or LOCKED"
// @Param        gender query string false "Gender"
// @Param        sort_by query string false "Sort field"
// @Param        sort_order query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]identity.UserDTO}
// @Failure      401 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q ListUsersQuery
	if !h.bindQuery(c, &q) {
		return
	}

	page, err := h.userService.List(c.Request.Context(), identity.ListUsersInput{
		Search:    q.Search,
		Role:      optionalEnum[shared.Role](q.Role),
		Status:    optionalEnum[domainIdentity.UserStatus](q.Status),
		Gender:    optionalEnum[shared.Gender](q.Gender),
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Create godoc
// @ID           createUser
// @Summary      Create a user
// @Description  Creates an account with any role. Role defaults to STUDENT.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User details"
// @Success      201 {object} dto.Response{data=identity.UserDTO}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), identity.CreateUserInput{
		Email:         req.Email,
		Password:      req.Password,
		Name:          req.Name,
		Phone:         req.Phone,
		Role:          shared.Role(req.Role),
		Gender:        shared.Gender(req.Gender),
		StudentNumber: req.StudentNumber,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Get godoc
// @ID           getUser
// @Summary      Get a user
// @Description  Students may only read their own account
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// GetProfile godoc
// @ID           getProfile
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update godoc
// @ID           updateUser
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body UpdateUserRequest true "Changes"
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	h.update(c, actor, id, true)
}

// UpdateProfile godoc
// @ID           updateProfile
// @Summary      Update own profile
// @Description  Role and status cannot be changed here
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateUserRequest true "Changes"
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	h.update(c, actor, actor.UserID, false)
}

func (h *UserHandler) update(c *gin.Context, actor shared.Actor, id uuid.UUID, allowRole bool) {
	var req UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	input := identity.UpdateUserInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		StudentNumber: req.StudentNumber,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
	}
	if req.Gender != nil {
		input.Gender = optionalEnum[shared.Gender](*req.Gender)
	}
	if req.Role != nil {
		if !allowRole {
			h.Forbidden(c, "Role cannot be changed on your own profile")
			return
		}
		input.Role = optionalEnum[shared.Role](*req.Role)
	}

	user, err := h.userService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete godoc
// @ID           deleteUser
// @Summary      Delete a user
// @Description  Users holding a seat cannot be deleted. Admins cannot delete themselves.
// @Tags         users
// @Param        id path string true "User ID"
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @ID           activateUser
// @Summary      Activate a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	h.setStatus(c, true)
}

// Deactivate godoc
// @ID           deactivateUser
// @Summary      Deactivate a user
// @Description  Outstanding tokens of the user are revoked
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setStatus(c, false)
}

func (h *UserHandler) setStatus(c *gin.Context, active bool) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.SetStatus(c.Request.Context(), actor, id, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
