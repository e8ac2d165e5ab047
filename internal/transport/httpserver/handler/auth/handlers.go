package auth

import (
	"net/http"
	"time"

	userdomain "dues-app-go/internal/domain/user"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/internal/transport/httpserver/middleware"
	"dues-app-go/pkg/logger"
)

type Handlers struct {
	Users   *userdomain.Service
	respond *commonhandler.Responder
	log     logger.Logger
}

func New(users *userdomain.Service, respond *commonhandler.Responder) *Handlers {
	return &Handlers{
		Users:   users,
		respond: respond,
		log:     respond.Log(),
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=admin treasurer member"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin treasurer member"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

type userResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"fullName"`
	Role      string  `json:"role"`
	Phone     *string `json:"phone,omitempty"`
	IsActive  bool    `json:"isActive"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

type sessionResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "auth.register: invalid request", err)
		return
	}

	session, err := h.Users.Register(r.Context(), userdomain.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respond.Fail(w, "auth.register: register failed", err, "email", req.Email)
		return
	}

	h.log.Info("auth.register: user registered", "user_id", session.User.ID, "role", session.User.Role)
	writeMessage(w, http.StatusCreated, "User registered successfully", toSessionResponse(*session))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "auth.login: invalid request", err)
		return
	}

	session, err := h.Users.Login(r.Context(), userdomain.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.respond.Fail(w, "auth.login: login failed", err, "email", req.Email)
		return
	}

	writeMessage(w, http.StatusOK, "Login successful", toSessionResponse(*session))
}

// Logout is a no-op for stateless tokens; clients drop the token.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Logout successful", nil)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	user, err := h.Users.GetActive(r.Context(), current.ID)
	if err != nil {
		h.respond.Fail(w, "auth.me: get user failed", err, "user_id", current.ID)
		return
	}

	writeData(w, http.StatusOK, toUserResponse(*user))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "auth.profile: invalid request", err)
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), userdomain.UpdateProfileInput{
		UserID:    current.ID,
		ActorRole: current.Role,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		h.respond.Fail(w, "auth.profile: update failed", err, "user_id", current.ID)
		return
	}

	writeMessage(w, http.StatusOK, "Profile updated successfully", toUserResponse(*user))
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "auth.change_password: invalid request", err)
		return
	}

	err := h.Users.ChangePassword(r.Context(), userdomain.ChangePasswordInput{
		UserID:          current.ID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.respond.Fail(w, "auth.change_password: change failed", err, "user_id", current.ID)
		return
	}

	writeMessage(w, http.StatusOK, "Password changed successfully", nil)
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	session, err := h.Users.Refresh(r.Context(), current.ID)
	if err != nil {
		h.respond.Fail(w, "auth.refresh: refresh failed", err, "user_id", current.ID)
		return
	}

	writeMessage(w, http.StatusOK, "Token refreshed successfully", toSessionResponse(*session))
}

func toSessionResponse(session userdomain.Session) sessionResponse {
	return sessionResponse{User: toUserResponse(session.User), Token: session.Token}
}

func toUserResponse(user userdomain.User) userResponse {
	response := userResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
		Phone:    user.Phone,
		IsActive: user.IsActive,
	}
	if !user.CreatedAt.IsZero() {
		response.CreatedAt = user.CreatedAt.UTC().Format(time.RFC3339)
	}
	return response
}
