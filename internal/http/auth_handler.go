package http

import (
	"encoding/json"
	"net/http"

	"github.com/tuannm151/sweetshop/internal/apperr"
	"github.com/tuannm151/sweetshop/internal/http/middleware"
	"github.com/tuannm151/sweetshop/internal/service"
	"github.com/tuannm151/sweetshop/pkg/validator"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

type authHandler struct {
	authSvc   service.AuthService
	validator validator.Validator
	rs        *responder
}

func newAuthHandler(authSvc service.AuthService, v validator.Validator, rs *responder) *authHandler {
	return &authHandler{
		authSvc:   authSvc,
		validator: v,
		rs:        rs,
	}
}

func (h *authHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rs.Err(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rs.Err(w, r, err)
		return
	}

	userID, err := h.authSvc.Register(r.Context(), service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	h.rs.JSON(w, r, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		UserID:  userID,
	})
}

func (h *authHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rs.Err(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rs.Err(w, r, err)
		return
	}

	token, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	h.rs.JSON(w, r, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *authHandler) me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.rs.Err(w, r, apperr.UnauthenticatedErr)
		return
	}

	h.rs.JSON(w, r, http.StatusOK, userResponse{
		ID:       principal.ID,
		Username: principal.Username,
		Email:    principal.Email,
		IsAdmin:  principal.IsAdmin,
	})
}
