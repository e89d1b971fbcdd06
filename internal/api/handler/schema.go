package handler

import (
	"encoding/json"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
	Position string `json:"position"`
	KPIs     string `json:"kpis"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// profileRequest carries a self-service profile edit. Pointer fields
// distinguish "leave unchanged" from "set to empty".
type profileRequest struct {
	Name            *string `json:"name"`
	Position        *string `json:"position"`
	KPIs            *string `json:"kpis"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

type provisionRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Role     string `json:"role"  validate:"omitempty,oneof=user director developer"`
	KPIs     string `json:"kpis"`
}

// roleRequest targets an account by id or email. The adminEmail field is
// consumed by the authorization middleware; it is bound here only so
// legacy clients that send it do not trip strict binding.
type roleRequest struct {
	UserID     int64  `json:"userId"`
	Email      string `json:"email"`
	Role       string `json:"role" validate:"required,oneof=user director developer"`
	AdminEmail string `json:"adminEmail"`
}

type deleteUserRequest struct {
	Email string `json:"email"`
}

type cleanupRequest struct {
	Emails []string `json:"emails" validate:"required,min=1"`
}

type submissionRequest struct {
	UserEmail string          `json:"userEmail" validate:"required,email"`
	UserName  string          `json:"userName"`
	Data      json.RawMessage `json:"data"`
}

type proxyRequest struct {
	Endpoint string          `json:"endpoint" validate:"required"`
	Method   string          `json:"method"`
	Body     json.RawMessage `json:"body"`
}

// --- Response types ---

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user"`
}

type userResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

type usersResponse struct {
	Users []domain.User `json:"users"`
}

type deletedResponse struct {
	Success bool         `json:"success"`
	Deleted *domain.User `json:"deleted"`
}

type cleanupResponse struct {
	Success bool          `json:"success"`
	Deleted []domain.User `json:"deleted"`
}

type submissionResponse struct {
	Success bool `json:"success"`
}

// reportsResponse groups both kinds under the field names the extension
// has always consumed.
type reportsResponse struct {
	WeeklyCheckins []map[string]any `json:"weeklyCheckins"`
	MonthlyReports []map[string]any `json:"monthlyReports"`
}
