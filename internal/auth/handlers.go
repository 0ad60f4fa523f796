package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfboard/internal/api"
	"perfboard/internal/requestctx"
)

type Handler struct {
	DB       *pgxpool.Pool
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(db *pgxpool.Pool, secret string, ttl time.Duration) *Handler {
	return &Handler{DB: db, Secret: secret, TokenTTL: ttl}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidRequest, "invalid request payload", reqID)
		return
	}

	var employeeID, role, passwordHash string
	err := h.DB.QueryRow(r.Context(), `
    SELECT id, role, password_hash
    FROM employees
    WHERE email = $1 AND status = 'active' AND deleted_at IS NULL
  `, payload.Email).Scan(&employeeID, &role, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusUnauthorized, api.CodeInvalidCredentials, "invalid email or password", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to log in", reqID)
		return
	}

	if err := CheckPassword(passwordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, api.CodeInvalidCredentials, "invalid email or password", reqID)
		return
	}

	token, err := GenerateToken(h.Secret, Claims{EmployeeID: employeeID, Role: role}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to issue token", reqID)
		return
	}

	api.Success(w, map[string]string{"token": token, "employeeId": employeeID}, reqID)
}
