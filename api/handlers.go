package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"backoffice/auth"
	"backoffice/qhse"
)

const defaultExpiringDays = 30

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Role       auth.Role `json:"role"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
	}
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var req auth.LoginRequest
	if err := decodeStrict(body, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	res, err := s.auth.Login(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      toUserResponse(res.User),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var req auth.RegisterRequest
	if err := decodeStrict(body, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	user, err := s.auth.Register(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.GetUserByID(r.Context(), actorFrom(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	list, err := s.departments.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list})
}

func (s *Server) handleDepartment(w http.ResponseWriter, r *http.Request) {
	d, err := s.departments.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSalesOrder(w http.ResponseWriter, r *http.Request) {
	overview, err := s.salesOrders.Lookup(r.Context(), mux.Vars(r)["noSO"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleQHSEExpiring(w http.ResponseWriter, r *http.Request) {
	days := defaultExpiringDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 3650 {
			s.writeServiceError(w, r, badRequest("days: expected an integer between 0 and 3650"))
			return
		}
		days = n
	}
	list, err := qhse.Expiring(r.Context(), s.qhse, s.now(), time.Duration(days)*24*time.Hour)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days, "items": list})
}
