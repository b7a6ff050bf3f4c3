// Package api exposes the back office over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"backoffice/auth"
	"backoffice/authz"
	"backoffice/department"
	"backoffice/purchase"
	"backoffice/qhse"
	"backoffice/records"
	"backoffice/salesorder"
)

const maxBodyBytes = 1 << 20

// Module is a record dashboard mounted under /api/{name}. Build one with
// Resource.
type Module interface {
	Name() string
	mount(r *mux.Router, s *Server)
}

// Deps are the services the router dispatches to.
type Deps struct {
	Auth        *auth.Service
	Authz       *authz.Authorizer
	Departments *department.Service
	SalesOrders *salesorder.Service
	QHSE        *records.Service[qhse.Personnel]
	Modules     []Module

	Logger      *zap.Logger
	CORSOrigins []string
	Now         func() time.Time
}

type Server struct {
	auth        *auth.Service
	authz       *authz.Authorizer
	departments *department.Service
	salesOrders *salesorder.Service
	qhse        *records.Service[qhse.Personnel]
	modules     []Module

	logger      *zap.Logger
	corsOrigins []string
	now         func() time.Time
}

func NewServer(d Deps) *Server {
	s := &Server{
		auth:        d.Auth,
		authz:       d.Authz,
		departments: d.Departments,
		salesOrders: d.SalesOrders,
		qhse:        d.QHSE,
		modules:     d.Modules,
		logger:      d.Logger,
		corsOrigins: d.CORSOrigins,
		now:         d.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.corsOrigins) == 0 {
		s.corsOrigins = []string{"*"}
	}
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	root := mux.NewRouter()
	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "route not found", nil)
	})
	root.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
	})

	root.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	root.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)

	private := root.PathPrefix("/api").Subrouter()
	private.Use(s.authenticate)

	private.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	private.HandleFunc("/auth/register", s.require(authz.ObjectUsers, authz.ActionWrite, s.handleRegister)).Methods(http.MethodPost)
	private.HandleFunc("/users", s.require(authz.ObjectUsers, authz.ActionWrite, s.handleUsers)).Methods(http.MethodGet)
	private.HandleFunc("/departments", s.handleDepartments).Methods(http.MethodGet)
	private.HandleFunc("/departments/{id}", s.handleDepartment).Methods(http.MethodGet)
	if s.salesOrders != nil {
		private.HandleFunc("/sales-orders/{noSO}", s.require(purchase.Module, authz.ActionRead, s.handleSalesOrder)).Methods(http.MethodGet)
	}
	if s.qhse != nil {
		// Registered before the module so it is not captured by /qhse/{id}.
		private.HandleFunc("/qhse/expiring", s.require(qhse.Module, authz.ActionRead, s.handleQHSEExpiring)).Methods(http.MethodGet)
	}
	for _, m := range s.modules {
		m.mount(private.PathPrefix("/"+m.Name()).Subrouter(), s)
	}

	var h http.Handler = root
	h = s.logRequests(h)
	h = withRequestID(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(s.corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader, "Content-Disposition"}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.logger)),
		handlers.PrintRecoveryStack(true),
	)(h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
