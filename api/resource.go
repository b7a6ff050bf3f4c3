package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"backoffice/authz"
	"backoffice/export"
	"backoffice/records"
)

// Resource mounts the standard dashboard routes for one record module.
func Resource[T any](svc *records.Service[T]) Module {
	return &resource[T]{svc: svc}
}

type resource[T any] struct {
	svc *records.Service[T]
}

func (m *resource[T]) Name() string { return m.svc.Schema().Name }

func (m *resource[T]) mount(r *mux.Router, s *Server) {
	name := m.Name()
	read := func(h http.HandlerFunc) http.HandlerFunc { return s.require(name, authz.ActionRead, h) }
	write := func(h http.HandlerFunc) http.HandlerFunc { return s.require(name, authz.ActionWrite, h) }
	approve := func(h http.HandlerFunc) http.HandlerFunc { return s.require(name, authz.ActionApprove, h) }

	r.HandleFunc("", read(m.list(s))).Methods(http.MethodGet)
	r.HandleFunc("", write(m.create(s))).Methods(http.MethodPost)
	r.HandleFunc("/summary", read(m.summary(s))).Methods(http.MethodGet)
	r.HandleFunc("/export", read(m.exportXLSX(s))).Methods(http.MethodGet)
	r.HandleFunc("/print", read(m.print(s))).Methods(http.MethodGet)
	r.HandleFunc("/{id}", read(m.get(s))).Methods(http.MethodGet)
	r.HandleFunc("/{id}", write(m.update(s))).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/{id}", write(m.delete(s))).Methods(http.MethodDelete)
	r.HandleFunc("/{id}/status", approve(m.setStatus(s))).Methods(http.MethodPost)
	r.HandleFunc("/{id}/history", read(m.history(s))).Methods(http.MethodGet)
}

func (m *resource[T]) list(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(m.svc.Schema(), r.URL.Query())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		page, err := m.svc.List(r.Context(), q)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (m *resource[T]) summary(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := m.svc.Summary(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

func (m *resource[T]) get(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := m.svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (m *resource[T]) create(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		var draft T
		if err := decodeStrict(body, &draft); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		created, err := m.svc.Create(r.Context(), actorFrom(r.Context()), draft)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		w.Header().Set("Location", r.URL.Path+"/"+url.PathEscape(m.svc.Schema().ID(created)))
		writeJSON(w, http.StatusCreated, created)
	}
}

// update overlays the JSON body onto the stored record, so only the fields
// present in the body change.
func (m *resource[T]) update(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if len(bytes.TrimSpace(body)) == 0 {
			s.writeServiceError(w, r, badRequest("request body is empty"))
			return
		}
		updated, err := m.svc.Update(r.Context(), actorFrom(r.Context()), mux.Vars(r)["id"], func(rec *T) error {
			return decodeStrict(body, rec)
		})
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (m *resource[T]) delete(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
		if err := m.svc.Delete(r.Context(), actorFrom(r.Context()), mux.Vars(r)["id"], confirmed); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type statusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (m *resource[T]) setStatus(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		var req statusRequest
		if err := decodeStrict(body, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if strings.TrimSpace(req.Status) == "" {
			writeError(w, r, http.StatusUnprocessableEntity, "validation_failed", "one or more fields are invalid", map[string]string{"status": "is required"})
			return
		}
		updated, err := m.svc.SetStatus(r.Context(), actorFrom(r.Context()), mux.Vars(r)["id"], req.Status, req.Note)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (m *resource[T]) history(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := m.svc.History(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": events})
	}
}

func (m *resource[T]) exportXLSX(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, ok := m.selectAll(s, w, r)
		if !ok {
			return
		}
		schema := m.svc.Schema()
		buf, err := export.Workbook(schema.Title, schema.Fields, items)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		filename := fmt.Sprintf("%s-%s.xlsx", schema.Name, s.now().UTC().Format("20060102"))
		w.Header().Set("Content-Type", export.XLSXContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

func (m *resource[T]) print(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, ok := m.selectAll(s, w, r)
		if !ok {
			return
		}
		schema := m.svc.Schema()
		page, err := export.PrintHTML(schema.Title, schema.Fields, items, s.now())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", export.HTMLContentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}

// selectAll applies the listing filters without paging.
func (m *resource[T]) selectAll(s *Server, w http.ResponseWriter, r *http.Request) ([]T, bool) {
	q, err := parseQuery(m.svc.Schema(), r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, err)
		return nil, false
	}
	items, err := m.svc.Select(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return nil, false
	}
	return items, true
}

// parseQuery maps listing parameters onto a records.Query. A parameter named
// after a field filters by substring; eq.<field> filters by exact value.
func parseQuery[T any](schema records.Schema[T], v url.Values) (records.Query, error) {
	q := records.Query{
		Search:    v.Get("q"),
		Status:    v.Get("status"),
		SortKey:   v.Get("sort"),
		SortOrder: v.Get("order"),
		Match:     map[string]string{},
		Exact:     map[string]string{},
	}

	var err error
	if q.From, err = records.ParseDate(v.Get("from")); err != nil {
		return q, badRequest("from: expected YYYY-MM-DD")
	}
	if q.To, err = records.ParseDate(v.Get("to")); err != nil {
		return q, badRequest("to: expected YYYY-MM-DD")
	}
	if q.Page, err = intParam(v, "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(v, "pageSize"); err != nil {
		return q, err
	}

	for key := range v {
		if name, ok := strings.CutPrefix(key, "eq."); ok {
			if _, known := schema.Field(name); known {
				q.Exact[name] = v.Get(key)
			}
			continue
		}
		if key == "status" {
			continue
		}
		if _, known := schema.Field(key); known {
			q.Match[key] = v.Get(key)
		}
	}
	return q, nil
}

func intParam(v url.Values, key string) (int, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest(key + ": expected a non-negative integer")
	}
	return n, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, badRequest("request body too large or unreadable")
	}
	return body, nil
}

func decodeStrict(body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON: " + err.Error())
	}
	return nil
}
