package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"estate_listing/internal/app"
	"estate_listing/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/properties", h.searchProperties)
		r.Get("/properties/featured", h.featuredProperties)
		r.Get("/properties/{id}", h.getProperty)
		r.Post("/properties/{id}/inquiries", h.submitInquiry)

		r.Post("/listings", h.submitListing)
		r.Post("/contact", h.submitContact)

		r.Get("/users/{userID}/saved", h.listSaved)
		r.Put("/users/{userID}/saved/{propertyID}", h.saveProperty)
		r.Delete("/users/{userID}/saved/{propertyID}", h.unsaveProperty)

		r.Get("/dashboards/buyer/{userID}", h.buyerDashboard)
		r.Get("/dashboards/seller/{agentID}", h.sellerDashboard)
		r.Get("/dashboards/admin", h.adminDashboard)
	})
}

/********** queries **********/

func (h *Handlers) searchProperties(w http.ResponseWriter, r *http.Request) {
	f, sort := parseFilter(r)
	out, err := h.Q.SearchProperties(r.Context(), f, sort)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) featuredProperties(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.FeaturedProperties(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.Q.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, p)
}

func (h *Handlers) listSaved(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.SavedProperties(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) buyerDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Q.BuyerDashboard(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, d)
}

func (h *Handlers) sellerDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Q.SellerDashboard(r.Context(), chi.URLParam(r, "agentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, d)
}

func (h *Handlers) adminDashboard(w http.ResponseWriter, r *http.Request) {
	status := domain.SubmissionStatus(strings.ToLower(r.URL.Query().Get("status")))
	d, err := h.Q.AdminDashboard(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, d)
}

/********** commands **********/

func (h *Handlers) submitInquiry(w http.ResponseWriter, r *http.Request) {
	var in app.InquiryInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.PropertyID = chi.URLParam(r, "id")
	res, err := h.C.SubmitInquiry(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) submitListing(w http.ResponseWriter, r *http.Request) {
	var in app.ListingInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := h.C.SubmitListing(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) submitContact(w http.ResponseWriter, r *http.Request) {
	var in app.ContactInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := h.C.SubmitContact(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type savedResponse struct {
	UserID          string   `json:"userId"`
	SavedProperties []string `json:"savedProperties"`
}

func (h *Handlers) saveProperty(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "userID")
	ids, err := h.C.SaveProperty(r.Context(), uid, chi.URLParam(r, "propertyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{UserID: uid, SavedProperties: ids})
}

func (h *Handlers) unsaveProperty(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "userID")
	ids, err := h.C.UnsaveProperty(r.Context(), uid, chi.URLParam(r, "propertyID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{UserID: uid, SavedProperties: ids})
}

/********** request parsing **********/

// parseFilter never fails: unparsable or missing values keep the default,
// which constrains nothing.
func parseFilter(r *http.Request) (domain.FilterSpec, domain.SortKey) {
	q := r.URL.Query()
	f := domain.DefaultFilter()
	f.Keyword = strings.TrimSpace(q.Get("keyword"))
	f.City = strings.TrimSpace(q.Get("city"))
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		f.Type = v
	}
	if v := strings.TrimSpace(q.Get("propertyType")); v != "" {
		f.PropertyType = v
	}
	if v := strings.TrimSpace(q.Get("furnished")); v != "" {
		f.Furnished = v
	}
	f.PriceMin = queryFloat(q.Get("priceMin"), 0)
	f.PriceMax = queryFloat(q.Get("priceMax"), domain.NoPriceLimit)
	f.MinSquareFootage = queryFloat(q.Get("minSquareFootage"), 0)
	f.Bedrooms = queryInt(q.Get("bedrooms"), 0)
	f.Bathrooms = queryInt(q.Get("bathrooms"), 0)

	sort := domain.SortKey(strings.ToLower(strings.TrimSpace(q.Get("sort"))))
	if !sort.Valid() {
		sort = domain.SortNone
	}
	return f, sort
}

func queryFloat(s string, def float64) float64 {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func queryInt(s string, def int) int {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
	if err != nil {
		return def
	}
	return v
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Malformed body", "request body must be a JSON object")
		return false
	}
	return true
}

/********** responses **********/

func writeError(w http.ResponseWriter, err error) {
	var ve *app.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemFields(w, http.StatusUnprocessableEntity, "Validation failed", "", ve.Fields)
	case errors.Is(err, domain.ErrInvalid):
		writeProblem(w, http.StatusUnprocessableEntity, "Validation failed", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		log.Error().Err(err).Msg("dependency unavailable")
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "listing data is temporarily unavailable")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Fields: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeCached answers a GET with a weak ETag, or 304 when the client
// already holds this version.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("write body failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}
