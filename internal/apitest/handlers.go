package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/dmitrijs2005/cinebook/internal/client/models"
	"github.com/dmitrijs2005/cinebook/internal/common"
)

const maxFormMemory = 8 << 20

type detail struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

type userHandle func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, a *account)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.ContentTypeHeaderName, common.JSONContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fieldError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string][]string{field: {msg}})
}

func (s *Server) authenticated(h userHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, ok := common.TokenFromBearer(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			writeJSON(w, http.StatusUnauthorized, detail{Detail: "Authentication credentials were not provided."})
			return
		}
		userID, err := s.parse(token, accessTokenType)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, detail{Detail: "Given token not valid for any token type", Code: "token_not_valid"})
			return
		}

		s.mu.Lock()
		a, found := s.users[userID]
		s.mu.Unlock()
		if !found {
			writeJSON(w, http.StatusUnauthorized, detail{Detail: "User not found", Code: "user_not_found"})
			return
		}
		h(w, r, ps, a)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail{Detail: "JSON parse error"})
		return
	}

	s.mu.Lock()
	a, ok := s.accounts[in.Username]
	s.mu.Unlock()
	if !ok || a.password != in.Password {
		fieldError(w, "non_field_errors", "Invalid credentials")
		return
	}

	access, refresh, err := s.issuePair(a.user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, detail{Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access":  access,
		"refresh": refresh,
		"user":    a.user,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !strings.HasPrefix(r.Header.Get(common.ContentTypeHeaderName), "multipart/form-data") {
		writeJSON(w, http.StatusUnsupportedMediaType, detail{Detail: "Unsupported media type in request."})
		return
	}
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, detail{Detail: err.Error()})
		return
	}

	for _, f := range []string{"username", "email", "password", "password2"} {
		if r.FormValue(f) == "" {
			fieldError(w, f, "This field is required.")
			return
		}
	}
	if r.FormValue("password") != r.FormValue("password2") {
		fieldError(w, "password", "Passwords do not match.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	username := r.FormValue("username")
	if _, exists := s.accounts[username]; exists {
		fieldError(w, "username", "A user with that username already exists.")
		return
	}

	a := s.addUserLocked(username, r.FormValue("password"), r.FormValue("email"))
	a.user.Phone = r.FormValue("phone")
	a.user.Location = r.FormValue("location")
	a.user.DateOfBirth = r.FormValue("date_of_birth")
	if f, hdr, err := r.FormFile("profile_picture"); err == nil {
		_ = f.Close()
		pic := "/media/profile_pics/" + hdr.Filename
		a.user.ProfilePicture = &pic
	}

	writeJSON(w, http.StatusCreated, a.user)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Refresh == "" {
		fieldError(w, "refresh", "This field is required.")
		return
	}

	userID, err := s.parse(in.Refresh, refreshTokenType)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, detail{Detail: "Token is invalid or expired", Code: "token_not_valid"})
		return
	}

	accessGen, refreshGen := s.generations()
	out := map[string]string{}
	if out["access"], err = s.issue(userID, accessTokenType, s.accessTTL, accessGen); err != nil {
		writeJSON(w, http.StatusInternalServerError, detail{Detail: err.Error()})
		return
	}
	if s.rotate {
		if out["refresh"], err = s.issue(userID, refreshTokenType, s.refreshTTL, refreshGen); err != nil {
			writeJSON(w, http.StatusInternalServerError, detail{Detail: err.Error()})
			return
		}
		s.mu.Lock()
		s.usedRefresh[jti(in.Refresh)] = true
		s.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProfile(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, a *account) {
	s.mu.Lock()
	u := a.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params, a *account) {
	var in models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail{Detail: "JSON parse error"})
		return
	}

	s.mu.Lock()
	if in.Phone != "" {
		a.user.Phone = in.Phone
	}
	if in.Location != "" {
		a.user.Location = in.Location
	}
	if in.DateOfBirth != "" {
		a.user.DateOfBirth = in.DateOfBirth
	}
	u := a.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.ProfileUpdateResponse{Message: "Profile updated", User: u})
}

func (s *Server) listMovies(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	out := append([]models.Movie{}, s.movies...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getMovie(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	slug := ps.ByName("slug")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movies {
		if m.Slug == slug {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, detail{Detail: "Not found."})
}

func (s *Server) listSeats(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	show, err := strconv.ParseInt(ps.ByName("show"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, detail{Detail: "Not found."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Seat{}
	for _, seat := range s.seats[show] {
		if !seat.IsBooked {
			out = append(out, *seat)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listBookings(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, a *account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Booking{}
	for id := int64(1); id <= s.nextID; id++ {
		if b, ok := s.bookings[id]; ok && b.owner == a.user.ID && !b.cancelled {
			out = append(out, b.Booking)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params, a *account) {
	var in models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail{Detail: "JSON parse error"})
		return
	}
	if len(in.Seats) == 0 {
		fieldError(w, "seats", "This list may not be empty.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[int64]*models.Seat, len(s.seats[in.Show]))
	for _, seat := range s.seats[in.Show] {
		byID[seat.ID] = seat
	}

	var total float64
	picked := make([]*models.Seat, 0, len(in.Seats))
	for _, id := range in.Seats {
		seat, ok := byID[id]
		if !ok {
			fieldError(w, "seats", fmt.Sprintf("Seat %d does not belong to show %d.", id, in.Show))
			return
		}
		if seat.IsBooked {
			fieldError(w, "seats", fmt.Sprintf("Seat %s is already booked.", seat.SeatNumber))
			return
		}
		price, _ := strconv.ParseFloat(seat.Price, 64)
		total += price
		picked = append(picked, seat)
	}

	s.nextID++
	b := &booking{
		Booking: models.Booking{
			ID:         s.nextID,
			Show:       in.Show,
			Seats:      in.Seats,
			TotalPrice: fmt.Sprintf("%.2f", total),
			CreatedAt:  time.Now().UTC().Truncate(time.Second),
		},
		owner: a.user.ID,
	}
	for _, seat := range picked {
		seat.IsBooked = true
		s.nextID++
		t := &ticket{
			Ticket: models.Ticket{
				Code:     strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]),
				IssuedAt: b.CreatedAt,
				Seat:     *seat,
			},
			id:    s.nextID,
			owner: a.user.ID,
		}
		s.tickets[t.id] = t
		b.Tickets = append(b.Tickets, t.Ticket)
	}
	s.bookings[b.ID] = b

	writeJSON(w, http.StatusCreated, b.Booking)
}

func (s *Server) cancelBooking(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, a *account) {
	id, _ := strconv.ParseInt(ps.ByName("id"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.cancelled {
		writeJSON(w, http.StatusNotFound, detail{Detail: "Not found."})
		return
	}
	if b.owner != a.user.ID {
		writeJSON(w, http.StatusForbidden, detail{Detail: "You do not have permission to perform this action."})
		return
	}

	b.cancelled = true
	for _, seat := range s.seats[b.Show] {
		for _, sid := range b.Seats {
			if seat.ID == sid {
				seat.IsBooked = false
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTickets(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, a *account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Ticket{}
	for id := int64(1); id <= s.nextID; id++ {
		if t, ok := s.tickets[id]; ok && t.owner == a.user.ID {
			out = append(out, t.Ticket)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTicket(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, a *account) {
	id, _ := strconv.ParseInt(ps.ByName("id"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, detail{Detail: "Not found."})
		return
	}
	if t.owner != a.user.ID {
		writeJSON(w, http.StatusForbidden, detail{Detail: "You do not have permission to perform this action."})
		return
	}
	writeJSON(w, http.StatusOK, t.Ticket)
}
