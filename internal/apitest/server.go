package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/dmitrijs2005/cinebook/internal/client/models"
)

const (
	defaultAccessTTL  = 5 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
	defaultSeatPrice  = "150.00"
)

type Option func(*Server)

// WithAccessTTL sets the lifetime of issued access tokens.
func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) { s.accessTTL = d }
}

// WithRefreshTTL sets the lifetime of issued refresh tokens.
func WithRefreshTTL(d time.Duration) Option {
	return func(s *Server) { s.refreshTTL = d }
}

// WithRotation makes the refresh endpoint return a new refresh token and
// reject the one it was called with from then on.
func WithRotation() Option {
	return func(s *Server) { s.rotate = true }
}

type account struct {
	user     models.User
	password string
}

type booking struct {
	models.Booking
	owner     int64
	cancelled bool
}

type ticket struct {
	models.Ticket
	id    int64
	owner int64
}

// Server is the fake API. Its zero value is not usable; call New.
type Server struct {
	srv    *httptest.Server
	secret []byte

	accessTTL  time.Duration
	refreshTTL time.Duration
	rotate     bool

	mu          sync.Mutex
	accessGen   int
	refreshGen  int
	usedRefresh map[string]bool
	accounts    map[string]*account
	users       map[int64]*account
	movies      []models.Movie
	seats       map[int64][]*models.Seat
	bookings    map[int64]*booking
	tickets     map[int64]*ticket
	nextID      int64
	hits        map[string]int
}

// New starts the fake API. Close it when done.
func New(opts ...Option) *Server {
	s := &Server{
		secret:      []byte(uuid.NewString()),
		accessTTL:   defaultAccessTTL,
		refreshTTL:  defaultRefreshTTL,
		usedRefresh: make(map[string]bool),
		accounts:    make(map[string]*account),
		users:       make(map[int64]*account),
		seats:       make(map[int64][]*models.Seat),
		bookings:    make(map[int64]*booking),
		tickets:     make(map[int64]*ticket),
		hits:        make(map[string]int),
	}
	for _, o := range opts {
		o(s)
	}

	router := httprouter.New()

	router.POST("/api/users/login/", s.login)
	router.POST("/api/users/register/", s.register)
	router.POST("/api/users/token/refresh/", s.refresh)
	router.GET("/api/users/profile/", s.authenticated(s.getProfile))
	router.PUT("/api/users/profile/", s.authenticated(s.updateProfile))

	router.GET("/api/movies/", s.listMovies)
	router.GET("/api/movies/:slug/", s.getMovie)
	router.GET("/api/seats/:show/", s.listSeats)

	router.GET("/api/bookings/", s.authenticated(s.listBookings))
	router.POST("/api/bookings/create/", s.authenticated(s.createBooking))
	router.DELETE("/api/bookings/:id/", s.authenticated(s.cancelBooking))

	router.GET("/api/tickets/", s.authenticated(s.listTickets))
	router.GET("/api/tickets/:id/", s.authenticated(s.getTicket))

	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		router.ServeHTTP(w, r)
	}))
	return s
}

// URL is the API base URL, with a trailing slash.
func (s *Server) URL() string {
	return s.srv.URL + "/api/"
}

func (s *Server) Close() {
	s.srv.Close()
}

// AddUser registers an account directly.
func (s *Server) AddUser(username, password, email string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, password, email).user
}

func (s *Server) addUserLocked(username, password, email string) *account {
	s.nextID++
	a := &account{
		user:     models.User{ID: s.nextID, Username: username, Email: email, Role: "user"},
		password: password,
	}
	s.accounts[username] = a
	s.users[a.user.ID] = a
	return a
}

// AddMovie stores m and returns it with an assigned ID.
func (s *Server) AddMovie(m models.Movie) models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	m.ID = s.nextID
	s.movies = append(s.movies, m)
	return m
}

// AddShow creates free seats for show.
func (s *Server) AddShow(show int64, seatNumbers ...string) []models.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Seat, 0, len(seatNumbers))
	for _, n := range seatNumbers {
		s.nextID++
		seat := &models.Seat{ID: s.nextID, SeatNumber: n, SeatType: "regular", Price: defaultSeatPrice}
		s.seats[show] = append(s.seats[show], seat)
		out = append(out, *seat)
	}
	return out
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessGen++
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshGen++
}

// Hits reports how many requests were made to method and path, where path
// includes the /api/ prefix.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// RefreshCount reports how many refresh exchanges were attempted.
func (s *Server) RefreshCount() int {
	return s.Hits(http.MethodPost, "/api/users/token/refresh/")
}

func (s *Server) generations() (access, refresh int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessGen, s.refreshGen
}

func (s *Server) issuePair(userID int64) (string, string, error) {
	accessGen, refreshGen := s.generations()
	access, err := s.issue(userID, accessTokenType, s.accessTTL, accessGen)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.issue(userID, refreshTokenType, s.refreshTTL, refreshGen)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}
	return access, refresh, nil
}

// TicketID returns the numeric id of the ticket with code, or 0.
func (s *Server) TicketID(code string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tickets {
		if t.Code == code {
			return id
		}
	}
	return 0
}
