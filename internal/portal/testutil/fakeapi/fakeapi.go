// Package fakeapi - in-memory реализация REST API маркетплейса для тестов.
// Токены подписываются HS256 и проверяются так же, как это делает настоящий сервер.
package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"classbook/internal/portal/domain/entities"
)

// BasePath - префикс API, как у настоящего бэкенда.
const BasePath = "/api"

var signingKey = []byte("fakeapi-test-signing-key")

type tokenClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type account struct {
	user     entities.User
	password string
}

// Server - поддельный API.
type Server struct {
	t   *testing.T
	srv *httptest.Server

	mu        sync.Mutex
	accounts  map[int64]*account
	sessions  map[int64]*entities.Session
	bookings  map[int64]*entities.Booking
	nextID    int64
	calls     map[string]int
	lastAuth  map[string]string
	meStatus  int
	lastForms map[string]map[string]string
}

// New запускает сервер; он останавливается в t.Cleanup.
func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		t:         t,
		accounts:  make(map[int64]*account),
		sessions:  make(map[int64]*entities.Session),
		bookings:  make(map[int64]*entities.Booking),
		nextID:    100,
		calls:     make(map[string]int),
		lastAuth:  make(map[string]string),
		lastForms: make(map[string]map[string]string),
	}

	mux := http.NewServeMux()
	s.handle(mux, "GET /users/me/{$}", s.getMe)
	s.handle(mux, "PATCH /users/me/{$}", s.patchMe)
	s.handle(mux, "GET /sessions/{$}", s.listSessions)
	s.handle(mux, "GET /sessions/{id}/{$}", s.getSession)
	s.handle(mux, "POST /sessions/create/{$}", s.createSession)
	s.handle(mux, "PUT /sessions/{id}/update/{$}", s.updateSession)
	s.handle(mux, "DELETE /sessions/{id}/delete/{$}", s.deleteSession)
	s.handle(mux, "GET /sessions/{id}/bookings/{$}", s.sessionBookings)
	s.handle(mux, "POST /bookings/create/{$}", s.createBooking)
	s.handle(mux, "GET /bookings/my/{$}", s.myBookings)
	s.handle(mux, "DELETE /bookings/{id}/delete/{$}", s.deleteBooking)
	s.handle(mux, "POST /token/{$}", s.obtainToken)
	s.handle(mux, "POST /auth/set-role/{$}", s.setRole)

	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)

	return s
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	method, path, _ := strings.Cut(pattern, " ")
	mux.HandleFunc(method+" "+BasePath+path, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[pattern]++
		s.lastAuth[pattern] = r.Header.Get("Authorization")
		s.mu.Unlock()
		h(w, r)
	})
}

// URL возвращает базовый URL API (с префиксом /api).
func (s *Server) URL() string {
	return s.srv.URL + BasePath
}

// Calls возвращает число обращений к шаблону, например "GET /users/me/{$}".
func (s *Server) Calls(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[pattern]
}

// LastAuthorization возвращает заголовок Authorization последнего запроса к шаблону.
func (s *Server) LastAuthorization(pattern string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth[pattern]
}

// LastForm возвращает текстовые поля последней multipart формы для шаблона;
// загруженные файлы попадают туда как "<field>:filename".
func (s *Server) LastForm(pattern string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastForms[pattern]
}

// FailMe заставляет GET /users/me/ отвечать статусом status. Ноль отключает сбой.
func (s *Server) FailMe(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meStatus = status
}

// AddUser регистрирует пользователя с паролем и возвращает его.
func (s *Server) AddUser(id int64, username string, role entities.Role, password string) entities.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := entities.User{ID: id, Username: username, Email: username + "@example.com", Role: role}
	s.accounts[id] = &account{user: user, password: password}
	return user
}

// AddSession добавляет занятие от имени преподавателя creatorID.
func (s *Server) AddSession(creatorID int64, title string) entities.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	session := &entities.Session{
		ID:          s.nextID,
		Title:       title,
		Description: title + " description",
		Date:        time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC),
		Price:       "10.00",
		Creator:     s.refLocked(creatorID),
		CreatedAt:   time.Now().UTC(),
	}
	s.sessions[session.ID] = session
	return *session
}

// AddBooking записывает пользователя на занятие.
func (s *Server) AddBooking(userID, sessionID int64) entities.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	booking := &entities.Booking{
		ID:       s.nextID,
		User:     s.refLocked(userID),
		Session:  *s.sessions[sessionID],
		BookedAt: time.Now().UTC(),
	}
	s.bookings[booking.ID] = booking
	return *booking
}

// HasSession сообщает, существует ли занятие.
func (s *Server) HasSession(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// HasBooking сообщает, существует ли запись.
func (s *Server) HasBooking(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bookings[id]
	return ok
}

// IssueTokens выдает пару токенов пользователю; ttl задает срок жизни access токена,
// отрицательный ttl дает уже просроченный токен.
func (s *Server) IssueTokens(userID int64, ttl time.Duration) (access, refresh string) {
	s.t.Helper()
	return s.sign(userID, "access", ttl), s.sign(userID, "refresh", 24*time.Hour)
}

func (s *Server) sign(userID int64, tokenType string, ttl time.Duration) string {
	now := time.Now()
	claims := tokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        strconv.FormatInt(now.UnixNano(), 36),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		s.t.Fatalf("signing token: %v", err)
	}
	return token
}

func (s *Server) authenticate(r *http.Request) (*entities.User, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, errors.New("Authentication credentials were not provided.")
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || claims.TokenType != "access" {
		return nil, errors.New("Given token not valid for any token type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[claims.UserID]
	if !ok {
		return nil, errors.New("User not found")
	}
	user := acc.user
	return &user, nil
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*entities.User, bool) {
	user, err := s.authenticate(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": err.Error()})
		return nil, false
	}
	return user, true
}

func (s *Server) requireCreator(w http.ResponseWriter, r *http.Request) (*entities.User, bool) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return nil, false
	}
	if user.Role != entities.RoleCreator {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
		return nil, false
	}
	return user, true
}

func (s *Server) refLocked(userID int64) entities.UserRef {
	acc, ok := s.accounts[userID]
	if !ok {
		return entities.UserRef{ID: userID}
	}
	return entities.UserRef{
		ID:        acc.user.ID,
		Username:  acc.user.Username,
		Email:     acc.user.Email,
		Role:      acc.user.Role,
		AvatarURL: acc.user.AvatarURL,
	}
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.meStatus
	s.mu.Unlock()
	if status != 0 {
		writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
		return
	}

	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) patchMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	form, ok := s.readForm(w, r, "PATCH /users/me/{$}")
	if !ok {
		return
	}
	name, ok := form["avatar:filename"]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"avatar": {"No file was submitted."}})
		return
	}

	s.mu.Lock()
	url := "https://cdn.example.com/avatars/" + name
	s.accounts[user.ID].user.AvatarURL = &url
	updated := s.accounts[user.ID].user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	list := make([]entities.Session, 0, len(s.sessions))
	for id := int64(0); id <= s.nextID; id++ {
		if session, ok := s.sessions[id]; ok {
			list = append(list, *session)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireCreator(w, r)
	if !ok {
		return
	}
	form, ok := s.readForm(w, r, "POST /sessions/create/{$}")
	if !ok {
		return
	}
	session, ok := s.sessionFromForm(w, form)
	if !ok {
		return
	}

	s.mu.Lock()
	s.nextID++
	session.ID = s.nextID
	session.Creator = s.refLocked(user.ID)
	session.CreatedAt = time.Now().UTC()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireCreator(w, r)
	if !ok {
		return
	}
	existing, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	if existing.Creator.ID != user.ID {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You can only update your own sessions"})
		return
	}
	form, ok := s.readForm(w, r, "PUT /sessions/{id}/update/{$}")
	if !ok {
		return
	}
	session, ok := s.sessionFromForm(w, form)
	if !ok {
		return
	}

	s.mu.Lock()
	session.ID = existing.ID
	session.Creator = existing.Creator
	session.CreatedAt = existing.CreatedAt
	if session.ImageURL == nil {
		session.ImageURL = existing.ImageURL
	}
	s.sessions[session.ID] = session
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, session)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireCreator(w, r)
	if !ok {
		return
	}
	existing, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	if existing.Creator.ID != user.ID {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You can only delete your own sessions"})
		return
	}

	s.mu.Lock()
	delete(s.sessions, existing.ID)
	for id, b := range s.bookings {
		if b.Session.ID == existing.ID {
			delete(s.bookings, id)
		}
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sessionBookings(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	list := make([]entities.Booking, 0)
	for id := int64(0); id <= s.nextID; id++ {
		if b, ok := s.bookings[id]; ok && b.Session.ID == session.ID {
			list = append(list, *b)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		SessionID int64 `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"session_id": {"This field is required."}})
		return
	}

	s.mu.Lock()
	session, ok := s.sessions[req.SessionID]
	if !ok {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string][]string{"session_id": {"Invalid session."}})
		return
	}
	for _, b := range s.bookings {
		if b.User.ID == user.ID && b.Session.ID == req.SessionID {
			s.mu.Unlock()
			writeJSON(w, http.StatusBadRequest, map[string][]string{"error": {"u have already enrolled"}})
			return
		}
	}
	s.nextID++
	booking := &entities.Booking{ID: s.nextID, User: s.refLocked(user.ID), Session: *session, BookedAt: time.Now().UTC()}
	s.bookings[booking.ID] = booking
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) myBookings(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	list := make([]entities.Booking, 0)
	for id := int64(0); id <= s.nextID; id++ {
		if b, ok := s.bookings[id]; ok && b.User.ID == user.ID {
			list = append(list, *b)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) deleteBooking(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if b.User.ID != user.ID {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You can only delete your own bookings"})
		return
	}
	delete(s.bookings, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) obtainToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"This field is required."}})
		return
	}

	s.mu.Lock()
	var userID int64
	for id, acc := range s.accounts {
		if acc.user.Username == req.Username && acc.password == req.Password {
			userID = id
		}
	}
	s.mu.Unlock()

	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}

	access, refresh := s.IssueTokens(userID, time.Hour)
	writeJSON(w, http.StatusOK, map[string]string{"access": access, "refresh": refresh})
}

func (s *Server) setRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Role == "" {
		req.Role = string(entities.RoleUser)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "role": req.Role, "state": "state-" + req.Role})
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*entities.Session, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err == nil {
		s.mu.Lock()
		session, ok := s.sessions[id]
		s.mu.Unlock()
		if ok {
			copied := *session
			return &copied, true
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Session matches the given query."})
	return nil, false
}

func (s *Server) readForm(w http.ResponseWriter, r *http.Request, pattern string) (map[string]string, bool) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Multipart form parse error"})
		return nil, false
	}

	form := make(map[string]string)
	for k, v := range r.MultipartForm.Value {
		if len(v) > 0 {
			form[k] = v[0]
		}
	}
	for k, files := range r.MultipartForm.File {
		if len(files) == 0 {
			continue
		}
		f, err := files[0].Open()
		if err == nil {
			data, _ := io.ReadAll(f)
			_ = f.Close()
			form[k] = string(data)
		}
		form[k+":filename"] = files[0].Filename
	}

	s.mu.Lock()
	s.lastForms[pattern] = form
	s.mu.Unlock()

	return form, true
}

func (s *Server) sessionFromForm(w http.ResponseWriter, form map[string]string) (*entities.Session, bool) {
	fieldErrors := make(map[string][]string)
	for _, field := range []string{"title", "description", "date", "price"} {
		if strings.TrimSpace(form[field]) == "" {
			fieldErrors[field] = []string{"This field is required."}
		}
	}

	date, err := parseDate(form["date"])
	if err != nil && fieldErrors["date"] == nil {
		fieldErrors["date"] = []string{"Datetime has wrong format."}
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrors)
		return nil, false
	}

	session := &entities.Session{
		Title:       form["title"],
		Description: form["description"],
		Date:        date,
		Price:       form["price"],
	}
	if name, ok := form["image:filename"]; ok {
		url := "https://cdn.example.com/" + name
		session.ImageURL = &url
	}
	return session, true
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q", value)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
