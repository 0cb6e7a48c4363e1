package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chatterhq/chatter/internal/domain"
	"github.com/chatterhq/chatter/internal/security/audit"
	"github.com/chatterhq/chatter/internal/security/auth"
	"github.com/chatterhq/chatter/internal/security/middleware"
	"github.com/chatterhq/chatter/internal/service"
	"github.com/chatterhq/chatter/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compact in-memory stores backing the HTTP tests.

type userStore struct {
	users map[primitive.ObjectID]*domain.User
}

func (s *userStore) Create(_ context.Context, u *domain.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateKey
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *userStore) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, err := s.GetByEmailWithPassword(nil, email)
	if err != nil {
		return nil, err
	}
	u.Password = ""
	return u, nil
}

func (s *userStore) GetByEmailWithPassword(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *userStore) Update(_ context.Context, id primitive.ObjectID, upd domain.UserUpdate) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Email != "" {
		u.Email = upd.Email
	}
	if upd.Password != "" {
		u.Password = upd.Password
	}
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (s *userStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(s.users, id)
	return nil
}

type postStore struct {
	posts map[primitive.ObjectID]*domain.Post
}

func (s *postStore) Create(_ context.Context, p *domain.Post) error {
	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = domain.PostStatusPending
	}
	p.CreatedAt = time.Now()
	s.posts[p.ID] = p
	return nil
}

func (s *postStore) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *postStore) UpdateOwned(_ context.Context, id, owner primitive.ObjectID, upd domain.PostUpdate) (*domain.Post, error) {
	p, ok := s.posts[id]
	if !ok || p.Owner != owner {
		return nil, domain.ErrNotFound
	}
	if upd.Title != "" {
		p.Title = upd.Title
	}
	if upd.EditPropose != nil {
		p.EditPropose = upd.EditPropose
		p.ToUpdate = true
		p.Status = domain.PostStatusInReview
	}
	cp := *p
	return &cp, nil
}

func (s *postStore) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) error {
	p, ok := s.posts[id]
	if !ok || p.Owner != owner {
		return domain.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *postStore) AddComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	p, ok := s.posts[postID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Comments = append(p.Comments, commentID)
	return nil
}

func (s *postStore) ActivatePendingBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type commentStore struct {
	comments map[primitive.ObjectID]*domain.Comment
}

func (s *commentStore) Create(_ context.Context, c *domain.Comment) error {
	c.ID = primitive.NewObjectID()
	s.comments[c.ID] = c
	return nil
}

func (s *commentStore) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *commentStore) UpdateOwned(_ context.Context, id, owner primitive.ObjectID, upd domain.CommentUpdate) (*domain.Comment, error) {
	c, ok := s.comments[id]
	if !ok || c.Owner != owner {
		return nil, domain.ErrNotFound
	}
	if upd.Text != nil {
		c.Text = *upd.Text
	}
	if upd.Image != nil {
		c.Image = *upd.Image
	}
	cp := *c
	return &cp, nil
}

func (s *commentStore) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) error {
	c, ok := s.comments[id]
	if !ok || c.Owner != owner {
		return domain.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *commentStore) DeleteByPost(_ context.Context, postID primitive.ObjectID) (int64, error) {
	var n int64
	for id, c := range s.comments {
		if c.Post == postID {
			delete(s.comments, id)
			n++
		}
	}
	return n, nil
}

type groupStore struct {
	groups map[primitive.ObjectID]*domain.Group
}

func (s *groupStore) Create(_ context.Context, g *domain.Group) error {
	for _, existing := range s.groups {
		if existing.Name == g.Name {
			return domain.ErrDuplicateKey
		}
	}
	g.ID = primitive.NewObjectID()
	s.groups[g.ID] = g
	return nil
}

func (s *groupStore) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *groupStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Group, error) {
	out := []domain.Group{}
	for _, g := range s.groups {
		for _, m := range g.Users {
			if m.User == userID {
				out = append(out, *g)
				break
			}
		}
	}
	return out, nil
}

type bodyStore struct{}

func (bodyStore) Create(_ context.Context, b *domain.PostBody) error {
	b.ID = primitive.NewObjectID()
	return nil
}
func (bodyStore) DeleteOne(context.Context, primitive.ObjectID) error { return nil }
func (bodyStore) DeleteByPost(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}

// errorBody mirrors the uniform error response.
type errorBody struct {
	Errors []struct {
		Message string   `json:"message"`
		Path    []string `json:"path"`
	} `json:"errors"`
	Path string `json:"path"`
}

type testEnv struct {
	mux    *http.ServeMux
	tokens *auth.TokenManager
	users  *service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens := auth.NewTokenManager("test-secret", "chatter")
	validate := validation.New()
	auditLog := audit.NewLogger(log)

	userSvc := service.NewUserService(&userStore{users: map[primitive.ObjectID]*domain.User{}}, tokens, log)
	posts := &postStore{posts: map[primitive.ObjectID]*domain.Post{}}
	comments := &commentStore{comments: map[primitive.ObjectID]*domain.Comment{}}
	postSvc := service.NewPostService(posts, comments, log)
	commentSvc := service.NewCommentService(comments, posts, log)
	groupSvc := service.NewGroupService(&groupStore{groups: map[primitive.ObjectID]*domain.Group{}}, log)
	bodySvc := service.NewPostBodyService(bodyStore{}, log)

	userHandler := NewUserHandler(userSvc, validate, auditLog, log)
	postHandler := NewPostHandler(postSvc, bodySvc, validate, log)
	commentHandler := NewCommentHandler(commentSvc, validate, auditLog, log)
	groupHandler := NewGroupHandler(groupSvc, validate, log)

	requireAuth := middleware.RequireAuth(tokens, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/signup", userHandler.Signup)
	mux.HandleFunc("POST /user/login", userHandler.Login)
	mux.Handle("POST /user/update", requireAuth(http.HandlerFunc(userHandler.Update)))
	mux.Handle("POST /posts", requireAuth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /posts/{id}", requireAuth(http.HandlerFunc(postHandler.Get)))
	mux.Handle("PUT /posts/{id}", requireAuth(http.HandlerFunc(postHandler.Update)))
	mux.Handle("DELETE /posts/{id}", requireAuth(http.HandlerFunc(postHandler.Delete)))
	mux.Handle("POST /comments/{postId}", requireAuth(http.HandlerFunc(commentHandler.Create)))
	mux.Handle("GET /comments/{id}", requireAuth(http.HandlerFunc(commentHandler.Get)))
	mux.Handle("PUT /comments/{id}", requireAuth(http.HandlerFunc(commentHandler.Update)))
	mux.Handle("DELETE /comments/{id}", requireAuth(http.HandlerFunc(commentHandler.Delete)))
	mux.Handle("POST /group/create", requireAuth(http.HandlerFunc(groupHandler.Create)))
	mux.Handle("GET /group/{id}", requireAuth(http.HandlerFunc(groupHandler.Get)))
	mux.Handle("GET /groups", requireAuth(http.HandlerFunc(groupHandler.List)))
	mux.Handle("/", NotFound(log))

	return &testEnv{mux: mux, tokens: tokens, users: userSvc}
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signup(t *testing.T, name, email string) (string, *domain.User) {
	t.Helper()
	user, err := e.users.CreateUser(context.Background(), name, email, "Password123")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := e.users.CreateAuthToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token, user
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v (raw: %s)", err, rec.Body.String())
	}
	return body
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/user/signup", "", map[string]string{
		"name": "alice", "email": "alice@example.com", "password": "Password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "Password123") {
		t.Fatalf("signup response leaks the password")
	}

	rec = env.do(t, "POST", "/user/login", "", map[string]string{
		"email": "alice@example.com", "password": "Password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var login struct {
		AuthToken string `json:"authToken"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&login); err != nil || login.AuthToken == "" {
		t.Fatalf("expected authToken in login response: %v", err)
	}
}

func TestSignupWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/user/signup", "", map[string]string{
		"name": "alice", "email": "alice@example.com", "password": "abc1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Path != "Validation" {
		t.Fatalf("expected Validation path, got %q", body.Path)
	}
	if len(body.Errors) != 1 || !strings.HasPrefix(body.Errors[0].Message, "Invalid password") {
		t.Fatalf("unexpected errors: %+v", body.Errors)
	}
}

func TestDuplicateEmailMessage(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "alice@example.com")

	rec := env.do(t, "POST", "/user/signup", "", map[string]string{
		"name": "clone", "email": "alice@example.com", "password": "Password123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Errors[0].Message != "Email must be unique" {
		t.Fatalf("unexpected message: %q", body.Errors[0].Message)
	}
	if body.Path != "Create new user" {
		t.Fatalf("unexpected path: %q", body.Path)
	}
}

func TestLoginBadCredentialsIs400(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "alice@example.com")

	rec := env.do(t, "POST", "/user/login", "", map[string]string{
		"email": "alice@example.com", "password": "WrongPass1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if decodeError(t, rec).Errors[0].Message != "Invalid credentials" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMissingTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/posts/"+primitive.NewObjectID().Hex(), "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if decodeError(t, rec).Errors[0].Message != "missing authorization token" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now()
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		ID: primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-8 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			Issuer:    "chatter",
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := env.do(t, "GET", "/posts/"+primitive.NewObjectID().Hex(), signed, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if decodeError(t, rec).Errors[0].Message != "jwt expired" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestInvalidIDRejectedBeforeWrite(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "alice", "alice@example.com")

	rec := env.do(t, "POST", "/comments/not-an-id", token, map[string]string{"text": "hi"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Path != "Validation" {
		t.Fatalf("expected Validation path, got %q", body.Path)
	}
	if body.Errors[0].Message != "Invalid Id" {
		t.Fatalf("unexpected message: %q", body.Errors[0].Message)
	}
	want := []string{"params", "id", "Create Comment"}
	if len(body.Errors[0].Path) != 3 || body.Errors[0].Path[2] != want[2] {
		t.Fatalf("unexpected field path: %v", body.Errors[0].Path)
	}
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "alice", "alice@example.com")

	rec := env.do(t, "POST", "/posts", token, map[string]any{
		"title":      "hello",
		"activePost": map[string]string{"text": "first"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var post struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		ToUpdate   bool   `json:"toUpdate"`
		ActivePost struct {
			Text string `json:"text"`
		} `json:"activePost"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&post); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if post.Status != "pending" {
		t.Fatalf("expected pending, got %q", post.Status)
	}

	rec = env.do(t, "PUT", "/posts/"+post.ID, token, map[string]any{
		"editPropose": map[string]string{"text": "proposed"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if err := json.NewDecoder(rec.Body).Decode(&post); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if post.Status != "inReview" || !post.ToUpdate {
		t.Fatalf("expected inReview/toUpdate after proposal, got %+v", post)
	}
	if post.ActivePost.Text != "first" {
		t.Fatalf("activePost must not change on proposal, got %q", post.ActivePost.Text)
	}

	rec = env.do(t, "DELETE", "/posts/"+post.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}

	rec = env.do(t, "GET", "/posts/"+post.ID, token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("get deleted: expected 400, got %d", rec.Code)
	}
	if decodeError(t, rec).Errors[0].Message != "Post not found" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestStrangerCannotTouchPost(t *testing.T) {
	env := newTestEnv(t)
	ownerToken, _ := env.signup(t, "alice", "alice@example.com")
	strangerToken, _ := env.signup(t, "mallory", "mallory@example.com")

	rec := env.do(t, "POST", "/posts", ownerToken, map[string]any{
		"title":      "mine",
		"activePost": map[string]string{"text": "private"},
	})
	var post struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&post); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = env.do(t, "PUT", "/posts/"+post.ID, strangerToken, map[string]any{"title": "stolen"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if decodeError(t, rec).Errors[0].Message != "You aren't the owner of this post" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = env.do(t, "DELETE", "/posts/"+post.ID, strangerToken, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on delete, got %d", rec.Code)
	}
}

func TestCommentOwnershipAndDoubleDelete(t *testing.T) {
	env := newTestEnv(t)
	authorToken, _ := env.signup(t, "alice", "alice@example.com")
	strangerToken, _ := env.signup(t, "mallory", "mallory@example.com")

	rec := env.do(t, "POST", "/posts", authorToken, map[string]any{
		"title":      "post",
		"activePost": map[string]string{"text": "x"},
	})
	var post struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&post); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = env.do(t, "POST", "/comments/"+post.ID, authorToken, map[string]string{"text": "mine"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var comment struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&comment); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = env.do(t, "PUT", "/comments/"+comment.ID, strangerToken, map[string]string{"text": "hacked"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if decodeError(t, rec).Errors[0].Message != "You aren't allowed to edit this comment" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = env.do(t, "DELETE", "/comments/"+comment.ID, strangerToken, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if decodeError(t, rec).Errors[0].Message != "You aren't allowed to delete this comment" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = env.do(t, "DELETE", "/comments/"+comment.ID, authorToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner delete: expected 204, got %d", rec.Code)
	}

	rec = env.do(t, "DELETE", "/comments/"+comment.ID, authorToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second delete: expected 400, got %d", rec.Code)
	}
	if decodeError(t, rec).Errors[0].Message != "Comment not found" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGroupFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.signup(t, "alice", "alice@example.com")

	rec := env.do(t, "POST", "/group/create", token, map[string]string{
		"name": "gophers", "description": "go talk",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var group struct {
		ID    string `json:"id"`
		Users []struct {
			User string `json:"user"`
			Role string `json:"role"`
		} `json:"users"`
		ChatRoom string `json:"chatRoom"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&group); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(group.Users) != 1 || group.Users[0].Role != "Manager" || group.Users[0].User != user.ID.Hex() {
		t.Fatalf("creator must be the sole Manager: %+v", group.Users)
	}
	if group.ChatRoom == "" {
		t.Fatalf("expected chat room id")
	}

	rec = env.do(t, "GET", "/group/"+group.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get group: expected 200, got %d", rec.Code)
	}

	rec = env.do(t, "GET", "/groups", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list groups: expected 200, got %d", rec.Code)
	}
	var groups []json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&groups); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
}

func TestUnmatchedRouteIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if decodeError(t, rec).Errors[0].Message != "Requested resource not found" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
