package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"todoapp/internal/models"
	"todoapp/internal/repository"
	"todoapp/internal/service"

	"github.com/gin-gonic/gin"
)

// In-memory stores so the whole stack (handlers + real services + real token
// manager) runs in one test without a database.

type memUsers struct {
	rows   []models.User
	nextID int
}

func (m *memUsers) Create(_ context.Context, u models.User) (int, error) {
	for _, r := range m.rows {
		if r.Username == u.Username || r.Email == u.Email {
			return 0, repository.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.rows = append(m.rows, u)
	return u.ID, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, r := range m.rows {
		if r.Username == username {
			u := r
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	return append([]models.User(nil), m.rows...), nil
}

type memTodos struct {
	rows   map[int]models.Todo
	nextID int
}

func newMemTodos() *memTodos { return &memTodos{rows: map[int]models.Todo{}} }

func (m *memTodos) List(_ context.Context, ownerID int) ([]models.Todo, error) {
	var out []models.Todo
	for _, t := range m.rows {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTodos) GetByID(_ context.Context, ownerID, id int) (*models.Todo, error) {
	t, ok := m.rows[id]
	if !ok || t.OwnerID != ownerID {
		return nil, nil
	}
	return &t, nil
}

func (m *memTodos) Create(_ context.Context, t models.Todo) (int, error) {
	m.nextID++
	t.ID = m.nextID
	m.rows[t.ID] = t
	return t.ID, nil
}

func (m *memTodos) Update(_ context.Context, t models.Todo) (bool, error) {
	old, ok := m.rows[t.ID]
	if !ok || old.OwnerID != t.OwnerID {
		return false, nil
	}
	m.rows[t.ID] = t
	return true, nil
}

func (m *memTodos) Delete(_ context.Context, ownerID, id int) (bool, error) {
	t, ok := m.rows[id]
	if !ok || t.OwnerID != ownerID {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func newScenarioRouter(t *testing.T) (*gin.Engine, *memTodos) {
	t.Helper()
	repos := &repository.Repository{Users: &memUsers{}, Todos: newMemTodos()}
	tokens := service.NewTokenManager([]byte("scenario-test-key"), service.DefaultTokenTTL)
	services := service.NewService(repos, tokens)
	gin.SetMode(gin.TestMode)
	return NewHandler(services, nil).InitRoutes(), repos.Todos.(*memTodos)
}

func do(r *gin.Engine, method, path, contentType, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Register alice, log in, then walk a todo through its whole lifecycle.
func TestScenario_RegisterLoginAndTodoLifecycle(t *testing.T) {
	r, store := newScenarioRouter(t)

	// register
	w := do(r, http.MethodPost, "/auth", "application/json",
		`{"email":"alice@example.com","username":"alice","password":"secretpw"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d, body=%s", w.Code, w.Body.String())
	}
	var reg struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reg); err != nil {
		t.Fatalf("unmarshal register: %v", err)
	}

	// duplicate registration → 409
	w = do(r, http.MethodPost, "/auth", "application/json",
		`{"email":"alice@example.com","username":"alice","password":"secretpw"}`, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register status=%d, body=%s", w.Code, w.Body.String())
	}

	// login with wrong password → 401
	form := url.Values{"username": {"alice"}, "password": {"wrong"}}
	w = do(r, http.MethodPost, "/auth/token", "application/x-www-form-urlencoded", form.Encode(), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong-password login status=%d", w.Code)
	}

	// login → 200 with token
	form = url.Values{"username": {"alice"}, "password": {"secretpw"}}
	w = do(r, http.MethodPost, "/auth/token", "application/x-www-form-urlencoded", form.Encode(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil {
		t.Fatalf("unmarshal token: %v", err)
	}
	if tok.AccessToken == "" || tok.TokenType != "Bearer" {
		t.Fatalf("unexpected token response: %+v", tok)
	}

	// create without token → 401
	todoBody := `{"title":"buy milk","description":"2% milk","priority":2,"complete":false}`
	w = do(r, http.MethodPost, "/todo", "application/json", todoBody, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create status=%d", w.Code)
	}

	// create with token → 201, row persisted with alice's owner id
	w = do(r, http.MethodPost, "/todo", "application/json", todoBody, tok.AccessToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d, body=%s", w.Code, w.Body.String())
	}
	var created models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}
	if created.OwnerID != reg.ID {
		t.Fatalf("owner_id=%d, want alice's id %d", created.OwnerID, reg.ID)
	}
	if persisted := store.rows[created.ID]; persisted.OwnerID != reg.ID {
		t.Fatalf("persisted row has wrong owner: %+v", persisted)
	}

	path := "/todo/" + strconv.Itoa(created.ID)

	// read back without token → 401, with token → identical record
	if w = do(r, http.MethodGet, path, "", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated get status=%d", w.Code)
	}
	w = do(r, http.MethodGet, path, "", "", tok.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d, body=%s", w.Code, w.Body.String())
	}
	var fetched models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("unmarshal fetched: %v", err)
	}
	if fetched != created {
		t.Fatalf("fetched %+v differs from created %+v", fetched, created)
	}

	// mark complete via PUT → 204
	w = do(r, http.MethodPut, path, "application/json",
		`{"title":"buy milk","description":"2% milk","priority":2,"complete":true}`, tok.AccessToken)
	if w.Code != http.StatusNoContent {
		t.Fatalf("update status=%d, body=%s", w.Code, w.Body.String())
	}

	// delete → 204, subsequent get → 404
	if w = do(r, http.MethodDelete, path, "", "", tok.AccessToken); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d, body=%s", w.Code, w.Body.String())
	}
	if w = do(r, http.MethodGet, path, "", "", tok.AccessToken); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status=%d", w.Code)
	}
}

// A second user must never see or touch the first user's rows.
func TestScenario_OwnershipIsolation(t *testing.T) {
	r, _ := newScenarioRouter(t)

	register := func(username, email string) string {
		body := `{"email":"` + email + `","username":"` + username + `","password":"secretpw"}`
		if w := do(r, http.MethodPost, "/auth", "application/json", body, ""); w.Code != http.StatusCreated {
			t.Fatalf("register %s status=%d", username, w.Code)
		}
		form := url.Values{"username": {username}, "password": {"secretpw"}}
		w := do(r, http.MethodPost, "/auth/token", "application/x-www-form-urlencoded", form.Encode(), "")
		if w.Code != http.StatusOK {
			t.Fatalf("login %s status=%d", username, w.Code)
		}
		var tok struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil {
			t.Fatalf("unmarshal token: %v", err)
		}
		return tok.AccessToken
	}

	aliceTok := register("alice", "alice@example.com")
	bobTok := register("bob", "bob@example.com")

	// alice creates a todo
	w := do(r, http.MethodPost, "/todo", "application/json",
		`{"title":"buy milk","description":"2% milk","priority":2,"complete":false}`, aliceTok)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d", w.Code)
	}
	var created models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}
	path := "/todo/" + strconv.Itoa(created.ID)

	// bob cannot read, update or delete it: all 404, never 200/204
	if w = do(r, http.MethodGet, path, "", "", bobTok); w.Code != http.StatusNotFound {
		t.Fatalf("foreign get status=%d, want 404", w.Code)
	}
	w = do(r, http.MethodPut, path, "application/json",
		`{"title":"hijack","description":"stolen row","priority":1,"complete":true}`, bobTok)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign update status=%d, want 404", w.Code)
	}
	if w = do(r, http.MethodDelete, path, "", "", bobTok); w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status=%d, want 404", w.Code)
	}

	// bob's listing stays empty; alice still sees her row untouched
	w = do(r, http.MethodGet, "/todo", "", "", bobTok)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("foreign list status=%d body=%s, want empty list", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, path, "", "", aliceTok)
	if w.Code != http.StatusOK {
		t.Fatalf("owner get status=%d", w.Code)
	}
	var after models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &after); err != nil {
		t.Fatalf("unmarshal after: %v", err)
	}
	if after != created {
		t.Fatalf("row mutated by foreign user: %+v", after)
	}
}

