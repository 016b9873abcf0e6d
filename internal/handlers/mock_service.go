package handlers

import (
	"context"
	"net/http"

	"todoapp/internal/models"
	"todoapp/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID     int
	signUpErr    error
	tokenValue   string
	tokenErr     error
	parseIdent   models.Identity
	parseErr     error
	listUsers    []models.User
	listUsersErr error

	lastSignUp        service.SignUpParams
	lastTokenUsername string
	lastTokenPassword string
	lastParseToken    string
}

func (m *mockAuth) SignUp(_ context.Context, p service.SignUpParams) (int, error) {
	m.lastSignUp = p
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastTokenUsername = username
	m.lastTokenPassword = password
	return m.tokenValue, m.tokenErr
}

func (m *mockAuth) ParseToken(token string) (models.Identity, error) {
	m.lastParseToken = token
	return m.parseIdent, m.parseErr
}

func (m *mockAuth) ListUsers(_ context.Context) ([]models.User, error) {
	return m.listUsers, m.listUsersErr
}

type mockTodos struct {
	listResp  []models.Todo
	listErr   error
	getResp   models.Todo
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	lastIdent    models.Identity
	lastID       int
	lastParams   service.TodoParams
	listCalls    int
	createCalls  int
	updateCalls  int
	deleteCalls  int
	nextCreateID int
}

func (m *mockTodos) List(_ context.Context, ident models.Identity) ([]models.Todo, error) {
	m.lastIdent = ident
	m.listCalls++
	return m.listResp, m.listErr
}

func (m *mockTodos) Get(_ context.Context, ident models.Identity, id int) (models.Todo, error) {
	m.lastIdent = ident
	m.lastID = id
	return m.getResp, m.getErr
}

func (m *mockTodos) Create(_ context.Context, ident models.Identity, p service.TodoParams) (models.Todo, error) {
	m.lastIdent = ident
	m.lastParams = p
	m.createCalls++
	if m.createErr != nil {
		return models.Todo{}, m.createErr
	}
	id := m.nextCreateID
	if id == 0 {
		id = 1
	}
	return models.Todo{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Complete:    p.Complete,
		OwnerID:     ident.UserID,
	}, nil
}

func (m *mockTodos) Update(_ context.Context, ident models.Identity, id int, p service.TodoParams) (models.Todo, error) {
	m.lastIdent = ident
	m.lastID = id
	m.lastParams = p
	m.updateCalls++
	if m.updateErr != nil {
		return models.Todo{}, m.updateErr
	}
	return models.Todo{ID: id, Title: p.Title, Description: p.Description, Priority: p.Priority, Complete: p.Complete, OwnerID: ident.UserID}, nil
}

func (m *mockTodos) Delete(_ context.Context, ident models.Identity, id int) error {
	m.lastIdent = ident
	m.lastID = id
	m.deleteCalls++
	return m.deleteErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
