package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"todoapp/internal/models"
	"todoapp/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidTodoID = "invalid todo id"
	errTodoInternal  = "failed to process todo"
)

// Request DTO shared by create and update (full replace).
type todoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
}

func (r todoRequest) params() service.TodoParams {
	return service.TodoParams{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Complete:    r.Complete,
	}
}

// mustIdentity aborts with 401 when the middleware did not run; callers can
// rely on a valid identity afterwards.
func (h *Handler) mustIdentity(c *gin.Context) (models.Identity, bool) {
	ident, ok := identityFromCtx(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
	}
	return ident, ok
}

// todoIDParam parses the :id path segment; ids are positive integers.
func todoIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errInvalidTodoID})
		return 0, false
	}
	return id, true
}

// writeTodoError maps service errors onto the HTTP taxonomy.
func (h *Handler) writeTodoError(c *gin.Context, err error, logKey string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error()})
	case errors.Is(err, service.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTodoNotFound.Error()})
	default:
		if h.log != nil {
			h.log.Errorw(logKey, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errTodoInternal})
	}
}

// @Summary      List the caller's todos
// @Tags         todo
// @Produce      json
// @Success      200  {array}   models.Todo
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todo [get]
// @Security     BearerAuth
func (h *Handler) listTodos(c *gin.Context) {
	ident, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	todos, err := h.services.Todos.List(c.Request.Context(), ident)
	if err != nil {
		h.writeTodoError(c, err, "todo_list_failed")
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	c.JSON(http.StatusOK, todos)
}

// @Summary      Get one todo
// @Tags         todo
// @Produce      json
// @Param        id   path      int  true  "Todo id"
// @Success      200  {object}  models.Todo
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todo/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTodo(c *gin.Context) {
	ident, ok := h.mustIdentity(c)
	if !ok {
		return
	}
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	todo, err := h.services.Todos.Get(c.Request.Context(), ident, id)
	if err != nil {
		h.writeTodoError(c, err, "todo_get_failed")
		return
	}
	c.JSON(http.StatusOK, todo)
}

// @Summary      Create a todo
// @Tags         todo
// @Accept       json
// @Produce      json
// @Param        body  body      todoRequest  true  "Todo payload"
// @Success      201   {object}  models.Todo
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /todo [post]
// @Security     BearerAuth
func (h *Handler) createTodo(c *gin.Context) {
	ident, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	created, err := h.services.Todos.Create(c.Request.Context(), ident, req.params())
	if err != nil {
		h.writeTodoError(c, err, "todo_create_failed")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary      Replace a todo
// @Description  Full replace of title, description, priority and complete.
// @Tags         todo
// @Accept       json
// @Param        id    path  int          true  "Todo id"
// @Param        body  body  todoRequest  true  "Todo payload"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /todo/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTodo(c *gin.Context) {
	ident, ok := h.mustIdentity(c)
	if !ok {
		return
	}
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.services.Todos.Update(c.Request.Context(), ident, id, req.params()); err != nil {
		h.writeTodoError(c, err, "todo_update_failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Delete a todo
// @Tags         todo
// @Param        id  path  int  true  "Todo id"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todo/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTodo(c *gin.Context) {
	ident, ok := h.mustIdentity(c)
	if !ok {
		return
	}
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Todos.Delete(c.Request.Context(), ident, id); err != nil {
		h.writeTodoError(c, err, "todo_delete_failed")
		return
	}
	c.Status(http.StatusNoContent)
}
