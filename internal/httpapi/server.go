package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"todolist/internal/model"
	"todolist/internal/service"
)

type createRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type updateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type handler struct {
	controller *service.Controller
}

// NewRouter exposes the controller as a JSON API.
func NewRouter(controller *service.Controller, logger *log.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	h := handler{controller: controller}
	router.GET("/todos", h.list)
	router.GET("/todos/:id", h.get)
	router.POST("/todos", h.create)
	router.PUT("/todos/:id", h.update)
	router.POST("/todos/:id/toggle", h.toggle)
	router.DELETE("/todos/:id", h.delete)
	router.POST("/search", h.search)
	return router
}

// RequestLogger logs one line per request.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (h handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(h.controller.Todos()))
}

func (h handler) get(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	todo, found := h.controller.Get(c.Request.Context(), id)
	if !found {
		abortNotFound(c)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h handler) create(c *gin.Context) {
	var input createRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, ok := h.controller.AddTodo(c.Request.Context(), input.Title, input.Description)
	if !ok {
		abortStore(c)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

func (h handler) update(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	var input updateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	todo, found := h.controller.Get(ctx, id)
	if !found {
		abortNotFound(c)
		return
	}
	todo.Title = input.Title
	todo.Description = model.NormalizeDescription(input.Description)
	todo.Completed = input.Completed
	if !h.controller.UpdateTodo(ctx, todo) {
		abortStore(c)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h handler) toggle(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, found := h.controller.Get(ctx, id); !found {
		abortNotFound(c)
		return
	}
	if !h.controller.ToggleTodo(ctx, id) {
		abortStore(c)
		return
	}
	todo, found := h.controller.Get(ctx, id)
	if !found {
		abortNotFound(c)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h handler) delete(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	if !h.controller.DeleteTodo(c.Request.Context(), id) {
		abortStore(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h handler) search(c *gin.Context) {
	var input searchRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.controller.Search(c.Request.Context(), input.Query)
	c.JSON(http.StatusOK, nonNil(h.controller.Todos()))
}

func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid todo id"})
		return 0, false
	}
	return id, true
}

func abortNotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "todo not found"})
}

func abortStore(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
}

func nonNil(todos []model.Todo) []model.Todo {
	if todos == nil {
		return []model.Todo{}
	}
	return todos
}

// Serve runs the API on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("http server stopped")
	return nil
}
