package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/AVVKavvk/calls-qa/calls"
	"github.com/AVVKavvk/calls-qa/models"
	"github.com/AVVKavvk/calls-qa/redisClient"
	"github.com/AVVKavvk/calls-qa/store"
	"github.com/go-redis/redis"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// App holds the HTTP handlers and their dependencies. maxAge is the
// Cache-Control max-age in seconds; redis is nil unless exchange history is
// enabled.
type App struct {
	service   *calls.Service
	maxAge    int
	redis     *redis.Client
	callCount int
}

func NewApp(service *calls.Service, maxAge int, rc *redis.Client, callCount int) *App {
	return &App{service: service, maxAge: maxAge, redis: rc, callCount: callCount}
}

// Routes builds the echo server.
func (a *App) Routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	e.GET("/healthz", a.HandleHealth)

	g := e.Group("/calls")
	g.GET("/ids", a.HandleCallIDs)
	g.GET("/metadata/:id", a.HandleCallMetadata)
	g.POST("/ask-question/:id", a.HandleAskQuestion)
	g.GET("/ask-stream/:id", a.HandleAskStream)
	g.GET("/exchanges/:id", a.HandleExchanges)
	return e
}

func (a *App) cacheable(c echo.Context) {
	c.Response().Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", a.maxAge))
}

func notFound(callID string) error {
	return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("No call id %s found", callID))
}

// HandleCallIDs lists every call id.
func (a *App) HandleCallIDs(c echo.Context) error {
	ids, err := a.service.ListIDs(c.Request().Context())
	if err != nil {
		return err
	}
	a.cacheable(c)
	return c.JSON(http.StatusOK, ids)
}

// HandleCallMetadata returns the display metadata for a call.
func (a *App) HandleCallMetadata(c echo.Context) error {
	callID := c.Param("id")

	md, err := a.service.GetMetadata(c.Request().Context(), callID)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(callID)
	}
	if err != nil {
		return err
	}
	a.cacheable(c)
	return c.JSON(http.StatusOK, md)
}

// HandleAskQuestion answers a question about a call. The body is a
// models.Question; the response is the answer as a JSON string.
func (a *App) HandleAskQuestion(c echo.Context) error {
	callID := c.Param("id")

	if c.Request().ContentLength == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Request body is required")
	}

	var q models.Question
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	answer, err := a.service.Ask(c.Request().Context(), callID, q)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(callID)
	}
	if err != nil {
		return err
	}
	a.cacheable(c)
	return c.JSON(http.StatusOK, answer)
}

// HandleExchanges returns the audited questions and answers for a call.
func (a *App) HandleExchanges(c echo.Context) error {
	if a.redis == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "exchange history not enabled")
	}
	callID := c.Param("id")

	exchanges, err := redisClient.GetAllExchanges(c.Request().Context(), a.redis, callID)
	if err != nil {
		log.Printf("[ERROR] read exchanges for %s: %v", callID, err)
		return echo.NewHTTPError(http.StatusBadGateway, "could not read exchange history")
	}
	return c.JSON(http.StatusOK, exchanges)
}

func (a *App) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"calls":  a.callCount,
	})
}
