package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and the build version.
type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

func (h *HealthHandler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// ComponentHandler serves the component catalog the editors draw
// from: grip configurations plus the available SVG artifacts.
type ComponentHandler struct {
	assetDir string
}

func NewComponentHandler(assetDir string) *ComponentHandler {
	return &ComponentHandler{assetDir: assetDir}
}

func (h *ComponentHandler) HandleListComponents(c echo.Context) error {
	data, err := os.ReadFile(filepath.Join(h.assetDir, "grips.json"))
	if err != nil {
		return NewInternalError("failed to read component catalog", err)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return NewInternalError("component catalog is malformed", err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *ComponentHandler) HandleListArtifacts(c echo.Context) error {
	svgDir := filepath.Join(h.assetDir, "svg")
	names := []string{}
	err := filepath.WalkDir(svgDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".svg") {
			rel, err := filepath.Rel(svgDir, path)
			if err != nil {
				return err
			}
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return NewInternalError("failed to scan artifacts", err)
	}
	sort.Strings(names)
	return c.JSON(http.StatusOK, names)
}

// ProjectHandler is the CRUD surface both editors save through.
type ProjectHandler struct {
	store Store
}

func NewProjectHandler(store Store) *ProjectHandler {
	return &ProjectHandler{store: store}
}

type projectRequest struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

func (h *ProjectHandler) HandleListProjects(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.List())
}

func (h *ProjectHandler) HandleGetProject(c echo.Context) error {
	id := c.Param("id")
	p, ok := h.store.Get(id)
	if !ok {
		return NewNotFoundError("project", id)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) HandleCreateProject(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Name == "" {
		return NewBadRequestError("project name is required", nil)
	}
	data, err := normalizeDocument(req.Data)
	if err != nil {
		return NewBadRequestError("invalid project document", err)
	}
	p := h.store.Create(req.Name, data)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProjectHandler) HandleUpdateProject(c echo.Context) error {
	id := c.Param("id")
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	data, err := normalizeDocument(req.Data)
	if err != nil {
		return NewBadRequestError("invalid project document", err)
	}
	p, ok := h.store.Update(id, req.Name, data)
	if !ok {
		return NewNotFoundError("project", id)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) HandleDeleteProject(c echo.Context) error {
	id := c.Param("id")
	if !h.store.Delete(id) {
		return NewNotFoundError("project", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// normalizeDocument rewrites canvasState.sequenceCounter to the item
// count so stale counters from old clients cannot collide ids on the
// next load. Documents without a canvasState pass through untouched.
func normalizeDocument(data json.RawMessage) (json.RawMessage, error) {
	if len(data) == 0 {
		return data, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	state, ok := doc["canvasState"].(map[string]any)
	if !ok {
		return data, nil
	}
	items, _ := state["items"].([]any)
	state["sequenceCounter"] = len(items)
	return json.Marshal(doc)
}

// RegisterRoutes wires all API routes onto the Echo instance.
func RegisterRoutes(e *echo.Echo, health *HealthHandler, components *ComponentHandler, projects *ProjectHandler) {
	e.GET("/api/health", health.HandleHealth)

	e.GET("/api/components", components.HandleListComponents)
	e.GET("/api/components/artifacts", components.HandleListArtifacts)

	group := e.Group("/api/projects")
	group.GET("", projects.HandleListProjects)
	group.POST("", projects.HandleCreateProject)
	group.GET("/:id", projects.HandleGetProject)
	group.PUT("/:id", projects.HandleUpdateProject)
	group.DELETE("/:id", projects.HandleDeleteProject)
}
