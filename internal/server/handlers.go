package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/export"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/internal/preview"
	"github.com/syssam/crudgen/manifest"
	"github.com/syssam/crudgen/predicate"
	"github.com/syssam/crudgen/schema"
)

type dependencyInfo struct {
	Key         feature.DependencyKey `json:"key"`
	Description string                `json:"description"`
	Records     []manifest.Record     `json:"records"`
}

type backendInfo struct {
	Name    feature.Backend `json:"name"`
	Dialect dialect.Dialect `json:"dialect"`
	Driver  manifest.Record `json:"driver"`
}

type catalogResponse struct {
	Types        []schema.Type       `json:"types"`
	Operations   []feature.Operation `json:"operations"`
	Backends     []backendInfo       `json:"backends"`
	Dependencies []dependencyInfo    `json:"dependencies"`
	Operators    []predicate.Op      `json:"operators"`
}

// GET /api/catalog
func (s *Server) catalog(c *gin.Context) {
	resp := catalogResponse{
		Types:      schema.Types(),
		Operations: feature.AllOperations(),
		Operators:  predicate.Ops(),
	}
	for _, b := range []feature.Backend{feature.Embedded, feature.External} {
		resp.Backends = append(resp.Backends, backendInfo{Name: b, Dialect: dialect.ForBackend(b), Driver: manifest.Driver(b)})
	}
	entries := manifest.Catalog()
	for _, d := range feature.Dependencies {
		info := dependencyInfo{Key: d.Key, Description: d.Description}
		for _, e := range entries {
			if e.Key == d.Key {
				info.Records = append(info.Records, e.Record)
			}
		}
		resp.Dependencies = append(resp.Dependencies, info)
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/projects
func (s *Server) archive(c *gin.Context) {
	p, ok := bindProject(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	b, err := s.cached(ctx, "archive", p, func() ([]byte, error) {
		set, layout, err := p.Assemble(ctx, gen.WithLogger(s.log))
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := export.Archive(&buf, p.OutputDir(), set, layout); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Name+".zip"))
	c.Data(http.StatusOK, "application/zip", b)
}

type artifactFile struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

type artifactsResponse struct {
	Project   string         `json:"project"`
	Module    string         `json:"module"`
	Artifacts []artifactFile `json:"artifacts"`
}

// POST /api/projects/artifacts
func (s *Server) artifacts(c *gin.Context) {
	p, ok := bindProject(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	b, err := s.cached(ctx, "artifacts", p, func() ([]byte, error) {
		set, layout, err := p.Assemble(ctx, gen.WithLogger(s.log))
		if err != nil {
			return nil, err
		}
		resp := artifactsResponse{Project: p.Name, Module: p.ModulePath()}
		for _, f := range layout.Files(set) {
			resp.Artifacts = append(resp.Artifacts, artifactFile{ID: f.ID, Path: f.Path, Content: f.Text})
		}
		return json.Marshal(resp)
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

type predicateRequest struct {
	Dialect  string                `json:"dialect"`
	Criteria []predicate.Criterion `json:"criteria"`
}

// POST /api/predicates/sql
func (s *Server) predicateSQL(c *gin.Context) {
	var req predicateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	d := dialect.Dialect(dialect.SQLite)
	if req.Dialect != "" {
		var err error
		if d, err = dialect.Parse(req.Dialect); err != nil {
			badRequest(c, err)
			return
		}
	}
	p := predicate.Build(req.Criteria)
	cond, args := p.SQL(d)
	c.JSON(http.StatusOK, gin.H{
		"dialect":   d,
		"condition": cond,
		"args":      args,
		"predicate": p.String(),
	})
}

type previewRequest struct {
	Project  *load.Project          `json:"project"`
	Rows     []predicate.Map       `json:"rows"`
	Criteria []predicate.Criterion `json:"criteria"`
}

// POST /api/predicates/preview
func (s *Server) preview(c *gin.Context) {
	req := previewRequest{Project: load.Default()}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Project == nil {
		req.Project = load.Default()
	}
	sch, _, err := req.Project.Build()
	if err != nil {
		fail(c, err)
		return
	}
	res, err := preview.Run(c.Request.Context(), sch, req.Rows, req.Criteria, preview.WithLogger(s.log))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":   res,
		"agree":    res.Agree(),
		"mismatch": res.Mismatch(),
	})
}

// DELETE /api/cache
func (s *Server) clearCache(c *gin.Context) {
	if s.cache != nil {
		if err := s.cache.Clear(c.Request.Context()); err != nil {
			fail(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// cached returns the cached response of op for the project, or renders and
// stores it.
func (s *Server) cached(ctx context.Context, op string, p *load.Project, render func() ([]byte, error)) ([]byte, error) {
	if s.cache == nil {
		return render()
	}
	key, err := projectKey(op, p.Name, p)
	if err != nil {
		return nil, err
	}
	if b, err := s.cache.Get(ctx, key.String()); err == nil && b != nil {
		s.log.DebugContext(ctx, "cache hit", "key", key.String())
		return b, nil
	}
	b, err := render()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key.String(), b, s.ttl); err != nil {
		s.log.WarnContext(ctx, "cache set failed", "key", key.String(), "error", err)
	}
	return b, nil
}

// bindProject decodes the request body over the default project. An empty
// body yields the defaults.
func bindProject(c *gin.Context) (*load.Project, bool) {
	p := load.Default()
	if err := c.ShouldBindJSON(p); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return nil, false
	}
	return p, true
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// fail answers with the status of err: invalid input is a client error and
// a failed generation is unprocessable.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := http.StatusInternalServerError
	switch {
	case schema.IsSchemaError(err),
		errors.Is(err, feature.ErrInvalidSelection),
		gen.IsValidationError(err),
		gen.IsConfigError(err),
		errors.Is(err, load.ErrInvalidProject),
		errors.Is(err, preview.ErrUnknownField),
		errors.Is(err, preview.ErrInvalidRow):
		status = http.StatusBadRequest
	case gen.IsGenerationError(err):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
