package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/scmkit/scmkit/internal/logger"
	"github.com/scmkit/scmkit/internal/vcs"
)

// RepoOpener resolves a filesystem path to a repository. The default is
// vcs.Detect; tests substitute their own.
type RepoOpener func(path string) (vcs.Repository, error)

// SCMHandler serves the uniform repository surface over HTTP.
type SCMHandler struct {
	open RepoOpener
}

// NewSCMHandler creates a handler backed by dispatcher detection.
func NewSCMHandler() *SCMHandler {
	return &SCMHandler{open: vcs.Detect}
}

// NewSCMHandlerWithOpener creates a handler with an explicit opener.
func NewSCMHandlerWithOpener(open RepoOpener) *SCMHandler {
	return &SCMHandler{open: open}
}

// Register mounts the repository routes on the app.
func (h *SCMHandler) Register(app *fiber.App) {
	v1 := app.Group("/v1")
	v1.Get("/repo/detect", h.DetectRepository)
	v1.Get("/repo/status", h.GetStatus)
	v1.Get("/repo/branches", h.GetBranches)
	v1.Get("/repo/tags", h.GetTags)
	v1.Get("/repo/commits", h.GetCommits)
	v1.Get("/repo/files", h.GetFiles)
}

func (h *SCMHandler) repo(c *fiber.Ctx) (vcs.Repository, error) {
	path := c.Query("path")
	if path == "" {
		return nil, c.Status(400).JSON(fiber.Map{
			"error": "path query parameter is required",
		})
	}
	repo, err := h.open(path)
	if err != nil {
		var detectErr *vcs.DetectError
		status := 500
		if errors.As(err, &detectErr) {
			status = 404
		}
		return nil, c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return repo, nil
}

// DetectRepository reports which VCS manages the given path.
func (h *SCMHandler) DetectRepository(c *fiber.Ctx) error {
	repo, err := h.repo(c)
	if repo == nil {
		return err
	}
	return c.JSON(fiber.Map{
		"path": repo.Path(),
		"kind": repo.Kind(),
	})
}

// GetStatus returns the normalized working copy status.
func (h *SCMHandler) GetStatus(c *fiber.Ctx) error {
	repo, err := h.repo(c)
	if repo == nil {
		return err
	}
	status, err := repo.Status()
	if err != nil {
		logger.Errorf("status failed for %s: %v", repo.Path(), err)
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"path":   repo.Path(),
		"kind":   repo.Kind(),
		"status": status,
		"dirty":  status.Dirty(),
	})
}

// GetBranches returns branch names and the current branch.
func (h *SCMHandler) GetBranches(c *fiber.Ctx) error {
	repo, err := h.repo(c)
	if repo == nil {
		return err
	}
	branches, err := repo.Branches()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	current, err := repo.CurrentBranch()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"branches": branches,
		"current":  current,
	})
}

// GetTags returns tag names.
func (h *SCMHandler) GetTags(c *fiber.Ctx) error {
	repo, err := h.repo(c)
	if repo == nil {
		return err
	}
	tags, err := repo.Tags()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// GetCommits returns the parsed commit log.
func (h *SCMHandler) GetCommits(c *fiber.Ctx) error {
	repo, err := h.repo(c)
	if repo == nil {
		return err
	}
	opts := vcs.LogOptions{
		Limit:     c.QueryInt("limit"),
		Ref:       c.Query("ref"),
		WithFiles: c.QueryBool("files"),
	}
	commits, err := repo.Commits(opts)
	if err != nil {
		var parseErr *vcs.ParseError
		status := 500
		if errors.As(err, &parseErr) {
			status = 502
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"kind":    repo.Kind(),
		"commits": commits,
	})
}

// GetFiles returns the tracked file listing.
func (h *SCMHandler) GetFiles(c *fiber.Ctx) error {
	repo, err := h.repo(c)
	if repo == nil {
		return err
	}
	files, err := repo.Files()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"files": files})
}
