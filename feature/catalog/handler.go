package catalog

import (
	"errors"
	"strconv"

	"esim-catalog/core/logger"
	"esim-catalog/core/provider/esimaccess"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Post("/sync", h.HandleSync)
	group.Get("/runs", h.HandleListRuns)
	group.Get("/packages/:code", h.HandleGetPackage)
}

// HandleSync runs one catalog sync pass.
// @Summary Run Catalog Sync
// @Description Fetches the provider catalog and reconciles it. Returns when the pass is finished.
// @Tags catalog
// @Produce json
// @Success 200 {object} catalog.Result "Run result"
// @Failure 409 {object} map[string]string "Another run is in progress"
// @Failure 502 {object} catalog.Result "Provider fetch failed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Sync(c.UserContext(), TriggerHTTP)
	if err != nil {
		var fetchErr *esimaccess.FetchError
		switch {
		case errors.Is(err, ErrSyncInProgress):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.As(err, &fetchErr) && res != nil:
			l.Warn("Catalog sync fetch failed", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(res)
		default:
			l.Error("Catalog sync failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(res)
}

// HandleListRuns lists the latest sync runs.
// @Summary List Sync Runs
// @Description Lists the most recent catalog sync runs, newest first.
// @Tags catalog
// @Produce json
// @Param limit query int false "Maximum number of runs (default 20, max 100)"
// @Success 200 {array} catalog.SyncRun "Runs"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be a number",
			})
		}
		limit = n
	}

	runs, err := h.service.Runs(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing sync runs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(runs)
}

// HandleGetPackage returns a package with its region, countries and operators.
// @Summary Get Package
// @Description Get a stored package by provider code.
// @Tags catalog
// @Produce json
// @Param code path string true "Provider package code"
// @Success 200 {object} catalog.PackageDetail "Package"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/packages/{code} [get]
func (h *Handler) HandleGetPackage(c *fiber.Ctx) error {
	detail, err := h.service.Package(c.UserContext(), c.Params("code"))
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		logger.WithRayID(h.service.logger, c).Error("Package lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(detail)
}
