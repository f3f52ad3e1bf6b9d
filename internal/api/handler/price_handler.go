package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/freight-pricing/internal/api/middleware"
	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Exporter renders the prices matching a query as a spreadsheet.
type Exporter interface {
	Export(ctx context.Context, q ports.PriceQuery, identity *domain.Identity) ([]byte, error)
}

// PriceHandler handles HTTP requests for price operations.
type PriceHandler struct {
	prices   ports.PriceService
	queries  ports.PriceQueryService
	exporter Exporter
	now      func() time.Time
}

func NewPriceHandler(prices ports.PriceService, queries ports.PriceQueryService, exporter Exporter) *PriceHandler {
	return &PriceHandler{prices: prices, queries: queries, exporter: exporter, now: time.Now}
}

func (h *PriceHandler) bindQuery(c echo.Context) (ports.PriceQuery, error) {
	var req listPricesRequest
	if err := c.Bind(&req); err != nil {
		return ports.PriceQuery{}, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return ports.PriceQuery{}, err
	}
	q, err := toPriceQuery(req)
	if err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return q, nil
}

func bindPrice(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

// List handles GET /v1/prices.
//
// @Summary      List the prices visible to the caller
// @Tags         prices
// @Produce      json
// @Security     BearerAuth
// @Param        serviceId            query     int     false  "Service id"
// @Param        serviceType          query     int     false  "1 traditional, 2 FBA first leg, 3 value added"
// @Param        originRegionId       query     int     false  "Origin region id"
// @Param        destinationRegionId  query     int     false  "Destination region id"
// @Param        weightStart          query     number  false  "Weight band lower bound"
// @Param        weightEnd            query     number  false  "Weight band upper bound"
// @Param        volumeStart          query     number  false  "Volume band lower bound"
// @Param        volumeEnd            query     number  false  "Volume band upper bound"
// @Param        minPrice             query     number  false  "Minimum price"
// @Param        maxPrice             query     number  false  "Maximum price"
// @Param        effectiveFrom        query     string  false  "Effective on or after (YYYY-MM-DD)"
// @Param        effectiveTo          query     string  false  "Effective on or before (YYYY-MM-DD)"
// @Param        expiringSoon         query     bool    false  "Expiring within 30 days"
// @Param        organizationId       query     int     false  "Owning organization"
// @Param        createdBy            query     string  false  "Creator subject"
// @Param        isCurrent            query     bool    false  "Current prices only"
// @Param        sortBy               query     string  false  "price, effectiveDate or updatedAt"
// @Param        sortOrder            query     string  false  "asc or desc"
// @Param        page                 query     int     false  "Page number (from 1)"
// @Param        pageSize             query     int     false  "Page size (max 100)"
// @Success      200                  {object}  ports.PriceQueryResult
// @Failure      400                  {object}  map[string]string
// @Failure      401                  {object}  map[string]string
// @Router       /v1/prices [get]
func (h *PriceHandler) List(c echo.Context) error {
	q, err := h.bindQuery(c)
	if err != nil {
		return err
	}

	result, err := h.queries.Query(c.Request().Context(), q, middleware.IdentityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Export handles GET /v1/prices/export.
//
// @Summary      Export the prices visible to the caller as xlsx
// @Tags         prices
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /v1/prices/export [get]
func (h *PriceHandler) Export(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	q, err := h.bindQuery(c)
	if err != nil {
		return err
	}

	data, err := h.exporter.Export(c.Request().Context(), q, identity)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("prices-%s.xlsx", h.now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, mimeXLSX, data)
}

// Get handles GET /v1/prices/:id.
//
// @Summary      Get a price by id
// @Tags         prices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Price id"
// @Success      200  {object}  domain.PriceRecord
// @Failure      404  {object}  map[string]string
// @Router       /v1/prices/{id} [get]
func (h *PriceHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	price, err := h.prices.Get(c.Request().Context(), c.Param("id"), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, price)
}

// Create handles POST /v1/prices.
//
// @Summary      Create a price
// @Tags         prices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      priceRequest  true  "Price"
// @Success      201   {object}  domain.PriceRecord
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  domain.ConflictReport
// @Router       /v1/prices [post]
func (h *PriceHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req priceRequest
	if err := bindPrice(c, &req); err != nil {
		return err
	}

	price, err := h.prices.Create(c.Request().Context(), toPriceInput(req), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, price)
}

// Update handles PUT /v1/prices/:id.
//
// @Summary      Replace a price
// @Tags         prices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Price id"
// @Param        body  body      priceRequest  true  "Price"
// @Success      200   {object}  domain.PriceRecord
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  domain.ConflictReport
// @Router       /v1/prices/{id} [put]
func (h *PriceHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req priceRequest
	if err := bindPrice(c, &req); err != nil {
		return err
	}

	price, err := h.prices.Update(c.Request().Context(), c.Param("id"), toPriceInput(req), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, price)
}

// Delete handles DELETE /v1/prices/:id.
//
// @Summary      Delete a price
// @Tags         prices
// @Security     BearerAuth
// @Param        id   path  string  true  "Price id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/prices/{id} [delete]
func (h *PriceHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.prices.Delete(c.Request().Context(), c.Param("id"), identity); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Import handles POST /v1/prices/import.
//
// @Summary      Import a batch of prices
// @Description  Each row is validated and conflict-checked on its own. Rows that fail are reported and skipped.
// @Tags         prices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      importRequest  true  "Rows"
// @Success      200   {object}  importResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/prices/import [post]
func (h *PriceHandler) Import(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req importRequest
	if err := bindPrice(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	outcomes, err := h.prices.Import(c.Request().Context(), toPriceInputs(req.Rows), identity)
	if err != nil {
		return err
	}

	resp := importResponse{Total: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.ID != "" {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// CheckConflict handles POST /v1/prices/check-conflict.
//
// @Summary      Report the current prices a proposed price would overlap
// @Tags         prices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkConflictRequest  true  "Proposed price"
// @Success      200   {object}  domain.ConflictReport
// @Failure      400   {object}  map[string]string
// @Router       /v1/prices/check-conflict [post]
func (h *PriceHandler) CheckConflict(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	var req checkConflictRequest
	if err := bindPrice(c, &req); err != nil {
		return err
	}

	report, err := h.prices.CheckConflict(c.Request().Context(), toPriceInput(req.priceRequest), req.ExcludeID)
	if err != nil {
		return err
	}
	if report == nil {
		report = &domain.ConflictReport{Conflicts: []domain.Conflict{}}
	}
	return c.JSON(http.StatusOK, report)
}

// Validate handles POST /v1/prices/validate.
//
// @Summary      Validate a proposed price without saving it
// @Tags         prices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      priceRequest  true  "Proposed price"
// @Success      200   {object}  ports.ValidationResult
// @Failure      400   {object}  map[string]string
// @Router       /v1/prices/validate [post]
func (h *PriceHandler) Validate(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	var req priceRequest
	if err := bindPrice(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.prices.Validate(toPriceInput(req)))
}
