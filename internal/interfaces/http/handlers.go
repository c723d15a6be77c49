package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilcdb/record-management/internal/application/port"
	"github.com/ilcdb/record-management/internal/application/service"
	"github.com/ilcdb/record-management/internal/domain/entity"
	"github.com/ilcdb/record-management/internal/domain/lifecycle"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	collections Collections
	query       service.QueryService
	prNumbers   service.PRNumberService
	exports     service.ExportService
	signatures  port.SignatureDecoder
	logger      Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	collections Collections,
	query service.QueryService,
	prNumbers service.PRNumberService,
	exports service.ExportService,
	signatures port.SignatureDecoder,
	logger Logger,
) *Handlers {
	return &Handlers{
		collections: collections,
		query:       query,
		prNumbers:   prNumbers,
		exports:     exports,
		signatures:  signatures,
		logger:      logger,
	}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListRecords returns the collection filtered, bucketed, and sorted per
// query parameters.
func (h *Handlers) ListRecords(segment string) gin.HandlerFunc {
	svc := h.collections[segment]
	return func(c *gin.Context) {
		records, err := svc.List(c.Request.Context())
		if err != nil {
			h.respondError(c, err)
			return
		}

		tab := service.Tab(c.DefaultQuery("tab", string(service.TabAll)))
		filter, err := parseFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
		views := h.query.Apply(records, tab, filter, parseSort(c))
		c.JSON(http.StatusOK, Response{Success: true, Data: views})
	}
}

// GetRecord returns one record by id.
func (h *Handlers) GetRecord(segment string) gin.HandlerFunc {
	svc := h.collections[segment]
	return func(c *gin.Context) {
		rec, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: rec})
	}
}

// CreateRecord creates a record with a fresh phase template.
func (h *Handlers) CreateRecord(segment string) gin.HandlerFunc {
	svc := h.collections[segment]
	return func(c *gin.Context) {
		var input service.CreateRecordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
			return
		}
		rec, err := svc.Create(c.Request.Context(), input)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, Response{Success: true, Data: rec})
	}
}

// UpdateRecord merges a partial field update into the record.
func (h *Handlers) UpdateRecord(segment string) gin.HandlerFunc {
	svc := h.collections[segment]
	return func(c *gin.Context) {
		var input service.UpdateRecordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
			return
		}
		rec, err := svc.Update(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: rec})
	}
}

// DeleteRecord permanently removes a record.
func (h *Handlers) DeleteRecord(segment string) gin.HandlerFunc {
	svc := h.collections[segment]
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{Success: true})
	}
}

// UpdatePhase applies a proposed phase to the record.
func (h *Handlers) UpdatePhase(segment string) gin.HandlerFunc {
	svc := h.collections[segment]
	return func(c *gin.Context) {
		phaseID, err := strconv.Atoi(c.Param("phaseId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid phase id"})
			return
		}

		var phase entity.Phase
		if err := c.ShouldBindJSON(&phase); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
			return
		}
		phase.ID = phaseID

		rec, err := svc.UpdatePhase(c.Request.Context(), c.Param("id"), phase)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: rec})
	}
}

// Archive sets a record's status to archived.
func (h *Handlers) Archive(segment string) gin.HandlerFunc {
	return h.statusAction(segment, func(svc service.RecordService) statusActionFunc {
		return svc.Archive
	})
}

// Unarchive returns an archived record to active.
func (h *Handlers) Unarchive(segment string) gin.HandlerFunc {
	return h.statusAction(segment, func(svc service.RecordService) statusActionFunc {
		return svc.Unarchive
	})
}

// MarkCompleted sets a record's status to completed.
func (h *Handlers) MarkCompleted(segment string) gin.HandlerFunc {
	return h.statusAction(segment, func(svc service.RecordService) statusActionFunc {
		return svc.MarkCompleted
	})
}

type statusActionFunc func(ctx context.Context, id string) (*entity.Record, error)

func (h *Handlers) statusAction(segment string, pick func(service.RecordService) statusActionFunc) gin.HandlerFunc {
	svc := h.collections[segment]
	action := pick(svc)
	return func(c *gin.Context) {
		rec, err := action(c.Request.Context(), c.Param("id"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: rec})
	}
}

// ExportSummary streams the record's phase-summary workbook.
func (h *Handlers) ExportSummary(segment string) gin.HandlerFunc {
	svc := h.collections[segment]
	return func(c *gin.Context) {
		result, err := h.exports.ExportSummary(c.Request.Context(), svc, c.Param("id"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			result.Content)
	}
}

// ValidatePRRequest is the body for PR number validation.
type ValidatePRRequest struct {
	PRNumber  string `json:"pr_number"`
	ExcludeID string `json:"exclude_id"`
}

// ValidatePRResponse reports validity and an optional advisory suggestion.
type ValidatePRResponse struct {
	Valid      bool                  `json:"valid"`
	Error      string                `json:"error,omitempty"`
	Suggestion *service.PRSuggestion `json:"suggestion,omitempty"`
}

// ValidatePRNumber checks a PR number's format and uniqueness and, for
// malformed input, returns a correction suggestion when one clears the
// confidence gate. The suggestion is advisory; nothing is applied here.
func (h *Handlers) ValidatePRNumber(c *gin.Context) {
	var req ValidatePRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	result := ValidatePRResponse{Valid: true}
	err := h.prNumbers.Validate(c.Request.Context(), req.PRNumber, req.ExcludeID)
	if err != nil {
		if !service.IsValidationError(err) && !errors.Is(err, service.ErrDuplicatePRNumber) {
			h.respondError(c, err)
			return
		}
		result.Valid = false
		result.Error = err.Error()

		if service.IsValidationError(err) {
			suggestion, sErr := h.prNumbers.Suggest(c.Request.Context(), req.PRNumber)
			if sErr != nil {
				h.logger.Error("PR suggestion lookup failed", "error", sErr)
			} else {
				result.Suggestion = suggestion
			}
		}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// DecodeSignature converts an uploaded sign-off file into the image string
// stored on a signature.
func (h *Handlers) DecodeSignature(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file field is required"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "failed to read upload"})
		return
	}

	image, err := h.signatures.Decode(content, header.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"signature_image": image}})
}

// respondError maps service errors onto HTTP statuses.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecordNotFound), errors.Is(err, lifecycle.ErrPhaseNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case service.IsValidationError(err),
		errors.Is(err, service.ErrDuplicatePRNumber),
		errors.Is(err, lifecycle.ErrInvalidStatusTransition):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

func parseFilter(c *gin.Context) (service.Filter, error) {
	filter := service.Filter{Search: c.Query("search")}

	if raw := c.Query("project_types"); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			filter.ProjectTypes = append(filter.ProjectTypes, entity.ProjectType(strings.TrimSpace(v)))
		}
	}
	if raw := c.Query("statuses"); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, entity.Status(strings.TrimSpace(v)))
		}
	}

	var err error
	if filter.AmountMin, err = parseFloatParam(c, "amount_min"); err != nil {
		return filter, err
	}
	if filter.AmountMax, err = parseFloatParam(c, "amount_max"); err != nil {
		return filter, err
	}
	if filter.ProgressMin, err = parseIntParam(c, "progress_min"); err != nil {
		return filter, err
	}
	if filter.ProgressMax, err = parseIntParam(c, "progress_max"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseSort(c *gin.Context) *service.SortSpec {
	column := c.Query("sort_by")
	if column == "" {
		return nil
	}
	return &service.SortSpec{
		Column:     column,
		Descending: c.DefaultQuery("sort_dir", "asc") == "desc",
	}
}

func parseFloatParam(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}

func parseIntParam(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}
