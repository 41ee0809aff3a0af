package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	eventapp "github.com/promoshop/backend/internal/application/event"
)

// OutboxHandler handles outbox management HTTP requests
type OutboxHandler struct {
	BaseHandler
	outboxService *eventapp.OutboxService
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(outboxService *eventapp.OutboxService) *OutboxHandler {
	return &OutboxHandler{
		outboxService: outboxService,
	}
}

// GetStats godoc
// @Summary      Get outbox statistics
// @Description  Count outbox entries by delivery status
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=handler.OutboxStatsResponse}
// @Router       /system/outbox/stats [get]
func (h *OutboxHandler) GetStats(c *gin.Context) {
	stats, err := h.outboxService.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOutboxStatsResponse(stats))
}

// GetDeadLetterEntries godoc
// @Summary      List dead letter entries
// @Description  Paginated list of outbox entries that exhausted their retries
// @Tags         system
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Items per page"
// @Success      200 {object} dto.Response{data=handler.OutboxListResponse}
// @Router       /system/outbox/dead [get]
func (h *OutboxHandler) GetDeadLetterEntries(c *gin.Context) {
	var filter eventapp.OutboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.outboxService.GetDeadLetterEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOutboxListResponse(result))
}

// GetEntry godoc
// @Summary      Get an outbox entry
// @Tags         system
// @Produce      json
// @Param        id path string true "Outbox entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=handler.OutboxEntryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /system/outbox/{id} [get]
func (h *OutboxHandler) GetEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.outboxService.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOutboxEntryResponse(entry))
}

// RetryDeadEntry godoc
// @Summary      Retry a dead letter entry
// @Description  Reset a dead letter entry so the processor picks it up again
// @Tags         system
// @Produce      json
// @Param        id path string true "Outbox entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=handler.OutboxEntryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /system/outbox/{id}/retry [post]
func (h *OutboxHandler) RetryDeadEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.outboxService.RetryDeadEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOutboxEntryResponse(entry))
}

// RetryAllDeadEntries godoc
// @Summary      Retry all dead letter entries
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=handler.RetryAllResponse}
// @Router       /system/outbox/dead/retry-all [post]
func (h *OutboxHandler) RetryAllDeadEntries(c *gin.Context) {
	count, err := h.outboxService.RetryAllDeadEntries(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RetryAllResponse{Count: count})
}

// OutboxEntryResponse represents an outbox entry in API responses
type OutboxEntryResponse struct {
	ID            string  `json:"id"`
	EventID       string  `json:"event_id"`
	EventType     string  `json:"event_type"`
	AggregateID   string  `json:"aggregate_id"`
	AggregateType string  `json:"aggregate_type"`
	Status        string  `json:"status"`
	RetryCount    int     `json:"retry_count"`
	MaxRetries    int     `json:"max_retries"`
	LastError     string  `json:"last_error,omitempty"`
	NextRetryAt   *string `json:"next_retry_at,omitempty"`
	ProcessedAt   *string `json:"processed_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// OutboxListResponse represents a paginated outbox list response
type OutboxListResponse struct {
	Entries    []OutboxEntryResponse `json:"entries"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// OutboxStatsResponse represents outbox statistics by status
type OutboxStatsResponse struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// RetryAllResponse reports how many entries were reset for retry
type RetryAllResponse struct {
	Count int64 `json:"count"`
}

func toOutboxEntryResponse(dto *eventapp.OutboxEntryDTO) OutboxEntryResponse {
	resp := OutboxEntryResponse{
		ID:            dto.ID.String(),
		EventID:       dto.EventID.String(),
		EventType:     dto.EventType,
		AggregateID:   dto.AggregateID.String(),
		AggregateType: dto.AggregateType,
		Status:        dto.Status,
		RetryCount:    dto.RetryCount,
		MaxRetries:    dto.MaxRetries,
		LastError:     dto.LastError,
		CreatedAt:     dto.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     dto.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if dto.NextRetryAt != nil {
		t := dto.NextRetryAt.Format("2006-01-02T15:04:05Z07:00")
		resp.NextRetryAt = &t
	}
	if dto.ProcessedAt != nil {
		t := dto.ProcessedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ProcessedAt = &t
	}
	return resp
}

func toOutboxListResponse(result *eventapp.OutboxListResult) OutboxListResponse {
	entries := make([]OutboxEntryResponse, len(result.Entries))
	for i, entry := range result.Entries {
		entries[i] = toOutboxEntryResponse(&entry)
	}
	return OutboxListResponse{
		Entries:    entries,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

func toOutboxStatsResponse(dto *eventapp.OutboxStatsDTO) OutboxStatsResponse {
	return OutboxStatsResponse{
		Pending:    dto.Pending,
		Processing: dto.Processing,
		Sent:       dto.Sent,
		Failed:     dto.Failed,
		Dead:       dto.Dead,
		Total:      dto.Total,
	}
}
