package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/EAniwa/legacylancers-sub003/middleware"
	"github.com/EAniwa/legacylancers-sub003/models"
	availabilitySvc "github.com/EAniwa/legacylancers-sub003/services/availability"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

// slotSearchCacheTTL bounds how long a find-slots response may be served from
// cache before capacity counters are re-read.
const slotSearchCacheTTL = 60 * time.Second

// AvailabilityHandler exposes the availability engine over HTTP.
type AvailabilityHandler struct {
	Svc   availabilitySvc.AvailabilityService
	Cache *redis.Client
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc availabilitySvc.AvailabilityService, cache *redis.Client) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc, Cache: cache}
}

func (h *AvailabilityHandler) CreateHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	var cmd models.CreateAvailabilityCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	slot, err := h.Svc.Create(c.Request.Context(), actor, cmd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": slot})
}

func (h *AvailabilityHandler) ListHandler(c *gin.Context) {
	filter := models.AvailabilityListFilter{
		OwnerID:   c.Query("ownerId"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy"),
		SortDesc:  c.Query("sortDir") == "desc",
	}
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	page, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": page})
}

func (h *AvailabilityHandler) GetHandler(c *gin.Context) {
	slot, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slot})
}

func (h *AvailabilityHandler) UpdateHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	var cmd models.UpdateAvailabilityCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	slot, err := h.Svc.Update(c.Request.Context(), actor, c.Param("id"), cmd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slot})
}

func (h *AvailabilityHandler) DeleteHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// CheckConflictsHandler validates a candidate slot against the owner's
// existing declarations without persisting anything.
func (h *AvailabilityHandler) CheckConflictsHandler(c *gin.Context) {
	var input struct {
		Candidate models.AvailabilitySlot `json:"candidate"`
		ExcludeID string                  `json:"excludeId,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	conflicts, err := h.Svc.CheckConflicts(c.Request.Context(), &input.Candidate, input.ExcludeID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"hasConflicts": len(conflicts) > 0,
		"conflicts":    conflicts,
	}})
}

func (h *AvailabilityHandler) FindSlotsHandler(c *gin.Context) {
	ownerID := c.Param("ownerId")
	rangeStart := c.Query("rangeStart")
	rangeEnd := c.Query("rangeEnd")
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "60"))
	buffer, _ := strconv.Atoi(c.DefaultQuery("buffer", "0"))
	category := c.Query("category")

	// Capacity counters move slowly relative to search traffic, so identical
	// searches are served from cache for a minute.
	cacheKey := fmt.Sprintf("slots:%s:%s:%s:%d:%d:%s", ownerID, rangeStart, rangeEnd, duration, buffer, category)
	ctx := c.Request.Context()
	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var candidates []models.CandidateSlot
			if json.Unmarshal([]byte(cached), &candidates) == nil {
				c.JSON(http.StatusOK, gin.H{"data": candidates, "cached": true})
				return
			}
		}
	}

	candidates, err := h.Svc.FindAvailableSlots(c.Request.Context(), ownerID, rangeStart, rangeEnd, duration, buffer, category)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if h.Cache != nil {
		if payload, err := json.Marshal(candidates); err == nil {
			h.Cache.Set(ctx, cacheKey, payload, slotSearchCacheTTL)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": candidates})
}

func (h *AvailabilityHandler) NextSlotHandler(c *gin.Context) {
	ownerID := c.Param("ownerId")
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "60"))
	category := c.Query("category")

	from := time.Now()
	if fromParam := c.Query("from"); fromParam != "" {
		parsed, err := time.Parse(time.RFC3339, fromParam)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "INVALID_TIME_FORMAT", "from must be RFC 3339")
			return
		}
		from = parsed
	}

	slot, err := h.Svc.GetNextAvailableSlot(c.Request.Context(), ownerID, from, duration, category)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slot})
}

func (h *AvailabilityHandler) BookSlotHandler(c *gin.Context) {
	var cmd models.BookSlotCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}
	cmd.SlotID = c.Param("id")

	receipt, err := h.Svc.BookTimeSlot(c.Request.Context(), cmd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": receipt})
}

// ReleaseSlotHandler returns a reserved capacity unit, typically after the
// engagement built on it was cancelled.
func (h *AvailabilityHandler) ReleaseSlotHandler(c *gin.Context) {
	slot, err := h.Svc.ReleaseTimeSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"slotId":   slot.ID,
		"booked":   slot.CurrentBookings,
		"capacity": slot.MaxBookings,
	}})
}

func (h *AvailabilityHandler) ConvertTimezoneHandler(c *gin.Context) {
	var input struct {
		Instant string `json:"instant"`
		FromTz  string `json:"fromTz"`
		ToTz    string `json:"toTz"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}
	instant, err := time.Parse(time.RFC3339, input.Instant)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_TIME_FORMAT", "instant must be RFC 3339")
		return
	}

	converted, err := h.Svc.ConvertTimeZone(instant, input.FromTz, input.ToTz)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"instant":  converted.Format(time.RFC3339),
		"timeZone": input.ToTz,
	}})
}

func (h *AvailabilityHandler) OwnerStatsHandler(c *gin.Context) {
	stats, err := h.Svc.OwnerStats(c.Request.Context(), c.Param("ownerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
