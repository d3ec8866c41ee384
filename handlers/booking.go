package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EAniwa/legacylancers-sub003/middleware"
	"github.com/EAniwa/legacylancers-sub003/models"
	bookingSvc "github.com/EAniwa/legacylancers-sub003/services/booking"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

// BookingHandler exposes the engagement lifecycle over HTTP.
type BookingHandler struct {
	Svc bookingSvc.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc bookingSvc.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

func (h *BookingHandler) CreateHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	var cmd models.CreateBookingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	booking, err := h.Svc.Create(c.Request.Context(), actor, cmd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": booking})
}

func (h *BookingHandler) GetHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	detail, err := h.Svc.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail})
}

func (h *BookingHandler) ListHandler(c *gin.Context) {
	filter := models.BookingListFilter{
		ClientID:   c.Query("clientId"),
		RetireeID:  c.Query("retireeId"),
		Status:     c.Query("status"),
		Engagement: c.Query("engagementType"),
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

func (h *BookingHandler) AcceptHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	var cmd models.AcceptBookingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	booking, err := h.Svc.Accept(c.Request.Context(), actor, c.Param("id"), cmd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": booking})
}

func (h *BookingHandler) RejectHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	var cmd models.RejectBookingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	booking, err := h.Svc.Reject(c.Request.Context(), actor, c.Param("id"), cmd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": booking})
}

func (h *BookingHandler) CancelHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	var cmd models.CancelBookingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	booking, err := h.Svc.Cancel(c.Request.Context(), actor, c.Param("id"), cmd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": booking})
}

func (h *BookingHandler) UpdateHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	var cmd models.UpdateBookingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	booking, err := h.Svc.Update(c.Request.Context(), actor, c.Param("id"), cmd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": booking})
}

func (h *BookingHandler) TransitionsHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	states, err := h.Svc.GetTransitions(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"nextPossibleStates": states}})
}

func (h *BookingHandler) HistoryHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	history, err := h.Svc.GetHistory(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": history})
}

func (h *BookingHandler) StatsHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "MISSING_ACTOR", "authentication required")
		return
	}

	stats, err := h.Svc.DashboardStats(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
