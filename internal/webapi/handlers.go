package webapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harunoki/parkres/internal/session"
	"github.com/harunoki/parkres/pkg/booking"
	"go.uber.org/zap"
)

type httpHandler struct {
	logger   *zap.Logger
	service  *booking.Service
	sessions *session.Manager
	cfg      Config
}

type createReservationRequest struct {
	ParkName         *string `json:"park_name"`
	StartDatetime    *string `json:"start_datetime"`
	EndDatetime      *string `json:"end_datetime"`
	IsExclusive      *bool   `json:"is_exclusive"`
	Purpose          *string `json:"purpose"`
	OrganizationName *string `json:"organization_name"`
	Grade            *string `json:"grade"`
	NumberOfPeople   *int    `json:"number_of_people"`
	ContactInfo      *string `json:"contact_info"`
}

type updateReservationRequest struct {
	ParkName         *string `json:"park_name"`
	StartDatetime    *string `json:"start_datetime"`
	EndDatetime      *string `json:"end_datetime"`
	IsExclusive      *bool   `json:"is_exclusive"`
	Purpose          *string `json:"purpose"`
	OrganizationName *string `json:"organization_name"`
	Grade            *string `json:"grade"`
	NumberOfPeople   *int    `json:"number_of_people"`
	ContactInfo      *string `json:"contact_info"`
	Status           *string `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type parkRequest struct {
	Name string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (handler *httpHandler) handleCreateReservation(ctx *gin.Context) {
	var request createReservationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	created, err := handler.service.CreateReservation(ctx.Request.Context(), booking.CreateReservationInput{
		ParkName:         request.ParkName,
		StartDatetime:    request.StartDatetime,
		EndDatetime:      request.EndDatetime,
		IsExclusive:      request.IsExclusive,
		Purpose:          request.Purpose,
		OrganizationName: request.OrganizationName,
		Grade:            request.Grade,
		NumberOfPeople:   request.NumberOfPeople,
		ContactInfo:      request.ContactInfo,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrMissingField):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrParkNotFound):
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "the specified park does not exist"})
		default:
			handler.respondStoreError(ctx, err)
		}
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message":     "Reservation created successfully",
		"id":          created.ID,
		"reservation": created,
	})
}

func (handler *httpHandler) handleListReservations(ctx *gin.Context) {
	reservations, err := handler.service.ListReservations(ctx.Request.Context())
	if err != nil {
		handler.respondStoreError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reservations)
}

func (handler *httpHandler) handleGetReservation(ctx *gin.Context) {
	reservationID, ok := pathID(ctx)
	if !ok {
		return
	}
	reservation, err := handler.service.GetReservation(ctx.Request.Context(), reservationID)
	if err != nil {
		if errors.Is(err, booking.ErrReservationNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			return
		}
		handler.respondStoreError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reservation)
}

func (handler *httpHandler) handleUpdateReservation(ctx *gin.Context) {
	reservationID, ok := pathID(ctx)
	if !ok {
		return
	}
	var request updateReservationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	updated, err := handler.service.UpdateReservation(ctx.Request.Context(), reservationID, booking.ReservationUpdate{
		ParkName:         request.ParkName,
		StartDatetime:    request.StartDatetime,
		EndDatetime:      request.EndDatetime,
		IsExclusive:      request.IsExclusive,
		Purpose:          request.Purpose,
		OrganizationName: request.OrganizationName,
		Grade:            request.Grade,
		NumberOfPeople:   request.NumberOfPeople,
		ContactInfo:      request.ContactInfo,
		Status:           request.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrReservationNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		case errors.Is(err, booking.ErrMissingField):
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "park name cannot be empty"})
		case errors.Is(err, booking.ErrParkNotFound):
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "the specified park does not exist"})
		case errors.Is(err, booking.ErrEmptyUpdate):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		case errors.Is(err, booking.ErrInvalidStatus):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			handler.respondStoreError(ctx, err)
		}
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

func (handler *httpHandler) handleDeleteReservation(ctx *gin.Context) {
	reservationID, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := handler.service.DeleteReservation(ctx.Request.Context(), reservationID); err != nil {
		if errors.Is(err, booking.ErrReservationNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			return
		}
		handler.respondStoreError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
}

func (handler *httpHandler) handleUpdateReservationStatus(ctx *gin.Context) {
	reservationID, ok := pathID(ctx)
	if !ok {
		return
	}
	var request statusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid status"})
		return
	}
	updated, err := handler.service.UpdateReservationStatus(ctx.Request.Context(), reservationID, request.Status)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidStatus):
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid status"})
		case errors.Is(err, booking.ErrReservationNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "reservation not found"})
		default:
			handler.respondStoreError(ctx, err)
		}
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "status updated",
		"reservation": updated,
	})
}

func (handler *httpHandler) handleListParks(ctx *gin.Context) {
	parks, err := handler.service.ListParks(ctx.Request.Context())
	if err != nil {
		handler.respondStoreError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, parks)
}

func (handler *httpHandler) handleCreatePark(ctx *gin.Context) {
	var request parkRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "park name is required"})
		return
	}
	created, err := handler.service.CreatePark(ctx.Request.Context(), request.Name)
	if err != nil {
		handler.respondParkError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "park added",
		"park":    created,
	})
}

func (handler *httpHandler) handleUpdatePark(ctx *gin.Context) {
	parkID, ok := pathID(ctx)
	if !ok {
		return
	}
	var request parkRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "park name is required"})
		return
	}
	updated, err := handler.service.UpdatePark(ctx.Request.Context(), parkID, request.Name)
	if err != nil {
		handler.respondParkError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "park updated",
		"park":    updated,
	})
}

func (handler *httpHandler) handleDeletePark(ctx *gin.Context) {
	parkID, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := handler.service.DeletePark(ctx.Request.Context(), parkID); err != nil {
		handler.respondParkError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "park deleted"})
}

func (handler *httpHandler) respondParkError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrMissingField):
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "park name is required"})
	case errors.Is(err, booking.ErrParkNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "park not found"})
	case errors.Is(err, booking.ErrDuplicatePark):
		ctx.JSON(http.StatusConflict, gin.H{"success": false, "message": "a park with the same name already exists"})
	case errors.Is(err, booking.ErrParkInUse):
		ctx.JSON(http.StatusConflict, gin.H{"success": false, "message": "this park is referenced by reservations and cannot be deleted"})
	default:
		handler.respondStoreError(ctx, err)
	}
}

func (handler *httpHandler) respondStoreError(ctx *gin.Context, err error) {
	handler.logger.Error("store operation failed",
		zap.String("path", ctx.FullPath()),
		zap.Error(err),
	)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// pathID parses the :id route parameter. A non-numeric id is treated the
// same as an unknown one.
func pathID(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}
