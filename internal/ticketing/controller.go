package ticketing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"boxoffice/internal/shared/utils/response"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	GetAvailability(c *gin.Context)
	HoldSeats(c *gin.Context)
	ReserveSeats(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, bindingErrors(err))
		return
	}

	summary, err := ctrl.service.CreateEvent(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", summary, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("eventId"))
	if err != nil || eventID < 1 {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	summary, err := ctrl.service.GetEvent(eventID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", summary, nil)
}

func (ctrl *controller) GetAvailability(c *gin.Context) {
	levelID := 0
	if raw := c.Query("level"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid level", nil, nil)
			return
		}
		levelID = parsed
	}

	available, err := ctrl.service.NumSeatsAvailable(levelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat availability retrieved", AvailabilityResponse{
		LevelID:   levelID,
		Available: available,
	}, nil)
}

func (ctrl *controller) HoldSeats(c *gin.Context) {
	var req HoldSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, bindingErrors(err))
		return
	}

	hold, err := ctrl.service.FindAndHoldSeats(req.Count, req.MinLevel, req.MaxLevel, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats held successfully", newHoldResponse(hold), nil)
}

func (ctrl *controller) ReserveSeats(c *gin.Context) {
	var req ReserveSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, bindingErrors(err))
		return
	}

	token, err := ctrl.service.ReserveSeats(req.HoldID, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Reservation confirmed", ReservationResponse{
		ReservationID: token,
		HoldID:        req.HoldID,
	}, nil)
}

// respondServiceError maps the core's error kinds onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, ErrInsufficientSeats):
		status = http.StatusConflict
	case errors.Is(err, ErrReservationFailed):
		status = http.StatusConflict
	case errors.Is(err, ErrStateConflict):
		status = http.StatusConflict
	}
	response.RespondJSON(c, "error", status, err.Error(), nil, nil)
}

// bindingErrors flattens validator failures into field-level messages.
func bindingErrors(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
