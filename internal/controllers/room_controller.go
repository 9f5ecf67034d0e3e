package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zaqqye/room_backend_v1/internal/repository"
	"github.com/zaqqye/room_backend_v1/internal/service"
)

const noRoomAvailable = "No room available"

type RoomController struct {
	Svc *service.RoomService
	Log *zap.Logger
}

type createRoomRequest struct {
	RoomNo              string `json:"roomNo" binding:"required"`
	Capacity            *int   `json:"capacity" binding:"required"`
	HasAC               *bool  `json:"hasAC" binding:"required"`
	HasAttachedWashroom *bool  `json:"hasAttachedWashroom" binding:"required"`
}

type allocateRoomRequest struct {
	Students      FlexibleInt  `json:"students"`
	NeedsAC       FlexibleBool `json:"needsAC"`
	NeedsWashroom FlexibleBool `json:"needsWashroom"`
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.RoomNo) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	if *req.Capacity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be a positive number"})
		return
	}
	room, err := rc.Svc.Create(c.Request.Context(), service.CreateRoomInput{
		RoomNo:              req.RoomNo,
		Capacity:            *req.Capacity,
		HasAC:               *req.HasAC,
		HasAttachedWashroom: *req.HasAttachedWashroom,
	})
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (rc *RoomController) ListRooms(c *gin.Context) {
	rooms, err := rc.Svc.List(c.Request.Context())
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	roomNo := strings.TrimSpace(c.Param("roomNo"))
	if roomNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room number"})
		return
	}
	room, err := rc.Svc.Get(c.Request.Context(), roomNo)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// SearchRooms reads optional capacity, hasAC and hasAttachedWashroom query
// params. Empty values count as absent.
func (rc *RoomController) SearchRooms(c *gin.Context) {
	var f repository.SearchFilter
	if v := strings.TrimSpace(c.Query("capacity")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be a positive number"})
			return
		}
		f.MinCapacity = &n
	}
	var ok bool
	if f.HasAC, ok = optionalBool(c.Query("hasAC")); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hasAC value"})
		return
	}
	if f.HasAttachedWashroom, ok = optionalBool(c.Query("hasAttachedWashroom")); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hasAttachedWashroom value"})
		return
	}

	rooms, err := rc.Svc.Search(c.Request.Context(), f)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (rc *RoomController) AllocateRoom(c *gin.Context) {
	var req allocateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Students.Set || req.Students.Value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Students must be a positive number"})
		return
	}
	res, err := rc.Svc.Allocate(c.Request.Context(), service.AllocationRequest{
		Students:      req.Students.Value,
		NeedsAC:       bool(req.NeedsAC),
		NeedsWashroom: bool(req.NeedsWashroom),
	})
	if err != nil {
		rc.fail(c, err)
		return
	}
	if !res.Allocated {
		c.JSON(http.StatusOK, gin.H{"message": noRoomAvailable})
		return
	}
	c.JSON(http.StatusOK, res.Room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	roomNo := strings.TrimSpace(c.Param("roomNo"))
	if roomNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room number"})
		return
	}
	if err := rc.Svc.Delete(c.Request.Context(), roomNo); err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

func (rc *RoomController) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": "Room number already exists"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	default:
		_ = c.Error(err)
		if rc.Log != nil {
			rc.Log.Error("room request failed", zap.Error(err), zap.String("path", c.FullPath()))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// optionalBool parses a query flag. ok is false for values that are neither
// empty nor a boolean.
func optionalBool(raw string) (*bool, bool) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}
