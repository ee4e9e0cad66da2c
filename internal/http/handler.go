package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"curbside-service/internal/cache"
	"curbside-service/internal/config"
	"curbside-service/internal/domain/curb"
	"curbside-service/internal/service"
)

type Handler struct {
	parkingService *service.ParkingService
	httpCache      *cache.TTL
	config         *config.Config
	log            zerolog.Logger
}

func NewHandler(
	parkingService *service.ParkingService,
	httpCache *cache.TTL,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		parkingService: parkingService,
		httpCache:      httpCache,
		config:         cfg,
		log:            log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	r.GET("/health", h.health)

	// Public endpoints
	public := r.Group("/api/v1")
	{
		public.GET("/parking-status", h.parkingStatus)
	}

	// Protected operational endpoints
	protected := r.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.POST("/cache/clear", h.clearCache)
		protected.POST("/snapshots/prune", h.pruneSnapshots)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) parkingStatus(c *gin.Context) {
	lat, ok := queryFloat(c, "lat", 40.7128)
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse("invalid lat"))
		return
	}
	lon, ok := queryFloat(c, "lon", -74.0060)
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse("invalid lon"))
		return
	}

	radius := 50
	if raw := strings.TrimSpace(c.Query("radius")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid radius"))
			return
		}
		radius = parsed
	}

	// Enum validation happens here: the core treats out-of-enum vehicle
	// values as a caller contract violation.
	vehicleType := curb.VehicleType(c.DefaultQuery("vehicle_type", string(curb.VehiclePassenger)))
	if !vehicleType.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse("invalid vehicle_type"))
		return
	}
	agency := curb.AgencyAffiliation(c.DefaultQuery("agency", string(curb.AgencyNone)))
	if !agency.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse("invalid agency"))
		return
	}

	commercialPlate := false
	if raw := strings.TrimSpace(c.Query("commercial_plate")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid commercial_plate"))
			return
		}
		commercialPlate = parsed
	}

	gpsAccuracy, ok := queryFloat(c, "gps_accuracy_m", 0)
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse("invalid gps_accuracy_m"))
		return
	}

	var hydrantDistance *float64
	if raw := strings.TrimSpace(c.Query("hydrant_distance_ft")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid hydrant_distance_ft"))
			return
		}
		hydrantDistance = &parsed
	}

	result, err := h.parkingService.Status(c.Request.Context(), service.StatusQuery{
		Lat:     lat,
		Lon:     lon,
		RadiusM: radius,
		Vehicle: curb.VehicleProfile{
			Type:            vehicleType,
			CommercialPlate: commercialPlate,
			Agency:          agency,
		},
		GPSAccuracyM:      gpsAccuracy,
		HydrantDistanceFt: hydrantDistance,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		h.log.Error().Err(err).Msg("failed to evaluate parking status")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) clearCache(c *gin.Context) {
	h.httpCache.Clear()
	h.log.Info().Msg("upstream response cache cleared")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) pruneSnapshots(c *gin.Context) {
	days := h.config.Snapshots.RetentionDays
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid days"))
			return
		}
		days = parsed
	}

	deleted, err := h.parkingService.PruneSnapshots(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		h.log.Error().Err(err).Msg("failed to prune snapshots")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "deleted": deleted})
}

func queryFloat(c *gin.Context, key string, def float64) (float64, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, true
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
