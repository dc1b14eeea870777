package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/domain"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/monitoring"
	redisrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/redis"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/booking"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/matches"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/query"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/venues"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	// Public API
	r.GET("/matches", handleListMatches(svcs))
	r.GET("/matches/:id", handleGetMatch(svcs))
	r.GET("/matches/:id/seats", handleListSeats(svcs))

	// Fan API
	fan := r.Group("/reservations", IdentityMiddleware())
	{
		fan.POST("", handleBook(svcs, idem))
		fan.GET("", handleListReservations(svcs))
		fan.DELETE("/:id/seats/:seat_id", handleCancelSeat(svcs))
	}

	// Manager API. The gateway is expected to only forward manager
	// identities onto these routes.
	mgr := r.Group("/manager", IdentityMiddleware())
	{
		mgr.POST("/venues", handleCreateVenue(svcs))
		mgr.GET("/venues", handleListVenues(svcs))
		mgr.GET("/venues/:id", handleGetVenue(svcs))
		mgr.PUT("/venues/:id", handleUpdateVenue(svcs))
		mgr.DELETE("/venues/:id", handleDeleteVenue(svcs))

		mgr.POST("/matches", handleCreateMatch(svcs))
		mgr.PUT("/matches/:id", handleUpdateMatch(svcs))
		mgr.DELETE("/matches/:id", handleDeleteMatch(svcs))
		mgr.GET("/matches/report", handleMatchReport(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List matches with availability
// @Success  200  {array}  domain.MatchSummary
// @Router   /matches [get]
func handleListMatches(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Query.ListMatches(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  Get match with availability counters
// @Param    id  path  int  true  "Match ID"
// @Success  200  {object}  domain.MatchSummary
// @Failure  404  {object}  ErrorResponse
// @Router   /matches/{id} [get]
func handleGetMatch(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		sum, err := svcs.Query.GetMatch(c.Request.Context(), matchID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, sum, "public, max-age=60", true)
	}
}

// @Summary  List match seats
// @Param    id  path  int  true  "Match ID"
// @Success  200  {array}  domain.Seat
// @Failure  404  {object}  ErrorResponse
// @Router   /matches/{id}/seats [get]
func handleListSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Query.ListSeats(c.Request.Context(), matchID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, seats, "public, max-age=15", true)
	}
}

// @Summary  Book seats (idempotent)
// @Param    req body  BookRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.ReservationDetails
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "seats unavailable / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /reservations [post]
func handleBook(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(req.MatchID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		rlKey := "ip:" + c.ClientIP()

		details, err := svcs.Booking.Book(
			c.Request.Context(),
			userID(c),
			req.MatchID,
			req.SeatIDs,
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if errors.Is(err, booking.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: "rate limited"},
				)
				return
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(details)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, details)
	}
}

// @Summary  List own reservations
// @Success  200 {array} domain.ReservationDetails
// @Router   /reservations [get]
func handleListReservations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Booking.ListReservations(c.Request.Context(), userID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Cancel one seat of a reservation
// @Param    id       path  string  true  "Reservation ID (uuid)"
// @Param    seat_id  path  int     true  "Seat ID"
// @Success  200 {object} domain.ReservationDetails "null when the reservation was emptied"
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "match already started"
// @Router   /reservations/{id}/seats/{seat_id} [delete]
func handleCancelSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		reservationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid reservation id")
			return
		}
		seatID, ok := parseInt64Param(c, "seat_id")
		if !ok {
			return
		}

		details, removed, err := svcs.Booking.CancelSeat(
			c.Request.Context(),
			userID(c),
			reservationID,
			seatID,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		if removed {
			// The emptied reservation no longer exists; the body is
			// the JSON literal null.
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

// @Summary  Create venue
// @Param    req body  CreateVenueRequest true "payload"
// @Success  201 {object} domain.Venue
// @Failure  409 {object} ErrorResponse "name taken"
// @Router   /manager/venues [post]
func handleCreateVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVenueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		v, err := svcs.Venues.Create(c.Request.Context(), domain.Venue{
			Name:        req.Name,
			TierRows:    req.TierRows,
			SeatsPerRow: req.SeatsPerRow,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	}
}

// @Summary  List venues
// @Success  200 {array} domain.Venue
// @Router   /manager/venues [get]
func handleListVenues(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Venues.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Get venue
// @Param    id  path  int  true  "Venue ID"
// @Success  200 {object} domain.Venue
// @Failure  404 {object} ErrorResponse
// @Router   /manager/venues/{id} [get]
func handleGetVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		v, err := svcs.Venues.Get(c.Request.Context(), venueID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// @Summary  Update venue layout
// @Param    id  path  int  true  "Venue ID"
// @Param    req body  UpdateVenueRequest true "payload"
// @Success  200 {object} domain.Venue
// @Router   /manager/venues/{id} [put]
func handleUpdateVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req UpdateVenueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		v, err := svcs.Venues.Update(c.Request.Context(), domain.Venue{
			ID:          venueID,
			Name:        req.Name,
			TierRows:    req.TierRows,
			SeatsPerRow: req.SeatsPerRow,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// @Summary  Delete venue
// @Param    id  path  int  true  "Venue ID"
// @Success  204
// @Failure  409 {object} ErrorResponse "venue in use"
// @Router   /manager/venues/{id} [delete]
func handleDeleteVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Venues.Delete(c.Request.Context(), venueID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Create match and generate seat inventory
// @Param    req body  CreateMatchRequest true "payload"
// @Success  201 {object} domain.MatchSummary
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse "venue not found"
// @Router   /manager/matches [post]
func handleCreateMatch(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		kickoff, err := parseRFC3339(req.Kickoff)
		if err != nil {
			badRequest(c, "invalid kickoff (RFC3339)")
			return
		}
		sum, err := svcs.Matches.Create(c.Request.Context(), matches.CreateMatchInput{
			VenueID:     req.VenueID,
			HomeTeam:    req.HomeTeam,
			AwayTeam:    req.AwayTeam,
			Kickoff:     kickoff,
			Referee:     req.Referee,
			LinesmanOne: req.Linesmen[0],
			LinesmanTwo: req.Linesmen[1],
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, sum)
	}
}

// @Summary  Update match
// @Param    id  path  int  true  "Match ID"
// @Param    req body  UpdateMatchRequest true "payload"
// @Success  200 {object} domain.MatchSummary
// @Failure  409 {object} ErrorResponse "match frozen / has reservations"
// @Router   /manager/matches/{id} [put]
func handleUpdateMatch(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req UpdateMatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		in := matches.UpdateMatchInput{
			VenueID:  req.VenueID,
			HomeTeam: req.HomeTeam,
			AwayTeam: req.AwayTeam,
			Referee:  req.Referee,
		}
		if req.Kickoff != nil {
			kickoff, err := parseRFC3339(*req.Kickoff)
			if err != nil {
				badRequest(c, "invalid kickoff (RFC3339)")
				return
			}
			in.Kickoff = &kickoff
		}
		if req.Linesmen != nil {
			if len(req.Linesmen) != 2 {
				badRequest(c, "linesmen must list exactly two officials")
				return
			}
			in.LinesmanOne = &req.Linesmen[0]
			in.LinesmanTwo = &req.Linesmen[1]
		}

		sum, err := svcs.Matches.Update(c.Request.Context(), matchID, in)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	}
}

// @Summary  Delete match with its seats and reservations
// @Param    id  path  int  true  "Match ID"
// @Success  204
// @Failure  409 {object} ErrorResponse "match frozen"
// @Router   /manager/matches/{id} [delete]
func handleDeleteMatch(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Matches.Delete(c.Request.Context(), matchID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Occupancy and revenue report over all matches
// @Success  200 {array} domain.MatchReport
// @Router   /manager/matches/report [get]
func handleMatchReport(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Matches.Report(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// booking service
	case errors.Is(err, booking.ErrNoSeatsSelected):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no seats selected"})
		return
	case errors.Is(err, booking.ErrTooManySeats):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "too many seats in one booking"})
		return
	case errors.Is(err, booking.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "match not found"})
		return
	case errors.Is(err, booking.ErrMatchNotBookable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "match is not open for booking"})
		return
	case errors.Is(err, booking.ErrSeatsNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat does not belong to this match"})
		return
	case errors.Is(err, booking.ErrSeatsUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seats unavailable"})
		return
	case errors.Is(err, booking.ErrBookingConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "booking conflict, retry"})
		return
	case errors.Is(err, booking.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
		return
	case errors.Is(err, booking.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not your reservation"})
		return
	case errors.Is(err, booking.ErrMatchStarted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "match already started"})
		return
	// matches service
	case errors.Is(err, matches.ErrInvalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, matches.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
		return
	case errors.Is(err, matches.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "match not found"})
		return
	case errors.Is(err, matches.ErrMatchFrozen):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "match already started or completed"})
		return
	case errors.Is(err, matches.ErrHasReservations):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "match has reservations"})
		return
	// venues service
	case errors.Is(err, venues.ErrInvalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, venues.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
		return
	case errors.Is(err, venues.ErrNameTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "venue name taken"})
		return
	case errors.Is(err, venues.ErrVenueInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "venue referenced by matches"})
		return
	// query service
	case errors.Is(err, query.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "match not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
