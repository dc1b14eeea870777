package httpgin

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/booking"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/matches"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/query"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/venues"
)

func TestRespondErr(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{booking.ErrNoSeatsSelected, http.StatusBadRequest},
		{booking.ErrTooManySeats, http.StatusBadRequest},
		{booking.ErrMatchNotFound, http.StatusNotFound},
		{booking.ErrMatchNotBookable, http.StatusConflict},
		{booking.ErrSeatsNotFound, http.StatusNotFound},
		{booking.ErrSeatsUnavailable, http.StatusConflict},
		{booking.ErrBookingConflict, http.StatusConflict},
		{booking.ErrReservationNotFound, http.StatusNotFound},
		{booking.ErrForbidden, http.StatusForbidden},
		{booking.ErrMatchStarted, http.StatusConflict},
		{matches.ErrInvalid, http.StatusBadRequest},
		{matches.ErrVenueNotFound, http.StatusNotFound},
		{matches.ErrMatchNotFound, http.StatusNotFound},
		{matches.ErrMatchFrozen, http.StatusConflict},
		{matches.ErrHasReservations, http.StatusConflict},
		{venues.ErrInvalid, http.StatusBadRequest},
		{venues.ErrVenueNotFound, http.StatusNotFound},
		{venues.ErrNameTaken, http.StatusConflict},
		{venues.ErrVenueInUse, http.StatusConflict},
		{query.ErrMatchNotFound, http.StatusNotFound},
		{fmt.Errorf("something unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			// services wrap sentinels with operation context
			respondErr(c, fmt.Errorf("service.op: %w", tt.err))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestParseInt64Param(t *testing.T) {
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/17", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/seventeen", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
