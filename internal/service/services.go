package service

import (
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/inventory"
	postgres "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/postgres"
	redis "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/redis"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/booking"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/matches"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/query"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/venues"
)

type Services struct {
	Booking *booking.Service
	Matches *matches.Service
	Venues  *venues.Service
	Query   *query.Service
}

type Config struct {
	Booking booking.Config
	Query   query.Config
	Pricing inventory.Pricing
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.MatchesPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Booking: booking.New(store, cache, pubsub, limiter, cfg.Booking),
		Matches: matches.New(store, cache, pubsub, cfg.Pricing),
		Venues:  venues.New(store),
		Query:   query.New(store, cache, cfg.Query),
	}
}
