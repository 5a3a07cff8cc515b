package httpserver

import (
	"net/http"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
)

type restaurantResponse struct {
	domain.Restaurant
	Today string `json:"today"`
}

func (s *Server) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	if s.restaurant == nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Restaurant details are not available")
		return
	}
	s.respondJSON(w, http.StatusOK, restaurantResponse{
		Restaurant: *s.restaurant,
		Today:      domain.DayLabel(s.now().Weekday()),
	})
}
