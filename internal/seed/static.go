package seed

import (
	"context"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
)

// Static serves a fixed list of reviews. A nil list behaves as unavailable.
type Static []domain.Review

// FetchInitialReviews implements Source.
func (s Static) FetchInitialReviews(ctx context.Context) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrUnavailable
	}
	out := make([]domain.Review, len(s))
	copy(out, s)
	return out, nil
}

// TajMahal returns the reviews the restaurant page ships with.
func TajMahal() Static {
	return Static{
		{
			Author:    "Ranjit Singh",
			AvatarURL: "https://xsgames.co/randomusers/assets/avatars/male/71.jpg",
			Content:   "Service très rapide et nourriture délicieuse, nous mangeons ici chaque week-end, c'est très rapide et savoureux. Continuez ainsi!",
			Rating:    5,
		},
		{
			Author:    "Martyna Siddeswara",
			AvatarURL: "https://xsgames.co/randomusers/assets/avatars/female/31.jpg",
			Content:   "Un service excellent et des plats incroyablement savoureux. Nous sommes vraiment satisfaits de notre expérience au restaurant.",
			Rating:    4,
		},
		{
			Author:    "Komala Alanazi",
			AvatarURL: "https://xsgames.co/randomusers/assets/avatars/male/46.jpg",
			Content:   "La cuisine est délicieuse et le service est également excellent. Le propriétaire est très sympathique et veille toujours à ce que votre repas soit satisfaisant. Cet endroit est un choix sûr!",
			Rating:    5,
		},
		{
			Author:    "David John",
			AvatarURL: "https://xsgames.co/randomusers/assets/avatars/male/67.jpg",
			Content:   "Les currys manquaient de diversité de saveurs et semblaient tous à base de tomates. Malgré les évaluations élevées que nous avons vues et nos attentes, nous avons été déçus.",
			Rating:    2,
		},
		{
			Author:    "Emilie Hood",
			AvatarURL: "https://xsgames.co/randomusers/assets/avatars/female/20.jpg",
			Content:   "Très bon restaurant Indien ! Je recommande.",
			Rating:    4,
		},
	}
}

// StaticRestaurant serves fixed details. The zero value behaves as
// unavailable.
type StaticRestaurant domain.Restaurant

// FetchRestaurant implements RestaurantSource.
func (s StaticRestaurant) FetchRestaurant(ctx context.Context) (domain.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Restaurant{}, err
	}
	if domain.Restaurant(s).IsZero() {
		return domain.Restaurant{}, ErrUnavailable
	}
	return domain.Restaurant(s), nil
}

// TajMahalRestaurant returns the details the restaurant page ships with.
func TajMahalRestaurant() StaticRestaurant {
	return StaticRestaurant{
		Name:        "Taj Mahal",
		Type:        "Indien",
		Hours:       "11h30 - 14h30・18h30 - 22h00",
		Address:     "12 Avenue de la Brique - 75010 Paris",
		Website:     "http://www.tajmahal.fr",
		PhoneNumber: "06 12 34 56 78",
		DineIn:      true,
		TakeAway:    false,
	}
}
