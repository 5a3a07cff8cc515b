package review

import "github.com/nicolas-cahorel/P3-Mission/internal/domain"

// seedReviews returns five reviews rated 5, 4, 5, 2, 4.
func seedReviews() []domain.Review {
	return []domain.Review{
		{Author: "Ranjit Singh", AvatarURL: "https://xsgames.co/randomusers/assets/avatars/male/71.jpg", Content: "Service très rapide et nourriture délicieuse.", Rating: 5},
		{Author: "Martyna Siddeswara", AvatarURL: "https://xsgames.co/randomusers/assets/avatars/female/31.jpg", Content: "Un service excellent et des plats incroyablement savoureux.", Rating: 4},
		{Author: "Komala Alanazi", AvatarURL: "https://xsgames.co/randomusers/assets/avatars/male/46.jpg", Content: "La cuisine est délicieuse et le service est également excellent.", Rating: 5},
		{Author: "David John", AvatarURL: "https://xsgames.co/randomusers/assets/avatars/male/67.jpg", Content: "Les currys manquaient de diversité de saveurs.", Rating: 2},
		{Author: "Emilie Hood", AvatarURL: "https://xsgames.co/randomusers/assets/avatars/female/20.jpg", Content: "Très bon restaurant Indien ! Je recommande.", Rating: 4},
	}
}

func candidate(content string, rating int) domain.Review {
	return domain.Review{
		Author:    "John Tester",
		AvatarURL: "https://xsgames.co/randomusers/assets/avatars/male/2.jpg",
		Content:   content,
		Rating:    rating,
	}
}
