package gallery

import (
	"github.com/pribylovaa/go-media-hub/internal/models"
)

const avatarBase = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// Seed возвращает фиксированный стартовый набор галереи.
// Каждый вызов отдаёт свежую копию.
func Seed() []models.MediaItem {
	return []models.MediaItem{
		{
			ID: 1, Kind: models.KindImage,
			URL:   "https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?w=800",
			Title: "Абстрактное искусство", Author: "Анна Иванова", AuthorAvatar: avatarBase + "Anna",
			Likes: 342,
		},
		{
			ID: 2, Kind: models.KindVideo,
			URL:       "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
			Thumbnail: "https://images.unsplash.com/photo-1574375927938-d5a98e8ffe85?w=800",
			Title:     "Big Buck Bunny", Author: "Иван Петров", AuthorAvatar: avatarBase + "Ivan",
			Likes: 1254,
		},
		{
			ID: 3, Kind: models.KindImage,
			URL:   "https://images.unsplash.com/photo-1579783902614-a3fb3927b6a5?w=800",
			Title: "Неоновый город", Author: "Мария Сидорова", AuthorAvatar: avatarBase + "Maria",
			Likes: 892, IsLiked: true,
		},
		{
			ID: 4, Kind: models.KindImage,
			URL:   "https://images.unsplash.com/photo-1557672172-298e090bd0f1?w=800",
			Title: "Космос", Author: "Дмитрий Козлов", AuthorAvatar: avatarBase + "Dmitry",
			Likes: 2341, IsSaved: true,
		},
		{
			ID: 5, Kind: models.KindVideo,
			URL:       "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
			Thumbnail: "https://images.unsplash.com/photo-1536440136628-849c177e76a1?w=800",
			Title:     "Elephants Dream", Author: "Елена Волкова", AuthorAvatar: avatarBase + "Elena",
			Likes: 567,
		},
		{
			ID: 6, Kind: models.KindImage,
			URL:   "https://images.unsplash.com/photo-1550745165-9bc0b252726f?w=800",
			Title: "Цифровое будущее", Author: "Сергей Новиков", AuthorAvatar: avatarBase + "Sergey",
			Likes: 445,
		},
		{
			ID: 7, Kind: models.KindImage,
			URL:   "https://images.unsplash.com/photo-1558591710-4b4a1ae0f04d?w=800",
			Title: "Градиенты", Author: "Ольга Смирнова", AuthorAvatar: avatarBase + "Olga",
			Likes: 678, IsLiked: true, IsSaved: true,
		},
		{
			ID: 8, Kind: models.KindVideo,
			URL:       "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
			Thumbnail: "https://images.unsplash.com/photo-1626814026160-2237a95fc5a0?w=800",
			Title:     "For Bigger Blazes", Author: "Алексей Попов", AuthorAvatar: avatarBase + "Alexey",
			Likes: 923,
		},
	}
}
