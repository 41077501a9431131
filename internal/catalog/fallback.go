package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

func rating(v float64) *float64 { return &v }

// FallbackProducts is the built-in sample catalog served while the backend is unreachable.
func FallbackProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Name:        "Banarasi Silk Saree",
			Description: "Pure silk saree with traditional zari work from Varanasi, Uttar Pradesh",
			Price:       decimal.NewFromInt(8999),
			Category:    "Traditional Clothing",
			ImageURL:    "https://prithacrafts.com/wp-content/uploads/2020/12/NTS3737-Pure_Silk_Lined_Banarasi_Saree_Red-111_1000x.jpg",
			Seller:      "Varanasi Weavers",
			Region:      "Uttar Pradesh",
		},
		{
			ID:          "2",
			Name:        "Kanjivaram Silk Saree",
			Description: "Traditional Kanjivaram silk from Tamil Nadu with temple border",
			Price:       decimal.NewFromInt(12999),
			Category:    "Traditional Clothing",
			ImageURL:    "https://tse3.mm.bing.net/th/id/OIP.C_EC6ZNxzxKdg0I7sV5rngHaJ4?cb=12&rs=1&pid=ImgDetMain&o=7&rm=3",
			Seller:      "Kanchipuram Artisans",
			Region:      "Tamil Nadu",
		},
		{
			ID:                 "3",
			Name:               "Madhubani Painting",
			Description:        "Hand painted Mithila folk art on handmade paper",
			Price:              decimal.NewFromInt(2499),
			Category:           "Handicrafts",
			Seller:             "Mithila Art Collective",
			Region:             "Bihar",
			OriginState:        "Bihar",
			Rating:             rating(4.6),
			Featured:           true,
			IndiaPostOptimized: true,
		},
		{
			ID:          "4",
			Name:        "Kashmiri Saffron",
			Description: "Grade A Mongra saffron from Pampore, 5 g",
			Price:       decimal.NewFromInt(1299),
			Category:    "Spices & Food Items",
			Seller:      "Pampore Growers",
			Region:      "Jammu & Kashmir",
			OriginState: "Jammu & Kashmir",
			Rating:      rating(4.8),
			Popular:     true,
		},
		{
			ID:                 "5",
			Name:               "Kundan Necklace Set",
			Description:        "Gold plated kundan necklace with matching earrings",
			Price:              decimal.NewFromInt(4599),
			Category:           "Jewelry & Accessories",
			Seller:             "Jaipur Jewels",
			Region:             "Rajasthan",
			Rating:             rating(4.2),
			IndiaPostOptimized: true,
		},
		{
			ID:          "6",
			Name:        "Brass Diya Set",
			Description: "Set of five hand cast brass oil lamps",
			Price:       decimal.NewFromInt(899),
			Category:    "Home & Living",
			Seller:      "Moradabad Metal Works",
			Region:      "Uttar Pradesh",
			OriginState: "Uttar Pradesh",
		},
	}
}
