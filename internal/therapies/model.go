// Package therapies provides the clinic's therapy catalog.
package therapies

// Therapy is an immutable catalog entry.
type Therapy struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Duration    string  `json:"duration"` // free text, e.g. "45-60 mins"
	Focus       string  `json:"focus"`    // condition category, e.g. "Kapha Disorders"
	Description string  `json:"desc"`
	Price       float64 `json:"price"`
}

// DefaultTherapies returns the four Panchakarma therapies offered by the clinic.
// A fresh slice is returned on every call.
func DefaultTherapies() []Therapy {
	return []Therapy{
		{
			ID:          "vamana",
			Title:       "Vamana",
			Subtitle:    "Therapeutic Emesis",
			Duration:    "45-60 mins",
			Focus:       "Kapha Disorders",
			Description: "Controlled vomiting to expel toxins from the upper respiratory and gastric tracts.",
			Price:       150,
		},
		{
			ID:          "virechana",
			Title:       "Virechana",
			Subtitle:    "Medical Purgation",
			Duration:    "60-90 mins",
			Focus:       "Pitta Disorders",
			Description: "Therapeutic purgation to eliminate excessive heat and toxins from the liver.",
			Price:       180,
		},
		{
			ID:          "nasya",
			Title:       "Nasya",
			Subtitle:    "Nasal Administration",
			Duration:    "30-45 mins",
			Focus:       "ENT Care",
			Description: "Instillation of herbal oils through nasal passages to clear head and neck channels.",
			Price:       120,
		},
		{
			ID:          "basti",
			Title:       "Basti",
			Subtitle:    "Herbal Enema",
			Duration:    "40-60 mins",
			Focus:       "Vata Disorders",
			Description: "Medicated enema to balance the primary dosha and disperse deep-rooted toxins.",
			Price:       160,
		},
	}
}
