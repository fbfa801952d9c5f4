package domain

// SeasonOffer is a promotional campaign from the fixed catalog.
type SeasonOffer struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Discount int    `json:"discount"`
	Theme    string `json:"theme"`
}

var seasons = []SeasonOffer{
	{ID: "newyear", Title: "Happy New Year Offer", Discount: 25, Theme: "newyear"},
	{ID: "summer", Title: "Summer Assignment Special", Discount: 40, Theme: "summer"},
	{ID: "diwali", Title: "Diwali Sale", Discount: 50, Theme: "diwali"},
}

// Seasons returns a copy of the catalog.
func Seasons() []SeasonOffer {
	out := make([]SeasonOffer, len(seasons))
	copy(out, seasons)
	return out
}

// FindSeason looks an offer up by id.
func FindSeason(id string) (SeasonOffer, bool) {
	for _, s := range seasons {
		if s.ID == id {
			return s, true
		}
	}
	return SeasonOffer{}, false
}
