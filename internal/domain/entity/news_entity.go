package entity

// News is a published article. It has no owner and no visibility rules.
type News struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Subtitle *string `json:"subtitle"`
	HTML     string  `json:"html"`
	Media    string  `json:"media"`
}
