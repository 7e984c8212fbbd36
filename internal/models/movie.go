package models

// Movie is one search or discovery result. Records are never mutated after
// they are decoded.
type Movie struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path,omitempty"`
}

// Equal compares by external identifier only.
func (m Movie) Equal(other Movie) bool {
	return m.ID == other.ID
}

func (m Movie) HasPoster() bool {
	return m.PosterPath != ""
}
