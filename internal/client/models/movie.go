package models

import "fmt"

type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Genre       string `json:"genre"`
	Duration    int    `json:"duration"`
	Rating      string `json:"rating"`
	ReleaseDate string `json:"release_date"`
	Poster      string `json:"poster,omitempty"`
}

// Summary is the one-line listing form of a movie.
func (m Movie) Summary() string {
	return fmt.Sprintf("%-24s %-32s %s, %d min, rating %s", m.Slug, m.Title, m.Genre, m.Duration, m.Rating)
}
