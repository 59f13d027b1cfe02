package domain

import "time"

// Favorite is one bookmarked title, keyed by Source+ID per user.
type Favorite struct {
	Username      string    `json:"-"`
	Source        string    `json:"source"`
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	SourceName    string    `json:"source_name"`
	Poster        string    `json:"cover"`
	Year          string    `json:"year"`
	TotalEpisodes int       `json:"total_episodes"`
	SaveTime      time.Time `json:"save_time"`
}

// PlayRecord tracks playback position for one title, keyed by Source+ID
// per user.
type PlayRecord struct {
	Username      string    `json:"-"`
	Source        string    `json:"source"`
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	SourceName    string    `json:"source_name"`
	Poster        string    `json:"cover"`
	Year          string    `json:"year"`
	Index         int       `json:"index"`
	TotalEpisodes int       `json:"total_episodes"`
	PlayTime      int64     `json:"play_time"`
	TotalTime     int64     `json:"total_time"`
	SaveTime      time.Time `json:"save_time"`
}
