package entity

// Ranking is one row of the leaderboard. Total and ROI are rounded to cents.
type Ranking struct {
	UserID string
	Total  float64
	ROI    float64 // Percent
}
