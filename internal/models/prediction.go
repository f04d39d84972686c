package models

// Prediction is the win estimate for one event
type Prediction struct {
	Event           Event   `json:"event"`
	HomeProbability float64 `json:"home_probability"`
	AwayProbability float64 `json:"away_probability"`
	Pick            string  `json:"pick"`
	HomeRating      float64 `json:"home_rating"`
	AwayRating      float64 `json:"away_rating"`
	HomeDelta       float64 `json:"home_delta"`
}

// Differential returns the adjusted home-minus-away rating gap
func (p Prediction) Differential() float64 {
	return p.HomeRating + p.HomeDelta - p.AwayRating
}

// PickedHome reports whether the pick is the home side
func (p Prediction) PickedHome() bool {
	return p.HomeProbability >= 0.5
}
