package model

// Slot represents one bookable lesson occurrence published by the teacher.
type Slot struct {
	ID       int    `json:"id"`
	Date     string `json:"date"` // canonical YYYY-MM-DD
	Time     string `json:"time"` // canonical HH:MM
	Capacity int    `json:"capacity"`
	Comment  string `json:"comment"`
}
