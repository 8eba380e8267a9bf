package calendar

import "time"

type CalendarDay struct {
	Date      time.Time `json:"date" db:"date"`
	WorkedOut bool      `json:"worked_out" db:"worked_out"`
	IsToday   bool      `json:"is_today"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}
