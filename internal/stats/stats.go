package stats

type DaysStat struct {
	Period        string `json:"period"` // "week", "month", "year", "all_time"
	DaysWorkedOut int    `json:"days_worked_out" db:"days_worked_out"`
	TotalDays     int    `json:"total_days"`
}
