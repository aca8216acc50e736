package models

import "time"

type ShiftStatus string

const (
	ShiftScheduled ShiftStatus = "scheduled"
	ShiftActive    ShiftStatus = "active"
	ShiftCompleted ShiftStatus = "completed"
	ShiftCancelled ShiftStatus = "cancelled"
)

func (s ShiftStatus) Valid() bool {
	switch s {
	case ShiftScheduled, ShiftActive, ShiftCompleted, ShiftCancelled:
		return true
	}
	return false
}

// Форматы дат/времени смены на проводе.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ShiftAssignment описывает смену: сотрудник, пост (gate), окно времени.
type ShiftAssignment struct {
	ID        string      `json:"id"`
	StaffID   string      `json:"staff_id"`
	StaffName string      `json:"staff_name,omitempty"`
	Date      string      `json:"date"`       // YYYY-MM-DD
	StartTime string      `json:"start_time"` // HH:MM
	EndTime   string      `json:"end_time"`   // HH:MM, может быть раньше start (ночная смена)
	GateID    string      `json:"gate_id"`
	GateName  string      `json:"gate_name,omitempty"`
	Status    ShiftStatus `json:"status"`
	Notes     string      `json:"notes,omitempty"`
}

// Window возвращает начало и конец смены в заданной зоне; ночная смена
// заканчивается на следующий день.
func (s ShiftAssignment) Window(loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, s.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	st, err := time.ParseInLocation(ClockLayout, s.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	en, err := time.ParseInLocation(ClockLayout, s.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), st.Hour(), st.Minute(), 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), en.Hour(), en.Minute(), 0, 0, loc)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}
