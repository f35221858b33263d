package domain

// SlotDurationMinutes фиксированная длительность бронирования
// Каждый слот занимает ровно один час: end_time = start_time + 60 минут
const SlotDurationMinutes = 60

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
