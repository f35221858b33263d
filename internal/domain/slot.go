package domain

import "github.com/m04kA/TTA-ReservationService/pkg/types"

// PermittedSlots фиксированный набор допустимых времен начала бронирования
// Десять часовых слотов с 08:00 по 17:00, каждый длительностью один час
var PermittedSlots = []types.TimeString{
	"08:00",
	"09:00",
	"10:00",
	"11:00",
	"12:00",
	"13:00",
	"14:00",
	"15:00",
	"16:00",
	"17:00",
}

// IsPermittedSlot проверяет, что время начала входит в разрешенный набор
func IsPermittedSlot(start types.TimeString) bool {
	for _, slot := range PermittedSlots {
		if start == slot {
			return true
		}
	}
	return false
}

// SlotEnd возвращает время конца слота: начало + фиксированная длительность
func SlotEnd(start types.TimeString) (types.TimeString, error) {
	return start.AddMinutes(SlotDurationMinutes)
}
