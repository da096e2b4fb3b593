package prescriptions

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrBadTimeOfDay = errors.New("invalid time of day")

// TimeOfDay es una hora del día sin fecha (la hora a la que toca una dosis).
// Siempre se interpreta en la zona local canónica del despliegue; la
// resolución de zona ocurre antes de llegar aquí.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay acepta "HH:MM" o "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
		}
		nums[i] = n
	}

	t := TimeOfDay{Hour: nums[0], Minute: nums[1]}
	if len(nums) == 3 {
		t.Second = nums[2]
	}
	if !t.valid() {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
	}
	return t, nil
}

// TimeOfDayOf extrae la hora del día de un instante.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (t TimeOfDay) valid() bool {
	return t.Hour >= 0 && t.Hour < 24 &&
		t.Minute >= 0 && t.Minute < 60 &&
		t.Second >= 0 && t.Second < 60
}

// At combina la hora del día con la fecha (y zona) de date para formar un
// instante comparable del mismo día.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, t.Second, 0, date.Location())
}

// String devuelve "HH:MM:SS" (formato de persistencia).
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// HHMM devuelve "HH:MM" (formato de presentación, igual que los dashboards).
func (t TimeOfDay) HHMM() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
