package domain

import "time"

// Restaurant holds the details shown on the restaurant page.
type Restaurant struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Hours       string `json:"hours" yaml:"hours"`
	Address     string `json:"address" yaml:"address"`
	Website     string `json:"website" yaml:"website"`
	PhoneNumber string `json:"phoneNumber" yaml:"phoneNumber"`
	DineIn      bool   `json:"dineIn" yaml:"dineIn"`
	TakeAway    bool   `json:"takeAway" yaml:"takeAway"`
}

// IsZero reports whether r carries no details at all.
func (r Restaurant) IsZero() bool {
	return r == Restaurant{}
}

var dayLabels = [...]string{
	time.Sunday:    "Dimanche",
	time.Monday:    "Lundi",
	time.Tuesday:   "Mardi",
	time.Wednesday: "Mercredi",
	time.Thursday:  "Jeudi",
	time.Friday:    "Vendredi",
	time.Saturday:  "Samedi",
}

// DayLabel returns the French name of the day, as shown next to the opening
// hours. Unknown values yield "".
func DayLabel(day time.Weekday) string {
	if day < time.Sunday || int(day) >= len(dayLabels) {
		return ""
	}
	return dayLabels[day]
}
