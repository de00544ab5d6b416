package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/i474232898/weather-glance/internal/icons"
	"github.com/i474232898/weather-glance/internal/screen"
)

// Card is one page of the forecast view.
type Card struct {
	Page        int    `json:"page"`
	Of          int    `json:"of"`
	Icon        string `json:"icon"`
	Glyph       string `json:"glyph"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// View is everything the screen shows for one State.
type View struct {
	Label   string `json:"label"`
	Loading bool   `json:"loading"`
	Notice  string `json:"notice,omitempty"`
	Cards   []Card `json:"cards"`
}

// FormatTemperature renders a temperature with exactly one decimal digit.
// Exact ties round half away from zero (14.25 -> "14.3"); other values
// round to the nearest digit of their exact binary value.
func FormatTemperature(celsius float64) string {
	sign := ""
	if celsius < 0 {
		sign = "-"
	}
	abs := math.Abs(celsius)

	// A tie at one decimal is x.x5, which is exact in binary only as an odd
	// multiple of 0.25. Scaling by 4 is exact, so the check is too.
	if q := abs * 4; q == math.Trunc(q) && math.Mod(q, 2) == 1 {
		abs = math.Ceil(abs*10) / 10
	}
	return sign + strconv.FormatFloat(abs, 'f', 1, 64)
}

// Build maps a screen state to its view, one card per forecast entry in
// the state's order.
func Build(state screen.State, table *icons.Table) View {
	v := View{
		Label: state.Label(),
		Cards: []Card{},
	}

	switch state.Phase {
	case screen.PhaseLoading:
		v.Loading = true
		return v
	case screen.PhaseDenied:
		v.Notice = "Location access denied. Allow location access to see the forecast."
		return v
	case screen.PhaseError:
		v.Notice = notice(state.Error)
		return v
	}

	n := len(state.Entries)
	v.Cards = make([]Card, 0, n)
	for i, e := range state.Entries {
		icon := table.Lookup(e.Main)
		card := Card{
			Page:        i + 1,
			Of:          n,
			Icon:        icon.Name,
			Glyph:       icon.Glyph,
			Temperature: FormatTemperature(e.Temperature),
			Condition:   e.Main,
			Description: e.Description,
		}
		if !e.Time.IsZero() {
			card.Time = e.Time.Format("2006-01-02 15:04")
		}
		v.Cards = append(v.Cards, card)
	}
	return v
}

func notice(kind screen.ErrorKind) string {
	switch kind {
	case screen.KindLocationUnavailable:
		return "Could not determine your location."
	case screen.KindNetwork:
		return "Could not reach the weather service."
	case screen.KindMalformedForecast:
		return "The weather service sent an unreadable forecast."
	case screen.KindEmptyForecast:
		return "The weather service has no forecast for this location."
	case screen.KindNotConfigured:
		return "The weather service is not configured."
	default:
		return fmt.Sprintf("Forecast unavailable (%s).", kind)
	}
}
