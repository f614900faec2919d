package enchant

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Cost is an expected number of orbs. It may be +Inf when a step on the path
// can never succeed; it is never NaN.
type Cost float64

// Infinite is the sentinel for an unreachable level.
var Infinite = Cost(math.Inf(1))

const infinityJSON = "Infinity"

func (c Cost) IsInfinite() bool { return math.IsInf(float64(c), 1) }

// Add treats +Inf as absorbing.
func (c Cost) Add(o Cost) Cost {
	if c.IsInfinite() || o.IsInfinite() {
		return Infinite
	}
	return c + o
}

// String renders the cost the way the tracker displays it: "∞" for
// unreachable, K/M/B/T suffixes for large values.
func (c Cost) String() string {
	return FormatOrbs(float64(c))
}

// MarshalJSON emits a plain number, or the string "Infinity".
func (c Cost) MarshalJSON() ([]byte, error) {
	if c.IsInfinite() {
		return json.Marshal(infinityJSON)
	}
	if math.IsNaN(float64(c)) {
		return nil, fmt.Errorf("enchant: cost is NaN")
	}
	return json.Marshal(float64(c))
}

func (c *Cost) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != infinityJSON {
			return fmt.Errorf("enchant: invalid cost %q", s)
		}
		*c = Infinite
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = Cost(f)
	return nil
}

// FormatOrbs renders an orb count for display.
func FormatOrbs(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsNaN(v):
		return "?"
	case v >= 1e12:
		return fmt.Sprintf("%.1fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e4:
		return fmt.Sprintf("%.1fK", v/1e3)
	case v >= 1000:
		return humanize.Comma(int64(math.Round(v)))
	case v >= 100:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
