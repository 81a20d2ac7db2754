package physics

import (
	"fmt"

	"github.com/san-kum/labsim/internal/dynamo"
)

// Medium selects the propagation speed of the wave demo.
type Medium struct {
	Name        string
	Speed       float64
	Color       string
	Description string
}

var mediumOrder = []string{"water", "air", "string", "metal"}

var media = map[string]Medium{
	"water":  {"water", 1.0, "#3498db", "Moderate speed with visible surface patterns."},
	"air":    {"air", 1.5, "#ecf0f1", "Faster than water, slower than solids."},
	"string": {"string", 0.7, "#e74c3c", "Slow, clearly transverse motion."},
	"metal":  {"metal", 2.0, "#95a5a6", "Fastest of the four."},
}

// Media returns the medium table in display order.
func Media() []Medium {
	out := make([]Medium, 0, len(mediumOrder))
	for _, name := range mediumOrder {
		out = append(out, media[name])
	}
	return out
}

func LookupMedium(name string) (Medium, error) {
	m, ok := media[name]
	if !ok {
		return Medium{}, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownMedium)
	}
	return m, nil
}
