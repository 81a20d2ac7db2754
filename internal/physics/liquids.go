package physics

import (
	"fmt"

	"github.com/san-kum/labsim/internal/dynamo"
)

type MeniscusType string

const (
	Concave MeniscusType = "concave"
	Convex  MeniscusType = "convex"
)

type LiquidKind string

const (
	Water   LiquidKind = "water"
	Mercury LiquidKind = "mercury"
	Oil     LiquidKind = "oil"
	Alcohol LiquidKind = "alcohol"
)

// LiquidProfile holds the fixed physical and display properties of a liquid.
type LiquidProfile struct {
	Kind           LiquidKind
	Color          string
	MeniscusHeight float64
	MeniscusType   MeniscusType
	Viscosity      float64
	Opacity        float64
	Description    string
}

var liquidOrder = []LiquidKind{Water, Mercury, Oil, Alcohol}

var liquidCatalog = map[LiquidKind]LiquidProfile{
	Water: {
		Kind:           Water,
		Color:          "#3498db",
		MeniscusHeight: 0.05,
		MeniscusType:   Concave,
		Viscosity:      1,
		Opacity:        0.8,
		Description:    "Adhesion to glass beats cohesion, so the surface curves up at the wall.",
	},
	Mercury: {
		Kind:           Mercury,
		Color:          "#bdc3c7",
		MeniscusHeight: 0.03,
		MeniscusType:   Convex,
		Viscosity:      1.5,
		Opacity:        1,
		Description:    "Cohesion beats adhesion to glass, so the surface bulges up in the middle.",
	},
	Oil: {
		Kind:           Oil,
		Color:          "#f1c40f",
		MeniscusHeight: 0.02,
		MeniscusType:   Concave,
		Viscosity:      2,
		Opacity:        0.7,
		Description:    "A shallow concave meniscus; high viscosity makes the surface settle slowly.",
	},
	Alcohol: {
		Kind:           Alcohol,
		Color:          "#e74c3c",
		MeniscusHeight: 0.06,
		MeniscusType:   Concave,
		Viscosity:      0.8,
		Opacity:        0.75,
		Description:    "A pronounced concave meniscus and lower viscosity than water.",
	},
}

// Liquids returns the catalog in display order.
func Liquids() []LiquidProfile {
	out := make([]LiquidProfile, 0, len(liquidOrder))
	for _, k := range liquidOrder {
		out = append(out, liquidCatalog[k])
	}
	return out
}

func LookupLiquid(name string) (LiquidProfile, error) {
	l, ok := liquidCatalog[LiquidKind(name)]
	if !ok {
		return LiquidProfile{}, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownLiquid)
	}
	return l, nil
}
