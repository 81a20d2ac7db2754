package metrics

import (
	"math"

	"github.com/san-kum/labsim/internal/dynamo"
)

// Energy averages the energy of every observed frame.
type Energy struct {
	name        string
	sys         dynamo.Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(sys dynamo.Hamiltonian) *Energy {
	return &Energy{name: "energy", sys: sys}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f dynamo.Frame, t float64) {
	sf, ok := f.(dynamo.StateFrame)
	if !ok {
		return
	}
	e.totalEnergy += e.sys.Energy(sf.Vector())
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure from the first observed
// energy.
type EnergyDrift struct {
	name          string
	sys           dynamo.Hamiltonian
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(sys dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", sys: sys}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f dynamo.Frame, t float64) {
	sf, ok := f.(dynamo.StateFrame)
	if !ok {
		return
	}

	energy := e.sys.Energy(sf.Vector())
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Retained is the fraction of the first observed energy still present.
func (e *EnergyDrift) Retained() float64 {
	if e.initialEnergy == 0 {
		return 1
	}
	return e.currentEnergy / e.initialEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// EnergyRise counts observed frames whose energy exceeds the previous frame's
// by more than tolerance, relative to the first observed energy.
type EnergyRise struct {
	name      string
	sys       dynamo.Hamiltonian
	tolerance float64
	reference float64
	last      float64
	rises     int
	samples   int
}

func NewEnergyRise(sys dynamo.Hamiltonian, tolerance float64) *EnergyRise {
	return &EnergyRise{name: "energy_rises", sys: sys, tolerance: tolerance}
}

func (e *EnergyRise) Name() string { return e.name }

func (e *EnergyRise) Observe(f dynamo.Frame, t float64) {
	sf, ok := f.(dynamo.StateFrame)
	if !ok {
		return
	}

	energy := e.sys.Energy(sf.Vector())
	if e.samples == 0 {
		e.reference = math.Abs(energy)
	} else if energy-e.last > e.tolerance*e.reference {
		e.rises++
	}
	e.last = energy
	e.samples++
}

func (e *EnergyRise) Value() float64 { return float64(e.rises) }

func (e *EnergyRise) Reset() {
	e.reference = 0
	e.last = 0
	e.rises = 0
	e.samples = 0
}
