package systems

import (
	"testing"

	"github.com/pthm-cable/meadow/components"
)

var testEnergyParams = EnergyParams{BaseCost: 1.2, MoveCost: 0.6}

func TestMetabolizeDrainsAndAges(t *testing.T) {
	a := components.Agent{Energy: 100, MaxEnergy: 160, Alive: true}

	cause := Metabolize(&a, false, 0, testEnergyParams, 1.0)

	if cause != CauseNone {
		t.Errorf("cause = %v, want none", cause)
	}
	if a.Energy != 100-1.2 {
		t.Errorf("Energy = %f, want %f", a.Energy, 100-1.2)
	}
	if a.Age != 1.0 {
		t.Errorf("Age = %f, want 1.0", a.Age)
	}
}

func TestMetabolizeMovingCostsMore(t *testing.T) {
	idle := components.Agent{Energy: 100, MaxEnergy: 160, Alive: true}
	moving := components.Agent{Energy: 100, MaxEnergy: 160, Alive: true}

	Metabolize(&idle, false, 0, testEnergyParams, 1.0)
	Metabolize(&moving, true, 0, testEnergyParams, 1.0)

	if moving.Energy >= idle.Energy {
		t.Errorf("moving drain %f not greater than idle drain %f", 100-moving.Energy, 100-idle.Energy)
	}
}

func TestMetabolizeStarvation(t *testing.T) {
	a := components.Agent{Energy: 0.5, MaxEnergy: 160, Alive: true}

	cause := Metabolize(&a, false, 0, testEnergyParams, 1.0)

	if cause != CauseStarvation {
		t.Errorf("cause = %v, want starvation", cause)
	}
	if a.Alive {
		t.Error("starved agent still alive")
	}
	if a.Energy != 0 {
		t.Errorf("Energy = %f, want clamped 0", a.Energy)
	}
}

func TestMetabolizeOldAge(t *testing.T) {
	a := components.Agent{Energy: 100, MaxEnergy: 160, Age: 119.5, Alive: true}

	cause := Metabolize(&a, false, 120, testEnergyParams, 1.0)

	if cause != CauseOldAge {
		t.Errorf("cause = %v, want old_age", cause)
	}
	if a.Alive {
		t.Error("aged-out agent still alive")
	}
}

func TestMetabolizeZeroDeathAgeDisablesLimit(t *testing.T) {
	a := components.Agent{Energy: 100, MaxEnergy: 160, Age: 100000, Alive: true}

	if cause := Metabolize(&a, false, 0, testEnergyParams, 1.0); cause != CauseNone {
		t.Errorf("cause = %v, want none with age limit disabled", cause)
	}
}

func TestDeathCauseStrings(t *testing.T) {
	tests := []struct {
		cause DeathCause
		want  string
	}{
		{CauseNone, "none"},
		{CauseStarvation, "starvation"},
		{CauseOldAge, "old_age"},
	}
	for _, tt := range tests {
		if got := tt.cause.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFeedClampsToCapacity(t *testing.T) {
	a := components.Agent{Energy: 150, MaxEnergy: 160, Alive: true}
	f := components.Food{Energy: 18}

	gain := Feed(&a, &f)

	if gain != 10 {
		t.Errorf("gain = %f, want clamped 10", gain)
	}
	if a.Energy != 160 {
		t.Errorf("Energy = %f, want 160", a.Energy)
	}
}

func TestFeedFullGain(t *testing.T) {
	a := components.Agent{Energy: 100, MaxEnergy: 160, Alive: true}
	f := components.Food{Energy: 18}

	if gain := Feed(&a, &f); gain != 18 {
		t.Errorf("gain = %f, want 18", gain)
	}
	if a.Energy != 118 {
		t.Errorf("Energy = %f, want 118", a.Energy)
	}
}
