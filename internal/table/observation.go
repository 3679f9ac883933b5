package table

import "fmt"

// Column indices of the simulator output.
const (
	ColTemperature = iota
	ColMagnetization
	ColMagnetizationVariance
	ColEnergy
	ColEnergyFluctuation

	// MinObservationColumns is the narrowest row Observations accepts.
	MinObservationColumns
)

// Observation is one simulator row with its columns named.
type Observation struct {
	Temperature           float64 `json:"temperature"`
	Magnetization         float64 `json:"magnetization"`
	MagnetizationVariance float64 `json:"magnetization_variance"`
	Energy                float64 `json:"energy"`
	EnergyFluctuation     float64 `json:"energy_fluctuation"`
}

// Observations maps every row onto an Observation.
// Columns beyond the fifth are ignored.
func (t *Table) Observations() ([]Observation, error) {
	if w := t.Width(); w < MinObservationColumns {
		return nil, &FormatError{
			Message: fmt.Sprintf("need at least %d columns, got %d", MinObservationColumns, w),
		}
	}

	obs := make([]Observation, len(t.Rows))
	for i, row := range t.Rows {
		obs[i] = Observation{
			Temperature:           row[ColTemperature],
			Magnetization:         row[ColMagnetization],
			MagnetizationVariance: row[ColMagnetizationVariance],
			Energy:                row[ColEnergy],
			EnergyFluctuation:     row[ColEnergyFluctuation],
		}
	}
	return obs, nil
}
