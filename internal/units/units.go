// Package units converts between physical SI quantities (km/h, meters, kWh, kW, km)
// and the simulation's own units of distance (cell) and time (step).
package units

// Options configures a Units value. All fields use the physical units named, not
// simulation units; Units derives simulation-facing conversions from them once.
type Options struct {
	// SpeedKmh is the reference vehicle speed, in km/h.
	SpeedKmh float64
	// CellLengthM is the physical length of one grid cell, in meters.
	CellLengthM float64
	// SimSpeedCellsPerStep is the simulation's base speed, in cells/step.
	SimSpeedCellsPerStep float64
	// BatteryKwh is full-battery capacity, in kWh.
	BatteryKwh float64
	// CsPowerKw is charging-station output power, in kW.
	CsPowerKw float64
	// AutonomyKm is the distance a full battery affords, in km.
	AutonomyKm float64
}

// Units is a pure value object: every method is a deterministic function of the values
// captured at construction. All conversions return floating-point; callers needing an
// integer step count truncate toward zero themselves.
type Units struct {
	opts Options

	// stepToS is the number of seconds simulated by one tick.
	stepToS float64
	// autonomyCells is the number of cells a full battery can traverse.
	autonomyCells float64
	// stepsPerRechargeCell is how many ticks it takes to recharge the energy for one cell.
	stepsPerRechargeCell float64
}

// New derives a Units instance from the given physical options.
func New(opts Options) *Units {
	u := &Units{opts: opts}

	speedMPerS := opts.SpeedKmh * 1000 / 3600
	u.stepToS = (opts.CellLengthM * opts.SimSpeedCellsPerStep) / speedMPerS

	batteryJ := opts.BatteryKwh * 3.6e6
	csPowerW := opts.CsPowerKw * 1000
	timeToFullChargeS := batteryJ / csPowerW

	u.autonomyCells = (opts.AutonomyKm * 1000) / opts.CellLengthM
	u.stepsPerRechargeCell = (timeToFullChargeS / u.stepToS) / u.autonomyCells

	return u
}

// AutonomyCells returns the number of cells a fully charged EV can traverse.
func (u *Units) AutonomyCells() float64 {
	return u.autonomyCells
}

// StepToSeconds returns the number of seconds simulated by one tick.
func (u *Units) StepToSeconds() float64 {
	return u.stepToS
}

// MinutesToSteps converts a duration in minutes to a number of ticks.
func (u *Units) MinutesToSteps(minutes float64) float64 {
	return minutes * 60 / u.stepToS
}

// StepsToMinutes converts a number of ticks to minutes.
func (u *Units) StepsToMinutes(steps float64) float64 {
	return steps * u.stepToS / 60
}

// SimSpeedToKmh converts a speed in cells/step to km/h.
func (u *Units) SimSpeedToKmh(cellsPerStep float64) float64 {
	return cellsPerStep * u.opts.CellLengthM / u.stepToS * 3.6
}

// StepsToRechargeSteps returns how many ticks are needed to recharge the energy
// equivalent of the given number of cells of travel.
func (u *Units) StepsToRechargeSteps(cells float64) float64 {
	return u.stepsPerRechargeCell * cells
}
