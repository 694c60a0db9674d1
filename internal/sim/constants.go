// Package sim advances the height field: wave propagation, impulse
// injection, sphere displacement coupling, and normal reconstruction.
package sim

// Solver constants tuned for a 256x256 grid at 4 sub-steps per frame.
// These must keep their exact values to reproduce the reference motion;
// running at another resolution or tick rate requires re-tuning.
const (
	DefaultStiffness = 2.0
	DefaultDamping   = 0.995
	// DefaultVolumeScale converts sphere column volume into surface
	// height offset for the displacement operator.
	DefaultVolumeScale = 0.1
	// DefaultSubSteps is how many propagation steps run per engine tick.
	DefaultSubSteps = 4
)
