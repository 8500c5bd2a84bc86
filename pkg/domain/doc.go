/*
Package domain contains the core vocabulary shared by every layer of the engine.

It defines the reserved names, the solver and interpolation modes, the error
taxonomy and the lifecycle hooks. This package is kept pure and free of external
dependencies, following the same rule as the rest of the core.

# Key Entities

  - Void: the reserved infinite source/sink state.
  - SolverMode: exact event-driven stepping, Euler flow or tau-leaping.
  - Interpolation: how the resampler fills the output grid.
  - ConfigurationError / NumericalError: the two fatal error families.
  - LifecycleHooks: callbacks for logging and metrics.
*/
package domain
