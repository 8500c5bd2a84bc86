/*
Package dsl provides a fluent builder for assembling a markovchain.Chain in Go code.

It is the programmatic counterpart of the YAML model files in pkg/model: states,
counters and flows are declared in any order and checked together when Build is
called, so one call reports every mistake at once.

Example usage:

	b := dsl.New()
	b.State("S", 990).State("I", 10).State("R", 0).Counter("infections")

	b.Flow("S", "I").
		MassActionByPopulation(0.3, "S", "I", "R").
		Governing("I").
		Count("infections")

	b.Flow("I", "R").Individual(0.1)
	b.Until(100)

	chain, err := b.Build(markovchain.WithSeed(7))
*/
package dsl
