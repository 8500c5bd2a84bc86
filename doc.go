/*
Package markovchain is a continuous-time Markov jump process engine.

A Chain holds a set of named real-valued states and the transitions that move mass
between them. Every transition has a rate computed from the current state; the
engine fires transitions at random times (exact mode) or integrates their rates over
fixed steps (Euler and tau-leap modes), and hands every event to a Serializer.
The Resampler serializer turns the irregular event stream into a table on a fixed
output grid.

# Concept

The reserved state Void is an unbounded source and sink: a transition from Void
creates mass, a transition to Void removes it. Void reads as zero and never shows up
in the output.

Registration happens before the first Solve. Registration errors surface
immediately as *domain.ConfigurationError; a rate that turns negative or non-finite
during a run aborts it with a *domain.NumericalError and no partial output.
A run whose total rate drops to zero is absorbed: time jumps to the end and the
last state is held.

# Usage

	chain := markovchain.New(markovchain.WithSeed(42))
	_ = chain.RegisterState("S", 990)
	_ = chain.RegisterState("I", 10)
	_ = chain.RegisterState("R", 0)
	_ = chain.RegisterTransition(transition.NewMassActionByPopulation("S", "I", 0.3,
		[]string{"S", "I", "R"}, transition.WithGoverning("I")))
	_ = chain.RegisterTransition(transition.NewIndividual("I", "R", 0.1))
	_ = chain.SetMaxTime(100)

	grid, _ := serializer.NewGrid(0, 1, 100)
	table, err := chain.Run(ctx, grid, domain.InterpolateLinear)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(table.Column("I"))
*/
package markovchain
