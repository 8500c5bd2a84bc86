package markovchain_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/markovchain"
	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/serializer"
	"github.com/aretw0/markovchain/pkg/transition"
)

// ExampleChain_Run integrates a decay with the Euler solver and resamples it onto a
// unit grid. The counter records how much mass left the system.
func ExampleChain_Run() {
	chain := markovchain.New()
	if err := chain.RegisterState("A", 100); err != nil {
		log.Fatal(err)
	}
	if err := chain.RegisterCounter("decayed"); err != nil {
		log.Fatal(err)
	}
	if err := chain.RegisterTransition(transition.NewIndividualToVoid("A", 0.5, transition.WithCounters("decayed"))); err != nil {
		log.Fatal(err)
	}
	_ = chain.SetMaxTime(3)
	_ = chain.SetSolver(domain.SolverEuler)
	_ = chain.SetStepSize(1)

	grid, err := serializer.NewGrid(0, 1, 3)
	if err != nil {
		log.Fatal(err)
	}
	table, err := chain.Run(context.Background(), grid, domain.InterpolateLinear)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(table.Columns())
	fmt.Println(table.Time())
	fmt.Println(table.Column("A"))
	fmt.Println(table.Column("decayed"))
	// Output:
	// [A decayed]
	// [0 1 2 3]
	// [100 50 25 12.5]
	// [0 50 75 87.5]
}

// ExampleChain_Solve shows an absorbed run: nothing can fire, so time jumps to the end.
func ExampleChain_Solve() {
	chain := markovchain.New(markovchain.WithSeed(1))
	_ = chain.RegisterState("Infected", 0)
	_ = chain.RegisterState("Recovered", 25)
	_ = chain.RegisterTransition(transition.NewIndividual("Infected", "Recovered", 0.2))
	_ = chain.SetMaxTime(10)
	_ = chain.SetSerializer(serializer.NewRecorder())

	stats, err := chain.Solve(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(stats.Absorbed, stats.AbsorbedAt, stats.FinalTime, chain.Value("Recovered"))
	// Output:
	// true 0 10 25
}
