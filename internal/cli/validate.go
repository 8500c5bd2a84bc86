package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/markovchain"
	"github.com/aretw0/markovchain/internal/presentation/tui"
	"github.com/aretw0/markovchain/pkg/model"
	"github.com/aretw0/markovchain/pkg/registry"
	"github.com/aretw0/markovchain/pkg/serializer"
)

// Validate loads a model and checks every registration and run setting without solving.
func Validate(path string, reg *registry.Registry, w io.Writer) error {
	f, err := model.Load(path)
	if err != nil {
		return err
	}
	chain, err := f.Build(reg)
	if err != nil {
		return err
	}
	if _, err := attachResampler(f, chain); err != nil {
		return err
	}
	if err := chain.Validate(); err != nil {
		return err
	}
	tui.Status(w, "ok", fmt.Sprintf("%s: %d states, %d counters, %d transitions", path,
		len(chain.States()), len(chain.Counters()), len(chain.Transitions())))
	return nil
}

// attachResampler sets a resampler over the model's output grid as the chain's serializer.
func attachResampler(f *model.File, chain *markovchain.Chain) (*serializer.Resampler, error) {
	grid, err := f.Run.Grid()
	if err != nil {
		return nil, err
	}
	policy, err := f.Run.Policy()
	if err != nil {
		return nil, err
	}
	res := serializer.NewResampler(grid, policy)
	if err := chain.SetSerializer(res); err != nil {
		return nil, err
	}
	return res, nil
}
