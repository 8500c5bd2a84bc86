package main

import "github.com/aretw0/markovchain/pkg/registry"

// rates resolves rate_fn references in model files. The stock binary ships none;
// programs embedding the commands register their own laws here.
var rates = registry.NewRegistry()
