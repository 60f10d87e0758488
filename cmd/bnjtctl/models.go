package main

import (
	"sort"

	"github.com/JohnPierman/bnjt/bnet"
	"github.com/JohnPierman/bnjt/examples"
	"github.com/pkg/errors"
)

// ErrUnknownModel is returned by loadModel for a name not in modelBuilders.
var ErrUnknownModel = errors.New("bnjtctl: unknown model")

var modelBuilders = map[string]func() (*bnet.DiscreteNetwork, error){
	"student":   examples.Student,
	"sprinkler": examples.Sprinkler,
	"alarm":     examples.Alarm,
}

func modelNames() []string {
	names := make([]string, 0, len(modelBuilders))
	for name := range modelBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadModel(name string) (*bnet.DiscreteNetwork, error) {
	build, ok := modelBuilders[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownModel, "%q (available: %v)", name, modelNames())
	}
	return build()
}
