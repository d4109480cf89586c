package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pelagosapi "pelagos/pkg/pelagos"
)

type runConfig struct {
	Problem        string  `yaml:"problem"`
	Dimension      int     `yaml:"dimension"`
	Algorithm      string  `yaml:"algorithm"`
	Islands        int     `yaml:"islands"`
	PopulationSize int     `yaml:"population_size"`
	Rounds         int     `yaml:"rounds"`
	BudgetMS       int     `yaml:"budget_ms"`
	Seed           int64   `yaml:"seed"`
	Distribution   string  `yaml:"distribution"`
	Direction      string  `yaml:"direction"`
	RateKind       string  `yaml:"rate_kind"`
	RateValue      float64 `yaml:"rate_value"`
	Selector       string  `yaml:"selector"`
	Replacement    string  `yaml:"replacement"`
	Edges          [][]int `yaml:"edges"`
}

func loadRunRequestFromConfig(path string) (pelagosapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pelagosapi.RunRequest{}, err
	}
	var cfg runConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return pelagosapi.RunRequest{}, fmt.Errorf("parse run config %s: %w", path, err)
	}

	req := pelagosapi.RunRequest{
		Problem:        cfg.Problem,
		Dimension:      cfg.Dimension,
		Algorithm:      cfg.Algorithm,
		Islands:        cfg.Islands,
		PopulationSize: cfg.PopulationSize,
		Rounds:         cfg.Rounds,
		Budget:         time.Duration(cfg.BudgetMS) * time.Millisecond,
		Seed:           cfg.Seed,
		Distribution:   cfg.Distribution,
		Direction:      cfg.Direction,
		Rate:           pelagosapi.RateSpec{Kind: cfg.RateKind, Value: cfg.RateValue},
		Selector:       cfg.Selector,
		Replacement:    cfg.Replacement,
	}
	for i, edge := range cfg.Edges {
		if len(edge) != 2 {
			return pelagosapi.RunRequest{}, fmt.Errorf("run config %s: edge %d must be a [from, to] pair", path, i)
		}
		req.Edges = append(req.Edges, [2]int{edge[0], edge[1]})
	}
	return req, nil
}
