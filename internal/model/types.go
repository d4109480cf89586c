package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Individual is one candidate solution: a decision vector together with its
// fitness and constraint evaluations. Individuals are copied on migration;
// a value stored in the mailbox is never aliased by a population.
type Individual struct {
	Decision   []float64 `json:"decision"`
	Fitness    []float64 `json:"fitness"`
	Constraint []float64 `json:"constraint,omitempty"`
}

// Clone returns a deep copy of the individual.
func (i Individual) Clone() Individual {
	return Individual{
		Decision:   append([]float64(nil), i.Decision...),
		Fitness:    append([]float64(nil), i.Fitness...),
		Constraint: append([]float64(nil), i.Constraint...),
	}
}

type RunRecord struct {
	VersionedRecord
	RunID          string  `json:"run_id"`
	CreatedAtUTC   string  `json:"created_at_utc"`
	Problem        string  `json:"problem"`
	Algorithm      string  `json:"algorithm"`
	Islands        int     `json:"islands"`
	PopulationSize int     `json:"population_size"`
	Rounds         int     `json:"rounds"`
	Topology       string  `json:"topology"`
	Distribution   string  `json:"distribution"`
	Direction      string  `json:"direction"`
	Rate           string  `json:"rate"`
	BestFitness    float64 `json:"best_fitness"`
}

// MigrationRecord is one migration history entry: count individuals moved
// from origin to destination.
type MigrationRecord struct {
	Count       int `json:"count"`
	Origin      int `json:"origin"`
	Destination int `json:"destination"`
}

// ChampionRecord is the best individual of one island at the end of a run.
type ChampionRecord struct {
	Island   int       `json:"island"`
	Decision []float64 `json:"decision"`
	Fitness  []float64 `json:"fitness"`
}
