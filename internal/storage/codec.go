package storage

import (
	"encoding/json"
	"errors"

	"pelagos/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(run model.RunRecord) ([]byte, error) {
	return json.Marshal(run)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeMigrationHistory(entries []model.MigrationRecord) ([]byte, error) {
	return json.Marshal(entries)
}

func DecodeMigrationHistory(data []byte) ([]model.MigrationRecord, error) {
	var entries []model.MigrationRecord
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func EncodeChampions(champions []model.ChampionRecord) ([]byte, error) {
	return json.Marshal(champions)
}

func DecodeChampions(data []byte) ([]model.ChampionRecord, error) {
	var champions []model.ChampionRecord
	if err := json.Unmarshal(data, &champions); err != nil {
		return nil, err
	}
	return champions, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
