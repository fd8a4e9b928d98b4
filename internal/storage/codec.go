package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"garules/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRunRecord(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRunRecord(data []byte) (model.RunRecord, error) {
	var record model.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return record, nil
}

func EncodeFitnessHistory(history map[string][]float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeFitnessHistory(data []byte) (map[string][]float64, error) {
	var history map[string][]float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func EncodeDiagnostics(diagnostics []model.GenerationDiagnostics) ([]byte, error) {
	return json.Marshal(diagnostics)
}

func DecodeDiagnostics(data []byte) ([]model.GenerationDiagnostics, error) {
	var diagnostics []model.GenerationDiagnostics
	if err := json.Unmarshal(data, &diagnostics); err != nil {
		return nil, err
	}
	return diagnostics, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d", ErrVersionMismatch, v.SchemaVersion, v.CodecVersion)
	}
	return nil
}
