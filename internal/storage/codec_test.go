package storage

import (
	"encoding/json"
	"errors"
	"testing"

	"creatura/internal/model"
)

func TestCodecStampsCurrentVersions(t *testing.T) {
	data, err := EncodeGenome(testGenome("g1"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeGenome(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SchemaVersion != CurrentSchemaVersion || got.CodecVersion != CurrentCodecVersion {
		t.Fatalf("versions not stamped: schema=%d codec=%d", got.SchemaVersion, got.CodecVersion)
	}
	if got.ID != "g1" || len(got.Muscles) != 1 {
		t.Fatalf("payload corrupted: %+v", got)
	}
}

func TestDecodeRejectsStaleVersions(t *testing.T) {
	genome := testGenome("g1")
	genome.VersionedRecord = model.VersionedRecord{SchemaVersion: 0, CodecVersion: CurrentCodecVersion}
	data, err := json.Marshal(genome)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := DecodeGenome(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("want ErrVersionMismatch, got %v", err)
	}

	population := model.Population{ID: "p1"}
	population.CodecVersion = CurrentCodecVersion + 1
	population.SchemaVersion = CurrentSchemaVersion
	data, err = json.Marshal(population)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := DecodePopulation(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("want ErrVersionMismatch, got %v", err)
	}
}

func TestTopGenomeRecordsCarryVersions(t *testing.T) {
	top := []model.TopGenomeRecord{
		{RunID: "run-1", Generation: 2, Rank: 0, Fitness: 7.5, Genome: testGenome("g2-i0")},
	}
	data, err := EncodeTopGenomes(top)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeTopGenomes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("unexpected records: %+v", got)
	}
}
