package service

import (
	"fmt"

	"mission-planner/internal/planner/mission"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// ============================================================
// Mission Codec
// ============================================================

// Формат хранения миссии: msgpack []mission.Record, сжатый zstd.

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression), zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(fmt.Sprintf("zstd encoder: %v", err))
	}
	decoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		panic(fmt.Sprintf("zstd decoder: %v", err))
	}
}

func EncodeMission(entries []mission.Entry) ([]byte, error) {
	raw, err := msgpack.Marshal(mission.ToRecords(entries))
	if err != nil {
		return nil, fmt.Errorf("encode mission: %w", err)
	}
	return encoder.EncodeAll(raw, nil), nil
}

func DecodeMission(data []byte) ([]mission.Entry, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress mission: %w", err)
	}

	var records []mission.Record
	if err := msgpack.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode mission: %w", err)
	}
	return mission.FromRecords(records)
}
