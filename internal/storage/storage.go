// Package storage holds the typed per-guild settings the bot persists:
// command prefix, default volume and a short played-tracks history. All
// playback state itself is in-memory only and rebuilt from idle on restart.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"jukebox/internal/datastore"
)

const trackHistoryLimit = 12

type Storage struct {
	ds *datastore.DataStore
}

// Record is everything persisted for one guild.
type Record struct {
	Prefix       string        `json:"prefix,omitempty"`
	Volume       int           `json:"volume,omitempty"`
	TrackHistory []TrackRecord `json:"track_history,omitempty"`
}

type TrackRecord struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Requester string    `json:"requester"`
	PlayedAt  time.Time `json:"played_at"`
}

func New(filePath string, log zerolog.Logger) (*Storage, error) {
	ds, err := datastore.New(filePath, log)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func (s *Storage) guildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		return &Record{}, nil
	}

	// Values read back from disk arrive as generic JSON; round-trip them
	// into the typed record.
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal guild record: %w", err)
	}
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal guild record: %w", err)
	}

	if len(record.TrackHistory) > trackHistoryLimit {
		record.TrackHistory = record.TrackHistory[len(record.TrackHistory)-trackHistoryLimit:]
	}
	return &record, nil
}

// Prefix returns the guild's command prefix, empty when unset.
func (s *Storage) Prefix(guildID string) (string, error) {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return "", err
	}
	return record.Prefix, nil
}

func (s *Storage) SetPrefix(guildID, prefix string) error {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	record.Prefix = prefix
	s.ds.Add(guildID, record)
	return nil
}

// Volume returns the guild's saved default volume, 0 when unset.
func (s *Storage) Volume(guildID string) (int, error) {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return 0, err
	}
	return record.Volume, nil
}

func (s *Storage) SetVolume(guildID string, volume int) error {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	record.Volume = volume
	s.ds.Add(guildID, record)
	return nil
}

// AppendTrackHistory remembers a played track, keeping the newest entries.
func (s *Storage) AppendTrackHistory(guildID string, track TrackRecord) error {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	record.TrackHistory = append(record.TrackHistory, track)
	if len(record.TrackHistory) > trackHistoryLimit {
		record.TrackHistory = record.TrackHistory[len(record.TrackHistory)-trackHistoryLimit:]
	}
	s.ds.Add(guildID, record)
	return nil
}

func (s *Storage) TrackHistory(guildID string) ([]TrackRecord, error) {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.TrackHistory, nil
}
