package storage

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/migration"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/utils"
)

// ErrorHook receives every storage failure the RecordStore swallows. op names
// the RecordStore operation, e.g. "upsert".
type ErrorHook func(op string, err error)

// RecordStore persists check-ins, unavailable hours, priorities, BeastMode
// state and settings over a Backend.
//
// It never returns storage errors: reads fall back to empty or default values
// and failed writes are dropped. Failures are logged and passed to the
// optional ErrorHook.
type RecordStore struct {
	backend Backend
	mu      sync.Mutex
	hookMu  sync.RWMutex
	onError ErrorHook
}

type RecordStoreOption func(*RecordStore)

func WithErrorHook(hook ErrorHook) RecordStoreOption {
	return func(s *RecordStore) {
		s.onError = hook
	}
}

func NewRecordStore(backend Backend, opts ...RecordStoreOption) *RecordStore {
	s := &RecordStore{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnError replaces the error hook. A nil hook disables it.
func (s *RecordStore) OnError(hook ErrorHook) {
	s.hookMu.Lock()
	s.onError = hook
	s.hookMu.Unlock()
}

func (s *RecordStore) Backend() Backend {
	return s.backend
}

func (s *RecordStore) fail(op string, err error) {
	logger.Warn("Storage operation failed", "op", op, "error", err)
	s.hookMu.RLock()
	hook := s.onError
	s.hookMu.RUnlock()
	if hook != nil {
		hook(op, err)
	}
}

func (s *RecordStore) load(ctx context.Context) (migration.Decoded, error) {
	value, found, err := s.backend.Get(ctx, constants.KeyCheckIns)
	if err != nil {
		return migration.Decoded{}, err
	}
	if !found || strings.TrimSpace(value) == "" {
		return migration.Decoded{}, nil
	}
	return migration.DecodeRecords([]byte(value), func(i int, err error) {
		logger.Warn("Skipping unreadable check-in", "index", i, "error", err)
	})
}

// LoadAll returns every check-in, migrated to the current shape, one per
// (date, hour). It never writes back.
func (s *RecordStore) LoadAll(ctx context.Context) []models.CheckInRecord {
	dec := s.LoadHistory(ctx)
	if dec.Records == nil {
		return []models.CheckInRecord{}
	}
	return dec.Records
}

// LoadHistory returns the decoded check-in array including duplicated and
// unreadable entries.
func (s *RecordStore) LoadHistory(ctx context.Context) migration.Decoded {
	s.mu.Lock()
	defer s.mu.Unlock()

	dec, err := s.load(ctx)
	if err != nil {
		s.fail("load checkins", err)
		return migration.Decoded{}
	}
	return dec
}

// Upsert replaces the record with the same (date, hour) or appends it. When
// the current array cannot be read the write is dropped so stored history is
// not replaced by a single record. Entries that cannot be decoded are written
// back unchanged.
func (s *RecordStore) Upsert(ctx context.Context, record models.CheckInRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dec, err := s.load(ctx)
	if err != nil {
		s.fail("upsert", err)
		return
	}

	record = record.Normalize()
	records := dec.Records
	replaced := false
	for i := range records {
		if records[i].Key() == record.Key() {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	data, err := migration.EncodeRecords(records, dec.Unreadable...)
	if err != nil {
		s.fail("upsert", err)
		return
	}
	if err := s.backend.Set(ctx, constants.KeyCheckIns, string(data)); err != nil {
		s.fail("upsert", err)
		return
	}
	logger.Debug("Check-in saved", "slot", record.Key(), "result", record.Result)
}

// Find returns the record for (date, hour).
func (s *RecordStore) Find(ctx context.Context, date string, hour int) (models.CheckInRecord, bool) {
	key := models.SlotKey{Date: date, Hour: hour}
	for _, r := range s.LoadAll(ctx) {
		if r.Key() == key {
			return r, true
		}
	}
	return models.CheckInRecord{}, false
}

// LoadDay returns the records of one date ordered by hour.
func (s *RecordStore) LoadDay(ctx context.Context, date string) []models.CheckInRecord {
	var day []models.CheckInRecord
	for _, r := range s.LoadAll(ctx) {
		if r.Date == date {
			day = append(day, r)
		}
	}
	sort.Slice(day, func(i, j int) bool { return day[i].Hour < day[j].Hour })
	return day
}

func (s *RecordStore) loadUnavailable(ctx context.Context) (models.HourSet, error) {
	value, found, err := s.backend.Get(ctx, constants.KeyUnavailableHours)
	if err != nil {
		return nil, err
	}
	if !found || strings.TrimSpace(value) == "" {
		return models.NewHourSet(), nil
	}
	var hours models.HourSet
	if err := json.Unmarshal([]byte(value), &hours); err != nil {
		return nil, err
	}
	return hours, nil
}

func (s *RecordStore) saveUnavailable(ctx context.Context, hours models.HourSet) error {
	data, err := json.Marshal(hours)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, constants.KeyUnavailableHours, string(data))
}

// LoadUnavailable returns the hours marked unavailable on every day.
func (s *RecordStore) LoadUnavailable(ctx context.Context) models.HourSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	hours, err := s.loadUnavailable(ctx)
	if err != nil {
		s.fail("load unavailable", err)
		return models.NewHourSet()
	}
	return hours
}

func (s *RecordStore) SaveUnavailable(ctx context.Context, hours models.HourSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hours == nil {
		hours = models.NewHourSet()
	}
	if err := s.saveUnavailable(ctx, hours); err != nil {
		s.fail("save unavailable", err)
	}
}

// ToggleUnavailable flips hour and returns the resulting set. An unreadable
// set is left untouched and an empty set is returned.
func (s *RecordStore) ToggleUnavailable(ctx context.Context, hour int) models.HourSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	hours, err := s.loadUnavailable(ctx)
	if err != nil {
		s.fail("toggle unavailable", err)
		return models.NewHourSet()
	}
	hours.Toggle(hour)
	if err := s.saveUnavailable(ctx, hours); err != nil {
		s.fail("toggle unavailable", err)
	}
	return hours
}

func prioritiesKey(date string) string {
	return constants.KeyPrioritiesPrefix + date
}

// LoadPriorities returns the MYBED list for date; unset days yield six "".
func (s *RecordStore) LoadPriorities(ctx context.Context, date string) models.Priorities {
	value, found, err := s.backend.Get(ctx, prioritiesKey(date))
	if err != nil {
		s.fail("load priorities", err)
		return models.Priorities{}
	}
	if !found {
		return models.Priorities{}
	}
	var items models.Priorities
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		s.fail("load priorities", err)
		return models.Priorities{}
	}
	return items
}

func (s *RecordStore) SavePriorities(ctx context.Context, date string, items models.Priorities) {
	data, err := json.Marshal(items)
	if err != nil {
		s.fail("save priorities", err)
		return
	}
	if err := s.backend.Set(ctx, prioritiesKey(date), string(data)); err != nil {
		s.fail("save priorities", err)
	}
}

func (s *RecordStore) ClearPriorities(ctx context.Context, date string) {
	if err := s.backend.Delete(ctx, prioritiesKey(date)); err != nil {
		s.fail("clear priorities", err)
	}
}

// PriorityDates lists the dates that have a saved MYBED list.
func (s *RecordStore) PriorityDates(ctx context.Context) []string {
	keys, err := s.backend.Keys(ctx, constants.KeyPrioritiesPrefix)
	if err != nil {
		s.fail("list priorities", err)
		return nil
	}
	dates := make([]string, 0, len(keys))
	for _, key := range keys {
		dates = append(dates, strings.TrimPrefix(key, constants.KeyPrioritiesPrefix))
	}
	return dates
}

// LoadSchedulerState reads the persisted BeastMode state.
func (s *RecordStore) LoadSchedulerState(ctx context.Context) models.SchedulerState {
	var state models.SchedulerState

	enabled, found, err := s.backend.Get(ctx, constants.KeyBeastModeEnabled)
	if err != nil {
		s.fail("load beast mode", err)
	} else if found {
		state.Enabled = enabled == "true"
	}

	last, found, err := s.backend.Get(ctx, constants.KeyBeastLastSubmit)
	if err != nil {
		s.fail("load beast mode", err)
	} else if found {
		ms, err := strconv.ParseInt(strings.TrimSpace(last), 10, 64)
		if err != nil {
			s.fail("load beast mode", err)
		} else {
			state.LastSubmitAt = utils.FromEpochMillis(ms)
		}
	}
	return state
}

func (s *RecordStore) SaveSchedulerState(ctx context.Context, state models.SchedulerState) {
	if err := s.backend.Set(ctx, constants.KeyBeastModeEnabled, strconv.FormatBool(state.Enabled)); err != nil {
		s.fail("save beast mode", err)
	}
	ms := utils.ToEpochMillis(state.LastSubmitAt)
	if err := s.backend.Set(ctx, constants.KeyBeastLastSubmit, strconv.FormatInt(ms, 10)); err != nil {
		s.fail("save beast mode", err)
	}
}

// LoadSettings returns the stored settings with defaults applied.
func (s *RecordStore) LoadSettings(ctx context.Context) models.Settings {
	keys, err := s.backend.Keys(ctx, constants.KeySettingsPrefix)
	if err != nil {
		s.fail("load settings", err)
		return models.DefaultSettings()
	}

	data := make(map[string]string, len(keys))
	for _, key := range keys {
		value, found, err := s.backend.Get(ctx, key)
		if err != nil {
			s.fail("load settings", err)
			return models.DefaultSettings()
		}
		if found {
			data[strings.TrimPrefix(key, constants.KeySettingsPrefix)] = value
		}
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		s.fail("load settings", err)
		return models.DefaultSettings()
	}
	return settings
}

func (s *RecordStore) SaveSettings(ctx context.Context, settings models.Settings) {
	for key, value := range models.SettingsToMap(settings) {
		if err := s.backend.Set(ctx, constants.KeySettingsPrefix+key, value); err != nil {
			s.fail("save settings", err)
			return
		}
	}
}
