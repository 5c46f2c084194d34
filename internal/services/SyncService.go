package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"goodsync/internal/enka"
	"goodsync/internal/good"
	"goodsync/internal/providers"
	"goodsync/internal/storage"
	"goodsync/internal/storage/interfaces"
	"goodsync/internal/structures"
	"goodsync/internal/translate"
)

// Cache keys under which the latest cycle is published.
const (
	CacheKeyStatus     = "status"
	CacheKeyCollection = "collection"
)

type Totals struct {
	Characters int `json:"characters"`
	Artifacts  int `json:"artifacts"`
	Weapons    int `json:"weapons"`
}

type CycleReport struct {
	Nickname   string           `json:"nickname"`
	UID        string           `json:"uid"`
	File       string           `json:"file"`
	Created    bool             `json:"created"`
	TTL        int              `json:"ttl"`
	Merge      good.MergeReport `json:"merge"`
	Totals     Totals           `json:"totals"`
	Skipped    []translate.Skip `json:"skipped"`
	FinishedAt time.Time        `json:"finishedAt"`
	Duration   string           `json:"duration"`
}

// Stats summarises the cycles run so far.
type Stats struct {
	Cycles      int
	Failures    int
	LastCycleAt time.Time
	LastError   string
}

type SyncServiceInterface interface {
	RunCycle(ctx context.Context) (*CycleReport, error)
	LastReport() (*CycleReport, bool)
	LastCollection() ([]byte, bool)
	Stats() Stats
}

type SyncService struct {
	conf       *structures.Config
	logger     providers.Logger
	fetcher    enka.Fetcher
	translator *translate.Translator
	store      interfaces.CollectionStoreInterface
	cache      providers.CacheProviderInterface
	metrics    providers.MetricsProviderInterface
	now        func() time.Time

	mu             sync.Mutex
	last           *CycleReport
	lastCollection []byte
	stats          Stats
}

// RunCycle fetches the profile, merges it into the account file and saves it.
// Every returned error is fatal for the cycle.
func (s *SyncService) RunCycle(ctx context.Context) (*CycleReport, error) {
	start := s.now()
	report, err := s.runCycle(ctx)
	elapsed := s.now().Sub(start)

	s.metrics.ObserveCycleDuration(elapsed)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Cycles++
	s.stats.LastCycleAt = start
	if err != nil {
		s.stats.Failures++
		s.stats.LastError = err.Error()
		s.metrics.IncCyclesTotal(providers.CycleResultFatal)
		return nil, err
	}

	s.stats.LastError = ""
	s.metrics.IncCyclesTotal(providers.CycleResultOk)
	report.FinishedAt = start.Add(elapsed)
	report.Duration = elapsed.Round(time.Millisecond).String()
	s.last = report
	s.publish(CacheKeyStatus, report)
	return report, nil
}

func (s *SyncService) runCycle(ctx context.Context) (*CycleReport, error) {
	raw, err := s.fetcher.Fetch(ctx, s.conf.Account.UID)
	if err != nil {
		return nil, err
	}

	profile, err := enka.Decode(raw)
	if err != nil {
		return nil, err
	}
	uid := profile.UID
	if uid == "" {
		uid = s.conf.Account.UID
	}

	fileName := storage.FileName(s.conf.Output.Dir, profile.Nickname, uid, s.conf.Output.Compress)
	s.logger.Infof(providers.TypeSync, "Found account: %s, using file: %s.", profile.Nickname, fileName)

	report := &CycleReport{
		Nickname: profile.Nickname,
		UID:      uid,
		File:     fileName,
		TTL:      profile.TTL,
	}

	collection, err := s.store.Load(fileName)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Infof(providers.TypeSync, "File %s not found, creating one.", fileName)
		collection = good.NewCollection(structures.Source())
		report.Created = true
	case err != nil:
		return nil, fmt.Errorf("error while reading old file %s, the program version may have changed: %w", fileName, err)
	default:
		s.logger.Infof(providers.TypeSync, "Found existing file %s, trying to append.", fileName)
	}

	batch, err := s.translator.Translate(profile)
	if err != nil {
		return nil, err
	}
	for _, p := range batch.Progress {
		s.logger.Infof(providers.TypeSync, "%s", p)
	}
	for _, skip := range batch.Skipped {
		s.logger.Warnf(providers.TypeSync, "Skipped %s (owner %q)", skip.Placeholder(), skip.Owner)
		s.metrics.IncSkippedTotal(string(skip.Kind))
	}
	report.Skipped = batch.Skipped

	report.Merge = collection.Merge(batch.Batch)

	saveStart := s.now()
	if err := s.store.Save(collection, fileName); err != nil {
		return nil, fmt.Errorf("save %s: %w", fileName, err)
	}
	s.metrics.ObservePersistenceDuration(s.now().Sub(saveStart))

	report.Totals = Totals{
		Characters: collection.Characters.Len(),
		Artifacts:  collection.Artifacts.Len(),
		Weapons:    collection.Weapons.Len(),
	}
	s.metrics.SetEntitiesTotal("characters", report.Totals.Characters)
	s.metrics.SetEntitiesTotal("artifacts", report.Totals.Artifacts)
	s.metrics.SetEntitiesTotal("weapons", report.Totals.Weapons)

	if data := s.publish(CacheKeyCollection, collection); data != nil {
		s.mu.Lock()
		s.lastCollection = data
		s.mu.Unlock()
	}
	s.logger.Infof(providers.TypeSync, "Saved %s: %d characters, %d artifacts, %d weapons.",
		fileName, report.Totals.Characters, report.Totals.Artifacts, report.Totals.Weapons)
	return report, nil
}

func (s *SyncService) publish(key string, v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to serialize %s: %v", key, err)
		return nil
	}
	s.cache.Set(key, data)
	return data
}

func (s *SyncService) LastReport() (*CycleReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.last != nil
}

// LastCollection is the collection written by the last successful cycle, as JSON.
func (s *SyncService) LastCollection() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCollection, s.lastCollection != nil
}

func (s *SyncService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func NewSyncService(
	conf *structures.Config,
	logger providers.Logger,
	fetcher enka.Fetcher,
	translator *translate.Translator,
	store interfaces.CollectionStoreInterface,
	cache providers.CacheProviderInterface,
	metrics providers.MetricsProviderInterface,
) SyncServiceInterface {
	return &SyncService{
		conf:       conf,
		logger:     logger,
		fetcher:    fetcher,
		translator: translator,
		store:      store,
		cache:      cache,
		metrics:    metrics,
		now:        time.Now,
	}
}
