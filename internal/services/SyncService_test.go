package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"goodsync/internal/good"
	"goodsync/internal/lookup"
	"goodsync/internal/providers"
	"goodsync/internal/storage"
	"goodsync/internal/structures"
	"goodsync/internal/testutil"
	"goodsync/internal/translate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileDoc = `{
  "playerInfo": {"nickname": "Aether"},
  "uid": "700378769",
  "ttl": 55,
  "avatarInfoList": [
    {
      "avatarId": 10000032,
      "propMap": {"4001": {"val": "80"}, "1002": {"val": "5"}},
      "talentIdList": [321, 322, 323, 324, 325],
      "skillDepotId": 3201,
      "skillLevelMap": {"10321": 1, "10322": 8, "10323": 8},
      "equipList": [
        {
          "reliquary": {"level": 21},
          "flat": {
            "setNameTextMapHash": "1",
            "rankLevel": 5,
            "equipType": "EQUIP_DRESS",
            "reliquaryMainstat": {"mainPropId": "FIGHT_PROP_HEAL_ADD", "statValue": 35.9},
            "reliquarySubstats": [{"appendPropId": "FIGHT_PROP_HP_PERCENT", "statValue": 9.9}]
          }
        },
        {
          "reliquary": {"level": 1},
          "flat": {
            "setNameTextMapHash": "404",
            "rankLevel": 4,
            "equipType": "EQUIP_RING",
            "reliquaryMainstat": {"mainPropId": "FIGHT_PROP_HP_PERCENT", "statValue": 6.3}
          }
        },
        {
          "itemId": 11417,
          "weapon": {"level": 90, "promoteLevel": 6, "affixMap": {"111417": 4}},
          "flat": {"nameTextMapHash": "2", "rankLevel": 4}
        }
      ]
    }
  ]
}`

type fakeFetcher struct {
	body  []byte
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, uid string) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

type syncFixture struct {
	service *SyncService
	fetcher *fakeFetcher
	logger  *testutil.MockLogger
	cache   *testutil.MockCache
	metrics *testutil.MockMetrics
	dir     string
}

func newSyncFixture(t *testing.T, body string) *syncFixture {
	t.Helper()
	tables, err := lookup.New(&lookup.Bundle{
		Names: map[string]string{"1": "NoblesseOblige", "2": "SapwoodBlade"},
		Characters: map[string]lookup.CharacterEntry{
			"10000032": {Key: "Bennett", SkillOrder: []int{10321, 10322, 10323}},
		},
	})
	require.NoError(t, err)

	f := &syncFixture{
		fetcher: &fakeFetcher{body: []byte(body)},
		logger:  &testutil.MockLogger{},
		cache:   testutil.NewMockCache(),
		metrics: &testutil.MockMetrics{},
		dir:     t.TempDir(),
	}
	conf := &structures.Config{
		Account: structures.Account{UID: "700378769"},
		Output:  structures.OutputConfig{Dir: f.dir},
	}
	store := storage.NewFileManager(&testutil.MockCompressor{}, f.logger)
	f.service = NewSyncService(conf, f.logger, f.fetcher, translate.NewTranslator(tables), store, f.cache, f.metrics).(*SyncService)
	return f
}

func TestRunCycle_CreatesFile(t *testing.T) {
	f := newSyncFixture(t, profileDoc)

	report, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)

	wantFile := filepath.Join(f.dir, "Aether-700378769.json")
	assert.Equal(t, wantFile, report.File)
	assert.True(t, report.Created)
	assert.Equal(t, 55, report.TTL)
	assert.Equal(t, Totals{Characters: 1, Artifacts: 1, Weapons: 1}, report.Totals)
	assert.Equal(t, good.MergeStats{Inserted: 1}, report.Merge.Artifacts)
	assert.Equal(t, []translate.Skip{{Kind: translate.SkipArtifact, ID: "404", Owner: "Bennett"}}, report.Skipped)

	data, err := os.ReadFile(wantFile)
	require.NoError(t, err)
	var saved good.Collection
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "GOOD", saved.Format)
	assert.Equal(t, structures.Source(), saved.Source)

	w, ok := saved.Weapons.Get(good.WeaponKey{Key: "SapwoodBlade", Level: 90, Ascension: 6, Refinement: 5})
	require.True(t, ok)
	assert.Equal(t, "Bennett", w.Location)

	a := saved.Artifacts.Items()[0]
	assert.Equal(t, 20, a.Level)
	assert.Equal(t, "circlet", a.SlotKey)
	assert.Equal(t, good.Decimal("9.9"), a.Substats[0].Value)
}

func TestRunCycle_LogsProgress(t *testing.T) {
	f := newSyncFixture(t, profileDoc)

	_, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)

	info := f.logger.Messages("info")
	assert.Contains(t, info, "Found character Bennett: NoblesseOblige, unknown artifact 404, SapwoodBlade.")
	assert.Contains(t, info, "File "+filepath.Join(f.dir, "Aether-700378769.json")+" not found, creating one.")
	assert.Len(t, f.logger.Messages("warn"), 1)
}

func TestRunCycle_SecondCycleAppends(t *testing.T) {
	f := newSyncFixture(t, profileDoc)

	_, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	report, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Created)
	assert.Equal(t, good.MergeStats{Replaced: 1}, report.Merge.Characters)
	assert.Equal(t, good.MergeStats{Replaced: 1}, report.Merge.Artifacts)
	assert.Equal(t, good.MergeStats{Replaced: 1}, report.Merge.Weapons)
	assert.Equal(t, Totals{Characters: 1, Artifacts: 1, Weapons: 1}, report.Totals)
	assert.Contains(t, f.logger.Messages("info"), "Found existing file "+report.File+", trying to append.")
}

func TestRunCycle_PublishesToCache(t *testing.T) {
	f := newSyncFixture(t, profileDoc)

	report, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)

	status, ok := f.cache.Get(CacheKeyStatus)
	require.True(t, ok)
	var published CycleReport
	require.NoError(t, json.Unmarshal(status, &published))
	assert.Equal(t, report.File, published.File)
	assert.Equal(t, "Aether", published.Nickname)

	collection, ok := f.cache.Get(CacheKeyCollection)
	require.True(t, ok)
	assert.Contains(t, string(collection), `"format":"GOOD"`)

	last, ok := f.service.LastReport()
	require.True(t, ok)
	assert.Same(t, report, last)

	latest, ok := f.service.LastCollection()
	require.True(t, ok)
	assert.Equal(t, collection, latest)
}

func TestRunCycle_Metrics(t *testing.T) {
	f := newSyncFixture(t, profileDoc)

	_, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.metrics.Cycles[providers.CycleResultOk])
	assert.Equal(t, 1, f.metrics.Persists)
	assert.Equal(t, map[string]int{"characters": 1, "artifacts": 1, "weapons": 1}, f.metrics.Entities)
	assert.Equal(t, map[string]int{"artifact": 1}, f.metrics.Skipped)
}

func TestRunCycle_FetchError(t *testing.T) {
	f := newSyncFixture(t, profileDoc)
	f.fetcher.err = errors.New("connection refused")

	_, err := f.service.RunCycle(context.Background())
	require.Error(t, err)

	stats := f.service.Stats()
	assert.Equal(t, 1, stats.Cycles)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, "connection refused", stats.LastError)
	assert.Equal(t, 1, f.metrics.Cycles[providers.CycleResultFatal])
	_, ok := f.service.LastReport()
	assert.False(t, ok)
}

func TestRunCycle_DecodeError(t *testing.T) {
	f := newSyncFixture(t, `{"playerInfo":{"nickname":"a"},"avatarInfoList":[{"propMap":{}}]}`)

	_, err := f.service.RunCycle(context.Background())
	assert.Error(t, err)
	entries, _ := os.ReadDir(f.dir)
	assert.Empty(t, entries)
}

func TestRunCycle_StaleTablesAbort(t *testing.T) {
	doc := `{"playerInfo":{"nickname":"a"},"uid":"1","avatarInfoList":[{"avatarId":10000032,
		"equipList":[{"reliquary":{"level":1},"flat":{"setNameTextMapHash":"1","equipType":"EQUIP_NEW",
		"reliquaryMainstat":{"mainPropId":"FIGHT_PROP_HP","statValue":1}}}]}]}`
	f := newSyncFixture(t, doc)

	_, err := f.service.RunCycle(context.Background())
	assert.ErrorIs(t, err, translate.ErrStaleTables)
	_, statErr := os.Stat(filepath.Join(f.dir, "a-1.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCycle_UnreadableExistingFile(t *testing.T) {
	f := newSyncFixture(t, profileDoc)
	path := filepath.Join(f.dir, "Aether-700378769.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := f.service.RunCycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading old file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data), "existing file must be left untouched")
}

func TestRunCycle_FallsBackToConfiguredUID(t *testing.T) {
	f := newSyncFixture(t, `{"playerInfo":{"nickname":"Aether"}}`)

	report, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "700378769", report.UID)
	assert.Equal(t, 0, report.TTL)
}
