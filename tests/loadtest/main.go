package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// Run goodsync with webServer on 127.0.0.1:18090 and enka.baseUrl set to
// http://127.0.0.1:18091, then start this program.
const (
	baseURL      = "http://127.0.0.1:18090"
	fakeEnkaAddr = "127.0.0.1:18091"
	numWorkers   = 50
	testDuration = 10 * time.Second
	profileTTL   = 5
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

// fakeEnka serves a profile whose artifact levels change on every request so
// each cycle inserts new entries.
type fakeEnka struct {
	requests atomic.Int64
}

func (f *fakeEnka) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/u/") || !strings.HasSuffix(r.URL.Path, "/__data.json") {
		http.NotFound(w, r)
		return
	}
	uid := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/u/"), "/__data.json")
	n := int(f.requests.Add(1))

	profile := map[string]any{
		"playerInfo": map[string]any{"nickname": "LoadTest"},
		"uid":        uid,
		"ttl":        profileTTL,
		"avatarInfoList": []any{map[string]any{
			"avatarId":      10000032,
			"propMap":       map[string]any{"4001": map[string]any{"val": "80"}, "1002": map[string]any{"val": "5"}},
			"talentIdList":  []int{321, 322},
			"skillDepotId":  3201,
			"skillLevelMap": map[string]int{"10321": 1, "10322": 8, "10323": 8},
			"equipList": []any{
				map[string]any{
					"reliquary": map[string]any{"level": n%21 + 1},
					"flat": map[string]any{
						"setNameTextMapHash": "1751039235",
						"rankLevel":          5,
						"equipType":          "EQUIP_DRESS",
						"reliquaryMainstat":  map[string]any{"mainPropId": "FIGHT_PROP_HEAL_ADD", "statValue": 35.9},
						"reliquarySubstats":  []any{map[string]any{"appendPropId": "FIGHT_PROP_HP_PERCENT", "statValue": 9.9}},
					},
				},
				map[string]any{
					"itemId": 11417,
					"weapon": map[string]any{"level": 90, "promoteLevel": 6, "affixMap": map[string]int{"111417": 4}},
					"flat":   map[string]any{"nameTextMapHash": "1211820319", "rankLevel": 4},
				},
			},
		}},
	}

	data, _ := json.Marshal(profile)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func main() {
	fmt.Println("=== goodsync Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	upstream := &fakeEnka{}
	go func() {
		if err := http.ListenAndServe(fakeEnkaAddr, upstream); err != nil {
			fmt.Printf("fake Enka server failed: %s\n", err)
		}
	}()
	fmt.Printf("Fake Enka listening on %s\n", fakeEnkaAddr)

	fmt.Print("Waiting for first sync cycle... ")
	for i := 0; i < 60; i++ {
		resp, err := httpClient.Get(baseURL + "/status")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if i == 59 {
			fmt.Println("FAILED: no cycle completed")
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Status reads (GET /status, /health) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.5 {
			return doGet("/status")
		}
		return doGet("/health")
	})

	fmt.Println("\n--- Phase 2: Mixed load across cycles ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doGet("/collection")
		case r < 0.80:
			return doGet("/status")
		case r < 0.95:
			return doGet("/health")
		default:
			return doGet("/metrics")
		}
	})

	fmt.Printf("\nFake Enka served %d profile requests\n", upstream.requests.Load())
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(max(totalOps, 1))*100, rps)
}

func doGet(path string) result {
	endpoint := "GET " + path
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
