// Command cachecheck requests the public pages of a running site twice and
// reports whether the event cache in Redis was filled by the first request.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/constants"
	"boxoffice/pkg/cache"
)

type CheckResult struct {
	Name         string        `json:"name"`
	Path         string        `json:"path"`
	CacheKey     string        `json:"cache_key"`
	CacheStatus  string        `json:"cache_status"`
	ResponseTime time.Duration `json:"response_time"`
	DataSize     int           `json:"data_size"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
}

type CheckSuite struct {
	BaseURL string
	Redis   *redis.Client
	HTTP    *http.Client
	Results []CheckResult
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	baseURL := flag.String("url", "http://localhost:"+cfg.Port, "base URL of the running site")
	eventID := flag.Int64("event", 1, "event id used for the details page")
	out := flag.String("out", "cache_check_results.json", "where to write the JSON report")
	flag.Parse()

	fmt.Println("🧪 Starting page cache check...")
	fmt.Println("===============================")

	ctx := context.Background()
	client, err := cache.Connect(ctx, cache.Config{Address: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	defer client.Close()
	fmt.Println("✅ Redis connection: OK")

	suite := &CheckSuite{
		BaseURL: *baseURL,
		Redis:   client,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}

	// start from a cold cache so the first request is a miss
	if err := cache.NewService(client, nil).DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_ALL); err != nil {
		log.Fatalf("❌ Failed to clear event cache: %v", err)
	}

	checks := []struct {
		name string
		path string
		key  string
	}{
		{"Event List", "/", constants.CACHE_KEY_EVENTS_LIST},
		{"Event Detail", fmt.Sprintf("/event/%d/", *eventID), constants.BuildEventDetailKey(*eventID)},
	}

	for _, c := range checks {
		fmt.Printf("\n🔍 Checking: %s\n", c.name)

		first := suite.check(ctx, c.name, c.path, c.key)
		time.Sleep(100 * time.Millisecond)
		second := suite.check(ctx, c.name, c.path, c.key)

		if first.Success && second.Success && first.ResponseTime > 0 {
			improvement := float64(first.ResponseTime-second.ResponseTime) / float64(first.ResponseTime) * 100
			fmt.Printf("   📈 Response time change: %.1f%% (%v -> %v)\n",
				improvement, first.ResponseTime, second.ResponseTime)
		}
	}

	suite.report(*out)
	fmt.Println("\n🎉 Cache check complete!")
}

// check fetches path and looks the cache key up before the request, so a
// key that already exists means the page was served from Redis
func (s *CheckSuite) check(ctx context.Context, name, path, key string) CheckResult {
	result := CheckResult{Name: name, Path: path, CacheKey: key, CacheStatus: "MISS"}

	exists, err := s.Redis.Exists(ctx, key).Result()
	if err != nil {
		result.CacheStatus = "UNKNOWN"
	} else if exists > 0 {
		result.CacheStatus = "HIT"
	}

	start := time.Now()
	resp, err := s.HTTP.Get(s.BaseURL + path)
	if err != nil {
		result.ResponseTime = time.Since(start)
		result.Error = err.Error()
		s.record(result)
		return result
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	result.ResponseTime = time.Since(start)
	result.DataSize = len(body)
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 400
	if !result.Success {
		result.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	s.record(result)
	return result
}

func (s *CheckSuite) record(r CheckResult) {
	s.Results = append(s.Results, r)

	statusIcon := "✅"
	if !r.Success {
		statusIcon = "❌"
	}
	cacheIcon := "🔥"
	switch r.CacheStatus {
	case "MISS":
		cacheIcon = "💾"
	case "UNKNOWN":
		cacheIcon = "❓"
	}

	fmt.Printf("   %s %s [%s] %v (%d bytes)", statusIcon, cacheIcon, r.CacheStatus, r.ResponseTime, r.DataSize)
	if r.Error != "" {
		fmt.Printf(" %s", r.Error)
	}
	fmt.Println()
}

func (s *CheckSuite) report(path string) {
	fmt.Println("\n📊 CACHE REPORT")
	fmt.Println("===============")

	var successful, hits, misses int
	var hitTime, missTime time.Duration
	for _, r := range s.Results {
		if r.Success {
			successful++
		}
		switch r.CacheStatus {
		case "HIT":
			hits++
			hitTime += r.ResponseTime
		case "MISS":
			misses++
			missTime += r.ResponseTime
		}
	}

	fmt.Printf("Total Requests: %d\n", len(s.Results))
	fmt.Printf("Successful: %d\n", successful)
	fmt.Printf("Cache Hits: %d\n", hits)
	fmt.Printf("Cache Misses: %d\n", misses)
	if hits > 0 {
		fmt.Printf("Average Hit Time: %v\n", hitTime/time.Duration(hits))
	}
	if misses > 0 {
		fmt.Printf("Average Miss Time: %v\n", missTime/time.Duration(misses))
	}

	data, err := json.MarshalIndent(map[string]interface{}{
		"summary": map[string]int{
			"total":        len(s.Results),
			"successful":   successful,
			"cache_hits":   hits,
			"cache_misses": misses,
		},
		"results": s.Results,
	}, "", "  ")
	if err != nil {
		log.Printf("⚠️  Failed to encode report: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("⚠️  Failed to write report: %v", err)
		return
	}
	fmt.Printf("\n💾 Detailed results saved to %s\n", path)
}
