package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// -------------------- 运行时监控 --------------------

type runtimeStats struct {
	Timestamp  time.Time
	MemUsed    uint64
	MemTotal   uint64
	Goroutines int
}

type Monitor struct {
	stats    []runtimeStats
	interval time.Duration
	stopChan chan struct{}
}

func NewMonitor(interval time.Duration) *Monitor {
	return &Monitor{
		stats:    make([]runtimeStats, 0, 512),
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (m *Monitor) collect() runtimeStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := runtimeStats{
		Timestamp:  time.Now(),
		MemUsed:    ms.Alloc,
		MemTotal:   ms.Sys,
		Goroutines: runtime.NumGoroutine(),
	}
	m.stats = append(m.stats, s)
	return s
}

func (m *Monitor) Start() {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s := m.collect()
				fmt.Printf("[%s] 内存: %.1fMB/%.1fMB | Goroutines: %d\n",
					s.Timestamp.Format("15:04:05"),
					float64(s.MemUsed)/1024/1024, float64(s.MemTotal)/1024/1024,
					s.Goroutines,
				)
			case <-m.stopChan:
				return
			}
		}
	}()
}

func (m *Monitor) Stop() { close(m.stopChan) }

func (m *Monitor) GenerateReport() {
	if len(m.stats) == 0 {
		fmt.Println("没有监控数据")
		return
	}
	var sumGo, maxGo int
	var maxMem uint64
	for _, s := range m.stats {
		sumGo += s.Goroutines
		if s.Goroutines > maxGo {
			maxGo = s.Goroutines
		}
		if s.MemUsed > maxMem {
			maxMem = s.MemUsed
		}
	}
	n := float64(len(m.stats))
	fmt.Println("\n=== 监控报告 ===")
	fmt.Printf("持续: %v\n", m.stats[len(m.stats)-1].Timestamp.Sub(m.stats[0].Timestamp))
	fmt.Printf("平均Goroutine: %d, 峰值Goroutine: %d\n", int(float64(sumGo)/n+0.5), maxGo)
	fmt.Printf("峰值内存: %.1fMB\n", float64(maxMem)/1024/1024)
}

// -------------------- HTTP 压测 --------------------

type benchStats struct {
	Total      int
	Success    int
	Failed     int
	AvgLatency time.Duration
	MaxLatency time.Duration
	MinLatency time.Duration
	mu         sync.Mutex
}

func (s *benchStats) Add(success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Total++
	if !success {
		s.Failed++
		return
	}
	s.Success++
	if s.AvgLatency == 0 {
		s.AvgLatency = latency
		s.MaxLatency = latency
		s.MinLatency = latency
		return
	}
	s.AvgLatency = (s.AvgLatency + latency) / 2
	if latency > s.MaxLatency {
		s.MaxLatency = latency
	}
	if latency < s.MinLatency {
		s.MinLatency = latency
	}
}

var httpClient = &http.Client{Timeout: 8 * time.Second}

// setupAccount 注册一个临时账号并登录拿 token，注册冲突时直接走登录
func setupAccount(base string) (string, error) {
	username := fmt.Sprintf("bench_%d", time.Now().Unix())
	regBody, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@bench.local",
		"password": "bench123456",
	})
	resp, err := httpClient.Post(base+"/api/v1/users/register", "application/json", bytes.NewReader(regBody))
	if err != nil {
		return "", err
	}
	resp.Body.Close()

	loginBody, _ := json.Marshal(map[string]string{
		"usernameOrEmail": username,
		"password":        "bench123456",
	})
	resp, err = httpClient.Post(base+"/api/v1/users/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login status %d", resp.StatusCode)
	}
	var out struct {
		Data struct {
			Token string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Data.Token == "" {
		return "", fmt.Errorf("empty token")
	}
	return out.Data.Token, nil
}

func hit(url, token string, stats *benchStats) {
	start := time.Now()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		stats.Add(false, 0)
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		stats.Add(false, lat)
		return
	}
	resp.Body.Close()
	stats.Add(resp.StatusCode == http.StatusOK, lat)
}

type endpoint struct {
	path string
	auth bool
}

func runBench(base, token string, concurrency, perGoroutine int) {
	fmt.Println("\n=== HTTP 并发测试开始 ===")
	fmt.Printf("目标: %s 并发: %d 每协程请求: %d\n", base, concurrency, perGoroutine)

	endpoints := []endpoint{
		{"/", false},
		{"/health", false},
	}
	if token != "" {
		endpoints = append(endpoints,
			endpoint{"/api/v1/learn/modules", true},
			endpoint{"/api/v1/learn/stats", true},
			endpoint{"/api/v1/friends", true},
			endpoint{"/api/v1/conversations", true},
		)
	}

	stats := &benchStats{}
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ep := endpoints[(id+j)%len(endpoints)]
				tok := ""
				if ep.auth {
					tok = token
				}
				hit(base+ep.path, tok, stats)
				time.Sleep(5 * time.Millisecond)
			}
		}(i)
	}
	wg.Wait()

	took := time.Since(start)
	fmt.Println("\n=== HTTP 测试结果 ===")
	fmt.Printf("耗时: %v\n", took)
	fmt.Printf("总请求: %d 成功: %d 失败: %d\n", stats.Total, stats.Success, stats.Failed)
	fmt.Printf("延迟 平均: %v 最大: %v 最小: %v\n", stats.AvgLatency, stats.MaxLatency, stats.MinLatency)
	if took > 0 {
		fmt.Printf("QPS: %.2f\n", float64(stats.Success)/took.Seconds())
	}
	if stats.Total > 0 {
		fmt.Printf("成功率: %.2f%%\n", float64(stats.Success)/float64(stats.Total)*100)
	}
}

// -------------------- 入口 --------------------

func argInt(idx, def int) int {
	if len(os.Args) > idx {
		if v, err := strconv.Atoi(os.Args[idx]); err == nil {
			return v
		}
	}
	return def
}

func main() {
	concurrency := argInt(1, 5)
	perGoroutine := argInt(2, 10)
	monitorSeconds := argInt(3, 20)

	baseURL := "http://localhost:8080"
	if v := os.Getenv("BENCH_BASE_URL"); v != "" {
		baseURL = v
	}

	fmt.Println("=== Morse Mastery 并发测试 ===")
	fmt.Printf("开始时间: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Printf("目标: %s 并发: %d 每协程请求: %d 监控: %ds\n", baseURL, concurrency, perGoroutine, monitorSeconds)

	token, err := setupAccount(baseURL)
	if err != nil {
		fmt.Println("获取测试账号失败，仅压测公开端点:", err)
	}

	mon := NewMonitor(1 * time.Second)
	mon.Start()
	go func() {
		time.Sleep(time.Duration(monitorSeconds) * time.Second)
		mon.Stop()
	}()

	runBench(baseURL, token, concurrency, perGoroutine)

	time.Sleep(time.Duration(monitorSeconds+1) * time.Second)
	mon.GenerateReport()

	fmt.Println("\n=== 测试完成 ===")
}
