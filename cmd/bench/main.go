package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mirkobrombin/go-spinlocks/v1/lock"
)

var (
	concurrency = flag.Int("c", 8, "Concurrency")
	requests    = flag.Int("n", 200000, "Total acquisitions")
	work        = flag.Int("w", 0, "Busy loop iterations inside the critical section")
	target      = flag.String("target", "all", "Targets: all or a comma list of tas,cas,ticket,yield,queue,mutex")
)

// mutexLock puts sync.Mutex on the same footing as the variants.
type mutexLock struct{ mu sync.Mutex }

func (m *mutexLock) Init()    { m.mu = sync.Mutex{} }
func (m *mutexLock) Acquire() { m.mu.Lock() }
func (m *mutexLock) Release() { m.mu.Unlock() }

// checkLoad rejects shapes that leave a worker with no acquisitions.
func checkLoad(concurrency, requests int) error {
	if concurrency < 1 {
		return fmt.Errorf("-c must be >= 1, got %d", concurrency)
	}
	if requests < concurrency {
		return fmt.Errorf("-n (%d) must be >= -c (%d)", requests, concurrency)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := checkLoad(*concurrency, *requests); err != nil {
		log.Fatal(err)
	}

	targets := strings.Split(*target, ",")
	if *target == "all" {
		targets = nil
		for _, v := range lock.Variants() {
			targets = append(targets, v.String())
		}
		targets = append(targets, "mutex")
	}

	fmt.Printf("| %-15s | %-12s | %-12s | %-12s |\n", "Lock", "Ops/sec", "Avg Latency", "P99 Latency")
	fmt.Println("|:---|:---|:---|:---|")

	for _, t := range targets {
		runBenchmark(strings.TrimSpace(t))
	}
}

func newTarget(name string) (lock.Lock, error) {
	if name == "mutex" {
		return &mutexLock{}, nil
	}
	v, err := lock.ParseVariant(name)
	if err != nil {
		return nil, err
	}
	return lock.New(v)
}

func runBenchmark(name string) {
	l, err := newTarget(name)
	if err != nil {
		log.Printf("Unknown target: %s", name)
		return
	}

	var wg sync.WaitGroup
	var ops int64
	var sink int
	totalReqs := *requests
	latencies := make([]int64, totalReqs)
	chunk := totalReqs / *concurrency

	start := time.Now()
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			offset := idx * chunk
			for j := 0; j < chunk; j++ {
				reqStart := time.Now()
				l.Acquire()
				latencies[offset+j] = time.Since(reqStart).Nanoseconds()
				for k := 0; k < *work; k++ {
					sink++
				}
				sink++
				l.Release()
				atomic.AddInt64(&ops, 1)
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if ops == 0 {
		fmt.Printf("| %-15s | %-12s | %-12s | %-12s |\n", name, "ERROR", "-", "-")
		return
	}

	throughput := float64(ops) / elapsed.Seconds()

	valid := latencies[:ops]
	var total int64
	for _, l := range valid {
		total += l
	}
	avgLat := float64(total) / float64(ops)

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })
	p99Idx := int(float64(len(valid)) * 0.99)
	if p99Idx >= len(valid) {
		p99Idx = len(valid) - 1
	}

	fmt.Printf("| %-15s | %-12.0f | %-12.0f | %-12d |\n", name, throughput, avgLat, valid[p99Idx])
	if expected := int(ops) * (*work + 1); sink != expected {
		log.Printf("%s: counter %d, expected %d", name, sink, expected)
	}
}
