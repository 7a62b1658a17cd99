package bench

import (
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// SystemSample is one point-in-time reading taken during a benchmark pass.
type SystemSample struct {
	Time       time.Time
	CPUPercent float64
	MemPercent float64
	RSSBytes   uint64
}

// SystemSummary condenses all samples from one pass.
type SystemSummary struct {
	Samples int
	AvgCPU  float64
	PeakCPU float64
	AvgMem  float64
	PeakRSS uint64
}

// SystemCollector samples host CPU, memory and process RSS while a
// benchmark pass runs, so latency numbers can be read in machine context.
type SystemCollector struct {
	mu       sync.Mutex
	samples  []SystemSample
	running  bool
	stopCh   chan struct{}
	interval time.Duration
	proc     *process.Process
	log      logrus.FieldLogger
}

// NewSystemCollector creates a collector sampling at the given interval.
func NewSystemCollector(interval time.Duration) (*SystemCollector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &SystemCollector{
		interval: interval,
		proc:     proc,
		stopCh:   make(chan struct{}),
		log:      logrus.WithField("component", "system_collector"),
	}, nil
}

// Start begins sampling in the background.
func (sc *SystemCollector) Start() {
	sc.mu.Lock()
	if sc.running {
		sc.mu.Unlock()
		return
	}
	sc.running = true
	sc.samples = nil
	sc.stopCh = make(chan struct{})
	sc.mu.Unlock()

	go sc.collect()
}

// Stop halts sampling.
func (sc *SystemCollector) Stop() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.running {
		return
	}
	sc.running = false
	close(sc.stopCh)
}

func (sc *SystemCollector) collect() {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-sc.stopCh:
			return
		case <-ticker.C:
			sc.sample()
		}
	}
}

func (sc *SystemCollector) sample() {
	s := SystemSample{Time: time.Now()}

	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemPercent = vm.UsedPercent
	}
	if info, err := sc.proc.MemoryInfo(); err == nil {
		s.RSSBytes = info.RSS
	}

	sc.mu.Lock()
	sc.samples = append(sc.samples, s)
	sc.mu.Unlock()
}

// Summary aggregates the collected samples.
func (sc *SystemCollector) Summary() SystemSummary {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sum := SystemSummary{Samples: len(sc.samples)}
	if len(sc.samples) == 0 {
		return sum
	}

	var cpuTotal, memTotal float64
	for _, s := range sc.samples {
		cpuTotal += s.CPUPercent
		memTotal += s.MemPercent
		if s.CPUPercent > sum.PeakCPU {
			sum.PeakCPU = s.CPUPercent
		}
		if s.RSSBytes > sum.PeakRSS {
			sum.PeakRSS = s.RSSBytes
		}
	}
	sum.AvgCPU = cpuTotal / float64(len(sc.samples))
	sum.AvgMem = memTotal / float64(len(sc.samples))

	return sum
}
