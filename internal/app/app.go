// Package app runs the acquisition loop: it reads frames from a camera,
// counts fingers, publishes results and hands counts to a dispatcher.
package app

import (
	"image"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/pipeline"
)

// SubscriberBuffer is the number of snapshots a slow subscriber may lag
// behind before snapshots are dropped for it.
const SubscriberBuffer = 4

// Config holds configuration options for the application.
type Config struct {
	Camera     capture.Camera
	Pipeline   *pipeline.Pipeline
	Dispatcher Dispatcher

	// Workers is the number of frames processed concurrently. Frames that
	// arrive while every worker is busy are dropped.
	Workers int
}

// Snapshot is the published outcome of one processed frame.
type Snapshot struct {
	Seq    uint64           `json:"seq"`
	Time   time.Time        `json:"time"`
	Result *pipeline.Result `json:"result"`

	// Frame is the annotated frame.
	Frame image.Image `json:"-"`
}

// Stats counts frames by outcome.
type Stats struct {
	Captured   uint64 `json:"captured"`
	Processed  uint64 `json:"processed"`
	Dropped    uint64 `json:"dropped"`
	Stale      uint64 `json:"stale"`
	Errors     uint64 `json:"errors"`
	Degenerate uint64 `json:"degenerate"`
	Dispatched uint64 `json:"dispatched"`
}

type capturedFrame struct {
	seq   uint64
	frame *gocv.Mat
}

// App orchestrates frame acquisition, finger counting and dispatch.
type App struct {
	config  Config
	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// guarded by mu
	latest      *Snapshot
	lastSeq     uint64
	lastCount   int
	stats       Stats
	subscribers map[chan Snapshot]struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &App{
		config:      config,
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// SetEnabled enables or disables finger counting. While disabled the
// camera stays open but no frames are read.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether finger counting is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// IsRunning returns whether the acquisition loop is running.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Start opens the camera and begins the acquisition loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.config.Camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	frames := make(chan capturedFrame, a.config.Workers)

	a.wg.Add(1 + a.config.Workers)
	go a.runAcquisition(a.stopCh, frames)
	for i := 0; i < a.config.Workers; i++ {
		go a.runWorker(frames)
	}

	log.Printf("Acquisition started at %d FPS with %d worker(s)", a.config.Camera.FPS(), a.config.Workers)
	return nil
}

// Stop halts the acquisition loop, waits for in-flight frames and closes the camera.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	a.stopCh = nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	a.wg.Wait()

	if err := a.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	log.Println("Acquisition stopped")
}

// Subscribe returns a channel receiving every published snapshot and a
// function that cancels the subscription. Snapshots are dropped for a
// subscriber whose buffer is full.
func (a *App) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, SubscriberBuffer)

	a.mu.Lock()
	a.subscribers[ch] = struct{}{}
	a.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subscribers, ch)
			a.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Latest returns the most recently published snapshot.
func (a *App) Latest() (Snapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.latest == nil {
		return Snapshot{}, false
	}
	return *a.latest, true
}

// Stats returns the frame counters.
func (a *App) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.config.Camera
}

// Pipeline returns the finger counting pipeline.
func (a *App) Pipeline() *pipeline.Pipeline {
	return a.config.Pipeline
}
