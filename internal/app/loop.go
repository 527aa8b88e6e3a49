package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/pipeline"
)

// runAcquisition reads frames at the camera's frame rate and hands them to
// the workers. A frame that finds every worker busy is dropped so that the
// loop never falls behind the camera.
func (a *App) runAcquisition(stopCh <-chan struct{}, frames chan<- capturedFrame) {
	defer a.wg.Done()
	defer close(frames)

	ticker := time.NewTicker(time.Second / time.Duration(max(a.config.Camera.FPS(), 1)))
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.config.Camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				a.count(func(s *Stats) { s.Errors++ })
				continue
			}

			seq++
			a.count(func(s *Stats) { s.Captured++ })

			select {
			case frames <- capturedFrame{seq: seq, frame: frame}:
			default:
				frame.Close()
				a.count(func(s *Stats) { s.Dropped++ })
			}
		}
	}
}

// runWorker processes frames until the acquisition loop closes frames.
func (a *App) runWorker(frames <-chan capturedFrame) {
	defer a.wg.Done()

	for cf := range frames {
		result, err := a.config.Pipeline.Process(*cf.frame)
		cf.frame.Close()

		if err != nil {
			log.Printf("Error processing frame %d: %v", cf.seq, err)
			a.count(func(s *Stats) { s.Errors++ })
			continue
		}

		a.handleResult(cf.seq, result)
	}
}

// handleResult publishes a processed frame and dispatches finger count
// changes. Results older than the last published one are discarded so
// subscribers always see frames in acquisition order.
func (a *App) handleResult(seq uint64, r *pipeline.Result) {
	defer r.Close()

	if r.Degenerate > 0 {
		log.Printf("Frame %d: skipped %d degenerate defect(s)", seq, r.Degenerate)
	}

	snap := Snapshot{Seq: seq, Time: time.Now(), Result: r}
	if r.Annotated != nil {
		img, err := r.Annotated.ToImage()
		if err != nil {
			log.Printf("Error converting frame %d: %v", seq, err)
		} else {
			snap.Frame = img
		}
	}
	// The published result must not reference the Mat released below.
	summary := *r
	summary.Annotated = nil
	snap.Result = &summary

	a.mu.Lock()
	if seq <= a.lastSeq {
		a.stats.Stale++
		a.mu.Unlock()
		return
	}
	a.lastSeq = seq
	a.stats.Processed++
	a.stats.Degenerate += uint64(r.Degenerate)

	changed := r.FingerCount != a.lastCount
	a.lastCount = r.FingerCount

	a.latest = &snap
	for ch := range a.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
	a.mu.Unlock()

	if changed && r.Found && a.config.Dispatcher != nil {
		if err := a.config.Dispatcher.Dispatch(r.FingerCount); err != nil {
			log.Printf("Error dispatching %d finger(s): %v", r.FingerCount, err)
			return
		}
		a.count(func(s *Stats) { s.Dispatched++ })
	}
}

func (a *App) count(fn func(s *Stats)) {
	a.mu.Lock()
	fn(&a.stats)
	a.mu.Unlock()
}
