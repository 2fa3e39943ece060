package app

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fouzanpasha/physioapp/internal/capture"
	"github.com/fouzanpasha/physioapp/internal/exercise"
	"github.com/fouzanpasha/physioapp/internal/pose"
)

// runPipeline is the main loop that processes frames from the camera.
//
// Pipeline logic:
//  1. Run at IdleFPS while nothing is happening, feeding the presence gate
//  2. When a session or recording is active, switch to ActiveFPS
//  3. Run pose detection on each frame
//  4. Route the pose to the recorder or to the coaching engine
//  5. When the session and recording both end, drop back to IdleFPS
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false

	frameInterval := time.Second / time.Duration(capture.IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			busy := a.SessionActive() || a.RecordingActive()

			// FPS switching between idle and active modes
			if busy && !activeMode {
				activeMode = true
				a.Camera().SetFPS(capture.ActiveFPS)
				ticker.Reset(time.Second / time.Duration(capture.ActiveFPS))
				log.Println("Switched to active mode")
			} else if !busy && activeMode {
				activeMode = false
				a.Camera().SetFPS(capture.IdleFPS)
				ticker.Reset(time.Second / time.Duration(capture.IdleFPS))
				log.Println("Switched to idle mode")
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			a.presence.Observe(frame)

			if !busy {
				frame.Close()
				continue
			}

			p, err := a.Detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting pose: %v", err)
				p = nil // downstream treats a nil pose as a no-data tick
			}

			now := time.Now()
			if a.RecordingActive() {
				a.recordTick(p, now)
			} else {
				a.coachTick(p)
			}
		}
	}
}

// recordTick feeds one pose into the active recording, finishing it when
// the window closes.
func (a *App) recordTick(p *pose.Pose, now time.Time) {
	a.mu.Lock()
	r := a.rec
	a.mu.Unlock()
	if r == nil {
		return
	}

	if r.recorder.Done(now) {
		a.finishRecording(r.recorder, now)
		return
	}

	if p != nil {
		r.recorder.Add(p, now)
	}
}

// finishRecording closes the capture window and persists the template.
func (a *App) finishRecording(rec *exercise.Recorder, now time.Time) {
	a.mu.Lock()
	a.rec = nil
	a.mu.Unlock()

	tpl, err := rec.Finish(now)
	if err != nil {
		log.Printf("Recording failed: %v", err)
		a.announcer.Say("Recording failed. No movement was captured.")
		return
	}

	tpl.ID = uuid.NewString()
	if err := a.config.Store.Templates().Create(tpl); err != nil {
		log.Printf("Failed to save template %q: %v", tpl.Name, err)
		a.announcer.Say("Recording could not be saved.")
		return
	}

	log.Printf("Template %q saved with %d frames", tpl.Name, tpl.FrameCount)
	a.announcer.Say("Recording saved. You can start a session now.")
}

// coachTick runs one pose through the rep counter and form analyzer and
// publishes the combined snapshot.
func (a *App) coachTick(p *pose.Pose) {
	a.mu.Lock()
	c := a.coach
	if c == nil {
		a.mu.Unlock()
		return
	}

	result := c.counter.ProcessPose(p)
	analysis := c.analyzer.Analyze(p)

	// Form issues give the corrective utterance something concrete to say.
	if analysis.Status == exercise.StatusNeedsImprovement && analysis.Feedback != "" {
		result.Feedback = analysis.Feedback
	}

	c.session.Observe(result)
	c.throttler.Observe(result)

	tick := Tick{
		Result:        result,
		Phase:         analysis.Phase,
		PhaseProgress: analysis.PhaseProgress,
		FormFeedback:  analysis.Feedback,
		Score:         c.session.Score(),
		TargetReps:    c.session.TargetReps(),
		SessionID:     c.sessionID,
		TemplateID:    c.templateID,
	}
	a.lastTick = &tick
	hooks := a.onTick
	a.mu.Unlock()

	for _, fn := range hooks {
		fn(tick)
	}
}
