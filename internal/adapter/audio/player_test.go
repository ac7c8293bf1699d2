package audio

import (
	"testing"
	"time"

	"tg-overview/internal/domain"
)

// TestPlayerLifecycle verifies play, pause, resume and stop state
// transitions.
func TestPlayerLifecycle(t *testing.T) {
	p := NewPlayer()
	id := domain.FullMsgID{PeerID: 1, MsgID: 5}

	playing, state, _, _, freq := p.CurrentState()
	if !playing.Zero() || state != domain.PlayerStopped {
		t.Fatalf("fresh player state = %v, %v", playing, state)
	}
	if freq != domain.AudioVoiceMsgFrequency {
		t.Fatalf("frequency = %d", freq)
	}

	p.Play(id, 60)
	playing, state, pos, duration, _ := p.CurrentState()
	if playing != id || state != domain.PlayerPlaying {
		t.Fatalf("after Play: %v, %v", playing, state)
	}
	if duration != 60*domain.AudioVoiceMsgFrequency {
		t.Fatalf("duration = %d samples", duration)
	}
	if pos < 0 || pos > duration {
		t.Fatalf("position out of range: %d", pos)
	}

	p.Pause()
	_, state, frozen, _, _ := p.CurrentState()
	if !state.StoppedOrPaused() {
		t.Fatalf("after Pause: %v", state)
	}
	time.Sleep(5 * time.Millisecond)
	if _, _, pos, _, _ := p.CurrentState(); pos != frozen {
		t.Fatalf("position advanced while paused: %d -> %d", frozen, pos)
	}

	p.Resume()
	if _, state, _, _, _ := p.CurrentState(); state != domain.PlayerPlaying {
		t.Fatalf("after Resume: %v", state)
	}

	p.Stop()
	playing, state, _, _, _ = p.CurrentState()
	if !playing.Zero() || state != domain.PlayerStopped {
		t.Fatalf("after Stop: %v, %v", playing, state)
	}
}

// TestPlayerFinishing verifies the state flips once the position
// reaches the track duration.
func TestPlayerFinishing(t *testing.T) {
	p := NewPlayer()
	id := domain.FullMsgID{PeerID: 1, MsgID: 5}

	// A zero-length track is exhausted immediately.
	p.Play(id, 0)
	p.duration = 1 // one sample, elapsed wall time covers it at once
	time.Sleep(2 * time.Millisecond)
	if _, state, _, _, _ := p.CurrentState(); state != domain.PlayerFinishing {
		t.Fatalf("state = %v, want finishing", state)
	}
}

// TestPlayerReplaces verifies a new Play displaces the current track.
func TestPlayerReplaces(t *testing.T) {
	p := NewPlayer()
	first := domain.FullMsgID{PeerID: 1, MsgID: 5}
	second := domain.FullMsgID{PeerID: 1, MsgID: 9}

	p.Play(first, 60)
	p.Pause()
	p.Play(second, 30)
	playing, state, pos, _, _ := p.CurrentState()
	if playing != second || state != domain.PlayerPlaying {
		t.Fatalf("after second Play: %v, %v", playing, state)
	}
	if pos > 1*domain.AudioVoiceMsgFrequency {
		t.Fatalf("position carried over: %d", pos)
	}
}
