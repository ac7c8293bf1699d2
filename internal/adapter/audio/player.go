package audio

import (
	"sync"
	"time"

	"tg-overview/internal/domain"
)

// Player is a playback-state registry implementing domain.AudioPlayer.
// It tracks which voice note or song is "playing" and derives the
// position from wall time; actual audio output is out of scope, the
// state exists so list tiles can render play/pause and elapsed time.
type Player struct {
	mu        sync.Mutex
	playing   domain.FullMsgID
	state     domain.PlayerState
	duration  int64 // samples
	frequency int32

	startedAt time.Time
	paused    int64 // samples consumed before the last pause
}

func NewPlayer() *Player {
	return &Player{frequency: domain.AudioVoiceMsgFrequency}
}

// Play starts playback of the message, replacing whatever was playing.
func (p *Player) Play(id domain.FullMsgID, durationSeconds int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = id
	p.state = domain.PlayerPlaying
	p.duration = durationSeconds * int64(p.frequency)
	p.startedAt = time.Now()
	p.paused = 0
}

// Pause freezes the position of the current track.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != domain.PlayerPlaying {
		return
	}
	p.paused = p.elapsed()
	p.state = domain.PlayerPaused
}

// Resume continues a paused track.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != domain.PlayerPaused {
		return
	}
	p.startedAt = time.Now()
	p.state = domain.PlayerPlaying
}

// Stop clears the current track.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = domain.FullMsgID{}
	p.state = domain.PlayerStopped
	p.paused = 0
}

func (p *Player) elapsed() int64 {
	pos := p.paused
	if p.state == domain.PlayerPlaying {
		pos += int64(time.Since(p.startedAt).Seconds() * float64(p.frequency))
	}
	if pos > p.duration {
		pos = p.duration
	}
	return pos
}

func (p *Player) CurrentState() (domain.FullMsgID, domain.PlayerState, int64, int64, int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing.Zero() {
		return domain.FullMsgID{}, domain.PlayerStopped, 0, 0, p.frequency
	}
	pos := p.elapsed()
	state := p.state
	if state == domain.PlayerPlaying && pos >= p.duration && p.duration > 0 {
		state = domain.PlayerFinishing
	}
	return p.playing, state, pos, p.duration, p.frequency
}
