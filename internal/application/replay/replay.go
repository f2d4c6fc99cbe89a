// Package replay records and plays back per-frame simulation inputs.
// A replay file plus the seed reproduces a whole game bit for bit.
package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FrameInput records the input state for a single frame.
type FrameInput struct {
	F       int     `json:"f"`                 // Frame number
	Dt      float64 `json:"dt"`                // Delta time in seconds
	TX      float64 `json:"tx"`                // Player target x
	Bank    bool    `json:"bank,omitempty"`    // Bank command
	Ability string  `json:"ability,omitempty"` // Ability id triggered this frame
	Poke    bool    `json:"poke,omitempty"`    // Poke command
	PokeX   float64 `json:"px,omitempty"`      // Poke x
	PokeY   float64 `json:"py,omitempty"`      // Poke y
	Restart bool    `json:"restart,omitempty"` // Restart command
}

// ReplayData contains all data needed to replay a game session.
type ReplayData struct {
	Version   string       `json:"version"`
	Seed      int64        `json:"seed"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}

// Recorder handles input recording.
type Recorder struct {
	data      ReplayData
	recording bool
	frame     int
}

// NewRecorder creates a new recorder for the given seed.
func NewRecorder(seed int64) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:   "1.0",
			Seed:      seed,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 3600), // ~1 minute at 60fps
		},
		recording: true,
	}
}

// RecordFrame records a single frame's input.
func (r *Recorder) RecordFrame(in FrameInput) {
	if !r.recording {
		return
	}
	in.F = r.frame
	r.data.Frames = append(r.data.Frames, in)
	r.frame++
}

// Save writes the replay data to a file.
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// Stop stops recording.
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active.
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames.
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// GetData returns the recorded data.
func (r *Recorder) GetData() ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on the current time.
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}

// Replayer handles input playback from recorded data.
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data.
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads replay data from a file.
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data ReplayData
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	return &data, nil
}

// GetInput returns the input for the current frame and advances.
func (r *Replayer) GetInput() (FrameInput, bool) {
	if r.frame >= len(r.data.Frames) {
		return FrameInput{}, false
	}
	fi := r.data.Frames[r.frame]
	r.frame++
	return fi, true
}

// CurrentFrame returns the current frame number.
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames.
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Seed returns the seed used for the replay.
func (r *Replayer) Seed() int64 {
	return r.data.Seed
}

// Reset resets the replayer to the beginning.
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data for testing (fixed target,
// no commands).
func CreateTestReplayData(frames int, targetX float64) ReplayData {
	data := ReplayData{
		Version: "1.0",
		Seed:    12345,
		Frames:  make([]FrameInput, frames),
	}
	for i := 0; i < frames; i++ {
		data.Frames[i] = FrameInput{F: i, Dt: 1.0 / 60, TX: targetX}
	}
	return data
}
