package worker

import "github.com/book-expert/events"

// SlideshowRequestedEvent asks the service to assemble one narrated slideshow
// from objects already present in the media bucket. ImageKeys order defines
// the original input positions.
type SlideshowRequestedEvent struct {
	Header             events.EventHeader `json:"header"`
	NarrationKey       string             `json:"narration_key"`
	ImageKeys          []string           `json:"image_keys"`
	BackgroundMusicKey string             `json:"background_music_key,omitempty"`
	Voice              string             `json:"voice,omitempty"`
	Locale             string             `json:"locale,omitempty"`
	SpeechRate         float64            `json:"speech_rate,omitempty"`
	MusicVolume        float64            `json:"music_volume,omitempty"`
	LeadInMS           int                `json:"lead_in_ms,omitempty"`
	CanvasWidth        int                `json:"canvas_width,omitempty"`
	CanvasHeight       int                `json:"canvas_height,omitempty"`
}

// VideoCreatedEvent is the reply published once the encoded video has been
// uploaded to the media bucket.
type VideoCreatedEvent struct {
	Header          events.EventHeader `json:"header"`
	VideoKey        string             `json:"video_key"`
	DurationSeconds float64            `json:"duration_seconds"`
	FrameCount      int                `json:"frame_count"`
}
