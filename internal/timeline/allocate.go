package timeline

// DefaultSlideFloorSeconds is the minimum display duration preventing
// unreadably fast transitions.
const DefaultSlideFloorSeconds = 0.5

// PerSlideDuration computes the display duration of each slide from the final
// audio duration and the frame count. The floor wins when the audio is short
// relative to the frame count; the resulting nominal display time may then
// exceed the audio duration, which is accepted — the encoder's shorter-stream
// rule truncates at assembly time, not here.
func PerSlideDuration(audioDurationSeconds float64, frameCount int, floorSeconds float64) float64 {
	if floorSeconds <= 0 {
		floorSeconds = DefaultSlideFloorSeconds
	}

	if frameCount <= 0 {
		return floorSeconds
	}

	perSlide := audioDurationSeconds / float64(frameCount)
	if perSlide < floorSeconds {
		return floorSeconds
	}

	return perSlide
}
