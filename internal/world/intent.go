package world

// Intent is the externally produced assessment the pipeline reacts to:
// a goal and emotion label plus confidence/urgency scalars, one per turn.
// Goal and emotion are free-form; behaviors match them by trigger sets.
type Intent struct {
	Goal       string  `json:"goal"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Urgency    float64 `json:"urgency"`
	Focus      string  `json:"focus,omitempty"` // entity ID, empty = none
}

// Normalized returns a copy with confidence and urgency clamped into [0,1].
// The cognition side already promises this range; clamping here keeps a bad
// upstream from skewing utility scores.
func (in Intent) Normalized() Intent {
	in.Confidence = clamp01(in.Confidence)
	in.Urgency = clamp01(in.Urgency)
	return in
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
