package behavior

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultLibrary returns the built-in reaction set. Order matters: it is
// the tie-break order, with the intimidating/protective reactions first and
// the idle fallback carrying a baseline that beats any unmatched score.
func DefaultLibrary() []Spec {
	return []Spec{
		{
			Name:             "intimidate",
			Goals:            []string{"intimidate", "threaten"},
			Emotions:         []string{"hostile", "angry", "furious"},
			GoalBonus:        0.6,
			EmotionBonus:     0.3,
			ConfidenceWeight: 0.15,
			UrgencyWeight:    0.2,
			Command: CommandTemplate{
				Posture:   "aggressive",
				Luminance: "intense",
				LeftHand:  "closed",
				RightHand: "closed",
				Duration:  2,
			},
			TrackFocus: true,
		},
		{
			Name:             "friendly_greet",
			Goals:            []string{"greet", "assist", "express_affection", "welcome"},
			Emotions:         []string{"friendly", "affectionate", "warm"},
			GoalBonus:        0.6,
			EmotionBonus:     0.3,
			ConfidenceWeight: 0.1,
			Baseline:         0.05,
			Command: CommandTemplate{
				Posture:   "relaxed",
				Luminance: "soft",
				LeftHand:  "open",
				RightHand: "open",
				Duration:  2,
			},
			TrackFocus: true,
		},
		{
			Name:             "alert_scan",
			Goals:            []string{"alert_scan", "scan", "patrol", "watch"},
			Emotions:         []string{"suspicious", "wary", "vigilant"},
			GoalBonus:        0.6,
			EmotionBonus:     0.3,
			ConfidenceWeight: 0.15,
			UrgencyWeight:    0.15,
			Command: CommandTemplate{
				Posture:   "alert",
				Luminance: "bright",
				LeftHand:  "pointing",
				RightHand: "pointing",
				Duration:  3,
			},
			TrackFocus: true,
		},
		{
			Name:         "relaxed_idle",
			Goals:        []string{"idle", "rest", "wait"},
			Emotions:     []string{"neutral", "calm"},
			GoalBonus:    0.5,
			EmotionBonus: 0.3,
			// Above the largest confidence/urgency sum an unmatched
			// behavior can reach (0.35), so intents that trigger nothing
			// settle here instead of riding scalar weights elsewhere.
			Baseline: 0.4,
			Command: CommandTemplate{
				Posture:   "idle",
				Luminance: "dim",
				LeftHand:  "relaxed",
				RightHand: "relaxed",
				Duration:  5,
			},
		},
		{
			Name:             "curious_explore",
			Goals:            []string{"explore", "investigate", "search"},
			Emotions:         []string{"curious", "intrigued"},
			GoalBonus:        0.5,
			EmotionBonus:     0.4,
			ConfidenceWeight: 0.15,
			UrgencyWeight:    0.1,
			Command: CommandTemplate{
				Posture:   "curious",
				Luminance: "normal",
				LeftHand:  "pointing",
				RightHand: "open",
				Duration:  2.5,
			},
			TrackFocus: true,
		},
		{
			Name:             "protective",
			Goals:            []string{"protect", "guard", "defend"},
			Emotions:         []string{"protective"},
			GoalBonus:        0.7,
			EmotionBonus:     0.2,
			ConfidenceWeight: 0.1,
			UrgencyWeight:    0.2,
			Command: CommandTemplate{
				Posture:   "alert",
				Luminance: "bright",
				LeftHand:  "closed",
				RightHand: "open",
				Duration:  3,
			},
			TrackFocus: true,
		},
		{
			Name:             "playful",
			Goals:            []string{"playful_tease", "play", "joke"},
			Emotions:         []string{"playful", "mischievous"},
			GoalBonus:        0.5,
			EmotionBonus:     0.4,
			ConfidenceWeight: 0.1,
			Command: CommandTemplate{
				Posture:   "relaxed",
				Luminance: "soft",
				LeftHand:  "open",
				RightHand: "pointing",
				Duration:  2,
			},
			TrackFocus: true,
		},
		{
			Name:             "illuminate",
			Goals:            []string{"provide_illumination", "illuminate", "light"},
			Emotions:         []string{"helpful"},
			GoalBonus:        0.9,
			EmotionBonus:     0.1,
			ConfidenceWeight: 0.1,
			Command: CommandTemplate{
				Posture:   "relaxed",
				Luminance: "bright",
				LeftHand:  "open",
				RightHand: "open",
				Duration:  3,
			},
			// Past this urgency the light goes to full.
			EscalateLuminance: 0.6,
		},
	}
}

type libraryFile struct {
	Behaviors []Spec `yaml:"behaviors"`
}

// LoadLibrary reads a behavior library from a YAML file. The file order is
// the tie-break order. Every spec is validated; the first bad one fails the
// whole load so a half-applied library can never reach the arbiter.
func LoadLibrary(path string) ([]Spec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read behavior library: %w", err)
	}
	var f libraryFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse behavior library: %w", err)
	}
	if len(f.Behaviors) == 0 {
		return nil, ErrEmptyLibrary
	}
	for _, s := range f.Behaviors {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Behaviors, nil
}
