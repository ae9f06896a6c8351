package model

// Emotion is the discrete sentiment classification of a line.
type Emotion string

const (
	EmotionJoy        Emotion = "joy"
	EmotionMelancholy Emotion = "melancholy"
	EmotionEnergy     Emotion = "energy"
	EmotionCalm       Emotion = "calm"
	EmotionPassionate Emotion = "passionate"
	EmotionReflective Emotion = "reflective"
)

// Emotions lists the supported emotions.
var Emotions = []Emotion{
	EmotionJoy,
	EmotionMelancholy,
	EmotionEnergy,
	EmotionCalm,
	EmotionPassionate,
	EmotionReflective,
}

// Valid reports whether e is one of the supported emotions.
func (e Emotion) Valid() bool {
	for _, known := range Emotions {
		if e == known {
			return true
		}
	}
	return false
}

const (
	MinIntensity = 0.1
	MaxIntensity = 1.0
)

// Colors are 6-hex-digit colors, e.g. "#6366f1".
type Colors struct {
	Primary   string `json:"primary" jsonschema:"pattern=^#[0-9a-fA-F]{6}$"`
	Secondary string `json:"secondary" jsonschema:"pattern=^#[0-9a-fA-F]{6}$"`
	Accent    string `json:"accent" jsonschema:"pattern=^#[0-9a-fA-F]{6}$"`
}

// SentimentAnalysis is the emotional reading of one line.
type SentimentAnalysis struct {
	Emotion   Emotion `json:"emotion" jsonschema:"enum=joy,enum=melancholy,enum=energy,enum=calm,enum=passionate,enum=reflective"`
	Intensity float64 `json:"intensity" jsonschema:"minimum=0.1,maximum=1"`
	Colors    Colors  `json:"colors"`
}

// DefaultSentiment is returned whenever the sentiment could not be obtained.
func DefaultSentiment() SentimentAnalysis {
	return SentimentAnalysis{
		Emotion:   EmotionCalm,
		Intensity: 0.5,
		Colors: Colors{
			Primary:   "#6366f1",
			Secondary: "#8b5cf6",
			Accent:    "#ec4899",
		},
	}
}

type ParticleEffect string

const (
	ParticleBubbles ParticleEffect = "bubbles"
	ParticleLeaves  ParticleEffect = "leaves"
	ParticleStars   ParticleEffect = "stars"
	ParticleWaves   ParticleEffect = "waves"
	ParticleSparks  ParticleEffect = "sparks"
)

type Animation string

const (
	AnimationFade  Animation = "fade"
	AnimationSlide Animation = "slide"
	AnimationGlow  Animation = "glow"
	AnimationPulse Animation = "pulse"
	AnimationFloat Animation = "float"
)

// VisualizationConfig is always derived from a SentimentAnalysis.
type VisualizationConfig struct {
	ParticleEffect ParticleEffect `json:"particleEffect"`
	Animation      Animation      `json:"animation"`
	Background     string         `json:"background"` // CSS gradient
}
