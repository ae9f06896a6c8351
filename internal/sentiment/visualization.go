package sentiment

import (
	"strings"

	"lyrics-etymology/internal/model"
)

type visualTemplate struct {
	particle   model.ParticleEffect
	animation  model.Animation
	background string
}

var visualizations = map[model.Emotion]visualTemplate{
	model.EmotionJoy:        {model.ParticleBubbles, model.AnimationFloat, "linear-gradient(135deg, {primary}20, {secondary}10)"},
	model.EmotionMelancholy: {model.ParticleLeaves, model.AnimationFade, "linear-gradient(180deg, {primary}15, transparent)"},
	model.EmotionEnergy:     {model.ParticleSparks, model.AnimationPulse, "radial-gradient(circle at center, {accent}20, transparent)"},
	model.EmotionCalm:       {model.ParticleWaves, model.AnimationSlide, "linear-gradient(90deg, {primary}10, {secondary}10)"},
	model.EmotionPassionate: {model.ParticleStars, model.AnimationGlow, "radial-gradient(ellipse at top, {primary}25, transparent)"},
	model.EmotionReflective: {model.ParticleWaves, model.AnimationFade, "linear-gradient(135deg, {secondary}15, {primary}10)"},
}

// MapVisualization is a pure lookup; unknown emotions use the calm entry.
func MapVisualization(s model.SentimentAnalysis) model.VisualizationConfig {
	tpl, ok := visualizations[s.Emotion]
	if !ok {
		tpl = visualizations[model.EmotionCalm]
	}
	background := strings.NewReplacer(
		"{primary}", s.Colors.Primary,
		"{secondary}", s.Colors.Secondary,
		"{accent}", s.Colors.Accent,
	).Replace(tpl.background)

	return model.VisualizationConfig{
		ParticleEffect: tpl.particle,
		Animation:      tpl.animation,
		Background:     background,
	}
}
