package metrics

import "github.com/prometheus/client_golang/prometheus"

// GenerationMetrics tracks outcomes and token spend of the content pipeline.
type GenerationMetrics struct {
	generations *prometheus.CounterVec
	tokens      prometheus.Counter
	writeBacks  *prometheus.CounterVec
}

// NewGenerationMetrics registers the pipeline metrics on the provided registerer.
func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	if reg == nil {
		return &GenerationMetrics{}
	}
	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generations_total",
		Help: "Completed and failed description generations.",
	}, []string{"tone", "outcome"})
	tokens := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generation_tokens_total",
		Help: "Provider-reported tokens consumed by generations.",
	})
	writeBacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_write_backs_total",
		Help: "Storefront write-back attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(generations, tokens, writeBacks)
	return &GenerationMetrics{
		generations: generations,
		tokens:      tokens,
		writeBacks:  writeBacks,
	}
}

// ObserveGeneration records one pipeline run.
func (g *GenerationMetrics) ObserveGeneration(tone, outcome string, tokensUsed int) {
	if g == nil || g.generations == nil {
		return
	}
	g.generations.WithLabelValues(normalizeLabel(tone), normalizeLabel(outcome)).Inc()
	if tokensUsed > 0 {
		g.tokens.Add(float64(tokensUsed))
	}
}

// ObserveWriteBack records one storefront write-back attempt.
func (g *GenerationMetrics) ObserveWriteBack(outcome string) {
	if g == nil || g.writeBacks == nil {
		return
	}
	g.writeBacks.WithLabelValues(normalizeLabel(outcome)).Inc()
}
