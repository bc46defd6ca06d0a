package evaluation

import (
	"github.com/google/jsonschema-go/jsonschema"

	"speakcoach/evaluator/internal/scoring"
)

func stringList() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "string"}}
}

// score accepts any number; out-of-range values are clamped after decoding.
func score() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number"}
}

// labelsSchema: [{"name": string, "valid": bool}, ...]
var labelsSchema = scoring.MustResolve(&jsonschema.Schema{
	Type: "array",
	Items: &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":  {Type: "string"},
			"valid": {Type: "boolean"},
		},
	},
})

func metricSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"score"},
		Properties: map[string]*jsonschema.Schema{
			"score":      score(),
			"positives":  stringList(),
			"to_improve": stringList(),
		},
	}
}

var voiceMetricsSchema = scoring.MustResolve(&jsonschema.Schema{
	Type:     "object",
	Required: []string{metricGrammar, metricFluency, metricFillerWords, metricClarity},
	Properties: map[string]*jsonschema.Schema{
		metricGrammar:     metricSchema(),
		metricFluency:     metricSchema(),
		metricFillerWords: metricSchema(),
		metricClarity:     metricSchema(),
	},
})

func topicScoresSchema() *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(TopicDimensions))
	for _, d := range TopicDimensions {
		props[d] = score()
	}
	return &jsonschema.Schema{Type: "object", Properties: props}
}

var topicAnalysisSchema = scoring.MustResolve(&jsonschema.Schema{
	Type: "array",
	Items: &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":          {Type: "string"},
			"scores":        topicScoresSchema(),
			"went_well":     stringList(),
			"to_improve":    stringList(),
			"missed_points": stringList(),
			"rewrite":       {Type: "string"},
		},
	},
})
