package nodes

// Graph node keys.
const (
	NodeInputConverter      = "InputConverter"
	NodeAnalyzer            = "Analyzer"
	NodePrecomputedAnalysis = "PrecomputedAnalysis"
	NodeTurnRecorder        = "TurnRecorder"
	NodeResponseSelector    = "ResponseSelector"
)

// Analysis source labels used in logs and metrics.
const (
	AnalysisSourceClassifier  = "classifier"
	AnalysisSourcePrecomputed = "precomputed"
)

// DefaultMaxRunSteps bounds one graph run. A message visits four nodes.
const DefaultMaxRunSteps = 10
