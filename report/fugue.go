package report

import "bachgen/jsonutil"

// FugueMetrics is the Fugue-specific analysis extension emitted alongside
// the general Report. It is a separate type rather than folded into Report
// since it scores Fugue-only structural properties
// (exposition/episode/tonal-plan shape) that Goldberg and Chaconne pieces
// have no equivalent of.
type FugueMetrics struct {
	AnswerAccuracyScore         float64
	ExpositionCompletenessScore float64
	EpisodeMotifUsageRate       float64
	TonalPlanScore              float64
	CadenceDetectionRate        float64
	MotivicUnityScore           float64
	TonalConsistencyScore       float64
}

// ToJSON renders the metrics as pretty-printed JSON.
func (m FugueMetrics) ToJSON() string {
	w := jsonutil.NewWriter("  ")
	w.BeginObject()
	w.Key("answer_accuracy_score")
	w.Float(m.AnswerAccuracyScore)
	w.Key("exposition_completeness_score")
	w.Float(m.ExpositionCompletenessScore)
	w.Key("episode_motif_usage_rate")
	w.Float(m.EpisodeMotifUsageRate)
	w.Key("tonal_plan_score")
	w.Float(m.TonalPlanScore)
	w.Key("cadence_detection_rate")
	w.Float(m.CadenceDetectionRate)
	w.Key("motivic_unity_score")
	w.Float(m.MotivicUnityScore)
	w.Key("tonal_consistency_score")
	w.Float(m.TonalConsistencyScore)
	w.EndObject()
	return w.ToString()
}
