package telemetry

const (
	PredictionsServedCount        = "fs_predictions_served_count"
	PredictionCacheHitsCount      = "fs_prediction_cache_hits_count"
	TrainingsCompletedCount       = "fs_completed_trainings_count"
	TrainingsFailedCount          = "fs_failed_trainings_count"
	RecommendationsGeneratedCount = "fs_recommendations_generated_count"
	RuleFailuresCount             = "fs_rule_evaluation_failures_count"
)
