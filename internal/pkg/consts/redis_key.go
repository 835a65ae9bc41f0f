package consts

const (
	SubmissionDashboardKey = "submission:dashboard:"
	SubmissionStatsKey     = "submission:stats:"
	UserSubmissionsKey     = "user:submissions:"
)
