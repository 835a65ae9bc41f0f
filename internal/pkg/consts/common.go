package consts

const (
	DesignTypeFigma = "figma"
	DesignTypePdf   = "pdf"
)

const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusViewed   = "viewed"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// 访客时长上报的合法区间，超出视为客户端计时器异常
const (
	MaxTimeSpentSeconds = 6 * 60 * 60
)

// 会话参与度阈值：停留 30 秒或浏览 3 页即视为有效互动
const (
	EngagedTimeSeconds = 30
	EngagedPagesViewed = 3
)

// 参与度分层阈值（秒）
const (
	EngagementHighSeconds     = 60
	EngagementModerateSeconds = 30
)

const (
	SignedURLExpirySeconds = 3600
)

const (
	MaxActiveSubmissions = 3
)
