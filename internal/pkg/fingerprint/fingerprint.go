package fingerprint

// Signals 访客浏览器上报的设备信号元组。
// ip_segment 在入口处已统一命名（前端字段为 ipSeg），此处不再做兼容。
type Signals struct {
	Hardware  string
	OS        string
	Timezone  string
	Screen    string
	IPSegment string
}

// 各信号的相似度权重，硬件指纹单独命中即可判定同机
const (
	hardwareScore = 50
	osScore       = 20
	timezoneScore = 10
	screenScore   = 10
	ipScore       = 30

	similarThreshold = 50
)

// Similar 判断两组设备信号是否指向同一台物理设备。
// 加分制启发式：避免同一台机器因无痕模式/换浏览器被误判为新访客，
// 同时不强依赖 IP 完全一致（NAT、移动网络下 IP 会漂移）。
// 缺失字段不参与计分。
func Similar(a, b Signals) bool {
	return Score(a, b) >= similarThreshold
}

// Score 计算两组信号的相似度得分
func Score(a, b Signals) int {
	score := 0
	if match(a.Hardware, b.Hardware) {
		score += hardwareScore
	}
	if match(a.OS, b.OS) {
		score += osScore
	}
	if match(a.Timezone, b.Timezone) {
		score += timezoneScore
	}
	if match(a.Screen, b.Screen) {
		score += screenScore
	}
	if match(a.IPSegment, b.IPSegment) {
		score += ipScore
	}
	return score
}

func match(x, y string) bool {
	return x != "" && x == y
}
