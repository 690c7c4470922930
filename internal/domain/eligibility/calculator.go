package eligibility

import "math"

// DefaultThreshold は修了証発行に必要な出席率（%、境界値を含む）
const DefaultThreshold = 75.0

// Verdict は (ユーザー, イベント) ごとの出席率判定結果を表す
type Verdict struct {
	TotalSessions int
	Attended      int
	Percentage    float64
	Passed        bool
}

// Compute は既定の閾値で出席率判定を計算する
func Compute(totalActiveSessions, attendedSessionCount int) Verdict {
	return ComputeWithThreshold(totalActiveSessions, attendedSessionCount, DefaultThreshold)
}

// ComputeWithThreshold は出席率判定を計算する純粋関数
// 出席率は小数第1位に四捨五入（0.5は切り上げ）し、
// ダッシュボードとエクスポートの全経路でこの関数のみを使用する
// セッションが0件の場合は 0.0 / 不合格（空のイベントで合格にはしない）
func ComputeWithThreshold(totalActiveSessions, attendedSessionCount int, threshold float64) Verdict {
	v := Verdict{
		TotalSessions: totalActiveSessions,
		Attended:      attendedSessionCount,
	}
	if totalActiveSessions <= 0 {
		return v
	}
	raw := float64(attendedSessionCount) * 100.0 / float64(totalActiveSessions)
	v.Percentage = math.Round(raw*10) / 10
	v.Passed = v.Percentage >= threshold
	return v
}
