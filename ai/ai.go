package ai

import (
	"context"
	"errors"

	"github.com/waverider-dev/discord-bridge/logger/dlog"
)

// Completer is the single blocking completion call the bridge needs from
// an AI provider.
type Completer interface {
	Name() string
	Complete(ctx context.Context, question string) (string, error)
}

// ErrProvider marks failures raised by the provider itself (bad key,
// quota, upstream outage) as opposed to unexpected local failures.
// Providers wrap their SDK errors with it.
var ErrProvider = errors.New("ai provider request failed")

// Fixed fallback replies. The question always gets a human readable
// answer, never an error surface.
const (
	UnavailableMessage = "AI 服務尚未設定，請聯繫管理員。"
	RetryMessage       = "抱歉，AI 服務暫時無法使用，請稍後再試。"
	UnexpectedMessage  = "發生錯誤，請稍後再試。"
)

// SystemPrompt steers the provider. The risk disclaimer on trading advice
// is delegated to these instructions rather than enforced in code.
const SystemPrompt = `你是 WaveRider 社群的 AI 助理，專門協助用戶解答關於動能股波段交易的問題。

你的專長包括：
- 動能交易策略（StockBee、CANSLIM、SEPA、VCP 等）
- 技術分析基礎
- WaveRider 平台功能說明
- 交易心理與風險管理

回答規則：
1. 使用繁體中文，語氣友善專業
2. 回答簡潔，重點清晰
3. 涉及具體買賣建議時，務必加上免責聲明
4. 如果不確定，誠實說明並建議用戶查閱官方資源

免責聲明模板：
「⚠️ 以上僅供參考，不構成投資建議。投資有風險，請自行評估。」`

// Answer runs the blocking completion and maps every failure into a fixed
// user facing reply. A nil completer means no provider is configured; no
// call is attempted in that case.
func Answer(ctx context.Context, completer Completer, question string) string {
	if completer == nil {
		return UnavailableMessage
	}
	answer, err := completer.Complete(ctx, question)
	if err != nil {
		if errors.Is(err, ErrProvider) {
			dlog.Error("completion provider error", "provider", completer.Name(), "err", err)
			return RetryMessage
		}
		dlog.Error("unexpected completion failure", "provider", completer.Name(), "err", err)
		return UnexpectedMessage
	}
	return answer
}
