package model

// Verdict is the backtest's judgement of the fitted model.
// Keep these values stable; they are intended for CSV and JSON output.
type Verdict string

const (
	VerdictUsable     Verdict = "MODEL_USABLE"
	VerdictUnreliable Verdict = "MODEL_UNRELIABLE"
)

func VerdictFromError(avgAbsErr, tolerance float64) Verdict {
	if avgAbsErr <= tolerance {
		return VerdictUsable
	}
	return VerdictUnreliable
}

// Message is the user-facing sentence shown next to the backtest table.
func (v Verdict) Message() string {
	switch v {
	case VerdictUsable:
		return "Our model predicts that future prices may vary within this margin."
	case VerdictUnreliable:
		return "Our model can't understand this stock well. We don't recommend relying on this prediction."
	default:
		return ""
	}
}

// Disclaimer accompanies every recommendation.
const Disclaimer = "Disclaimer: The stock predictions provided by this tool are based on historical data and statistical modeling. " +
	"Actual market prices may vary significantly. Use this tool for informational purposes only and consult with a " +
	"financial expert before making any investment decisions."
