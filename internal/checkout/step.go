package checkout

type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

// String representation (for logging)
func (s Step) String() string {
	return string(s)
}
