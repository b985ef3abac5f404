package activity

type Activity string

const (
	Study    Activity = "study"
	Work     Activity = "work"
	Social   Activity = "social"
	Rest     Activity = "rest"
	Exercise Activity = "exercise"
)

// All lists activities in the fixed order used for summation.
var All = []Activity{Study, Work, Social, Rest, Exercise}

func Parse(s string) (Activity, bool) {
	for _, a := range All {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}
