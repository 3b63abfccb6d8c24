package analysis

import (
	"fmt"
	"sort"
	"strings"

	"roundbread-bot/internal/lib/inference"
)

const (
	BreadLabel = "bread"

	certainlyBread = "This is certainly bread! "
	noShape        = ". I couldn't find the shape dough. (Get it? Though - dough ehehehehe)"
	notRound       = "I don't think this bread is round at all..."

	MildlyBreadMessage = "This is only very mildly bread. Metaphysical bread even."
	NotBreadMessage    = "This isn't bread at all!"

	// SphereRoundness "anything over an 80% is pretty close to a sphere"
	SphereRoundness = 0.8
)

// Outcome ветка, по которой пошел анализ
type Outcome int

const (
	OutcomeNotBread Outcome = iota
	OutcomeMildlyBread
	OutcomeBread
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBread:
		return "bread"
	case OutcomeMildlyBread:
		return "mildly bread"
	default:
		return "not bread"
	}
}

// SentimentForConfidence переводит уверенность в фразу, интервалы полуоткрытые [lo, hi)
func SentimentForConfidence(confidence float64, label string) string {
	label = strings.ReplaceAll(label, "_", " ")
	switch {
	case confidence < 0.5:
		return fmt.Sprintf("%s, H E L P, ", label)
	case confidence < 0.6:
		return fmt.Sprintf(", just a bit %s", label)
	case confidence < 0.7:
		return fmt.Sprintf("reasonably %s", label)
	case confidence < 0.8:
		return fmt.Sprintf("probably %s", label)
	case confidence < 0.9:
		return fmt.Sprintf("fairly confident that it's %s", label)
	case confidence < 1.0:
		return fmt.Sprintf("pretty sure it is %s", label)
	default:
		return fmt.Sprintf("Confirmed that it's %s", label)
	}
}

// LabelsMessage фраза для каждой метки не ниже minConfidence, метки по алфавиту
func LabelsMessage(labels map[string]float64, minConfidence float64) string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(certainlyBread)
	for _, name := range names {
		if confidence := labels[name]; confidence >= minConfidence {
			b.WriteString(SentimentForConfidence(confidence, name))
			b.WriteString(" ")
		}
	}
	return b.String()
}

func RoundnessMessage(roundness *float64) string {
	if roundness == nil {
		return notRound
	}
	return fmt.Sprintf("This bread seems %.2f%% round. Anything over an 80%% is pretty close to a sphere!", *roundness*100)
}

// Decision что ответить и нужно ли сохранять перекодированное изображение
type Decision struct {
	Outcome      Outcome
	Text         string
	UseSegmented bool
}

// Decide выбирает ответ по результату распознавания
func Decide(res *inference.PredictResult, breadThreshold, minConfidence float64) Decision {
	breadConfidence, ok := res.Labels[BreadLabel]
	if !ok {
		return Decision{Outcome: OutcomeNotBread, Text: NotBreadMessage}
	}
	if breadConfidence < breadThreshold {
		return Decision{Outcome: OutcomeMildlyBread, Text: MildlyBreadMessage}
	}

	text := LabelsMessage(res.Labels, minConfidence)
	if res.Image == nil {
		return Decision{Outcome: OutcomeBread, Text: text + noShape}
	}
	return Decision{Outcome: OutcomeBread, Text: text + RoundnessMessage(res.Roundness), UseSegmented: true}
}
