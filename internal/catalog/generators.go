package catalog

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/edbpede/math-sub000/internal/templates"
)

func numericAnswerMatches(ex templates.Exercise, answer string) bool {
	got, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(answer, ",", ".")), 64)
	if err != nil {
		return false
	}
	want, err := strconv.ParseFloat(ex.Answer, 64)
	if err != nil {
		return false
	}
	return got == want
}

func revealHint(ex templates.Exercise) string {
	return "The answer is " + ex.Answer + "."
}

// AdditionGenerator produces a + b with operands in [0, Max].
type AdditionGenerator struct {
	Max int
}

func (g AdditionGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	a, b := r.Intn(g.Max+1), r.Intn(g.Max+1)
	return templates.Exercise{
		Prompt: promptBody(locale, fmt.Sprintf("%d + %d", a, b)),
		Answer: strconv.Itoa(a + b),
	}, nil
}

func (g AdditionGenerator) Validate(ex templates.Exercise, answer string) bool {
	return numericAnswerMatches(ex, answer)
}

func (g AdditionGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "Start from the bigger number and count up." },
		func(templates.Exercise) string { return "Break one number into tens and ones, then add each part." },
		func(templates.Exercise) string { return "Add the ones first, then the tens, then combine." },
		revealHint,
	}
}

// SubtractionGenerator produces a - b with a >= b, operands in [0, Max].
type SubtractionGenerator struct {
	Max int
}

func (g SubtractionGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	a, b := r.Intn(g.Max+1), r.Intn(g.Max+1)
	if b > a {
		a, b = b, a
	}
	return templates.Exercise{
		Prompt: promptBody(locale, fmt.Sprintf("%d - %d", a, b)),
		Answer: strconv.Itoa(a - b),
	}, nil
}

func (g SubtractionGenerator) Validate(ex templates.Exercise, answer string) bool {
	return numericAnswerMatches(ex, answer)
}

func (g SubtractionGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "Count up from the smaller number to the bigger one." },
		func(templates.Exercise) string { return "Subtract the tens first, then the ones." },
		func(templates.Exercise) string { return "Check your answer: adding it to the smaller number should give the bigger one." },
		revealHint,
	}
}

// MultiplicationGenerator produces a × b with a in [2, MaxA], b in [2, MaxB].
type MultiplicationGenerator struct {
	MaxA int
	MaxB int
}

func (g MultiplicationGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	a := 2 + r.Intn(g.MaxA-1)
	b := 2 + r.Intn(g.MaxB-1)
	return templates.Exercise{
		Prompt: promptBody(locale, fmt.Sprintf("%d × %d", a, b)),
		Answer: strconv.Itoa(a * b),
	}, nil
}

func (g MultiplicationGenerator) Validate(ex templates.Exercise, answer string) bool {
	return numericAnswerMatches(ex, answer)
}

func (g MultiplicationGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "Think of it as repeated addition." },
		func(templates.Exercise) string { return "Split one factor into smaller parts and multiply each." },
		func(templates.Exercise) string { return "Use a times table you know and adjust from there." },
		revealHint,
	}
}

// DivisionGenerator produces a ÷ b with an integer quotient: the dividend is
// built as quotient × divisor.
type DivisionGenerator struct {
	MaxDivisor  int
	MaxQuotient int
}

func (g DivisionGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	divisor := 2 + r.Intn(g.MaxDivisor-1)
	quotient := 1 + r.Intn(g.MaxQuotient)
	return templates.Exercise{
		Prompt: promptBody(locale, fmt.Sprintf("%d ÷ %d", divisor*quotient, divisor)),
		Answer: strconv.Itoa(quotient),
	}, nil
}

func (g DivisionGenerator) Validate(ex templates.Exercise, answer string) bool {
	return numericAnswerMatches(ex, answer)
}

func (g DivisionGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "Division asks: how many times does the divisor fit?" },
		func(templates.Exercise) string { return "Try multiplying the divisor by small numbers until you reach the dividend." },
		func(templates.Exercise) string { return "Check: answer × divisor must equal the dividend." },
		revealHint,
	}
}

// FractionCompareGenerator asks which of two fractions is larger. The answer
// is the larger fraction written as "a/b".
type FractionCompareGenerator struct {
	MaxDenominator int
}

func (g FractionCompareGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	d1 := 2 + r.Intn(g.MaxDenominator-1)
	d2 := 2 + r.Intn(g.MaxDenominator-1)
	n1 := 1 + r.Intn(d1)
	n2 := 1 + r.Intn(d2)
	// Re-roll equal fractions deterministically by nudging the numerator.
	if n1*d2 == n2*d1 {
		if n1 < d1 {
			n1++
		} else {
			n1--
		}
	}

	left := fmt.Sprintf("%d/%d", n1, d1)
	right := fmt.Sprintf("%d/%d", n2, d2)
	answer := left
	if n2*d1 > n1*d2 {
		answer = right
	}

	body := fmt.Sprintf("the larger fraction, %s or %s", left, right)
	if strings.HasPrefix(locale, "da") {
		body = fmt.Sprintf("den største brøk, %s eller %s", left, right)
		return templates.Exercise{Prompt: "Hvad er " + body + "?", Answer: answer}, nil
	}
	return templates.Exercise{Prompt: "What is " + body + "?", Answer: answer}, nil
}

func (g FractionCompareGenerator) Validate(ex templates.Exercise, answer string) bool {
	return strings.TrimSpace(answer) == ex.Answer
}

func (g FractionCompareGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "Bring both fractions to a common denominator." },
		func(templates.Exercise) string { return "Cross-multiply: compare a×d with c×b." },
		func(templates.Exercise) string { return "Picture each fraction as a slice of the same pie." },
		revealHint,
	}
}

// RectangleAreaGenerator asks for the area of a w × h rectangle.
type RectangleAreaGenerator struct {
	MaxSide int
}

func (g RectangleAreaGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	w := 2 + r.Intn(g.MaxSide-1)
	h := 2 + r.Intn(g.MaxSide-1)
	body := fmt.Sprintf("the area of a %d × %d rectangle", w, h)
	if strings.HasPrefix(locale, "da") {
		body = fmt.Sprintf("arealet af et rektangel på %d × %d", w, h)
	}
	return templates.Exercise{
		Prompt: promptBody(locale, body),
		Answer: strconv.Itoa(w * h),
	}, nil
}

func (g RectangleAreaGenerator) Validate(ex templates.Exercise, answer string) bool {
	return numericAnswerMatches(ex, answer)
}

func (g RectangleAreaGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "Area of a rectangle is width times height." },
		func(templates.Exercise) string { return "Count the unit squares in one row, then multiply by the number of rows." },
		func(templates.Exercise) string { return "Write the two side lengths down and multiply them." },
		revealHint,
	}
}

// PerimeterGenerator asks for the perimeter of a w × h rectangle.
type PerimeterGenerator struct {
	MaxSide int
}

func (g PerimeterGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	w := 2 + r.Intn(g.MaxSide-1)
	h := 2 + r.Intn(g.MaxSide-1)
	body := fmt.Sprintf("the perimeter of a %d × %d rectangle", w, h)
	if strings.HasPrefix(locale, "da") {
		body = fmt.Sprintf("omkredsen af et rektangel på %d × %d", w, h)
	}
	return templates.Exercise{
		Prompt: promptBody(locale, body),
		Answer: strconv.Itoa(2 * (w + h)),
	}, nil
}

func (g PerimeterGenerator) Validate(ex templates.Exercise, answer string) bool {
	return numericAnswerMatches(ex, answer)
}

func (g PerimeterGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "Perimeter is the distance all the way around." },
		func(templates.Exercise) string { return "Add width and height, then double the sum." },
		func(templates.Exercise) string { return "Walk the four sides: two widths plus two heights." },
		revealHint,
	}
}

// MeanGenerator asks for the mean of Count values, constructed so the mean
// is an integer.
type MeanGenerator struct {
	Count    int
	MaxValue int
}

func (g MeanGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	mean := 1 + r.Intn(g.MaxValue)

	values := make([]int, g.Count)
	sum := 0
	for i := 0; i < g.Count-1; i++ {
		delta := r.Intn(5) - 2
		v := mean + delta
		if v < 0 {
			v = 0
		}
		values[i] = v
		sum += v
	}
	values[g.Count-1] = mean*g.Count - sum

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	body := "the mean of " + strings.Join(parts, ", ")
	if strings.HasPrefix(locale, "da") {
		body = "gennemsnittet af " + strings.Join(parts, ", ")
	}
	return templates.Exercise{
		Prompt: promptBody(locale, body),
		Answer: strconv.Itoa(mean),
	}, nil
}

func (g MeanGenerator) Validate(ex templates.Exercise, answer string) bool {
	return numericAnswerMatches(ex, answer)
}

func (g MeanGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "The mean is the sum divided by the count." },
		func(templates.Exercise) string { return "Add all the values first." },
		func(templates.Exercise) string { return "Divide the total by how many values there are." },
		revealHint,
	}
}

// LinearEquationGenerator asks for x in ax + b = c with an integer solution.
type LinearEquationGenerator struct {
	MaxCoefficient int
	MaxSolution    int
}

func (g LinearEquationGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	a := 2 + r.Intn(g.MaxCoefficient-1)
	x := 1 + r.Intn(g.MaxSolution)
	b := r.Intn(20)
	c := a*x + b

	body := fmt.Sprintf("x when %dx + %d = %d", a, b, c)
	if strings.HasPrefix(locale, "da") {
		body = fmt.Sprintf("x når %dx + %d = %d", a, b, c)
	}
	return templates.Exercise{
		Prompt: promptBody(locale, body),
		Answer: strconv.Itoa(x),
	}, nil
}

func (g LinearEquationGenerator) Validate(ex templates.Exercise, answer string) bool {
	return numericAnswerMatches(ex, answer)
}

func (g LinearEquationGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "Get the x-term alone: subtract the constant from both sides." },
		func(templates.Exercise) string { return "Then divide both sides by the coefficient of x." },
		func(templates.Exercise) string { return "Check by substituting your answer back into the equation." },
		revealHint,
	}
}

// PercentOfGenerator asks for p% of a number, built to come out whole.
type PercentOfGenerator struct {
	MaxBase int
}

func (g PercentOfGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	r := rand.New(rand.NewSource(seed))
	percents := []int{10, 20, 25, 50, 75}
	p := percents[r.Intn(len(percents))]
	// Pick a base divisible by 100/gcd so the result is an integer.
	step := 100 / gcd(100, p)
	base := step * (1 + r.Intn(g.MaxBase/step))

	body := fmt.Sprintf("%d%% of %d", p, base)
	if strings.HasPrefix(locale, "da") {
		body = fmt.Sprintf("%d%% af %d", p, base)
	}
	return templates.Exercise{
		Prompt: promptBody(locale, body),
		Answer: strconv.Itoa(base * p / 100),
	}, nil
}

func (g PercentOfGenerator) Validate(ex templates.Exercise, answer string) bool {
	return numericAnswerMatches(ex, answer)
}

func (g PercentOfGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "Percent means per hundred." },
		func(templates.Exercise) string { return "Find 10% first by dividing by ten, then scale." },
		func(templates.Exercise) string { return "Multiply the number by the percent and divide by 100." },
		revealHint,
	}
}

// promptBody wraps a question body in the locale's question phrasing. Danish
// is the home locale; everything else falls back to English.
func promptBody(locale, body string) string {
	if strings.HasPrefix(locale, "da") {
		return "Hvad er " + body + "?"
	}
	return "What is " + body + "?"
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
