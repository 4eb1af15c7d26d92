package static

import (
	"math"
	"regexp"
	"strings"

	"github.com/huangsam/changescope/schema"
)

var (
	cyclomaticKeywords = regexp.MustCompile(`\b(if|elif|for|while|case|catch|except)\b`)
	logicalOperators   = regexp.MustCompile(`&&|\|\|`)
	pythonLogical      = regexp.MustCompile(`\b(and|or)\b`)

	cognitiveControl = regexp.MustCompile(`\b(if|for|while|switch)\b`)
	cognitiveCatch   = regexp.MustCompile(`\b(catch|except)\b`)
	cognitiveJump    = regexp.MustCompile(`\b(break|continue)\b`)
)

func countMatches(re *regexp.Regexp, s string) int {
	return len(re.FindAllStringIndex(s, -1))
}

func logicalCount(s, lang string) int {
	n := countMatches(logicalOperators, s)
	if lang == "python" {
		n += countMatches(pythonLogical, s)
	}
	return n
}

// cyclomatic is 1 plus control keywords plus logical operators.
func cyclomatic(content, lang string) int {
	return 1 + countMatches(cyclomaticKeywords, content) + logicalCount(content, lang)
}

// cognitive scores each line before applying its braces to the depth counter.
func cognitive(lines []string, lang string) int {
	score, depth := 0, 0
	for _, line := range lines {
		score += countMatches(cognitiveControl, line) * (1 + depth)
		score += countMatches(cognitiveCatch, line)
		score += countMatches(cognitiveJump, line)
		score += logicalCount(line, lang)

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		depth = max(depth, 0)
	}
	return score
}

// nesting is the maximum depth of the bracket counter.
func nesting(content string) int {
	depth, deepest := 0, 0
	for _, r := range content {
		switch r {
		case '{', '(', '[':
			depth++
			deepest = max(deepest, depth)
		case '}', ')', ']':
			depth = max(depth-1, 0)
		}
	}
	return deepest
}

var (
	operatorPattern = regexp.MustCompile(`===|!==|==|!=|<=|>=|&&|\|\||\+\+|--|\+=|-=|\*=|/=|=>|<<|>>|[-+*/%=<>!&|^~?:]|\b(?:if|else|for|while|do|switch|case|return|new|delete|typeof|instanceof|throw|try|catch|await|yield|in|of|and|or|not|is)\b`)
	operandPattern  = regexp.MustCompile(`"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'|\b\d+(?:\.\d+)?\b|[A-Za-z_$][\w$]*`)
)

// operandKeywords are identifiers that never count as operands.
var operandKeywords = toSet(strings.Fields(`
	if else for while do switch case default break continue return new delete typeof instanceof
	throw try catch finally await async yield in of and or not is function def func class
	interface type struct import from export const let var package public private protected
	static final abstract extends implements with as pass lambda elif except raise go defer
	select chan map range fallthrough goto void this self super null nil None true false True False
`))

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// halstead derives size measures from independent operator and operand token scans.
func halstead(content string) schema.HalsteadMetrics {
	operators := make(map[string]int)
	for _, tok := range operatorPattern.FindAllString(content, -1) {
		operators[tok]++
	}
	operands := make(map[string]int)
	for _, tok := range operandPattern.FindAllString(content, -1) {
		if _, kw := operandKeywords[tok]; kw {
			continue
		}
		operands[tok]++
	}

	h := schema.HalsteadMetrics{
		DistinctOperators: len(operators),
		DistinctOperands:  len(operands),
	}
	for _, n := range operators {
		h.TotalOperators += n
	}
	for _, n := range operands {
		h.TotalOperands += n
	}
	h.Vocabulary = h.DistinctOperators + h.DistinctOperands
	h.Length = h.TotalOperators + h.TotalOperands

	volume := float64(h.Length) * math.Log2(float64(max(h.Vocabulary, 1)))
	difficulty := float64(h.DistinctOperators) / 2 * (float64(h.TotalOperands) / float64(max(h.DistinctOperands, 1)))
	h.Volume = round2(volume)
	h.Difficulty = round2(difficulty)
	h.Effort = round2(volume * difficulty)
	return h
}
