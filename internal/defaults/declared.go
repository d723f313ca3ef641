package defaults

import (
	"regexp"
	"strings"
)

var (
	numberToken      = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?[fFdDlL]?$`)
	constructorToken = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\((.*)\)$`)
	identifierToken  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	qualifiedToken   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*::)*[A-Za-z_][A-Za-z0-9_]*$`)
)

// ParseDeclared reads the default written in a declaration comment, such as `3`, `false`,
// `cv::BORDER_DEFAULT` or `cv::Size()`. Anything else is reported as not understood.
func ParseDeclared(text string) (Value, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Value{}, false
	}

	if text == "true" || text == "false" {
		return PrimitiveOf(text), true
	}
	if numberToken.MatchString(text) {
		return PrimitiveOf(strings.TrimRight(text, "fFdDlL")), true
	}

	// cv::Size() constructs Size and cv::Mat::AUTO_STEP names AUTO_STEP.
	head := text
	if open := strings.Index(text, "("); open >= 0 {
		head = text[:open]
	}
	if i := strings.LastIndex(head, "::"); i >= 0 {
		text = text[i+2:]
	}

	if match := constructorToken.FindStringSubmatch(text); match != nil {
		args := []string{}
		for _, arg := range strings.Split(match[2], ",") {
			if arg = strings.TrimSpace(arg); arg == "" {
				continue
			}
			value, ok := constructorArg(arg)
			if !ok {
				return Value{}, false
			}
			args = append(args, value)
		}
		return Construct(match[1], args...), true
	}

	if identifierToken.MatchString(text) {
		return LiteralOf(text), true
	}

	return Value{}, false
}

// Constructor arguments are numbers, booleans or constant names. Expressions such as
// `cv::TermCriteria::MAX_ITER+cv::TermCriteria::EPS` are not understood.
func constructorArg(arg string) (string, bool) {
	switch {
	case arg == "true" || arg == "false":
		return arg, true
	case numberToken.MatchString(arg):
		return strings.TrimRight(arg, "fFdDlL"), true
	case qualifiedToken.MatchString(arg):
		return arg[strings.LastIndex(arg, ":")+1:], true
	}

	return "", false
}

// IsPrimitiveToken reports whether token is a number or boolean literal rather than a constant name.
func IsPrimitiveToken(token string) bool {
	return token == "true" || token == "false" || numberToken.MatchString(token)
}
