package parser

import (
	"strings"
	"testing"
)

func TestValidateRejectsRegexInExpressionContext(t *testing.T) {
	_, err := Parse("/abc/")
	if err == nil {
		t.Fatal("expected an error: regex is pattern-only")
	}
	if !strings.Contains(err.Error(), "pattern context") {
		t.Errorf("error = %q, want it to mention pattern context", err.Error())
	}
}

func TestValidateAllowsRegexInPatternPositionOfDoBinding(t *testing.T) {
	// The left side of a do-seq binding is validated as a pattern, so a
	// regex there is legal even though it never appears in plain
	// expression position.
	_, err := Parse("do\n  /abc/ = x\nend")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsApplyInPatternPosition(t *testing.T) {
	_, err := Parse("case x of f(y) -> y end")
	if err == nil {
		t.Fatal("expected an error: a call is not a valid pattern")
	}
	if !strings.Contains(err.Error(), "not valid in pattern context") {
		t.Errorf("error = %q, want it to mention pattern context", err.Error())
	}
}

func TestValidateRejectsIfInPatternPosition(t *testing.T) {
	_, err := Parse("case x of (if true then 1 else 2) -> 1 end")
	if err == nil {
		t.Fatal("expected an error: if is not a valid pattern")
	}
}

func TestValidateRejectsArithmeticOperatorsInPatternPosition(t *testing.T) {
	_, err := Parse("case x of 1 + 1 -> true end")
	if err == nil {
		t.Fatal("expected an error: '+' is not valid in pattern context")
	}
	if !strings.Contains(err.Error(), "not valid in pattern context") {
		t.Errorf("error = %q, want it to mention pattern context", err.Error())
	}
}

func TestValidateAllowsConcatAndAsPatternOperators(t *testing.T) {
	_, err := Parse("case x of a ~ b -> a end")
	if err != nil {
		t.Fatalf("unexpected error for '~' pattern: %v", err)
	}
	_, err = Parse("case x of whole @ [h] -> whole end")
	if err != nil {
		t.Fatalf("unexpected error for '@' pattern: %v", err)
	}
}

func TestValidateRejectsUnaryInPatternPosition(t *testing.T) {
	// '-1' would have its sign absorbed into the literal itself (a
	// digit can't lex as a standalone MINUS), so this uses '-y': a
	// sign in front of an identifier can never be absorbed, and always
	// lexes as a real unary minus applied to a pattern.
	_, err := Parse("case x of -y -> true end")
	if err == nil {
		t.Fatal("expected an error: unary '-' is not valid in pattern context")
	}
	if !strings.Contains(err.Error(), "not valid in pattern context") {
		t.Errorf("error = %q, want it to mention pattern context", err.Error())
	}
}

func TestValidateAllowsNestedAssignPatternForMatchBinding(t *testing.T) {
	_, err := Parse("case x of whole = [h, t] -> whole end")
	if err != nil {
		t.Fatalf("unexpected error for nested match pattern: %v", err)
	}
}

func TestValidateRejectsAssignInExpressionContext(t *testing.T) {
	// An '=' appearing where only an expression is legal (here: as a
	// function argument, since args are validated as expressions not
	// patterns; a case clause's body is rejected the same way).
	_, err := Parse("f(x = 1)")
	if err == nil {
		t.Fatal("expected an error: '=' is not valid in expression context")
	}
	if !strings.Contains(err.Error(), "not valid in expression context") {
		t.Errorf("error = %q, want it to mention expression context", err.Error())
	}
}

func TestValidateAllowsDictPatternInCaseClause(t *testing.T) {
	_, err := Parse(`case x of {a: v} -> v end`)
	if err != nil {
		t.Fatalf("unexpected error for dict pattern: %v", err)
	}
}

func TestValidateRejectsDoInPatternPosition(t *testing.T) {
	_, err := Parse("case x of (do 1 end) -> true end")
	if err == nil {
		t.Fatal("expected an error: a do-block is not valid in pattern context")
	}
}
