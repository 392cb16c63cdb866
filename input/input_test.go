package input

import (
	"strings"
	"testing"
)

func TestNotEmpty(t *testing.T) {
	v := NotEmpty()

	if out := v.Validate("x"); !out.OK {
		t.Errorf("Validate(x) = %+v; want OK", out)
	}
	out := v.Validate("")
	if out.OK {
		t.Fatal("Validate(\"\") should fail")
	}
	if out.Message != "Please enter a value" {
		t.Errorf("Message = %q", out.Message)
	}
	if out.CursorPosition != 0 {
		t.Errorf("CursorPosition = %d; want 0", out.CursorPosition)
	}
	if out.Err() == nil || out.Err().Error() != out.Message {
		t.Errorf("Err() = %v", out.Err())
	}
}

func TestValueList(t *testing.T) {
	v := ValueList("a", "b", "c")

	for _, ok := range []string{"a", "b", "c"} {
		if out := v.Validate(ok); !out.OK {
			t.Errorf("Validate(%q) = %+v; want OK", ok, out)
		}
	}

	out := v.Validate("d")
	if out.OK {
		t.Fatal("Validate(d) should fail")
	}
	if out.Message != "Please enter one of: a|b|c" {
		t.Errorf("Message = %q", out.Message)
	}
	if out.CursorPosition != 1 {
		t.Errorf("CursorPosition = %d; want 1", out.CursorPosition)
	}

	if out := v.Validate("A"); out.OK {
		t.Error("comparison should be exact")
	}
}

func TestValueType(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if out := ValueType("valueCode").Validate("active"); !out.OK {
			t.Errorf("Validate(active) = %+v", out)
		}
		if out := ValueType("valueBoolean").Validate("true"); !out.OK {
			t.Errorf("Validate(true) = %+v", out)
		}
	})

	t.Run("empty", func(t *testing.T) {
		out := ValueType("valueCode").Validate("")
		if out.OK || out.Message != MsgEmpty {
			t.Errorf("Validate(\"\") = %+v; want %q", out, MsgEmpty)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		text := "not a date"
		out := ValueType("valueDate").Validate(text)
		if out.OK {
			t.Fatal("Validate should fail")
		}
		if !strings.HasPrefix(out.Message, "1 validation error(s): ") {
			t.Errorf("Message = %q", out.Message)
		}
		if out.CursorPosition != len(text) {
			t.Errorf("CursorPosition = %d; want %d", out.CursorPosition, len(text))
		}
	})

	t.Run("cursor counts characters", func(t *testing.T) {
		out := ValueType("valueBoolean").Validate("jä")
		if out.CursorPosition != 2 {
			t.Errorf("CursorPosition = %d; want 2", out.CursorPosition)
		}
	})
}

func TestAll(t *testing.T) {
	v := All(NotEmpty(), ValueList("x"))

	if out := v.Validate("x"); !out.OK {
		t.Errorf("Validate(x) = %+v", out)
	}
	if out := v.Validate(""); out.Message != MsgEmpty {
		t.Errorf("first rejection should win, got %q", out.Message)
	}
	if out := v.Validate("y"); out.Message != "Please enter one of: x" {
		t.Errorf("Message = %q", out.Message)
	}
	if out := All().Validate(""); !out.OK {
		t.Error("All() with no validators should accept")
	}
}

func TestConvenienceValidators(t *testing.T) {
	if out := CodeSystemURL().Validate("http://snomed.info/sct"); !out.OK {
		t.Errorf("CodeSystemURL() rejected snomed: %+v", out)
	}
	if out := CodeSystemURL().Validate("http://bad url"); out.OK {
		t.Error("CodeSystemURL() should reject whitespace")
	}
	if out := Code().Validate("55607006"); !out.OK {
		t.Errorf("Code() rejected 55607006: %+v", out)
	}
	if out := Code().Validate(" 55607006"); out.OK {
		t.Error("Code() should reject leading whitespace")
	}
}
