package value

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNil, "nil"},
		{KindBool, "boolean"},
		{KindNumber, "number"},
		{KindString, "string"},
		{KindObjectRef, "ref"},
		{KindOpaque, "opaque"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"nil", Nil(), "nil"},
		{"true", Bool(true), "true"},
		{"integer", Number(42), "42"},
		{"float", Number(1.5), "1.5"},
		{"string", String("hi"), `"hi"`},
		{"ref", ObjectRef("table: 0x1"), "<table: 0x1>"},
		{"opaque", Opaque("function: 0x2"), "<opaque function: 0x2>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectAppendPreservesOrder(t *testing.T) {
	var obj Object
	obj.Append(String("a"), Number(1))
	obj.Append(String("b"), Number(2))
	obj.Append(String("a"), Number(3)) // duplicate keys are kept

	if len(obj.Members) != 3 {
		t.Fatalf("len(Members) = %d, want 3", len(obj.Members))
	}
	if obj.Members[0].Key != String("a") || obj.Members[0].Val != Number(1) {
		t.Errorf("Members[0] = %v", obj.Members[0])
	}
	if obj.Members[2].Key != String("a") || obj.Members[2].Val != Number(3) {
		t.Errorf("Members[2] = %v", obj.Members[2])
	}
}

func TestFailure(t *testing.T) {
	resp := Failure("boom")
	if resp.Success {
		t.Error("Failure() Success = true")
	}
	if resp.Value != Nil() {
		t.Errorf("Failure() Value = %v, want nil", resp.Value)
	}
	if len(resp.Objects) != 0 {
		t.Errorf("Failure() Objects has %d entries, want 0", len(resp.Objects))
	}
	if resp.Err != "boom" {
		t.Errorf("Failure() Err = %q, want %q", resp.Err, "boom")
	}
}
