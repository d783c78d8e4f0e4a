package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Add(v2)

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	v1 := NewVector3(5, 7, 9)
	v2 := NewVector3(1, 2, 3)
	result := v1.Sub(v2)

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	v := NewVector3(3, 4, 0)
	length := v.Length()

	expected := 5.0
	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestVector3Distance(t *testing.T) {
	v1 := NewVector3(0, 0, 0)
	v2 := NewVector3(3, 4, 0)
	distance := v1.Distance(v2)

	expected := 5.0
	if math.Abs(distance-expected) > 1e-10 {
		t.Errorf("Distance failed: expected %v, got %v", expected, distance)
	}
}

func TestVector3Normalize(t *testing.T) {
	v := NewVector3(3, 4, 0)
	normalized := v.Normalize()

	expectedLength := 1.0
	actualLength := normalized.Length()

	if math.Abs(actualLength-expectedLength) > 1e-10 {
		t.Errorf("Normalize failed: expected length %v, got %v", expectedLength, actualLength)
	}
}

func TestVector3Cross(t *testing.T) {
	v1 := NewVector3(1, 0, 0)
	v2 := NewVector3(0, 1, 0)
	result := v1.Cross(v2)

	expected := NewVector3(0, 0, 1)
	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Dot(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Dot(v2)

	expected := 32.0 // 1*4 + 2*5 + 3*6 = 32
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Dot failed: expected %v, got %v", expected, result)
	}
}

func TestVector3NormalizeZero(t *testing.T) {
	result := Vector3{}.Normalize()
	if result != (Vector3{}) {
		t.Errorf("Normalize of zero vector failed: expected zero vector, got %v", result)
	}
}

func TestVector3MinMax(t *testing.T) {
	v1 := NewVector3(1, -5, 3)
	v2 := NewVector3(-2, 4, 3)

	if result, expected := v1.Min(v2), NewVector3(-2, -5, 3); result != expected {
		t.Errorf("Min failed: expected %v, got %v", expected, result)
	}
	if result, expected := v1.Max(v2), NewVector3(1, 4, 3); result != expected {
		t.Errorf("Max failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Less(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector3
		want bool
	}{
		{"x decides", NewVector3(0, 9, 9), NewVector3(1, 0, 0), true},
		{"y breaks x tie", NewVector3(1, 2, 9), NewVector3(1, 3, 0), true},
		{"z breaks xy tie", NewVector3(1, 2, 4), NewVector3(1, 2, 3), false},
		{"equal", NewVector3(1, 2, 3), NewVector3(1, 2, 3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("Less(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestVector3IsFinite(t *testing.T) {
	if !NewVector3(1, -2, 1e300).IsFinite() {
		t.Errorf("IsFinite failed for finite vector")
	}
	for _, v := range []Vector3{
		NewVector3(math.NaN(), 0, 0),
		NewVector3(0, math.Inf(1), 0),
		NewVector3(0, 0, math.Inf(-1)),
	} {
		if v.IsFinite() {
			t.Errorf("IsFinite failed: %v reported finite", v)
		}
	}
}

func TestVector3Lerp(t *testing.T) {
	v1 := NewVector3(0, 2, -4)
	v2 := NewVector3(4, 2, 4)

	if result := v1.Lerp(v2, 0); result != v1 {
		t.Errorf("Lerp(0) failed: expected %v, got %v", v1, result)
	}
	if result := v1.Lerp(v2, 1); result != v2 {
		t.Errorf("Lerp(1) failed: expected %v, got %v", v2, result)
	}
	if result, expected := v1.Lerp(v2, 0.25), NewVector3(1, 2, -2); result != expected {
		t.Errorf("Lerp(0.25) failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Array(t *testing.T) {
	v := FromArray([3]float64{1, 2, 3})
	if v != NewVector3(1, 2, 3) {
		t.Errorf("FromArray failed: got %v", v)
	}
	if a := v.Array(); a != [3]float64{1, 2, 3} {
		t.Errorf("Array failed: got %v", a)
	}
	for axis, expected := range []float64{1, 2, 3} {
		if got := v.At(axis); got != expected {
			t.Errorf("At(%d) failed: expected %v, got %v", axis, expected, got)
		}
	}
}
