package math

import "testing"

func TestMat4Mul(t *testing.T) {
	a := NewMat4Translation(NewVec3(1, 2, 3))
	b := NewMat4Scale(NewVec3(2, 2, 2))
	// Row-vector convention: translate, then scale.
	have := a.Mul(b)
	if x := have.Translation(); !x.Compare(NewVec3(2, 4, 6), K_FLOAT_EPSILON) {
		t.Fatalf("Mat4.Mul translation:\nhave %v\nwant %v", x, NewVec3(2, 4, 6))
	}
	if x := NewMat4Identity().Mul(a); !x.Compare(a, 0) {
		t.Fatalf("identity.Mul:\nhave %v\nwant %v", x, a)
	}
}

func TestNewMat4FromRows(t *testing.T) {
	have := NewMat4FromRows(
		[4]float32{1, 0, 0, 0},
		[4]float32{0, 1, 0, 0},
		[4]float32{0, 0, 1, 0},
		[4]float32{5, 6, 7, 1},
	)
	want := NewMat4Translation(NewVec3(5, 6, 7))
	if have != want {
		t.Fatalf("NewMat4FromRows:\nhave %v\nwant %v", have, want)
	}
}

func TestClamp(t *testing.T) {
	for _, c := range []struct{ v, lo, hi, want float32 }{
		{-1, 0, 1, 0},
		{0.5, 0, 1, 0.5},
		{3, 0, 1, 1},
	} {
		if x := Clamp(c.v, c.lo, c.hi); x != c.want {
			t.Fatalf("Clamp(%v, %v, %v):\nhave %v\nwant %v", c.v, c.lo, c.hi, x, c.want)
		}
	}
	if x := Clamp(7, 0, 5); x != 5 {
		t.Fatalf("Clamp(int):\nhave %d\nwant 5", x)
	}
}

func TestSum(t *testing.T) {
	if x := Sum([]uint32{1, 2, 3}); x != 6 {
		t.Fatalf("Sum:\nhave %d\nwant 6", x)
	}
	if x := Sum[float32](nil); x != 0 {
		t.Fatalf("Sum(nil):\nhave %v\nwant 0", x)
	}
}
