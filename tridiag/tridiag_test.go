package tridiag

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestMatrix_At(t *testing.T) {
	A := makeTridiag([]float64{1, 2}, []float64{3, 4, 5}, []float64{6, 7})
	want := []float64{
		3, 6, 0,
		1, 4, 7,
		0, 2, 5,
	}
	wantA := mat.NewDense(3, 3, want)
	if !mat.Equal(A, wantA) {
		t.Errorf("got\n%v\nwant\n%v", mat.Formatted(A), mat.Formatted(wantA))
	}
	if !mat.Equal(A.Dense(), wantA) {
		t.Errorf("Dense: got\n%v\nwant\n%v", mat.Formatted(A.Dense()), mat.Formatted(wantA))
	}
	if !mat.Equal(A.T(), wantA.T()) {
		t.Errorf("T: got\n%v\nwant\n%v", mat.Formatted(A.T()), mat.Formatted(wantA.T()))
	}
}

func TestMatrix_Set(t *testing.T) {
	A := New(3)
	A.Set(0, 0, 1)
	A.Set(0, 1, 2)
	A.Set(1, 0, 3)
	A.Set(2, 2, 4)
	if A.At(0, 1) != 2 || A.At(1, 0) != 3 || A.Diag[2] != 4 {
		t.Errorf("Set did not store values: %v", mat.Formatted(A))
	}
	if A.IsSymmetric() {
		t.Errorf("matrix with A(0,1) != A(1,0) reported symmetric")
	}
	A.Set(1, 0, 2)
	if !A.IsSymmetric() {
		t.Errorf("symmetric matrix reported asymmetric")
	}

	clone := A.Clone()
	clone.Set(0, 0, 99)
	if A.At(0, 0) != 1 {
		t.Errorf("Clone shares storage with the original")
	}
}

func TestMatrix_Panics(t *testing.T) {
	var tests = []struct {
		name string
		fn   func(A *Matrix)
	}{
		{"set outside band", func(A *Matrix) { A.Set(0, 2, 1) }},
		{"at out of range", func(A *Matrix) { A.At(3, 0) }},
		{"negative index", func(A *Matrix) { A.At(-1, 0) }},
	}

	for _, test := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%v: expected panic", test.name)
				}
			}()
			test.fn(New(3))
		}()
	}
}

func TestMatrix_MulVec(t *testing.T) {
	A := NewBands(4, -1, 2, -1)
	x := []float64{1, 2, 3, 4}

	var want mat.VecDense
	want.MulVec(A.Dense(), mat.NewVecDense(4, x))

	got, err := A.MulVec(nil, x)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(got, want.RawVector().Data) {
		t.Errorf("got %v, want %v", got, want.RawVector().Data)
	}

	if _, err := A.MulVec(make([]float64, 2), x); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("short dst: got %v, want %v", err, ErrDimensionMismatch)
	}
	if _, err := A.MulVec(nil, x[:3]); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("short x: got %v, want %v", err, ErrDimensionMismatch)
	}
	if _, err := Mul(A, New(3)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Mul sizes: got %v, want %v", err, ErrDimensionMismatch)
	}
}
