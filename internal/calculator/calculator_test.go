package calculator

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/agbru/quickfib/fibonacci"
	"github.com/agbru/quickfib/fibonacci/checked"
	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/progress"
)

func fib(n uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for range n {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}

// wrap reduces x to a two's complement or unsigned integer of the given width.
func wrap(x *big.Int, bits uint, signed bool) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	r := new(big.Int).Mod(x, mod)
	if signed && r.Cmp(new(big.Int).Rsh(mod, 1)) >= 0 {
		r.Sub(r, mod)
	}
	return r
}

func TestFitIndex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		bits   int
		signed bool
		want   uint64
	}{
		{8, false, fibonacci.MaxIndexUint8},
		{16, false, fibonacci.MaxIndexUint16},
		{32, false, fibonacci.MaxIndexUint32},
		{64, false, fibonacci.MaxIndexUint64},
		{128, false, fibonacci.MaxIndexU128},
		{8, true, fibonacci.MaxIndexInt8},
		{16, true, fibonacci.MaxIndexInt16},
		{32, true, fibonacci.MaxIndexInt32},
		{64, true, fibonacci.MaxIndexInt64},
	}
	for _, tt := range tests {
		if got := FitIndex(tt.bits, tt.signed); got != tt.want {
			t.Errorf("FitIndex(%d, %v) = %d, want %d", tt.bits, tt.signed, got, tt.want)
		}
	}
}

func TestFactory_List(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	names := f.List()
	for _, want := range []string{"big", "big-iterative", "checked128", "checked64", "i16", "i32", "i64", "i8", "u128", "u16", "u32", "u64", "u8"} {
		if _, err := f.Get(want); err != nil {
			t.Errorf("backend %q missing: %v", want, err)
		}
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("List not sorted: %v", names)
		}
	}
	if len(f.GetAll()) != len(names) {
		t.Errorf("GetAll returned %d calculators, want %d", len(f.GetAll()), len(names))
	}
}

func TestFactory_Get_Unknown(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	if _, err := f.Get("matrix"); !errors.Is(err, ErrUnknownCalculator) {
		t.Errorf("expected ErrUnknownCalculator, got %v", err)
	}
	if _, ok := f.MaxIndex("matrix"); ok {
		t.Error("MaxIndex should report unknown backends")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustGet should panic on an unknown name")
		}
	}()
	f.MustGet("matrix")
}

func TestFactory_MaxIndex(t *testing.T) {
	t.Parallel()
	f := GlobalFactory()
	tests := map[string]uint64{
		"u8": 13, "u16": 24, "u32": 47, "u64": 93,
		"i8": 11, "i16": 23, "i32": 46, "i64": 92,
		"u128": 186, "checked64": 92, "checked128": 185,
		"big": Unbounded, "big-iterative": Unbounded,
	}
	for name, want := range tests {
		got, ok := f.MaxIndex(name)
		if !ok || got != want {
			t.Errorf("MaxIndex(%q) = %d, %v; want %d", name, got, ok, want)
		}
	}
}

func TestCalculate_AllBackendsAgree(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for _, c := range NewDefaultFactory().GetAll() {
		t.Run(c.Name(), func(t *testing.T) {
			t.Parallel()
			top := min(c.MaxIndex(), 200)
			for n := uint64(0); n <= top; n++ {
				res, err := c.Calculate(ctx, nil, 0, n)
				if err != nil {
					t.Fatalf("F(%d): %v", n, err)
				}
				if res.Overflowed {
					t.Fatalf("F(%d) flagged as overflowed", n)
				}
				if res.Value.Cmp(fib(n)) != 0 {
					t.Fatalf("F(%d) = %s, want %s", n, res.Value, fib(n))
				}
			}
		})
	}
}

func TestCalculate_Wraparound(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	tests := []struct {
		name   string
		n      uint64
		bits   uint
		signed bool
	}{
		{"u8", 14, 8, false},
		{"u8", 255, 8, false},
		{"i8", 12, 8, true},
		{"u16", 100, 16, false},
		{"i32", 47, 32, true},
		{"u64", 94, 64, false},
		{"i64", 93, 64, true},
		{"u128", 187, 128, false},
		{"u128", 500, 128, false},
	}
	for _, tt := range tests {
		res, err := f.MustGet(tt.name).Calculate(context.Background(), nil, 0, tt.n)
		if err != nil {
			t.Fatalf("%s F(%d): %v", tt.name, tt.n, err)
		}
		if !res.Overflowed {
			t.Errorf("%s F(%d) should be flagged as overflowed", tt.name, tt.n)
		}
		if want := wrap(fib(tt.n), tt.bits, tt.signed); res.Value.Cmp(want) != 0 {
			t.Errorf("%s F(%d) = %s, want %s", tt.name, tt.n, res.Value, want)
		}
	}
}

func TestCalculate_IndexOutOfDomain(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	for name, n := range map[string]uint64{"u8": 256, "i8": 128, "i64": 1 << 63, "u32": 1 << 32} {
		_, err := f.MustGet(name).Calculate(context.Background(), nil, 0, n)
		var verr apperrors.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s F(%d): expected ValidationError, got %v", name, n, err)
		}
	}
}

func TestCalculate_CheckedOverflow(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	tests := []struct {
		name string
		n    uint64
	}{
		{"checked64", 93},
		{"checked64", 1000},
		{"checked128", 186},
	}
	for _, tt := range tests {
		_, err := f.MustGet(tt.name).Calculate(context.Background(), nil, 0, tt.n)
		var oerr apperrors.OverflowError
		if !errors.As(err, &oerr) {
			t.Fatalf("%s F(%d): expected OverflowError, got %v", tt.name, tt.n, err)
		}
		if oerr.Type != tt.name || oerr.N != tt.n {
			t.Errorf("OverflowError = %+v", oerr)
		}
		if !errors.Is(err, checked.ErrOverflow) {
			t.Errorf("error should wrap checked.ErrOverflow: %v", err)
		}
	}
}

func TestCalculateRange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for _, c := range NewDefaultFactory().GetAll() {
		t.Run(c.Name(), func(t *testing.T) {
			t.Parallel()
			got, err := c.CalculateRange(ctx, 5, 12)
			if err != nil {
				t.Fatalf("CalculateRange: %v", err)
			}
			if len(got) != 8 {
				t.Fatalf("len = %d, want 8", len(got))
			}
			for i, r := range got {
				n := uint64(5 + i)
				if r.Value.Cmp(fib(n)) != 0 {
					t.Errorf("F(%d) = %s, want %s", n, r.Value, fib(n))
				}
			}

			empty, err := c.CalculateRange(ctx, 3, 2)
			if err != nil || len(empty) != 0 {
				t.Errorf("inverted range = %v, %v; want empty", empty, err)
			}
		})
	}
}

func TestCalculateRange_OverflowFlags(t *testing.T) {
	t.Parallel()
	got, err := NewDefaultFactory().MustGet("u8").CalculateRange(context.Background(), 12, 15)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{false, false, true, true}
	for i, r := range got {
		if r.Overflowed != want[i] {
			t.Errorf("F(%d).Overflowed = %v, want %v", 12+i, r.Overflowed, want[i])
		}
	}

	_, err = NewDefaultFactory().MustGet("checked64").CalculateRange(context.Background(), 90, 95)
	var oerr apperrors.OverflowError
	if !errors.As(err, &oerr) || oerr.N != 93 {
		t.Errorf("expected overflow at 93, got %v", err)
	}
}

func TestCalculate_Progress(t *testing.T) {
	t.Parallel()
	ch := make(chan progress.ProgressUpdate, 128)
	_, err := NewDefaultFactory().MustGet("big-iterative").Calculate(context.Background(), ch, 3, 10_000)
	if err != nil {
		t.Fatal(err)
	}
	close(ch)

	var last progress.ProgressUpdate
	count := 0
	for u := range ch {
		if u.CalculatorIndex != 3 {
			t.Errorf("CalculatorIndex = %d, want 3", u.CalculatorIndex)
		}
		last = u
		count++
	}
	if count == 0 || last.Value != 1 {
		t.Errorf("got %d updates ending at %v, want final 1", count, last.Value)
	}
}

func TestCalculate_ContextCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, c := range NewDefaultFactory().GetAll() {
		if _, err := c.Calculate(ctx, nil, 0, 10); !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", c.Name(), err)
		}
	}
}

func TestCalculate_DeadlineDuringBigComputation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	_, err := NewDefaultFactory().MustGet("big-iterative").Calculate(ctx, nil, 0, 50_000_000)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestRegister_Replaces(t *testing.T) {
	t.Parallel()
	f := NewFactory()
	f.Register(newNative[uint8]("x", 8))
	f.Register(newNative[uint16]("x", 16))
	if got := f.MustGet("x").MaxIndex(); got != 24 {
		t.Errorf("MaxIndex = %d, want 24 after replacement", got)
	}
	if d := f.MustGet("x").Description(); d == "" {
		t.Error("empty description")
	}
}
