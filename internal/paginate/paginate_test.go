package paginate

import (
	"reflect"
	"testing"
)

func TestSlice_RoundTrip(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	var got []int
	for i := 0; i < Pages(len(items), 3); i++ {
		got = append(got, Slice(items, 3, i).Items...)
	}
	if !reflect.DeepEqual(got, items) {
		t.Fatalf("concat of pages = %v, want %v", got, items)
	}
}

func TestSlice_Flags(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	first := Slice(items, 2, 0)
	if first.HasPrev || !first.HasNext {
		t.Fatalf("first page: prev=%v next=%v", first.HasPrev, first.HasNext)
	}

	mid := Slice(items, 2, 1)
	if !mid.HasPrev || !mid.HasNext {
		t.Fatalf("middle page: prev=%v next=%v", mid.HasPrev, mid.HasNext)
	}

	last := Slice(items, 2, 2)
	if !last.HasPrev || last.HasNext {
		t.Fatalf("last page: prev=%v next=%v", last.HasPrev, last.HasNext)
	}
	if len(last.Items) != 1 || last.Items[0] != "e" {
		t.Fatalf("last page items = %v", last.Items)
	}
}

func TestSlice_ExactFit(t *testing.T) {
	p := Slice([]int{1, 2, 3, 4}, 2, 1)
	if p.HasNext {
		t.Fatal("no next page after an exact fit")
	}
}

func TestSlice_OutOfRange(t *testing.T) {
	p := Slice([]int{1}, 10, 5)
	if len(p.Items) != 0 || !p.HasPrev || p.HasNext {
		t.Fatalf("out of range page = %+v", p)
	}
}

func TestPages(t *testing.T) {
	cases := []struct{ total, per, want int }{
		{0, 15, 1},
		{1, 15, 1},
		{15, 15, 1},
		{16, 15, 2},
		{30, 15, 2},
		{31, 15, 3},
	}
	for _, c := range cases {
		if got := Pages(c.total, c.per); got != c.want {
			t.Errorf("Pages(%d,%d) = %d, want %d", c.total, c.per, got, c.want)
		}
	}
}
