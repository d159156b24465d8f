package zplprotocol

import (
	"slices"
	"testing"
)

func TestPositionOrdering(t *testing.T) {
	ns := []int{-1 << 40, -100, -1, 0, 1, 9, 10, 11, 100, 1 << 40}
	for i := 1; i < len(ns); i++ {
		a, b := Position(ns[i-1]), Position(ns[i])
		if !(a < b) {
			t.Errorf("Position(%d)=%q should sort before Position(%d)=%q", ns[i-1], a, ns[i], b)
		}
	}
	if DefaultBucket != Position(0) {
		t.Errorf("DefaultBucket = %q", DefaultBucket)
	}
}

func TestBlockBucketOrder(t *testing.T) {
	build := func(order []int) string {
		b := NewBlock(nil, nil)
		for _, n := range order {
			b.AddAt(Position(n), Raw(string(rune('a'+n+1))))
		}
		return b.Render(FlatRenderOptions())
	}

	want := build([]int{-1, 0, 1, 2})
	if want != "abcd" {
		t.Fatalf("got %q, want %q", want, "abcd")
	}
	for _, order := range [][]int{{2, 1, 0, -1}, {1, -1, 2, 0}, {0, 2, -1, 1}} {
		if got := build(order); got != want {
			t.Errorf("insertion order %v rendered %q, want %q", order, got, want)
		}
	}
}

func TestBlockInsertionOrderWithinBucket(t *testing.T) {
	b := NewBlock(nil, nil)
	b.Add(Raw("1")).Add(Raw("2")).Add(Raw("3"))
	if got := b.Render(FlatRenderOptions()); got != "123" {
		t.Errorf("got %q, want %q", got, "123")
	}
}

func TestBlockSetReplacesBucket(t *testing.T) {
	b := NewBlock(nil, nil)
	b.AddAt(Position(1), FieldOrigin.Call(1, 1))
	b.AddAt(Position(1), FieldOrigin.Call(2, 2))
	b.AddAt(Position(2), FieldSeparator.Call())
	b.SetAt(Position(1), FieldOrigin.Call(3, 3))

	if got := b.Render(FlatRenderOptions()); got != "^FO3,3^FS" {
		t.Errorf("got %q, want %q", got, "^FO3,3^FS")
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}

	b.Remove(Position(2))
	if got := b.Render(FlatRenderOptions()); got != "^FO3,3" {
		t.Errorf("after Remove got %q", got)
	}
}

func TestBlockSentinels(t *testing.T) {
	b := NewBlock(LabelStart.Call(), LabelEnd.Call())
	if got := b.String(); got != "^XA\r\n^XZ" {
		t.Errorf("empty got %q", got)
	}
	b.New(FieldOrigin, 20, 20)
	if got := b.Render(FlatRenderOptions()); got != "^XA^FO20,20^XZ" {
		t.Errorf("got %q", got)
	}
	if b.Len() != 1 {
		t.Errorf("sentinels counted in Len(): %d", b.Len())
	}
}

func TestBlockNewReturnsEditableCommand(t *testing.T) {
	b := NewBlock(nil, nil)
	c := b.New(FieldOrigin, 1)
	c.Set(1, 2)
	if got := b.Render(FlatRenderOptions()); got != "^FO1,2" {
		t.Errorf("got %q, want %q", got, "^FO1,2")
	}
}

func TestBlockTerminator(t *testing.T) {
	b := NewBlock(LabelStart.Call(), LabelEnd.Call())
	opts := DefaultRenderOptions()
	opts.Terminator = "\n"
	if got := b.Render(opts); got != "^XA\n^XZ" {
		t.Errorf("got %q", got)
	}
}

func TestBlockNested(t *testing.T) {
	inner := NewBlock(nil, nil)
	inner.Add(FieldOrigin.Call(1, 1))
	outer := NewBlock(LabelStart.Call(), LabelEnd.Call())
	outer.Add(inner)
	if got := outer.Render(FlatRenderOptions()); got != "^XA^FO1,1^XZ" {
		t.Errorf("got %q", got)
	}
}

func TestBlockPrefixChangePropagates(t *testing.T) {
	b := NewBlock(nil, nil)
	b.Add(FieldOrigin.Call(1, 1))
	b.Add(FormatPrefixChange.Call("+"))
	b.Add(FieldOrigin.Call(2, 2))
	b.Add(ControlPrefixChange.Call("#"))
	b.Add(HostStatusRequest.Call())
	b.Add(DelimiterChange.Call(";"))
	b.Add(FieldOrigin.Call(3, 3))

	want := "^FO1,1~CC+" + "+FO2,2~CT#" + "#HS#CD;" + "+FO3;3"
	if got := b.Render(FlatRenderOptions()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	_, props := b.Measure(DefaultProperties())
	expected := Syntax{FormatPrefix: '+', ControlPrefix: '#', Delimiter: ';'}
	if props.Syntax != expected {
		t.Errorf("syntax after block = %+v, want %+v", props.Syntax, expected)
	}
}

func TestBlockPrefixChangeScopesToFollowingSiblings(t *testing.T) {
	inner := NewBlock(nil, nil)
	inner.Add(FormatPrefixChange.Call("+"))
	outer := NewBlock(nil, nil)
	outer.Add(FieldOrigin.Call(1, 1))
	outer.Add(inner)
	outer.Add(FieldOrigin.Call(2, 2))

	if got := outer.Render(FlatRenderOptions()); got != "^FO1,1~CC++FO2,2" {
		t.Errorf("got %q", got)
	}
}

func TestBlockClone(t *testing.T) {
	b := NewBlock(LabelStart.Call(), LabelEnd.Call())
	c := b.New(FieldOrigin, 1, 1)
	clone := b.Clone()
	c.Set(0, 5)
	if got := clone.Render(FlatRenderOptions()); got != "^XA^FO1,1^XZ" {
		t.Errorf("clone followed the original: %q", got)
	}
}

func TestBlockWalk(t *testing.T) {
	l := NewLabel(nil)
	l.Text(1, 2, "x")
	var tokens []string
	l.Walk(func(c *Command) bool {
		tokens = append(tokens, c.Descriptor().Token())
		return true
	})
	want := []string{"XA", "FO", "FD", "FS", "XZ"}
	if !slices.Equal(tokens, want) {
		t.Errorf("walked %v, want %v", tokens, want)
	}

	var n int
	l.Walk(func(*Command) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Errorf("walk did not stop: visited %d", n)
	}
}

func TestBlockMeasure(t *testing.T) {
	b := NewBlock(nil, nil)
	b.Add(FieldOrigin.Call(30, 40))
	b.Add(GraphicBox.Call(100, 50))

	bounds, _ := b.Measure(DefaultProperties())
	want := Bounds{X: 30, Y: 40, Width: 100, Height: 50}
	if bounds != want {
		t.Errorf("got %+v, want %+v", bounds, want)
	}

	b.Add(FieldOrigin.Call(10, 60))
	bounds, _ = b.Measure(DefaultProperties())
	want = Bounds{X: 10, Y: 40, Width: 100, Height: 50}
	if bounds != want {
		t.Errorf("after change got %+v, want %+v", bounds, want)
	}
}

func TestBlockMeasureSeesNestedChanges(t *testing.T) {
	inner := NewBlock(nil, nil)
	outer := NewBlock(nil, nil)
	outer.Add(inner)

	if bounds, _ := outer.Measure(DefaultProperties()); !bounds.IsUnknown() {
		t.Fatalf("empty block bounds %+v", bounds)
	}
	inner.Add(GraphicCircle.Call(80))
	bounds, _ := outer.Measure(DefaultProperties())
	if bounds.Width != 80 || bounds.Height != 80 {
		t.Errorf("nested change not seen: %+v", bounds)
	}
}

func TestBlockMeasureSeesCommandEdits(t *testing.T) {
	b := NewBlock(nil, nil)
	box := b.New(GraphicBox, 100, 50)
	if bounds, _ := b.Measure(DefaultProperties()); bounds.Width != 100 {
		t.Fatalf("got %+v, want width 100", bounds)
	}

	tests := []struct {
		name     string
		edit     func()
		expected Bounds
	}{
		{"Set", func() { box.Set(0, 300) }, Bounds{X: 0, Y: 0, Width: 300, Height: 50}},
		{"SetName", func() { box.SetName("height", 70) }, Bounds{X: 0, Y: 0, Width: 300, Height: 70}},
		{"Params", func() { box.Params().Set(0, 120) }, Bounds{X: 0, Y: 0, Width: 120, Height: 70}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.edit()
			bounds, _ := b.Measure(DefaultProperties())
			fresh := b.Dump(RenderOptions{Props: DefaultProperties()}).Bounds
			if bounds != fresh {
				t.Errorf("cached %+v, fresh %+v", bounds, fresh)
			}
			if bounds.Width != tc.expected.Width || bounds.Height != tc.expected.Height {
				t.Errorf("got %+v, want %+v", bounds, tc.expected)
			}
		})
	}
}

func TestLabelMeasureSeesPrefixEdit(t *testing.T) {
	l := NewLabel(nil)
	cc := l.New(FormatPrefixChange, "^")
	if _, props := l.Measure(DefaultProperties()); props.Syntax.FormatPrefix != '^' {
		t.Fatalf("prefix %q, want '^'", props.Syntax.FormatPrefix)
	}

	cc.Set(0, "#")
	_, props := l.Measure(DefaultProperties())
	if props.Syntax.FormatPrefix != '#' {
		t.Errorf("prefix %q, want '#'", props.Syntax.FormatPrefix)
	}
	if got, want := l.String(), "^XA\r\n~CC#\r\n#XZ"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBlockMeasureAfterNestedRemoveAndEdit(t *testing.T) {
	inner := NewBlock(nil, nil)
	first := inner.NewAt(Position(1), GraphicBox, 10, 10)
	inner.NewAt(Position(2), GraphicBox, 20, 20)
	outer := NewBlock(nil, nil)
	outer.Add(inner)
	outer.Measure(DefaultProperties())

	inner.Remove(Position(2))
	if bounds, _ := outer.Measure(DefaultProperties()); bounds.Width != 10 {
		t.Fatalf("after remove got %+v, want width 10", bounds)
	}
	first.Set(0, 40)
	if bounds, _ := outer.Measure(DefaultProperties()); bounds.Width != 40 {
		t.Errorf("after edit got %+v, want width 40", bounds)
	}
}

func TestMeasureHome(t *testing.T) {
	b := NewBlock(nil, nil)
	b.Add(LabelHome.Call(10, 20))
	b.Add(FieldOrigin.Call(5, 5))
	bounds, props := b.Measure(DefaultProperties())
	if bounds.X != 15 || bounds.Y != 25 {
		t.Errorf("origin %d,%d, want 15,25", bounds.X, bounds.Y)
	}
	if props.Home != (Point{X: 10, Y: 20}) {
		t.Errorf("home %+v", props.Home)
	}
}

func TestMeasureGraphicField(t *testing.T) {
	b := NewBlock(nil, nil)
	b.Add(GraphicField.Call("A", 32, 32, 4, "00"))
	bounds, _ := b.Measure(DefaultProperties())
	if bounds.Width != 32 || bounds.Height != 8 {
		t.Errorf("got %dx%d, want 32x8", bounds.Width, bounds.Height)
	}
}
