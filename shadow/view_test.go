package shadow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewView(t *testing.T) {
	_, view, _ := newTestRegistry(t)

	metrics := LayoutMetrics{Frame: Rect{Origin: Point{X: 1, Y: 2}}}
	n := view.CreateNode(view.NewFamily(3, 9), Fragment{
		Props:         RawProps{`k`: `v`},
		State:         RawState{`n`: 1},
		LayoutMetrics: &metrics,
	})

	v := NewView(n)
	assert.Equal(t, Tag(9), v.Tag)
	assert.Equal(t, SurfaceID(3), v.SurfaceID)
	assert.Equal(t, ComponentName(`View`), v.ComponentName)
	assert.Equal(t, view.Handle(), v.ComponentHandle)
	assert.Equal(t, metrics, v.LayoutMetrics)
	assert.Same(t, n.EventEmitter(), v.EventEmitter)
	assert.False(t, v.IsZero())
	assert.Equal(t, `View(View, tag=9)`, v.String())

	assert.True(t, NewView(nil).IsZero())
	assert.Equal(t, `View()`, View{}.String())
}

func TestView_Equal(t *testing.T) {
	_, view, _ := newTestRegistry(t)

	n := view.CreateNode(view.NewFamily(1, 1), Fragment{Props: RawProps{`k`: []int{1, 2}}})
	base := NewView(n)

	for _, tc := range [...]struct {
		name  string
		node  *Node
		equal bool
	}{
		{`same node`, n, true},
		{`equal props clone`, n.Clone(Fragment{Props: RawProps{`k`: []int{1, 2}}}), true},
		{`different props`, n.Clone(Fragment{Props: RawProps{`k`: []int{2, 1}}}), false},
		{`state added`, n.Clone(Fragment{State: RawState{}}), false},
		{`new emitter`, n.Clone(Fragment{EventEmitter: view.CreateEventEmitter(n.Family())}), false},
		{`layout changed`, n.Clone(Fragment{LayoutMetrics: &LayoutMetrics{PointScaleFactor: 3}}), false},
		{`other family, same tag`, view.CreateNode(view.NewFamily(1, 1), Fragment{Props: RawProps{`k`: []int{1, 2}}}), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, base.Equal(NewView(tc.node)))
			assert.Equal(t, tc.equal, NewView(tc.node).Equal(base))
		})
	}
}

func TestRawProps_Equal(t *testing.T) {
	assert.True(t, RawProps(nil).Equal(RawProps{}))
	assert.True(t, RawProps{`a`: 1}.Equal(RawProps{`a`: 1}))
	assert.False(t, RawProps{`a`: 1}.Equal(RawProps{`a`: 2}))
	assert.False(t, RawProps{`a`: 1}.Equal(nil))
	assert.True(t, PropsEqual(nil, nil))
	assert.False(t, PropsEqual(RawProps{}, nil))
	assert.False(t, PropsEqual(nil, RawProps{}))
	assert.True(t, StateEqual(RawState{`x`: `y`}, RawState{`x`: `y`}))
	assert.False(t, StateEqual(RawState{}, nil))
}

func TestTraits(t *testing.T) {
	var traits Traits
	assert.False(t, traits.Concrete())
	assert.Equal(t, `None`, traits.String())

	traits = traits.Set(FormsStackingContext | Hidden)
	assert.True(t, traits.Concrete())
	assert.True(t, traits.Check(Hidden))
	assert.False(t, traits.Check(FormsView|Hidden))
	assert.Equal(t, `FormsStackingContext|Hidden`, traits.String())

	traits = traits.Unset(FormsStackingContext).Set(FormsView | 1<<7)
	assert.Equal(t, `FormsView|Hidden|0x80`, traits.String())
}

func TestLayoutMetrics_Offset(t *testing.T) {
	assert.True(t, LayoutMetrics{}.IsEmpty())
	assert.Equal(t, LayoutMetrics{}, LayoutMetrics{}.Offset(Point{X: 5, Y: 5}))

	m := LayoutMetrics{Frame: Rect{Origin: Point{X: 1, Y: 2}, Size: Size{Width: 3, Height: 4}}}
	assert.Equal(t, Point{X: 6, Y: 12}, m.Offset(Point{X: 5, Y: 10}).Frame.Origin)
	assert.Equal(t, Point{X: 1, Y: 2}, m.Frame.Origin)
}

func TestEventEmitter_Dispatch(t *testing.T) {
	type event struct {
		family  Family
		name    string
		payload any
	}
	var events []event
	r, err := NewRegistry(WithEventDispatcher(EventDispatcherFunc(func(family Family, name string, payload any) {
		events = append(events, event{family, name, payload})
	})))
	require.NoError(t, err)
	d := r.MustRegister(`Button`, FormsView)

	family := d.NewFamily(1, 5)
	n := d.CreateNode(family, Fragment{})
	assert.True(t, n.EventEmitter().Dispatch(`press`, 42))
	assert.Equal(t, []event{{family, `press`, 42}}, events)

	var nilEmitter *EventEmitter
	assert.False(t, nilEmitter.Dispatch(`press`, nil))
	assert.True(t, nilEmitter.Family().IsZero())

	_, view, _ := newTestRegistry(t)
	assert.False(t, view.CreateEventEmitter(view.NewFamily(1, 1)).Dispatch(`press`, nil))
}
