package mounting_test

import (
	"context"
	"fmt"

	"github.com/joeycumines/go-shadowtree/mounting"
	"github.com/joeycumines/go-shadowtree/shadow"
)

func ExampleCalculateMutations() {
	registry, _ := shadow.NewRegistry()
	view := registry.MustRegister(`View`, shadow.FormsView)

	a := view.CreateNode(view.NewFamily(1, 2), shadow.Fragment{})
	b := view.CreateNode(view.NewFamily(1, 3), shadow.Fragment{})
	oldRoot := view.CreateNode(view.NewFamily(1, 1), shadow.Fragment{Children: []*shadow.Node{a, b}})
	oldRoot.Seal()

	// b moves to the front with new props, a is shared, and c is new
	c := view.CreateNode(view.NewFamily(1, 4), shadow.Fragment{})
	newRoot := oldRoot.Clone(shadow.Fragment{Children: []*shadow.Node{
		b.Clone(shadow.Fragment{Props: shadow.RawProps{`opacity`: 0.5}}),
		a,
		c,
	}})
	newRoot.Seal()

	for _, m := range mounting.CalculateMutations(oldRoot, newRoot) {
		fmt.Println(m)
	}

	//output:
	//Update View(View, tag=3) in View(View, tag=1) at 0
	//Remove View(View, tag=3) from View(View, tag=1) at 1
	//Create View(View, tag=4)
	//Insert View(View, tag=3) into View(View, tag=1) at 0
	//Insert View(View, tag=4) into View(View, tag=1) at 2
}

func ExampleCoordinator() {
	registry, _ := shadow.NewRegistry()
	view := registry.MustRegister(`View`, shadow.FormsView)

	initial := view.CreateNode(view.NewFamily(1, 1), shadow.Fragment{})
	mounted := mounting.NewStubViewTree(shadow.NewView(initial))

	c, err := mounting.NewCoordinator(1, initial, mounted)
	if err != nil {
		panic(err)
	}

	// commits may come from any goroutine
	child := view.CreateNode(view.NewFamily(1, 2), shadow.Fragment{})
	fmt.Println(c.Commit(initial.Clone(shadow.Fragment{Children: []*shadow.Node{child}})))

	n, err := c.Flush(context.Background())
	if err != nil {
		panic(err)
	}
	fmt.Println(n, c.Revision(), mounted.Children(1))

	//output:
	//true
	//1 1 [2]
}
