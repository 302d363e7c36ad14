// Package fixture decodes shadow tree snapshots from YAML documents, e.g.
//
//	surface: 1
//	components:
//	  - name: View
//	    traits: [FormsView]
//	root:
//	  component: View
//	  tag: 1
//	  children:
//	    - component: View
//	      tag: 2
//	      props: {title: hello}
//	      layout: {x: 10, y: 20, width: 100, height: 50}
//
// Nodes are identified by tag. A Loader assigns one family per surface and
// tag, shared by every document it loads, so trees decoded from different
// documents may be diffed against each other.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"sync"

	"github.com/joeycumines/go-shadowtree/shadow"
	"gopkg.in/yaml.v3"
)

type (
	// Document is the YAML form of a tree snapshot.
	Document struct {
		Root       *NodeSpec        `yaml:"root"`
		Components []ComponentSpec  `yaml:"components"`
		Surface    shadow.SurfaceID `yaml:"surface"`
	}

	// ComponentSpec declares a component kind, see shadow.Registry.Register.
	ComponentSpec struct {
		Name   shadow.ComponentName `yaml:"name"`
		Traits []string             `yaml:"traits"`
	}

	// NodeSpec is the YAML form of a node.
	NodeSpec struct {
		Props     map[string]any       `yaml:"props"`
		State     map[string]any       `yaml:"state"`
		Layout    *LayoutSpec          `yaml:"layout"`
		Order     *int                 `yaml:"order"`
		Component shadow.ComponentName `yaml:"component"`
		Children  []*NodeSpec          `yaml:"children"`
		Tag       shadow.Tag           `yaml:"tag"`
		// Hidden sets the Hidden trait.
		Hidden bool `yaml:"hidden"`
		// Flatten clears the traits that make the node concrete.
		Flatten bool `yaml:"flatten"`
	}

	// LayoutSpec is the YAML form of shadow.LayoutMetrics.
	LayoutSpec struct {
		Display     string  `yaml:"display"`
		X           float64 `yaml:"x"`
		Y           float64 `yaml:"y"`
		Width       float64 `yaml:"width"`
		Height      float64 `yaml:"height"`
		ScaleFactor float64 `yaml:"scale"`
	}

	// Loader builds trees from documents, registering components with its
	// registry as they are declared. It is safe for concurrent use.
	Loader struct {
		registry *shadow.Registry
		families map[familyKey]*familyEntry
		mu       sync.Mutex
	}

	familyKey struct {
		surface shadow.SurfaceID
		tag     shadow.Tag
	}

	familyEntry struct {
		emitter *shadow.EventEmitter
		family  shadow.Family
	}
)

// ErrInvalidDocument is wrapped by every error caused by the content of a
// document, as opposed to I/O.
var ErrInvalidDocument = errors.New(`fixture: invalid document`)

var traitNames = map[string]shadow.Traits{
	`formsview`:            shadow.FormsView,
	`formsstackingcontext`: shadow.FormsStackingContext,
	`hidden`:               shadow.Hidden,
}

var displayNames = map[string]shadow.DisplayType{
	``:         shadow.DisplayFlex,
	`flex`:     shadow.DisplayFlex,
	`none`:     shadow.DisplayNone,
	`contents`: shadow.DisplayContents,
}

// NewLoader initializes a Loader. A panic will occur if registry is nil.
func NewLoader(registry *shadow.Registry) *Loader {
	if registry == nil {
		panic(`fixture: nil registry`)
	}
	return &Loader{
		registry: registry,
		families: make(map[familyKey]*familyEntry),
	}
}

// Registry returns the registry components are registered with.
func (x *Loader) Registry() *shadow.Registry { return x.registry }

// LoadFile reads and builds the document from the named file.
func (x *Loader) LoadFile(name string) (*shadow.Node, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	node, err := x.Decode(f)
	if err != nil {
		return nil, fmt.Errorf(`%s: %w`, name, err)
	}
	return node, nil
}

// Decode reads a single document from r, and builds it. The returned tree is
// sealed.
func (x *Loader) Decode(r io.Reader) (*shadow.Node, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf(`%w: %w`, ErrInvalidDocument, err)
	}
	return x.Build(&doc)
}

// Build registers the document's components, and builds its tree. Tags must
// be unique within the document, and each tag must always be used with the
// same component. The whole document is checked before anything is
// registered, so an invalid document leaves the loader and its registry
// unchanged.
func (x *Loader) Build(doc *Document) (*shadow.Node, error) {
	if doc.Root == nil {
		return nil, fmt.Errorf(`%w: missing root`, ErrInvalidDocument)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	c := checker{
		loader:   x,
		surface:  doc.Surface,
		declared: make(map[shadow.ComponentName]shadow.Traits),
		seen:     make(map[shadow.Tag]struct{}),
	}
	for _, spec := range doc.Components {
		if err := c.component(spec); err != nil {
			return nil, err
		}
	}
	if err := c.node(doc.Root); err != nil {
		return nil, err
	}

	for _, name := range c.order {
		if _, err := x.registry.Register(name, c.declared[name]); err != nil {
			return nil, fmt.Errorf(`%w: %w`, ErrInvalidDocument, err)
		}
	}

	b := builder{
		loader:   x,
		surface:  doc.Surface,
		families: make(map[familyKey]*familyEntry),
	}
	root, err := b.build(doc.Root)
	if err != nil {
		return nil, err
	}
	maps.Copy(x.families, b.families)
	root.Seal()
	return root, nil
}

// checker validates a document against the loader, without modifying it.
type checker struct {
	loader   *Loader
	declared map[shadow.ComponentName]shadow.Traits
	seen     map[shadow.Tag]struct{}
	// order is the declaration order of the unregistered components
	order   []shadow.ComponentName
	surface shadow.SurfaceID
}

func (x *checker) component(spec ComponentSpec) error {
	traits, err := ParseTraits(spec.Traits)
	if err != nil {
		return err
	}
	if spec.Name == `` {
		return fmt.Errorf(`%w: component with empty name`, ErrInvalidDocument)
	}
	if d, ok := x.loader.registry.Lookup(spec.Name); ok {
		if d.Traits() != traits {
			return fmt.Errorf(`%w: component %q redeclared with traits %s, was %s`, ErrInvalidDocument, spec.Name, traits, d.Traits())
		}
		return nil
	}
	if existing, ok := x.declared[spec.Name]; ok {
		if existing != traits {
			return fmt.Errorf(`%w: component %q redeclared with traits %s, was %s`, ErrInvalidDocument, spec.Name, traits, existing)
		}
		return nil
	}
	x.declared[spec.Name] = traits
	x.order = append(x.order, spec.Name)
	return nil
}

func (x *checker) node(spec *NodeSpec) error {
	if spec == nil {
		return fmt.Errorf(`%w: null node`, ErrInvalidDocument)
	}
	if _, ok := x.seen[spec.Tag]; ok {
		return fmt.Errorf(`%w: duplicate tag %d`, ErrInvalidDocument, spec.Tag)
	}
	x.seen[spec.Tag] = struct{}{}

	if _, ok := x.loader.registry.Lookup(spec.Component); !ok {
		if _, ok := x.declared[spec.Component]; !ok {
			return fmt.Errorf(`%w: tag %d: unknown component %q`, ErrInvalidDocument, spec.Tag, spec.Component)
		}
	}

	if e, ok := x.loader.families[familyKey{surface: x.surface, tag: spec.Tag}]; ok {
		if name := x.loader.registry.Descriptor(e.family.ComponentHandle()).Name(); name != spec.Component {
			return fmt.Errorf(`%w: tag %d used with component %q, was %q`, ErrInvalidDocument, spec.Tag, spec.Component, name)
		}
	}

	if spec.Layout != nil {
		if _, err := spec.Layout.Metrics(); err != nil {
			return fmt.Errorf(`tag %d: %w`, spec.Tag, err)
		}
	}

	for _, child := range spec.Children {
		if err := x.node(child); err != nil {
			return err
		}
	}
	return nil
}

// builder builds a checked document, staging the families it allocates.
type builder struct {
	loader   *Loader
	families map[familyKey]*familyEntry
	surface  shadow.SurfaceID
}

func (x *builder) family(descriptor *shadow.ComponentDescriptor, tag shadow.Tag) *familyEntry {
	key := familyKey{surface: x.surface, tag: tag}
	if e, ok := x.loader.families[key]; ok {
		return e
	}
	family := descriptor.NewFamily(x.surface, tag)
	e := &familyEntry{
		emitter: descriptor.CreateEventEmitter(family),
		family:  family,
	}
	x.families[key] = e
	return e
}

func (x *builder) build(spec *NodeSpec) (*shadow.Node, error) {
	descriptor, ok := x.loader.registry.Lookup(spec.Component)
	if !ok {
		return nil, fmt.Errorf(`%w: tag %d: unknown component %q`, ErrInvalidDocument, spec.Tag, spec.Component)
	}
	entry := x.family(descriptor, spec.Tag)

	children := make([]*shadow.Node, 0, len(spec.Children))
	for _, child := range spec.Children {
		node, err := x.build(child)
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}

	traits := descriptor.Traits()
	if spec.Flatten {
		traits = traits.Unset(shadow.FormsView | shadow.FormsStackingContext)
	}
	if spec.Hidden {
		traits = traits.Set(shadow.Hidden)
	}

	fragment := shadow.Fragment{
		EventEmitter: entry.emitter,
		OrderIndex:   spec.Order,
		Traits:       &traits,
		Children:     children,
	}
	if spec.Props != nil {
		fragment.Props = shadow.RawProps(spec.Props)
	}
	if spec.State != nil {
		fragment.State = shadow.RawState(spec.State)
	}
	if spec.Layout != nil {
		metrics, err := spec.Layout.Metrics()
		if err != nil {
			return nil, fmt.Errorf(`tag %d: %w`, spec.Tag, err)
		}
		fragment.LayoutMetrics = &metrics
	}

	return descriptor.CreateNode(entry.family, fragment), nil
}

// Metrics converts the layout.
func (x *LayoutSpec) Metrics() (shadow.LayoutMetrics, error) {
	display, ok := displayNames[strings.ToLower(x.Display)]
	if !ok {
		return shadow.LayoutMetrics{}, fmt.Errorf(`%w: unknown display %q`, ErrInvalidDocument, x.Display)
	}
	return shadow.LayoutMetrics{
		Frame: shadow.Rect{
			Origin: shadow.Point{X: x.X, Y: x.Y},
			Size:   shadow.Size{Width: x.Width, Height: x.Height},
		},
		DisplayType:      display,
		PointScaleFactor: x.ScaleFactor,
	}, nil
}

// ParseTraits combines the named traits, which are matched case-insensitively
// against the names used by shadow.Traits.String.
func ParseTraits(names []string) (traits shadow.Traits, err error) {
	for _, name := range names {
		t, ok := traitNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf(`%w: unknown trait %q`, ErrInvalidDocument, name)
		}
		traits = traits.Set(t)
	}
	return traits, nil
}
