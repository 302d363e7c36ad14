package shadow

// EventEmitter routes events raised by a mounted view back to a component
// instance. Emitters are compared by identity: a new emitter (pointer) is a
// change, for the purposes of diffing.
type EventEmitter struct {
	dispatcher EventDispatcher
	family     Family
}

// EventDispatcher receives events dispatched by any EventEmitter it was
// attached to, via ComponentDescriptor.
type EventDispatcher interface {
	DispatchEvent(family Family, name string, payload any)
}

// EventDispatcherFunc implements EventDispatcher.
type EventDispatcherFunc func(family Family, name string, payload any)

// DispatchEvent implements EventDispatcher.
func (x EventDispatcherFunc) DispatchEvent(family Family, name string, payload any) {
	x(family, name, payload)
}

// Family returns the family the emitter was created for.
func (x *EventEmitter) Family() Family {
	if x == nil {
		return Family{}
	}
	return x.family
}

// Dispatch delivers an event, returning false if the emitter is nil, or has no
// dispatcher (in which case the event is dropped).
func (x *EventEmitter) Dispatch(name string, payload any) bool {
	if x == nil || x.dispatcher == nil {
		return false
	}
	x.dispatcher.DispatchEvent(x.family, name, payload)
	return true
}
