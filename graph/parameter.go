package graph

import "maps"

// Parameter is a named, typed value on a node. Every SetValue publishes the
// previous and new value to subscribers; undo lives in the command layer.
type Parameter struct {
	name     string
	datatype string
	value    any
	def      any
	metadata map[string]any
	subs     Listeners[func(prev, next any)]
}

// NewParameter creates a parameter whose value starts at def.
func NewParameter(name, datatype string, def any, metadata map[string]any) *Parameter {
	return &Parameter{
		name:     name,
		datatype: datatype,
		value:    def,
		def:      def,
		metadata: maps.Clone(metadata),
	}
}

func (p *Parameter) Name() string     { return p.name }
func (p *Parameter) Datatype() string { return p.datatype }
func (p *Parameter) Value() any       { return p.value }
func (p *Parameter) Default() any     { return p.def }

// Metadata returns a copy of the parameter's free-form metadata.
func (p *Parameter) Metadata() map[string]any {
	return maps.Clone(p.metadata)
}

// SetValue stores v and notifies subscribers with (previous, v).
func (p *Parameter) SetValue(v any) {
	prev := p.value
	p.value = v
	for _, fn := range p.subs.Snapshot() {
		fn(prev, v)
	}
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.SetValue(p.def)
}

// Subscribe registers fn for value changes.
func (p *Parameter) Subscribe(fn func(prev, next any)) *Subscription {
	return p.subs.Add(fn)
}

// Subscribers returns the number of live subscriptions.
func (p *Parameter) Subscribers() int {
	return p.subs.Len()
}

// Record returns the serializable form of the parameter.
func (p *Parameter) Record() ParameterRecord {
	return ParameterRecord{
		Name:     p.name,
		Datatype: p.datatype,
		Value:    p.value,
		Default:  p.def,
		Metadata: maps.Clone(p.metadata),
	}
}

// LoadRecord overwrites the parameter's state from rec. Subscribers are
// notified of the value change.
func (p *Parameter) LoadRecord(rec ParameterRecord) {
	if rec.Datatype != "" {
		p.datatype = rec.Datatype
	}
	p.def = rec.Default
	if rec.Metadata != nil {
		p.metadata = maps.Clone(rec.Metadata)
	}
	p.SetValue(rec.Value)
}
