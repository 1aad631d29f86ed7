// Package validation checks serialized documents before they are loaded.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"nodegraph/graph"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// TypeChecker reports whether a node type is known. A registry satisfies
// it.
type TypeChecker interface {
	HasNodeType(name string) bool
}

// Problem is one thing wrong with a document. Path locates it, for example
// nodes.abc.inputs.x or connections[2].
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// Error aggregates every problem found in a document.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	if len(e.Problems) == 1 {
		return "invalid document: " + e.Problems[0].String()
	}
	return fmt.Sprintf("invalid document: %d problems, first: %s", len(e.Problems), e.Problems[0])
}

// Problems returns the problems carried by err, or nil when err is not a
// validation error.
func Problems(err error) []Problem {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Problems
	}
	return nil
}

// Validator walks a document and collects problems.
type Validator struct {
	problems []Problem
	warnings []Problem
	types    TypeChecker
	strict   bool
}

func NewValidator() *Validator {
	return &Validator{}
}

// SetTypes checks node types against types. Unknown types load as generic
// nodes, so they are warnings unless strict mode is on.
func (v *Validator) SetTypes(types TypeChecker) {
	v.types = types
}

// SetStrictMode requires every unique_id and makes unknown node types
// problems.
func (v *Validator) SetStrictMode(strict bool) {
	v.strict = strict
}

// Validate returns every problem in doc, nested group scenes included.
func (v *Validator) Validate(doc graph.Document) []Problem {
	v.problems = nil
	v.warnings = nil
	v.document("", doc)
	return v.problems
}

// Warnings returns what the last Validate found that does not stop a load.
func (v *Validator) Warnings() []Problem {
	return v.warnings
}

// Document validates the structure of doc and returns an *Error when
// anything is wrong. Node types are not checked.
func Document(doc graph.Document) error {
	v := NewValidator()
	if problems := v.Validate(doc); len(problems) > 0 {
		return &Error{Problems: problems}
	}
	return nil
}

func (v *Validator) document(prefix string, doc graph.Document) {
	for _, id := range doc.NodeIDs() {
		rec := doc.Nodes[id]
		path := join(prefix, "nodes."+id)
		v.node(path, id, rec)
		if rec.Scene != nil {
			v.document(path+".scene", *rec.Scene)
		}
	}

	seen := make(map[graph.ConnectionRecord]bool)
	for i, c := range doc.Connections {
		path := join(prefix, fmt.Sprintf("connections[%d]", i))
		v.check(path, toConnection(c))
		if seen[c] {
			v.addProblem(path, "duplicate connection")
		}
		seen[c] = true
		v.endpoint(path, doc, c.OutputNode, c.OutputPort, graph.Output)
		v.endpoint(path, doc, c.InputNode, c.InputPort, graph.Input)
		if c.OutputNode != "" && c.OutputNode == c.InputNode {
			v.addProblem(path, "connects node %s to itself", c.OutputNode)
		}
	}

	backdrops := make(map[string]bool)
	for i, b := range doc.Backdrops {
		path := join(prefix, fmt.Sprintf("backdrops[%d]", i))
		v.check(path, backdropRecord{UniqueID: b.UniqueID})
		if b.UniqueID != "" && backdrops[b.UniqueID] {
			v.addProblem(path, "duplicate backdrop id %s", b.UniqueID)
		}
		backdrops[b.UniqueID] = true
	}
}

func (v *Validator) node(path, id string, rec graph.NodeRecord) {
	v.check(path, toNode(rec))
	if rec.UniqueID != "" && rec.UniqueID != id {
		v.addProblem(path+".unique_id", "%q does not match key %q", rec.UniqueID, id)
	} else if v.strict && rec.UniqueID == "" {
		v.addProblem(path+".unique_id", "field is required")
	}
	if v.types != nil && rec.NodeType != "" && !v.types.HasNodeType(rec.NodeType) {
		if v.strict {
			v.addProblem(path+".node_type", "unknown node type %q", rec.NodeType)
		} else {
			v.warnings = append(v.warnings, Problem{
				Path:    path + ".node_type",
				Message: fmt.Sprintf("unknown node type %q, loaded as a generic node", rec.NodeType),
			})
		}
	}
}

func (v *Validator) endpoint(path string, doc graph.Document, nodeID, port string, dir graph.Direction) {
	if nodeID == "" || port == "" {
		return
	}
	rec, ok := doc.Nodes[nodeID]
	if !ok {
		v.addProblem(path, "%s node %s does not exist", dir, nodeID)
		return
	}
	ports := rec.Inputs
	if dir == graph.Output {
		ports = rec.Outputs
	}
	if _, ok := ports[port]; !ok {
		v.addProblem(path, "node %s has no %s %q", nodeID, dir, port)
	}
}

// check runs the struct tags of s and records each failure.
func (v *Validator) check(path string, s any) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.addProblem(path, "%v", err)
		return
	}
	for _, e := range fieldErrs {
		v.addProblem(join(path, fieldPath(e.Namespace())), "%s", describe(e))
	}
}

func (v *Validator) addProblem(path, format string, args ...any) {
	v.problems = append(v.problems, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
}

// fieldPath drops the struct name from a validator namespace and turns map
// keys into path segments.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min", "gte":
		return "must be at least " + e.Param()
	case "max", "lte":
		return "must not exceed " + e.Param()
	default:
		return fmt.Sprintf("validation failed (%s)", e.Tag())
	}
}

func join(prefix, path string) string {
	if prefix == "" {
		return path
	}
	if path == "" {
		return prefix
	}
	return prefix + "." + path
}
