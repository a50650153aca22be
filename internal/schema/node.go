package schema

// Node is a declarative schema node. The concrete types are Atomic, Enum,
// Array and Object; nothing else implements the interface.
type Node interface {
	node()
}

// Atomic kind names accepted by the compiler.
const (
	KindString  = "string"
	KindInteger = "integer"
	KindNumber  = "number"
	KindBoolean = "boolean"
)

// Atomic is a single primitive value.
type Atomic struct {
	Kind string
}

// Enum is a string value restricted to a fixed set. Value order is preserved.
type Enum struct {
	Values []string
}

// Array is a homogeneous sequence of Item values.
type Array struct {
	Item Node
}

// Field is one named entry of an Object. A field is required unless Optional
// is set.
type Field struct {
	Name     string
	Node     Node
	Optional bool
}

// Object is an ordered set of named fields. Field order is meaningful: it is
// both the output property order and the order of the required set.
type Object struct {
	Fields []Field
}

func (Atomic) node() {}
func (Enum) node()   {}
func (Array) node()  {}
func (Object) node() {}
