package graph

// ItemKind tags the variant held by an Item.
type ItemKind int

const (
	ItemNone ItemKind = iota
	ItemNode
	ItemPort
	ItemConnection
	ItemDot
	ItemDecoration
)

func (k ItemKind) String() string {
	switch k {
	case ItemNone:
		return "none"
	case ItemNode:
		return "node"
	case ItemPort:
		return "port"
	case ItemConnection:
		return "connection"
	case ItemDot:
		return "dot"
	case ItemDecoration:
		return "decoration"
	default:
		return "unknown"
	}
}

// Item is anything the tools can find under the pointer. Exactly one of the
// pointer fields is set, matching Kind. Items are comparable and can be
// used as map keys.
type Item struct {
	Kind       ItemKind
	Node       *Node
	Port       *Port
	Connection *Connection
	Backdrop   *Backdrop
}

// NoItem is the empty item.
var NoItem = Item{}

// NodeItem wraps n, tagging dots as ItemDot.
func NodeItem(n *Node) Item {
	if n == nil {
		return NoItem
	}
	if n.kind == KindDot {
		return Item{Kind: ItemDot, Node: n}
	}
	return Item{Kind: ItemNode, Node: n}
}

func PortItem(p *Port) Item {
	if p == nil {
		return NoItem
	}
	return Item{Kind: ItemPort, Port: p}
}

func ConnectionItem(c *Connection) Item {
	if c == nil {
		return NoItem
	}
	return Item{Kind: ItemConnection, Connection: c}
}

func BackdropItem(b *Backdrop) Item {
	if b == nil {
		return NoItem
	}
	return Item{Kind: ItemDecoration, Backdrop: b}
}

func (i Item) IsNone() bool { return i.Kind == ItemNone }

// IsNodeLike is true for nodes and dots.
func (i Item) IsNodeLike() bool {
	return i.Kind == ItemNode || i.Kind == ItemDot
}

// Selectable items take part in the selection set.
func (i Item) Selectable() bool {
	switch i.Kind {
	case ItemNode, ItemDot, ItemDecoration:
		return true
	}
	return false
}

// Movable items follow a select-and-move drag.
func (i Item) Movable() bool {
	return i.IsNodeLike()
}

// HitTestable items can be returned by Scene.ItemAt.
func (i Item) HitTestable() bool {
	return i.Kind != ItemNone
}

func (i Item) String() string {
	switch i.Kind {
	case ItemNode, ItemDot:
		return i.Kind.String() + " " + i.Node.name
	case ItemPort:
		return "port " + i.Port.node.name + "." + i.Port.name
	case ItemConnection:
		return "connection " + i.Connection.output.node.name + "." + i.Connection.output.name +
			" -> " + i.Connection.input.node.name + "." + i.Connection.input.name
	case ItemDecoration:
		return "backdrop " + i.Backdrop.name
	}
	return "none"
}
