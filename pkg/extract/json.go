package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type kind int

const (
	kindOther kind = iota
	kindNull
	kindString
	kindArray
	kindObject
)

// node is a decoded JSON value that remembers object key order, which the
// nested-array probe depends on.
type node struct {
	kind   kind
	str    string
	items  []node
	keys   []string
	fields map[string]node
}

func (n node) field(key string) (node, bool) {
	if n.kind != kindObject {
		return node{}, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// present reports a key that exists with a non-null value.
func (n node) present(key string) (node, bool) {
	v, ok := n.field(key)
	if !ok || v.kind == kindNull {
		return node{}, false
	}
	return v, true
}

func (n node) values() []node {
	out := make([]node, 0, len(n.keys))
	for _, k := range n.keys {
		out = append(out, n.fields[k])
	}
	return out
}

func parse(data []byte) (node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return decodeNode(dec)
}

func decodeNode(dec *json.Decoder) (node, error) {
	tok, err := dec.Token()
	if err != nil {
		return node{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			n := node{kind: kindArray}
			for dec.More() {
				child, err := decodeNode(dec)
				if err != nil {
					return node{}, err
				}
				n.items = append(n.items, child)
			}
			_, err := dec.Token()
			return n, err
		case '{':
			n := node{kind: kindObject, fields: make(map[string]node)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return node{}, fmt.Errorf("object key is %T", keyTok)
				}
				child, err := decodeNode(dec)
				if err != nil {
					return node{}, err
				}
				if _, dup := n.fields[key]; !dup {
					n.keys = append(n.keys, key)
				}
				n.fields[key] = child
			}
			_, err := dec.Token()
			return n, err
		}
		return node{}, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return node{kind: kindString, str: t}, nil
	case nil:
		return node{kind: kindNull}, nil
	default:
		return node{kind: kindOther}, nil
	}
}

// fromValue converts an already decoded value (map/slice/string) into a node.
// Go maps carry no order, so keys are visited in sorted order.
func fromValue(v any) node {
	switch t := v.(type) {
	case nil:
		return node{kind: kindNull}
	case string:
		return node{kind: kindString, str: t}
	case []any:
		n := node{kind: kindArray, items: make([]node, len(t))}
		for i, item := range t {
			n.items[i] = fromValue(item)
		}
		return n
	case []string:
		n := node{kind: kindArray, items: make([]node, len(t))}
		for i, s := range t {
			n.items[i] = node{kind: kindString, str: s}
		}
		return n
	case map[string]any:
		n := node{kind: kindObject, fields: make(map[string]node, len(t))}
		n.keys = sortedKeys(t)
		for _, k := range n.keys {
			n.fields[k] = fromValue(t[k])
		}
		return n
	default:
		return node{kind: kindOther}
	}
}
