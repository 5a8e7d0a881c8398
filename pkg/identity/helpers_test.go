package identity

import "fmt"

// point is the canonical attribute-list fixture: representation, equality and
// hash all derive from the declared fields.
type point struct {
	Base
	A float64
	B float64
}

func pointSpec() TypeSpec {
	return TypeSpec{
		Name:      "Point",
		ReprAttrs: []string{"A", "B"},
		Params:    []string{"a", "b"},
	}
}

func newPoint(a, b float64) (*point, error) {
	p := &point{}
	err := Construct(p, func() error {
		if err := SetAttr(p, "A", a); err != nil {
			return err
		}
		return SetAttr(p, "B", b)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// knob is the mutable fixture: it declares an update entry point that routes
// through the wrapped mutation protocol.
type knob struct {
	Base
	Level float64
	Label string
}

func knobSpec() TypeSpec {
	return TypeSpec{
		Name:      "Knob",
		ReprAttrs: []string{"Level", "Label"},
		Params:    []string{"level", "label"},
		Update: func(args map[string]any) error {
			k, ok := args["knob"].(*knob)
			if !ok {
				return fmt.Errorf("knob argument has wrong type")
			}
			return SetAttr(k, "Level", args["level"])
		},
		UpdateParams: []string{"knob", "level"},
	}
}

func newKnob(level float64, label string) (*knob, error) {
	k := &knob{}
	err := Construct(k, func() error {
		if err := SetAttr(k, "Level", level); err != nil {
			return err
		}
		return SetAttr(k, "Label", label)
	})
	if err != nil {
		return nil, err
	}
	return k, nil
}

// blob has no custom representation; it falls back to the identity default.
type blob struct {
	Base
	Payload string
}
