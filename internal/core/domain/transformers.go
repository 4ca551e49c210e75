package domain

// EmitContext describes the file a transformer is applied to.
type EmitContext struct {
	Project    *Project
	SourceFile string
	OutputFile string
}

// Transformer rewrites source text during emission.
type Transformer interface {
	Transform(ctx EmitContext, code []byte) ([]byte, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(ctx EmitContext, code []byte) ([]byte, error)

// Transform calls f(ctx, code).
func (f TransformerFunc) Transform(ctx EmitContext, code []byte) ([]byte, error) {
	return f(ctx, code)
}

// Transformers holds the ordered transform hooks of an emit. Before hooks see
// the TypeScript source, After hooks see the emitted JavaScript.
type Transformers struct {
	Before []Transformer
	After  []Transformer
}

// Merge appends other's hooks after t's. Existing hooks are never replaced.
func (t Transformers) Merge(other Transformers) Transformers {
	return Transformers{
		Before: concat(t.Before, other.Before),
		After:  concat(t.After, other.After),
	}
}

// Apply runs every transformer of list in order.
func Apply(list []Transformer, ctx EmitContext, code []byte) ([]byte, error) {
	var err error
	for _, t := range list {
		if code, err = t.Transform(ctx, code); err != nil {
			return nil, err
		}
	}
	return code, nil
}

func concat(a, b []Transformer) []Transformer {
	out := make([]Transformer, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
