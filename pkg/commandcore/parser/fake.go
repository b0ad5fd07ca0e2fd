package parser

import "context"

// FakeClient is a hand-written test double for Client: it returns canned
// outputs or errors per utterance, falling back to a configurable default.
type FakeClient struct {
	Outputs map[string]*Output
	Errors  map[string]error
	Default *Output

	// Calls records every utterance passed to Interpret, for assertions on
	// call count and ordering.
	Calls []string
}

// Interpret implements Client.
func (f *FakeClient) Interpret(ctx context.Context, utterance string) (*Output, error) {
	f.Calls = append(f.Calls, utterance)

	if err, ok := f.Errors[utterance]; ok {
		return nil, err
	}
	if out, ok := f.Outputs[utterance]; ok {
		return out, nil
	}
	if f.Default != nil {
		return f.Default, nil
	}
	return &Output{}, nil
}
