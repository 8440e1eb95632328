// Package schema validates the shape of a submission document before
// the checkers run. Schema validation is the one fail-fast stage of a
// run: the set model cannot be built from a document of the wrong
// shape.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed submission.schema.json
var submissionSchema []byte

// Violation reports that a submission document does not conform to
// the submission schema.
type Violation struct {
	Err error
}

func (v Violation) Error() string {
	return fmt.Sprintf("submission does not match the schema: %v", v.Err)
}

func (v Violation) Unwrap() error { return v.Err }

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(submissionSchema))
	if err != nil {
		return nil, fmt.Errorf("reading embedded submission schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("submission.schema.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("submission.schema.json")
})

// Validate checks bs against the submission schema. It returns a
// Violation when the document is not valid JSON or does not conform.
func Validate(bs []byte) error {
	sch, err := compiled()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(bs))
	if err != nil {
		return Violation{Err: err}
	}
	if err := sch.Validate(inst); err != nil {
		return Violation{Err: err}
	}
	return nil
}
