package deliverable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/axiondata/conveyor/identity"
)

// Sentinel targets for errors.Is. The concrete errors carry the
// requested type and candidate producers; these sentinels let callers
// branch without unwrapping.
var (
	ErrNoProducer           = errors.New("deliverable: no producer for requested type")
	ErrAmbiguousDeliverable = errors.New("deliverable: ambiguous deliverable for requested type")
)

// NoProducerError reports that no registered deliverable matches the
// requested type. The condition cannot change without re-running
// upstream stages, so it is never retried here.
type NoProducerError struct {
	Requested identity.TypeKey
}

func (e *NoProducerError) Error() string {
	return fmt.Sprintf("deliverable: no producer for type %s", e.Requested)
}

// Is makes errors.Is(err, ErrNoProducer) succeed.
func (e *NoProducerError) Is(target error) bool { return target == ErrNoProducer }

// AmbiguousError reports that more than one registered deliverable
// matches the requested type and consumer-tag filtering did not isolate
// exactly one. Producers lists the candidates in registration order.
type AmbiguousError struct {
	Requested identity.TypeKey
	Producers []identity.StageID
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Producers))
	for i, p := range e.Producers {
		names[i] = p.String()
	}
	return fmt.Sprintf("deliverable: ambiguous deliverable for type %s, candidate producers: [%s]",
		e.Requested, strings.Join(names, ", "))
}

// Is makes errors.Is(err, ErrAmbiguousDeliverable) succeed.
func (e *AmbiguousError) Is(target error) bool { return target == ErrAmbiguousDeliverable }
