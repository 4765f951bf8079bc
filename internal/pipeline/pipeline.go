package pipeline

// Processor is one stage of a staged computation over a context value.
type Processor[T any] interface {
	Process(T) T
}

// Func adapts a plain function to a Processor.
type Func[T any] func(T) T

func (f Func[T]) Process(ctx T) T { return f(ctx) }

// Pipeline represents a sequence of processing stages.
type Pipeline[T any] struct {
	processors []Processor[T]
}

func New[T any](processors ...Processor[T]) *Pipeline[T] {
	return &Pipeline[T]{processors: processors}
}

// Run executes the pipeline. Every stage runs; stages that should not act
// on an already-failed context are expected to check it themselves, so one
// run can still collect diagnostics from independent stages.
func (p *Pipeline[T]) Run(initial T) T {
	ctx := initial
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
