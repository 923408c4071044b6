package nn

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/born-ml/vgg/internal/tensor"
)

// MaxStages is the number of stage slots in a FeatureStack.
const MaxStages = 4

// Stage holds the operators of one superblock:
//
//	ConvA -> activation -> NormA -> ConvB -> activation -> NormB
//
// A nil field is treated as the Identity placeholder, except ConvA, which
// an enabled stage must set.
type Stage[B tensor.Backend] struct {
	ConvA Operator[B]
	ConvB Operator[B]
	NormA Operator[B]
	NormB Operator[B]
}

// StageSlot is either Disabled or Enabled with a Stage. The zero value is
// Disabled.
type StageSlot[B tensor.Backend] struct {
	stage   Stage[B]
	enabled bool
}

// Enabled returns a slot that runs stage.
func Enabled[B tensor.Backend](stage Stage[B]) StageSlot[B] {
	return StageSlot[B]{stage: stage, enabled: true}
}

// Disabled returns a slot that ends the network before it.
func Disabled[B tensor.Backend]() StageSlot[B] {
	return StageSlot[B]{}
}

// IsEnabled reports whether the slot holds a stage.
func (s StageSlot[B]) IsEnabled() bool {
	return s.enabled
}

// Stage returns the slot's stage and whether the slot is enabled.
func (s StageSlot[B]) Stage() (Stage[B], bool) {
	return s.stage, s.enabled
}

// Config describes a FeatureStack. Stages must be enabled contiguously from
// the first slot; a nil Activation or Pool is the Identity placeholder.
type Config[B tensor.Backend] struct {
	Stages     [MaxStages]StageSlot[B]
	Activation Operator[B]
	Pool       Operator[B]
}

// Observer receives timing for each executed stage and for each Forward call.
type Observer interface {
	// ObserveStage is called after stage (1-based) finished its pooling step.
	ObserveStage(stage int, in, out tensor.Shape, d time.Duration)
	// ObserveForward is called once per Forward with the number of stages run.
	ObserveForward(stages int, d time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveStage(int, tensor.Shape, tensor.Shape, time.Duration) {}
func (noopObserver) ObserveForward(int, time.Duration) {}

// Option configures a FeatureStack.
type Option func(*stackOptions)

type stackOptions struct {
	logger   *slog.Logger
	observer Observer
}

// WithLogger sets the logger used for construction warnings and per-stage
// debug output. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *stackOptions) {
		o.logger = logger
	}
}

// WithObserver attaches an Observer, such as telemetry.Metrics.
func WithObserver(observer Observer) Option {
	return func(o *stackOptions) {
		o.observer = observer
	}
}

// FeatureStack is a VGG-style convolutional feature extractor made of up to
// MaxStages stages. Each stage is one superblock followed by pooling.
//
// Forward always runs stage 1. Stages 2 through 4 run only while their slots
// are enabled; the first disabled slot ends the pass. Every stage that runs
// is pooled, including the last one.
//
// A FeatureStack is immutable after construction. Forward is safe for
// concurrent use only when every operator it holds is.
type FeatureStack[B tensor.Backend] struct {
	stages     []Stage[B]
	activation Operator[B]
	pool       Operator[B]
	warnings   []string
	logger     *slog.Logger
	observer   Observer
}

// NewFeatureStack validates cfg and builds a FeatureStack.
//
// It returns ErrStageGap if an enabled slot follows a disabled one and
// ErrMissingConv if an enabled stage has no ConvA. Placeholders left in an
// enabled stage, or as the activation or pool, are accepted but reported by
// Warnings and logged at WARN level.
func NewFeatureStack[B tensor.Backend](cfg Config[B], opts ...Option) (*FeatureStack[B], error) {
	o := stackOptions{
		logger:   slog.Default(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	f := &FeatureStack[B]{
		activation: orIdentity(cfg.Activation),
		pool:       orIdentity(cfg.Pool),
		logger:     o.logger,
		observer:   o.observer,
	}

	disabledAt := -1
	for i, slot := range cfg.Stages {
		stage, ok := slot.Stage()
		if !ok {
			if disabledAt < 0 {
				disabledAt = i
			}
			continue
		}
		if disabledAt >= 0 {
			return nil, fmt.Errorf("stage %d enabled but stage %d is disabled: %w", i+1, disabledAt+1, ErrStageGap)
		}
		if stage.ConvA == nil {
			return nil, fmt.Errorf("stage %d: %w", i+1, ErrMissingConv)
		}
		f.stages = append(f.stages, Stage[B]{
			ConvA: stage.ConvA,
			ConvB: orIdentity(stage.ConvB),
			NormA: orIdentity(stage.NormA),
			NormB: orIdentity(stage.NormB),
		})
	}

	f.warnings = f.lint(cfg)
	for _, w := range f.warnings {
		f.logger.Warn("feature stack placeholder", "detail", w)
	}

	return f, nil
}

func orIdentity[B tensor.Backend](op Operator[B]) Operator[B] {
	if op == nil {
		return NewIdentity[B]()
	}
	return op
}

// lint lists every placeholder that silently turns real work into a pass-through.
func (f *FeatureStack[B]) lint(cfg Config[B]) []string {
	var warnings []string
	if IsIdentity(cfg.Activation) {
		warnings = append(warnings, "activation is a placeholder: no non-linearity is applied")
	}
	if IsIdentity(cfg.Pool) {
		warnings = append(warnings, "pool is a placeholder: stages do not downsample")
	}
	for i, slot := range cfg.Stages {
		stage, ok := slot.Stage()
		if !ok {
			continue
		}
		for _, op := range []struct {
			name string
			op   Operator[B]
		}{
			{"first convolution", stage.ConvA},
			{"second convolution", stage.ConvB},
			{"first normalization", stage.NormA},
			{"second normalization", stage.NormB},
		} {
			if IsIdentity(op.op) {
				warnings = append(warnings, fmt.Sprintf("stage %d: %s is a placeholder", i+1, op.name))
			}
		}
	}
	return warnings
}

// ApplySuperblock runs one superblock on input:
//
//	ConvA -> activation -> NormA -> ConvB -> activation -> NormB
//
// Activation precedes each normalization, and the same activation operator
// is used for both halves.
func (f *FeatureStack[B]) ApplySuperblock(input *tensor.Tensor[float32, B], stage Stage[B]) *tensor.Tensor[float32, B] {
	x := orIdentity(stage.ConvA).Forward(input)
	x = f.activation.Forward(x)
	x = orIdentity(stage.NormA).Forward(x)
	x = orIdentity(stage.ConvB).Forward(x)
	x = f.activation.Forward(x)
	x = orIdentity(stage.NormB).Forward(x)
	return x
}

// Forward threads input through the configured stages, pooling after each.
//
// Stage 1 runs even when no stage is configured. Its convolutions and norms
// are then placeholders, but the shared activation still runs twice, so
// Forward returns pool(activation(activation(input))). With a placeholder
// activation that is pool(input).
func (f *FeatureStack[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	start := time.Now()

	x := f.runStage(0, input)
	executed := 1
	// A later stage runs only if its slot was enabled.
	for i := 1; i < len(f.stages); i++ {
		x = f.runStage(i, x)
		executed++
	}

	f.observer.ObserveForward(executed, time.Since(start))
	return x
}

func (f *FeatureStack[B]) runStage(i int, input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	start := time.Now()

	var stage Stage[B]
	if i < len(f.stages) {
		stage = f.stages[i]
	}
	out := f.pool.Forward(f.ApplySuperblock(input, stage))

	elapsed := time.Since(start)
	if f.logger.Enabled(context.Background(), slog.LevelDebug) {
		f.logger.Debug("stage complete",
			"stage", i+1,
			"input_shape", input.Shape(),
			"output_shape", out.Shape(),
			"duration", elapsed,
		)
	}
	f.observer.ObserveStage(i+1, input.Shape(), out.Shape(), elapsed)
	return out
}

// Depth returns the number of enabled stages (0 to MaxStages).
func (f *FeatureStack[B]) Depth() int {
	return len(f.stages)
}

// Stage returns the i-th (0-based) enabled stage with nil operators
// replaced by placeholders. Panics if i is out of range.
func (f *FeatureStack[B]) Stage(i int) Stage[B] {
	if i < 0 || i >= len(f.stages) {
		panic(fmt.Sprintf("FeatureStack.Stage: index %d out of range [0, %d)", i, len(f.stages)))
	}
	return f.stages[i]
}

// Activation returns the shared activation operator.
func (f *FeatureStack[B]) Activation() Operator[B] {
	return f.activation
}

// Pool returns the shared pooling operator.
func (f *FeatureStack[B]) Pool() Operator[B] {
	return f.pool
}

// Warnings returns the placeholder hazards found at construction.
func (f *FeatureStack[B]) Warnings() []string {
	return append([]string(nil), f.warnings...)
}

// operators lists every distinct operator in execution order.
func (f *FeatureStack[B]) operators() []Operator[B] {
	var ops []Operator[B]
	type key struct {
		typ reflect.Type
		ptr uintptr
	}
	seen := make(map[key]bool)
	add := func(op Operator[B]) {
		// Only pointer operators are deduplicated; values may hold unhashable fields.
		if v := reflect.ValueOf(op); v.Kind() == reflect.Pointer {
			k := key{typ: v.Type(), ptr: v.Pointer()}
			if seen[k] {
				return
			}
			seen[k] = true
		}
		ops = append(ops, op)
	}
	for _, s := range f.stages {
		add(s.ConvA)
		add(s.NormA)
		add(s.ConvB)
		add(s.NormB)
	}
	add(f.activation)
	add(f.pool)
	return ops
}

// Parameters collects the trainable parameters of every operator that is a
// Module. Operators shared between slots contribute their parameters once.
func (f *FeatureStack[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, op := range f.operators() {
		if m, ok := op.(Module[B]); ok {
			params = append(params, m.Parameters()...)
		}
	}
	return params
}

// Train sets training mode on every operator implementing Trainable.
func (f *FeatureStack[B]) Train(training bool) {
	for _, op := range f.operators() {
		if t, ok := op.(Trainable); ok {
			t.Train(training)
		}
	}
}

// String returns a multi-line description of the stack.
func (f *FeatureStack[B]) String() string {
	var sb strings.Builder
	sb.WriteString("FeatureStack(\n")
	fmt.Fprintf(&sb, "  activation: %s\n", describe(f.activation))
	fmt.Fprintf(&sb, "  pool: %s\n", describe(f.pool))
	for i, s := range f.stages {
		fmt.Fprintf(&sb, "  stage%d: %s -> %s -> %s -> %s\n", i+1,
			describe(s.ConvA), describe(s.NormA), describe(s.ConvB), describe(s.NormB))
	}
	sb.WriteString(")")
	return sb.String()
}

func describe(op any) string {
	if s, ok := op.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", op)
}
